package models_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kmalikov/competition-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTeamAssignment(t *testing.T) {
	tests := []struct {
		name    string
		teamA   []int
		teamB   []int
		wantErr error
	}{
		{"valid pairs", []int{1, 2}, []int{3, 4}, nil},
		{"valid singles", []int{1}, []int{2}, nil},
		{"empty team A", []int{}, []int{1}, models.ErrTeamAssignmentEmptyTeam},
		{"empty team B", []int{1}, nil, models.ErrTeamAssignmentEmptyTeam},
		{"unbalanced", []int{1, 2}, []int{3}, models.ErrTeamAssignmentUnbalancedTeams},
		{"player in both teams", []int{1, 2}, []int{2, 3}, models.ErrTeamAssignmentCrossDuplicate},
		{"duplicate within team A", []int{1, 1}, []int{2, 3}, models.ErrTeamAssignmentTeamDuplicate},
		{"duplicate within team B", []int{1, 2}, []int{3, 3}, models.ErrTeamAssignmentTeamDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assignment, err := models.NewTeamAssignment(7, models.AssignmentModeAutomatic, tt.teamA, tt.teamB)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, assignment)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, assignment.ID)
			assert.Equal(t, 7, assignment.CompetitionID)
			assert.Equal(t, tt.teamA, assignment.TeamAPlayerIDs)
			assert.Equal(t, tt.teamB, assignment.TeamBPlayerIDs)
			assert.False(t, assignment.CreatedAt.IsZero())
		})
	}
}

func TestNewTeamAssignmentCopiesSlices(t *testing.T) {
	teamA := []int{1, 2}
	teamB := []int{3, 4}
	assignment, err := models.NewTeamAssignment(1, models.AssignmentModeManual, teamA, teamB)
	require.NoError(t, err)

	teamA[0] = 99
	assert.Equal(t, 1, assignment.TeamAPlayerIDs[0])
}

func TestTeamAssignmentPlayerTeam(t *testing.T) {
	assignment, err := models.NewTeamAssignment(1, models.AssignmentModeAutomatic, []int{1, 2}, []int{3, 4})
	require.NoError(t, err)

	teamA := assignment.PlayerTeam(1)
	require.NotNil(t, teamA)
	assert.Equal(t, models.TeamSideA, *teamA)

	teamB := assignment.PlayerTeam(4)
	require.NotNil(t, teamB)
	assert.Equal(t, models.TeamSideB, *teamB)

	assert.Nil(t, assignment.PlayerTeam(42))

	assert.True(t, assignment.IsPlayerInTeamA(2))
	assert.False(t, assignment.IsPlayerInTeamA(3))
	assert.Equal(t, 4, assignment.TotalPlayers())
	assert.Equal(t, 2, assignment.PlayersPerTeam())
}

func TestTeamAssignmentEquals(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC()

	a := models.ReconstructTeamAssignment(id, 1, models.AssignmentModeAutomatic, []int{1}, []int{2}, now)
	b := models.ReconstructTeamAssignment(id, 1, models.AssignmentModeManual, []int{3}, []int{4}, now.Add(time.Hour))
	c := models.ReconstructTeamAssignment(uuid.New(), 1, models.AssignmentModeAutomatic, []int{1}, []int{2}, now)

	assert.True(t, a.Equals(b), "same identity, different payload")
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(nil))
}
