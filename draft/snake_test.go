package draft_test

import (
	"context"
	"testing"

	"github.com/kmalikov/competition-system/draft"
	"github.com/kmalikov/competition-system/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playersWithHandicaps(handicaps ...float64) []draft.PlayerForDraft {
	players := make([]draft.PlayerForDraft, len(handicaps))
	for i, h := range handicaps {
		players[i] = draft.PlayerForDraft{
			UserID:   i + 1,
			Handicap: decimal.NewFromFloat(h),
		}
	}
	return players
}

func teamsOf(results []draft.DraftResult) []models.TeamSide {
	sides := make([]models.TeamSide, len(results))
	for i, r := range results {
		sides[i] = r.Team
	}
	return sides
}

func TestSnakeDraftRejectsInvalidCounts(t *testing.T) {
	assigner := draft.NewSnakeDraftAssigner()

	_, err := assigner.AssignTeams(context.Background(), draft.AssignTeamsParams{
		Players: playersWithHandicaps(5.0),
	})
	assert.ErrorIs(t, err, draft.ErrNotEnoughPlayers)

	_, err = assigner.AssignTeams(context.Background(), draft.AssignTeamsParams{
		Players: playersWithHandicaps(5.0, 7.2, 9.1),
	})
	assert.ErrorIs(t, err, draft.ErrOddPlayerCount)
}

func TestSnakeDraftPattern(t *testing.T) {
	assigner := draft.NewSnakeDraftAssigner()

	t.Run("four players", func(t *testing.T) {
		results, err := assigner.AssignTeams(context.Background(), draft.AssignTeamsParams{
			Players: playersWithHandicaps(1, 2, 3, 4),
		})
		require.NoError(t, err)
		// Змейка: A, B, B, A
		assert.Equal(t, []models.TeamSide{
			models.TeamSideA, models.TeamSideB, models.TeamSideB, models.TeamSideA,
		}, teamsOf(results))
	})

	t.Run("six players", func(t *testing.T) {
		results, err := assigner.AssignTeams(context.Background(), draft.AssignTeamsParams{
			Players: playersWithHandicaps(1, 2, 3, 4, 5, 6),
		})
		require.NoError(t, err)
		assert.Equal(t, []models.TeamSide{
			models.TeamSideA, models.TeamSideB, models.TeamSideB,
			models.TeamSideA, models.TeamSideA, models.TeamSideB,
		}, teamsOf(results))
	})
}

func TestSnakeDraftSortsByHandicapAscending(t *testing.T) {
	assigner := draft.NewSnakeDraftAssigner()

	// UserID 3 — сильнейший (наименьший гандикап), должен пиковаться первым.
	players := []draft.PlayerForDraft{
		{UserID: 1, Handicap: decimal.NewFromFloat(18.5)},
		{UserID: 2, Handicap: decimal.NewFromFloat(9.0)},
		{UserID: 3, Handicap: decimal.NewFromFloat(2.1)},
		{UserID: 4, Handicap: decimal.NewFromFloat(27.0)},
	}

	results, err := assigner.AssignTeams(context.Background(), draft.AssignTeamsParams{Players: players})
	require.NoError(t, err)

	assert.Equal(t, 3, results[0].UserID)
	assert.Equal(t, models.TeamSideA, results[0].Team)
	assert.Equal(t, 1, results[0].DraftOrder)

	assert.Equal(t, 2, results[1].UserID)
	assert.Equal(t, 1, results[2].UserID)
	assert.Equal(t, 4, results[3].UserID)
}

func TestSnakeDraftFirstPickB(t *testing.T) {
	assigner := draft.NewSnakeDraftAssigner()

	results, err := assigner.AssignTeams(context.Background(), draft.AssignTeamsParams{
		Players:   playersWithHandicaps(1, 2, 3, 4),
		FirstPick: models.TeamSideB,
	})
	require.NoError(t, err)
	assert.Equal(t, []models.TeamSide{
		models.TeamSideB, models.TeamSideA, models.TeamSideA, models.TeamSideB,
	}, teamsOf(results))
}

func TestSnakeDraftBalancesTeams(t *testing.T) {
	assigner := draft.NewSnakeDraftAssigner()

	results, err := assigner.AssignTeams(context.Background(), draft.AssignTeamsParams{
		Players: playersWithHandicaps(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12),
	})
	require.NoError(t, err)

	assert.True(t, draft.ValidateTeamBalance(results))

	// При равномерно возрастающих гандикапах змейка уравнивает суммы рангов.
	sum := map[models.TeamSide]int{}
	for i, r := range results {
		sum[r.Team] += i + 1
	}
	assert.Equal(t, sum[models.TeamSideA], sum[models.TeamSideB])
}

func TestSnakeDraftStableTieBreak(t *testing.T) {
	assigner := draft.NewSnakeDraftAssigner()

	// Все гандикапы равны: порядок пиков должен повторять порядок входа.
	players := playersWithHandicaps(10, 10, 10, 10)
	results, err := assigner.AssignTeams(context.Background(), draft.AssignTeamsParams{Players: players})
	require.NoError(t, err)

	for i, r := range results {
		assert.Equal(t, i+1, r.UserID)
	}
}

func TestSnakeDraftIsDeterministic(t *testing.T) {
	assigner := draft.NewSnakeDraftAssigner()
	params := draft.AssignTeamsParams{Players: playersWithHandicaps(4.2, 1.1, 9.9, 7.3, 2.8, 5.5)}

	first, err := assigner.AssignTeams(context.Background(), params)
	require.NoError(t, err)
	second, err := assigner.AssignTeams(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSnakeDraftDoesNotMutateInput(t *testing.T) {
	assigner := draft.NewSnakeDraftAssigner()
	players := playersWithHandicaps(9, 1, 5, 3)

	_, err := assigner.AssignTeams(context.Background(), draft.AssignTeamsParams{Players: players})
	require.NoError(t, err)

	assert.Equal(t, 1, players[0].UserID)
	assert.True(t, players[0].Handicap.Equal(decimal.NewFromInt(9)))
}

func TestTeamPlayers(t *testing.T) {
	results := []draft.DraftResult{
		{UserID: 7, Team: models.TeamSideA, DraftOrder: 4},
		{UserID: 5, Team: models.TeamSideB, DraftOrder: 2},
		{UserID: 1, Team: models.TeamSideA, DraftOrder: 1},
		{UserID: 3, Team: models.TeamSideB, DraftOrder: 3},
	}

	assert.Equal(t, []int{1, 7}, draft.TeamPlayers(results, models.TeamSideA))
	assert.Equal(t, []int{5, 3}, draft.TeamPlayers(results, models.TeamSideB))
}
