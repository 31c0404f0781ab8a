package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/kmalikov/competition-system/models"
	"github.com/kmalikov/competition-system/repositories"
	"github.com/kmalikov/competition-system/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type competitionFixture struct {
	service         services.CompetitionService
	competitionRepo *fakeCompetitionRepo
	golfCourseRepo  *fakeGolfCourseRepo
	hub             *fakeBroadcaster
}

func newCompetitionFixture(competition *models.Competition, courses map[int]*models.GolfCourse) *competitionFixture {
	f := &competitionFixture{
		competitionRepo: &fakeCompetitionRepo{competition: competition},
		golfCourseRepo:  &fakeGolfCourseRepo{courses: courses},
		hub:             &fakeBroadcaster{},
	}
	f.service = services.NewCompetitionService(
		&fakeUnitOfWork{},
		f.competitionRepo,
		f.golfCourseRepo,
		&fakeEnrollmentRepo{},
		&fakeRoundRepo{},
		&fakeAssignmentRepo{},
		nil,
		f.hub,
		testLogger(),
	)
	return f
}

func draftCompetitionNL(creatorID int) *models.Competition {
	return &models.Competition{
		ID:          1,
		Name:        "Spring Ryder Cup",
		CreatorID:   creatorID,
		CountryCode: "NL",
		Status:      models.CompetitionStatusDraft,
	}
}

func TestCreateCompetition(t *testing.T) {
	start := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	t.Run("success", func(t *testing.T) {
		f := newCompetitionFixture(nil, nil)

		competition, err := f.service.CreateCompetition(context.Background(), 7, services.CreateCompetitionInput{
			Name:        "Spring Ryder Cup",
			CountryCode: "nl",
			StartDate:   start,
			EndDate:     end,
		})
		require.NoError(t, err)
		assert.Equal(t, 7, competition.CreatorID)
		assert.Equal(t, "NL", competition.CountryCode, "country code must be uppercased")
		assert.Equal(t, models.CompetitionStatusDraft, competition.Status)
		require.Len(t, f.competitionRepo.created, 1)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name    string
			input   services.CreateCompetitionInput
			wantErr error
		}{
			{
				name:    "empty name",
				input:   services.CreateCompetitionInput{Name: "  ", CountryCode: "NL", StartDate: start, EndDate: end},
				wantErr: services.ErrCompetitionNameRequired,
			},
			{
				name:    "empty country",
				input:   services.CreateCompetitionInput{Name: "Cup", CountryCode: "", StartDate: start, EndDate: end},
				wantErr: services.ErrCompetitionCountryRequired,
			},
			{
				name:    "end before start",
				input:   services.CreateCompetitionInput{Name: "Cup", CountryCode: "NL", StartDate: end, EndDate: start},
				wantErr: services.ErrCompetitionInvalidDates,
			},
			{
				name:    "zero dates",
				input:   services.CreateCompetitionInput{Name: "Cup", CountryCode: "NL"},
				wantErr: services.ErrCompetitionInvalidDates,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newCompetitionFixture(nil, nil)

				_, err := f.service.CreateCompetition(context.Background(), 7, tt.input)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.competitionRepo.created)
			})
		}
	})
}

func TestChangeStatus(t *testing.T) {
	t.Run("valid transition is persisted and broadcast", func(t *testing.T) {
		f := newCompetitionFixture(draftCompetitionNL(7), nil)

		competition, err := f.service.ChangeStatus(context.Background(), 1, 7, models.CompetitionStatusActive)
		require.NoError(t, err)
		assert.Equal(t, models.CompetitionStatusActive, competition.Status)
		assert.Equal(t, models.CompetitionStatusActive, f.competitionRepo.statusUpdates[1])

		require.Len(t, f.hub.rooms, 1)
		assert.Equal(t, "competition_1", f.hub.rooms[0])
	})

	t.Run("invalid transition", func(t *testing.T) {
		f := newCompetitionFixture(draftCompetitionNL(7), nil)

		_, err := f.service.ChangeStatus(context.Background(), 1, 7, models.CompetitionStatusCompleted)
		assert.ErrorIs(t, err, services.ErrInvalidStateTransition)
		assert.Empty(t, f.competitionRepo.statusUpdates)
		assert.Empty(t, f.hub.rooms)
	})

	t.Run("caller is not creator", func(t *testing.T) {
		f := newCompetitionFixture(draftCompetitionNL(7), nil)

		_, err := f.service.ChangeStatus(context.Background(), 1, 8, models.CompetitionStatusActive)
		assert.ErrorIs(t, err, services.ErrNotCompetitionCreator)
	})

	t.Run("competition not found", func(t *testing.T) {
		f := newCompetitionFixture(nil, nil)

		_, err := f.service.ChangeStatus(context.Background(), 1, 7, models.CompetitionStatusActive)
		assert.ErrorIs(t, err, services.ErrCompetitionNotFound)
	})
}

func TestAddGolfCourse(t *testing.T) {
	approvedCourseNL := &models.GolfCourse{
		ID:             5,
		Name:           "Koninklijke Haagsche",
		CountryCode:    "NL",
		HolesCount:     18,
		ApprovalStatus: models.GolfCourseStatusApproved,
	}

	t.Run("success assigns next display order", func(t *testing.T) {
		f := newCompetitionFixture(draftCompetitionNL(7), map[int]*models.GolfCourse{5: approvedCourseNL})
		f.competitionRepo.associations = []models.CompetitionGolfCourse{
			{CompetitionID: 1, GolfCourseID: 3, DisplayOrder: 1},
		}

		association, err := f.service.AddGolfCourse(context.Background(), 1, 7, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, association.GolfCourseID)
		assert.Equal(t, 2, association.DisplayOrder)
		require.Len(t, f.competitionRepo.savedAssocs, 1)

		require.Len(t, f.hub.rooms, 1)
		assert.Equal(t, "competition_1", f.hub.rooms[0])
	})

	t.Run("associations are read in the transaction", func(t *testing.T) {
		f := newCompetitionFixture(draftCompetitionNL(7), map[int]*models.GolfCourse{5: approvedCourseNL})

		_, err := f.service.AddGolfCourse(context.Background(), 1, 7, 5)
		require.NoError(t, err)
		assert.Equal(t, txExec, f.competitionRepo.listAssocExec)
	})

	t.Run("competition not draft", func(t *testing.T) {
		competition := draftCompetitionNL(7)
		competition.Status = models.CompetitionStatusActive
		f := newCompetitionFixture(competition, map[int]*models.GolfCourse{5: approvedCourseNL})

		_, err := f.service.AddGolfCourse(context.Background(), 1, 7, 5)
		assert.ErrorIs(t, err, services.ErrCompetitionNotDraft)
	})

	t.Run("course not found", func(t *testing.T) {
		f := newCompetitionFixture(draftCompetitionNL(7), nil)

		_, err := f.service.AddGolfCourse(context.Background(), 1, 7, 5)
		assert.ErrorIs(t, err, services.ErrGolfCourseNotFound)
	})

	t.Run("course not approved", func(t *testing.T) {
		pending := *approvedCourseNL
		pending.ApprovalStatus = models.GolfCourseStatusPending
		f := newCompetitionFixture(draftCompetitionNL(7), map[int]*models.GolfCourse{5: &pending})

		_, err := f.service.AddGolfCourse(context.Background(), 1, 7, 5)
		assert.ErrorIs(t, err, services.ErrGolfCourseNotApproved)
	})

	t.Run("incompatible country", func(t *testing.T) {
		belgian := *approvedCourseNL
		belgian.CountryCode = "BE"
		f := newCompetitionFixture(draftCompetitionNL(7), map[int]*models.GolfCourse{5: &belgian})

		_, err := f.service.AddGolfCourse(context.Background(), 1, 7, 5)
		assert.ErrorIs(t, err, services.ErrIncompatibleCountry)
	})

	t.Run("duplicate association", func(t *testing.T) {
		f := newCompetitionFixture(draftCompetitionNL(7), map[int]*models.GolfCourse{5: approvedCourseNL})
		f.competitionRepo.associations = []models.CompetitionGolfCourse{
			{CompetitionID: 1, GolfCourseID: 5, DisplayOrder: 1},
		}

		_, err := f.service.AddGolfCourse(context.Background(), 1, 7, 5)
		assert.ErrorIs(t, err, services.ErrGolfCourseAlreadyAssigned)
	})

	t.Run("unique violation from storage", func(t *testing.T) {
		f := newCompetitionFixture(draftCompetitionNL(7), map[int]*models.GolfCourse{5: approvedCourseNL})
		f.competitionRepo.associationErr = repositories.ErrCourseAssociationConflict

		_, err := f.service.AddGolfCourse(context.Background(), 1, 7, 5)
		assert.ErrorIs(t, err, services.ErrGolfCourseAlreadyAssigned)
	})
}

func TestAutoUpdateCompetitionStatusesByDates(t *testing.T) {
	active := &models.Competition{ID: 1, Status: models.CompetitionStatusActive}
	inProgress := &models.Competition{ID: 2, Status: models.CompetitionStatusInProgress}

	f := newCompetitionFixture(nil, nil)
	f.competitionRepo.autoCandidates = []*models.Competition{active, inProgress}

	err := f.service.AutoUpdateCompetitionStatusesByDates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.CompetitionStatusClosed, f.competitionRepo.statusUpdates[1])
	assert.Equal(t, models.CompetitionStatusCompleted, f.competitionRepo.statusUpdates[2])
	assert.Len(t, f.hub.rooms, 2)
}
