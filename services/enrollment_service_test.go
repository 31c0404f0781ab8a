package services_test

import (
	"context"
	"testing"

	"github.com/kmalikov/competition-system/models"
	"github.com/kmalikov/competition-system/repositories"
	"github.com/kmalikov/competition-system/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type enrollmentFixture struct {
	service         services.EnrollmentService
	enrollmentRepo  *fakeEnrollmentRepo
	competitionRepo *fakeCompetitionRepo
	userRepo        *fakeUserRepo
}

func newEnrollmentFixture(competition *models.Competition, enrollment *models.Enrollment, users map[int]*models.User) *enrollmentFixture {
	f := &enrollmentFixture{
		enrollmentRepo:  &fakeEnrollmentRepo{enrollment: enrollment},
		competitionRepo: &fakeCompetitionRepo{competition: competition},
		userRepo:        &fakeUserRepo{users: users},
	}
	f.service = services.NewEnrollmentService(
		f.enrollmentRepo,
		f.competitionRepo,
		f.userRepo,
		nil,
		testLogger(),
	)
	return f
}

func activeCompetition(creatorID int) *models.Competition {
	return &models.Competition{
		ID:          1,
		Name:        "Summer Ryder Cup",
		CreatorID:   creatorID,
		CountryCode: "NL",
		Status:      models.CompetitionStatusActive,
	}
}

func enrollmentInStatus(userID int, status models.EnrollmentStatus) *models.Enrollment {
	return &models.Enrollment{
		ID:            10,
		CompetitionID: 1,
		UserID:        userID,
		Status:        status,
	}
}

func TestRequestEnrollment(t *testing.T) {
	t.Run("success while active", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), nil, nil)

		enrollment, err := f.service.RequestEnrollment(context.Background(), 1, 3)
		require.NoError(t, err)
		assert.Equal(t, models.EnrollmentStatusRequested, enrollment.Status)
		assert.Equal(t, 3, enrollment.UserID)
	})

	t.Run("closed for enrollment", func(t *testing.T) {
		competition := activeCompetition(7)
		competition.Status = models.CompetitionStatusClosed
		f := newEnrollmentFixture(competition, nil, nil)

		_, err := f.service.RequestEnrollment(context.Background(), 1, 3)
		assert.ErrorIs(t, err, services.ErrEnrollmentNotOpen)
	})

	t.Run("duplicate enrollment", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), nil, nil)
		f.enrollmentRepo.createErr = repositories.ErrEnrollmentConflict

		_, err := f.service.RequestEnrollment(context.Background(), 1, 3)
		assert.ErrorIs(t, err, services.ErrEnrollmentConflict)
	})

	t.Run("competition not found", func(t *testing.T) {
		f := newEnrollmentFixture(nil, nil, nil)

		_, err := f.service.RequestEnrollment(context.Background(), 1, 3)
		assert.ErrorIs(t, err, services.ErrCompetitionNotFound)
	})
}

func TestInvitePlayer(t *testing.T) {
	users := map[int]*models.User{3: {ID: 3, Email: "invitee@example.com"}}

	t.Run("success", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), nil, users)

		enrollment, err := f.service.InvitePlayer(context.Background(), 1, 7, 3)
		require.NoError(t, err)
		assert.Equal(t, models.EnrollmentStatusInvited, enrollment.Status)
	})

	t.Run("only creator invites", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), nil, users)

		_, err := f.service.InvitePlayer(context.Background(), 1, 8, 3)
		assert.ErrorIs(t, err, services.ErrNotCompetitionCreator)
	})

	t.Run("closed competition", func(t *testing.T) {
		competition := activeCompetition(7)
		competition.Status = models.CompetitionStatusClosed
		f := newEnrollmentFixture(competition, nil, users)

		_, err := f.service.InvitePlayer(context.Background(), 1, 7, 3)
		assert.ErrorIs(t, err, services.ErrEnrollmentNotOpen)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), nil, users)

		_, err := f.service.InvitePlayer(context.Background(), 1, 7, 99)
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})
}

func TestEnrollmentDecisions(t *testing.T) {
	t.Run("approve requested", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), enrollmentInStatus(3, models.EnrollmentStatusRequested), nil)

		require.NoError(t, f.service.ApproveEnrollment(context.Background(), 10, 7))
		assert.Equal(t, models.EnrollmentStatusApproved, f.enrollmentRepo.updated[10])
	})

	t.Run("approve requires creator", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), enrollmentInStatus(3, models.EnrollmentStatusRequested), nil)

		err := f.service.ApproveEnrollment(context.Background(), 10, 3)
		assert.ErrorIs(t, err, services.ErrNotCompetitionCreator)
	})

	t.Run("approve already decided", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), enrollmentInStatus(3, models.EnrollmentStatusRejected), nil)

		err := f.service.ApproveEnrollment(context.Background(), 10, 7)
		assert.ErrorIs(t, err, services.ErrEnrollmentNotPending)
	})

	t.Run("reject invited", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), enrollmentInStatus(3, models.EnrollmentStatusInvited), nil)

		require.NoError(t, f.service.RejectEnrollment(context.Background(), 10, 7))
		assert.Equal(t, models.EnrollmentStatusRejected, f.enrollmentRepo.updated[10])
	})

	t.Run("enrollment not found", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), nil, nil)

		err := f.service.ApproveEnrollment(context.Background(), 10, 7)
		assert.ErrorIs(t, err, services.ErrEnrollmentNotFound)
	})
}

func TestCancelAndWithdraw(t *testing.T) {
	t.Run("player cancels own pending enrollment", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), enrollmentInStatus(3, models.EnrollmentStatusRequested), nil)

		require.NoError(t, f.service.CancelEnrollment(context.Background(), 10, 3))
		assert.Equal(t, models.EnrollmentStatusCancelled, f.enrollmentRepo.updated[10])
	})

	t.Run("creator cancels pending enrollment", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), enrollmentInStatus(3, models.EnrollmentStatusInvited), nil)

		require.NoError(t, f.service.CancelEnrollment(context.Background(), 10, 7))
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), enrollmentInStatus(3, models.EnrollmentStatusRequested), nil)

		err := f.service.CancelEnrollment(context.Background(), 10, 5)
		assert.ErrorIs(t, err, services.ErrForbiddenOperation)
	})

	t.Run("cancel after approval is rejected", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), enrollmentInStatus(3, models.EnrollmentStatusApproved), nil)

		err := f.service.CancelEnrollment(context.Background(), 10, 3)
		assert.ErrorIs(t, err, services.ErrEnrollmentNotPending)
	})

	t.Run("withdraw approved enrollment", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), enrollmentInStatus(3, models.EnrollmentStatusApproved), nil)

		require.NoError(t, f.service.WithdrawEnrollment(context.Background(), 10, 3))
		assert.Equal(t, models.EnrollmentStatusWithdrawn, f.enrollmentRepo.updated[10])
	})

	t.Run("only the player withdraws", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), enrollmentInStatus(3, models.EnrollmentStatusApproved), nil)

		err := f.service.WithdrawEnrollment(context.Background(), 10, 7)
		assert.ErrorIs(t, err, services.ErrForbiddenOperation)
	})

	t.Run("withdraw before approval is rejected", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), enrollmentInStatus(3, models.EnrollmentStatusRequested), nil)

		err := f.service.WithdrawEnrollment(context.Background(), 10, 3)
		assert.ErrorIs(t, err, services.ErrEnrollmentNotApproved)
	})
}

func TestSetCustomHandicap(t *testing.T) {
	t.Run("creator sets and clears", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), enrollmentInStatus(3, models.EnrollmentStatusApproved), nil)

		h := decimal.NewFromFloat(3.5)
		require.NoError(t, f.service.SetCustomHandicap(context.Background(), 10, 7, &h))
		require.NotNil(t, f.enrollmentRepo.handicaps[10])
		assert.True(t, h.Equal(*f.enrollmentRepo.handicaps[10]))

		require.NoError(t, f.service.SetCustomHandicap(context.Background(), 10, 7, nil))
		assert.Nil(t, f.enrollmentRepo.handicaps[10])
	})

	t.Run("only creator", func(t *testing.T) {
		f := newEnrollmentFixture(activeCompetition(7), enrollmentInStatus(3, models.EnrollmentStatusApproved), nil)

		h := decimal.NewFromFloat(3.5)
		err := f.service.SetCustomHandicap(context.Background(), 10, 3, &h)
		assert.ErrorIs(t, err, services.ErrNotCompetitionCreator)
	})
}
