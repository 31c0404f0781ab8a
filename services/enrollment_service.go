package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kmalikov/competition-system/models"
	"github.com/kmalikov/competition-system/repositories"
	"github.com/shopspring/decimal"
)

var ErrEnrollmentNotOpen = errors.New("competition is not open for enrollment")

// EnrollmentService инкапсулирует жизненный цикл заявок игроков.
type EnrollmentService interface {
	RequestEnrollment(ctx context.Context, competitionID, userID int) (*models.Enrollment, error)
	InvitePlayer(ctx context.Context, competitionID, callerID, userID int) (*models.Enrollment, error)
	ApproveEnrollment(ctx context.Context, enrollmentID, callerID int) error
	RejectEnrollment(ctx context.Context, enrollmentID, callerID int) error
	CancelEnrollment(ctx context.Context, enrollmentID, callerID int) error
	WithdrawEnrollment(ctx context.Context, enrollmentID, callerID int) error
	SetCustomHandicap(ctx context.Context, enrollmentID, callerID int, handicap *decimal.Decimal) error
	ListByCompetition(ctx context.Context, competitionID int) ([]*models.Enrollment, error)
}

type enrollmentService struct {
	enrollmentRepo  repositories.EnrollmentRepository
	competitionRepo repositories.CompetitionRepository
	userRepo        repositories.UserRepository
	emailService    *EmailService
	logger          *slog.Logger
}

func NewEnrollmentService(
	enrollmentRepo repositories.EnrollmentRepository,
	competitionRepo repositories.CompetitionRepository,
	userRepo repositories.UserRepository,
	emailService *EmailService,
	logger *slog.Logger,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo:  enrollmentRepo,
		competitionRepo: competitionRepo,
		userRepo:        userRepo,
		emailService:    emailService,
		logger:          logger,
	}
}

// RequestEnrollment — игрок подаёт заявку сам, статус requested.
// Заявки принимаются только пока соревнование в статусе active.
func (s *enrollmentService) RequestEnrollment(ctx context.Context, competitionID, userID int) (*models.Enrollment, error) {
	competition, err := s.loadCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if !competition.Status.IsActive() {
		return nil, ErrEnrollmentNotOpen
	}
	return s.createEnrollment(ctx, competitionID, userID, models.EnrollmentStatusRequested)
}

// InvitePlayer — создатель соревнования приглашает игрока, статус invited.
func (s *enrollmentService) InvitePlayer(ctx context.Context, competitionID, callerID, userID int) (*models.Enrollment, error) {
	competition, err := s.loadCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if !competition.IsCreator(callerID) {
		return nil, ErrNotCompetitionCreator
	}
	if competition.Status.IsFinal() || competition.Status == models.CompetitionStatusClosed {
		return nil, ErrEnrollmentNotOpen
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.createEnrollment(ctx, competitionID, userID, models.EnrollmentStatusInvited)
}

// ApproveEnrollment — решение создателя по заявке в статусе requested/invited.
func (s *enrollmentService) ApproveEnrollment(ctx context.Context, enrollmentID, callerID int) error {
	enrollment, competition, err := s.loadEnrollmentWithCompetition(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if !competition.IsCreator(callerID) {
		return ErrNotCompetitionCreator
	}
	if !enrollment.Status.CanTransitionTo(models.EnrollmentStatusApproved) {
		return ErrEnrollmentNotPending
	}
	if err := s.enrollmentRepo.UpdateStatus(ctx, nil, enrollmentID, models.EnrollmentStatusApproved); err != nil {
		return err
	}

	if s.emailService != nil && enrollment.User != nil {
		if mailErr := s.emailService.SendEnrollmentApprovedEmail(enrollment.User.Email, competition.Name); mailErr != nil {
			s.logger.WarnContext(ctx, "failed to send enrollment approval email",
				slog.Int("enrollment_id", enrollmentID), slog.Any("error", mailErr))
		}
	}
	return nil
}

// RejectEnrollment — отказ создателя по заявке в статусе requested/invited.
func (s *enrollmentService) RejectEnrollment(ctx context.Context, enrollmentID, callerID int) error {
	enrollment, competition, err := s.loadEnrollmentWithCompetition(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if !competition.IsCreator(callerID) {
		return ErrNotCompetitionCreator
	}
	if !enrollment.Status.CanTransitionTo(models.EnrollmentStatusRejected) {
		return ErrEnrollmentNotPending
	}
	return s.enrollmentRepo.UpdateStatus(ctx, nil, enrollmentID, models.EnrollmentStatusRejected)
}

// CancelEnrollment — выход ДО утверждения. Доступен самому игроку
// и создателю соревнования, только из requested/invited.
func (s *enrollmentService) CancelEnrollment(ctx context.Context, enrollmentID, callerID int) error {
	enrollment, competition, err := s.loadEnrollmentWithCompetition(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if enrollment.UserID != callerID && !competition.IsCreator(callerID) {
		return ErrForbiddenOperation
	}
	if !enrollment.Status.CanTransitionTo(models.EnrollmentStatusCancelled) {
		return ErrEnrollmentNotPending
	}
	return s.enrollmentRepo.UpdateStatus(ctx, nil, enrollmentID, models.EnrollmentStatusCancelled)
}

// WithdrawEnrollment — выход ПОСЛЕ утверждения, только сам игрок
// и только из approved. Отличие от cancel принципиально: статусы
// фиксируют момент выхода в жизненном цикле.
func (s *enrollmentService) WithdrawEnrollment(ctx context.Context, enrollmentID, callerID int) error {
	enrollment, _, err := s.loadEnrollmentWithCompetition(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if enrollment.UserID != callerID {
		return ErrForbiddenOperation
	}
	if !enrollment.Status.CanTransitionTo(models.EnrollmentStatusWithdrawn) {
		return ErrEnrollmentNotApproved
	}
	return s.enrollmentRepo.UpdateStatus(ctx, nil, enrollmentID, models.EnrollmentStatusWithdrawn)
}

// SetCustomHandicap задаёт гандикап заявки, который при жеребьёвке имеет
// приоритет над гандикапом пользователя. Меняет только создатель.
func (s *enrollmentService) SetCustomHandicap(ctx context.Context, enrollmentID, callerID int, handicap *decimal.Decimal) error {
	_, competition, err := s.loadEnrollmentWithCompetition(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if !competition.IsCreator(callerID) {
		return ErrNotCompetitionCreator
	}
	return s.enrollmentRepo.UpdateCustomHandicap(ctx, enrollmentID, handicap)
}

func (s *enrollmentService) ListByCompetition(ctx context.Context, competitionID int) ([]*models.Enrollment, error) {
	if _, err := s.loadCompetition(ctx, competitionID); err != nil {
		return nil, err
	}
	return s.enrollmentRepo.ListByCompetition(ctx, competitionID)
}

func (s *enrollmentService) loadCompetition(ctx context.Context, competitionID int) (*models.Competition, error) {
	competition, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to load competition %d: %w", competitionID, err)
	}
	return competition, nil
}

func (s *enrollmentService) loadEnrollmentWithCompetition(ctx context.Context, enrollmentID int) (*models.Enrollment, *models.Competition, error) {
	enrollment, err := s.enrollmentRepo.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrEnrollmentNotFound) {
			return nil, nil, ErrEnrollmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to load enrollment %d: %w", enrollmentID, err)
	}
	competition, err := s.loadCompetition(ctx, enrollment.CompetitionID)
	if err != nil {
		return nil, nil, err
	}
	return enrollment, competition, nil
}

func (s *enrollmentService) createEnrollment(ctx context.Context, competitionID, userID int, status models.EnrollmentStatus) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{
		CompetitionID: competitionID,
		UserID:        userID,
		Status:        status,
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repositories.ErrEnrollmentConflict) {
			return nil, ErrEnrollmentConflict
		}
		return nil, err
	}
	return enrollment, nil
}
