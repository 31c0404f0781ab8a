package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kmalikov/competition-system/models"
	"github.com/kmalikov/competition-system/repositories"
	"github.com/kmalikov/competition-system/storage"
	"golang.org/x/sync/errgroup"
)

var (
	ErrCompetitionNameRequired    = errors.New("competition name is required")
	ErrCompetitionCountryRequired = errors.New("competition country code is required")
	ErrCompetitionInvalidDates    = errors.New("competition end date must be after start date")
)

type CreateCompetitionInput struct {
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CountryCode string    `json:"country_code"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

type CompetitionService interface {
	CreateCompetition(ctx context.Context, creatorID int, input CreateCompetitionInput) (*models.Competition, error)
	GetCompetitionByID(ctx context.Context, id int) (*models.Competition, error)
	ListCompetitions(ctx context.Context, filter repositories.ListCompetitionsFilter) ([]models.Competition, error)
	ChangeStatus(ctx context.Context, competitionID, callerID int, next models.CompetitionStatus) (*models.Competition, error)
	AddGolfCourse(ctx context.Context, competitionID, callerID, golfCourseID int) (*models.CompetitionGolfCourse, error)
	UploadLogo(ctx context.Context, competitionID, callerID int, contentType string, file io.Reader) (*models.Competition, error)
	AutoUpdateCompetitionStatusesByDates(ctx context.Context) error
}

type competitionService struct {
	uow             UnitOfWork
	competitionRepo repositories.CompetitionRepository
	golfCourseRepo  repositories.GolfCourseRepository
	enrollmentRepo  repositories.EnrollmentRepository
	roundRepo       repositories.RoundRepository
	assignmentRepo  repositories.TeamAssignmentRepository
	uploader        storage.FileUploader
	hub             AssignmentBroadcaster
	logger          *slog.Logger
}

func NewCompetitionService(
	uow UnitOfWork,
	competitionRepo repositories.CompetitionRepository,
	golfCourseRepo repositories.GolfCourseRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	roundRepo repositories.RoundRepository,
	assignmentRepo repositories.TeamAssignmentRepository,
	uploader storage.FileUploader,
	hub AssignmentBroadcaster,
	logger *slog.Logger,
) CompetitionService {
	return &competitionService{
		uow:             uow,
		competitionRepo: competitionRepo,
		golfCourseRepo:  golfCourseRepo,
		enrollmentRepo:  enrollmentRepo,
		roundRepo:       roundRepo,
		assignmentRepo:  assignmentRepo,
		uploader:        uploader,
		hub:             hub,
		logger:          logger,
	}
}

// CreateCompetition создаёт соревнование в статусе draft.
func (s *competitionService) CreateCompetition(ctx context.Context, creatorID int, input CreateCompetitionInput) (*models.Competition, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrCompetitionNameRequired
	}
	if strings.TrimSpace(input.CountryCode) == "" {
		return nil, ErrCompetitionCountryRequired
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() || !input.StartDate.Before(input.EndDate) {
		return nil, ErrCompetitionInvalidDates
	}

	competition := &models.Competition{
		Name:        input.Name,
		Description: input.Description,
		CreatorID:   creatorID,
		CountryCode: strings.ToUpper(input.CountryCode),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      models.CompetitionStatusDraft,
	}
	if err := s.competitionRepo.Create(ctx, competition); err != nil {
		return nil, err
	}
	return competition, nil
}

// GetCompetitionByID возвращает соревнование вместе со связанными полями,
// заявками и раундами. Детали подгружаются параллельно.
func (s *competitionService) GetCompetitionByID(ctx context.Context, id int) (*models.Competition, error) {
	competition, err := s.competitionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		courses, err := s.competitionRepo.ListGolfCourseAssociations(gCtx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to load golf courses: %w", err)
		}
		competition.GolfCourses = courses
		return nil
	})
	g.Go(func() error {
		enrollments, err := s.enrollmentRepo.ListByCompetition(gCtx, id)
		if err != nil {
			return fmt.Errorf("failed to load enrollments: %w", err)
		}
		list := make([]models.Enrollment, 0, len(enrollments))
		for _, e := range enrollments {
			list = append(list, *e)
		}
		competition.Enrollments = list
		return nil
	})
	g.Go(func() error {
		rounds, err := s.roundRepo.ListByCompetition(gCtx, id)
		if err != nil {
			return fmt.Errorf("failed to load rounds: %w", err)
		}
		list := make([]models.Round, 0, len(rounds))
		for _, r := range rounds {
			list = append(list, *r)
		}
		competition.Rounds = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.populateLogoURL(competition)
	return competition, nil
}

func (s *competitionService) ListCompetitions(ctx context.Context, filter repositories.ListCompetitionsFilter) ([]models.Competition, error) {
	competitions, err := s.competitionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range competitions {
		s.populateLogoURL(&competitions[i])
	}
	return competitions, nil
}

// ChangeStatus переводит соревнование в новый статус через агрегат,
// который сверяет переход с таблицей допустимых.
func (s *competitionService) ChangeStatus(ctx context.Context, competitionID, callerID int, next models.CompetitionStatus) (*models.Competition, error) {
	var (
		competition *models.Competition
		events      []models.DomainEvent
	)

	err := s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		competition, err = s.competitionRepo.GetByIDForUpdate(ctx, exec, competitionID)
		if err != nil {
			if errors.Is(err, repositories.ErrCompetitionNotFound) {
				return ErrCompetitionNotFound
			}
			return err
		}
		if !competition.IsCreator(callerID) {
			return ErrNotCompetitionCreator
		}

		event, err := competition.TransitionTo(next)
		if err != nil {
			return err
		}
		if err := s.competitionRepo.UpdateStatus(ctx, exec, competitionID, competition.Status); err != nil {
			return err
		}
		events = append(events, event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(events)
	return competition, nil
}

// AddGolfCourse привязывает утверждённое гольф-поле к соревнованию.
// Проверки по порядку: соревнование существует, вызывающий — создатель,
// статус draft, поле существует; правила совместимости и дубликатов
// проверяет агрегат.
func (s *competitionService) AddGolfCourse(ctx context.Context, competitionID, callerID, golfCourseID int) (*models.CompetitionGolfCourse, error) {
	var (
		association models.CompetitionGolfCourse
		events      []models.DomainEvent
	)

	err := s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		competition, err := s.competitionRepo.GetByIDForUpdate(ctx, exec, competitionID)
		if err != nil {
			if errors.Is(err, repositories.ErrCompetitionNotFound) {
				return ErrCompetitionNotFound
			}
			return err
		}
		if !competition.IsCreator(callerID) {
			return ErrNotCompetitionCreator
		}
		if !competition.Status.AllowsModifications() {
			return ErrCompetitionNotDraft
		}

		course, err := s.golfCourseRepo.GetByID(ctx, golfCourseID)
		if err != nil {
			if errors.Is(err, repositories.ErrGolfCourseNotFound) {
				return ErrGolfCourseNotFound
			}
			return err
		}

		associations, err := s.competitionRepo.ListGolfCourseAssociations(ctx, exec, competitionID)
		if err != nil {
			return err
		}
		competition.GolfCourses = associations

		var event models.DomainEvent
		association, event, err = competition.AddGolfCourse(course)
		if err != nil {
			return err
		}

		if err := s.competitionRepo.AddGolfCourseAssociation(ctx, exec, &association); err != nil {
			if errors.Is(err, repositories.ErrCourseAssociationConflict) {
				return ErrGolfCourseAlreadyAssigned
			}
			return err
		}
		events = append(events, event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(events)
	return &association, nil
}

func (s *competitionService) UploadLogo(ctx context.Context, competitionID, callerID int, contentType string, file io.Reader) (*models.Competition, error) {
	competition, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	if !competition.IsCreator(callerID) {
		return nil, ErrNotCompetitionCreator
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("competitions/%d/logo%s", competitionID, ext)

	oldKey := competition.LogoKey
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload competition logo: %w", err)
	}
	if err := s.competitionRepo.UpdateLogoKey(ctx, competitionID, &result.Key); err != nil {
		return nil, err
	}
	if oldKey != nil && *oldKey != result.Key {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.WarnContext(ctx, "failed to delete previous competition logo",
				slog.String("key", *oldKey), slog.Any("error", delErr))
		}
	}

	competition.LogoKey = &result.Key
	s.populateLogoURL(competition)
	return competition, nil
}

// AutoUpdateCompetitionStatusesByDates продвигает статусы по датам:
// active -> closed после наступления даты старта, in_progress -> completed
// после даты окончания. Запускается планировщиком из main.
func (s *competitionService) AutoUpdateCompetitionStatusesByDates(ctx context.Context) error {
	var events []models.DomainEvent

	err := s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		competitions, err := s.competitionRepo.GetCompetitionsForAutoStatusUpdate(ctx, exec)
		if err != nil {
			return err
		}
		for _, competition := range competitions {
			var next models.CompetitionStatus
			switch competition.Status {
			case models.CompetitionStatusActive:
				next = models.CompetitionStatusClosed
			case models.CompetitionStatusInProgress:
				next = models.CompetitionStatusCompleted
			default:
				continue
			}
			event, err := competition.TransitionTo(next)
			if err != nil {
				s.logger.WarnContext(ctx, "skipping invalid automatic status transition",
					slog.Int("competition_id", competition.ID),
					slog.String("from", string(competition.Status)),
					slog.String("to", string(next)),
				)
				continue
			}
			if err := s.competitionRepo.UpdateStatus(ctx, exec, competition.ID, competition.Status); err != nil {
				return err
			}
			events = append(events, event)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvents(events)
	return nil
}

func (s *competitionService) publishEvents(events []models.DomainEvent) {
	if s.hub == nil {
		return
	}
	for _, event := range events {
		room := roomForCompetition(event.CompetitionID)
		s.hub.BroadcastToRoom(room, map[string]interface{}{
			"type":    event.Type,
			"payload": event.Payload,
			"room_id": room,
		})
	}
}

func (s *competitionService) populateLogoURL(competition *models.Competition) {
	if competition == nil || competition.LogoKey == nil || *competition.LogoKey == "" || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*competition.LogoKey)
	if url != "" {
		competition.LogoURL = &url
	}
}
