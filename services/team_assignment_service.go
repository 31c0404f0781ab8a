package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kmalikov/competition-system/draft"
	"github.com/kmalikov/competition-system/models"
	"github.com/kmalikov/competition-system/repositories"
	"github.com/shopspring/decimal"
)

// AssignmentBroadcaster рассылает живые обновления подписчикам комнаты
// соревнования. Реализуется draft.Hub.
type AssignmentBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type AssignTeamsInput struct {
	Mode           models.AssignmentMode `json:"mode"`
	FirstPick      models.TeamSide       `json:"first_pick,omitempty"`
	TeamAPlayerIDs []int                 `json:"team_a_player_ids,omitempty"`
	TeamBPlayerIDs []int                 `json:"team_b_player_ids,omitempty"`
}

type TeamAssignmentService interface {
	AssignTeams(ctx context.Context, competitionID, callerID int, input AssignTeamsInput) (*models.TeamAssignment, error)
	GetByCompetition(ctx context.Context, competitionID int) (*models.TeamAssignment, error)
}

type teamAssignmentService struct {
	uow             UnitOfWork
	competitionRepo repositories.CompetitionRepository
	enrollmentRepo  repositories.EnrollmentRepository
	assignmentRepo  repositories.TeamAssignmentRepository
	roundRepo       repositories.RoundRepository
	assigner        draft.TeamAssigner
	hub             AssignmentBroadcaster
	emailService    *EmailService
	logger          *slog.Logger
}

func NewTeamAssignmentService(
	uow UnitOfWork,
	competitionRepo repositories.CompetitionRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	assignmentRepo repositories.TeamAssignmentRepository,
	roundRepo repositories.RoundRepository,
	assigner draft.TeamAssigner,
	hub AssignmentBroadcaster,
	emailService *EmailService,
	logger *slog.Logger,
) TeamAssignmentService {
	return &teamAssignmentService{
		uow:             uow,
		competitionRepo: competitionRepo,
		enrollmentRepo:  enrollmentRepo,
		assignmentRepo:  assignmentRepo,
		roundRepo:       roundRepo,
		assigner:        assigner,
		hub:             hub,
		emailService:    emailService,
		logger:          logger,
	}
}

// AssignTeams формирует команды соревнования. Предусловия проверяются
// по порядку, каждое нарушение — отдельная ошибка: соревнование существует,
// вызывающий — создатель, статус closed, утверждённых заявок не меньше двух
// и их число чётно. Прежнее назначение удаляется, новое создаётся, раунды
// в ожидании команд переводятся в ожидание матчей — всё в одной транзакции.
func (s *teamAssignmentService) AssignTeams(ctx context.Context, competitionID, callerID int, input AssignTeamsInput) (*models.TeamAssignment, error) {
	var (
		assignment *models.TeamAssignment
		approved   []*models.Enrollment
		events     []models.DomainEvent
	)

	err := s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		// Блокировка строки соревнования: два одновременных назначения
		// для одного соревнования выполняются строго последовательно.
		competition, err := s.competitionRepo.GetByIDForUpdate(ctx, exec, competitionID)
		if err != nil {
			if errors.Is(err, repositories.ErrCompetitionNotFound) {
				return ErrCompetitionNotFound
			}
			return fmt.Errorf("failed to load competition %d: %w", competitionID, err)
		}
		if !competition.IsCreator(callerID) {
			return ErrNotCompetitionCreator
		}
		if competition.Status != models.CompetitionStatusClosed {
			return ErrCompetitionNotClosed
		}

		approved, err = s.enrollmentRepo.FindByCompetitionAndStatus(ctx, exec, competitionID, models.EnrollmentStatusApproved)
		if err != nil {
			return fmt.Errorf("failed to load approved enrollments for competition %d: %w", competitionID, err)
		}
		if len(approved) < 2 {
			return ErrInsufficientPlayers
		}
		if len(approved)%2 != 0 {
			return ErrOddPlayerCount
		}

		var teamA, teamB []int
		switch input.Mode {
		case models.AssignmentModeManual:
			teamA, teamB = input.TeamAPlayerIDs, input.TeamBPlayerIDs
			if err := validateManualTeams(teamA, teamB, approved); err != nil {
				return err
			}
		default:
			results, draftErr := s.assigner.AssignTeams(ctx, draft.AssignTeamsParams{
				Players:   playersForDraft(approved),
				FirstPick: input.FirstPick,
			})
			if draftErr != nil {
				return fmt.Errorf("draft failed for competition %d: %w", competitionID, draftErr)
			}
			teamA = draft.TeamPlayers(results, models.TeamSideA)
			teamB = draft.TeamPlayers(results, models.TeamSideB)
		}

		mode := input.Mode
		if mode == "" {
			mode = models.AssignmentModeAutomatic
		}
		assignment, err = models.NewTeamAssignment(competitionID, mode, teamA, teamB)
		if err != nil {
			return err
		}

		// Переназначение замещает прежний результат, а не дополняет его.
		if err := s.assignmentRepo.DeleteByCompetition(ctx, exec, competitionID); err != nil {
			return err
		}
		if err := s.assignmentRepo.Create(ctx, exec, assignment); err != nil {
			return err
		}

		pendingRounds, err := s.roundRepo.ListByCompetitionAndStatus(ctx, exec, competitionID, models.RoundStatusPendingTeams)
		if err != nil {
			return err
		}
		for _, round := range pendingRounds {
			if round.MarkTeamsAssigned() {
				if err := s.roundRepo.UpdateStatus(ctx, exec, round.ID, round.Status); err != nil {
					return err
				}
			}
		}

		events = append(events, models.NewDomainEvent(models.EventTeamsAssigned, competitionID, assignment))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events, approved)
	return assignment, nil
}

func (s *teamAssignmentService) GetByCompetition(ctx context.Context, competitionID int) (*models.TeamAssignment, error) {
	assignment, err := s.assignmentRepo.FindByCompetition(ctx, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamAssignmentNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignment, nil
}

// publishEvents выполняется после коммита: рассылка websocket-сообщений
// и почтовых уведомлений. Сбои публикации не откатывают назначение,
// только логируются.
func (s *teamAssignmentService) publishEvents(ctx context.Context, events []models.DomainEvent, approved []*models.Enrollment) {
	for _, event := range events {
		if s.hub != nil {
			s.hub.BroadcastToRoom(roomForCompetition(event.CompetitionID), draft.WebSocketMessage{
				Type:    string(event.Type),
				Payload: event.Payload,
				RoomID:  roomForCompetition(event.CompetitionID),
			})
		}
		if event.Type != models.EventTeamsAssigned || s.emailService == nil {
			continue
		}
		assignment, ok := event.Payload.(*models.TeamAssignment)
		if !ok {
			continue
		}
		for _, enrollment := range approved {
			if enrollment.User == nil {
				continue
			}
			team := assignment.PlayerTeam(enrollment.UserID)
			if team == nil {
				continue
			}
			if err := s.emailService.SendTeamsAssignedEmail(enrollment.User.Email, event.CompetitionID, *team); err != nil {
				s.logger.WarnContext(ctx, "failed to send team assignment email",
					slog.Int("competition_id", event.CompetitionID),
					slog.Int("user_id", enrollment.UserID),
					slog.Any("error", err),
				)
			}
		}
	}
}

func roomForCompetition(competitionID int) string {
	return fmt.Sprintf("competition_%d", competitionID)
}

// playersForDraft резолвит действующий гандикап каждого игрока:
// custom_handicap заявки > гандикап пользователя > 0.
func playersForDraft(approved []*models.Enrollment) []draft.PlayerForDraft {
	players := make([]draft.PlayerForDraft, 0, len(approved))
	for _, e := range approved {
		handicap := decimal.Zero
		displayName := ""
		if e.User != nil {
			displayName = e.User.DisplayName()
			if e.User.Handicap != nil {
				handicap = *e.User.Handicap
			}
		}
		if e.CustomHandicap != nil {
			handicap = *e.CustomHandicap
		}
		players = append(players, draft.PlayerForDraft{
			UserID:      e.UserID,
			Handicap:    handicap,
			DisplayName: displayName,
		})
	}
	return players
}

// validateManualTeams проверяет ручной режим: игрок не может попасть в обе
// команды, и каждый указанный игрок должен иметь утверждённую заявку.
func validateManualTeams(teamA, teamB []int, approved []*models.Enrollment) error {
	inA := make(map[int]struct{}, len(teamA))
	for _, id := range teamA {
		inA[id] = struct{}{}
	}
	for _, id := range teamB {
		if _, ok := inA[id]; ok {
			return ErrDuplicatePlayerInTeams
		}
	}

	approvedIDs := make(map[int]struct{}, len(approved))
	for _, e := range approved {
		approvedIDs[e.UserID] = struct{}{}
	}
	for _, id := range append(append([]int(nil), teamA...), teamB...) {
		if _, ok := approvedIDs[id]; !ok {
			return ErrPlayerNotEnrolled
		}
	}
	return nil
}
