package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TeamSide — одна из двух команд соревнования.
type TeamSide string

const (
	TeamSideA TeamSide = "A"
	TeamSideB TeamSide = "B"
)

// AssignmentMode — способ формирования команд.
type AssignmentMode string

const (
	AssignmentModeAutomatic AssignmentMode = "automatic"
	AssignmentModeManual    AssignmentMode = "manual"
)

// Ошибки валидации состава команд при создании TeamAssignment.
var (
	ErrTeamAssignmentEmptyTeam       = errors.New("both teams must have at least one player")
	ErrTeamAssignmentUnbalancedTeams = errors.New("teams must have the same number of players")
	ErrTeamAssignmentCrossDuplicate  = errors.New("player cannot be in both teams")
	ErrTeamAssignmentTeamDuplicate   = errors.New("player appears more than once in a team")
)

// TeamAssignment — зафиксированный результат одного разбиения на команды.
// На соревнование существует не больше одного активного назначения:
// повторное назначение удаляет прежнее и создаёт новое.
type TeamAssignment struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	CompetitionID  int            `json:"competition_id" db:"competition_id"`
	Mode           AssignmentMode `json:"mode" db:"mode"`
	TeamAPlayerIDs []int          `json:"team_a_player_ids" db:"team_a_players"`
	TeamBPlayerIDs []int          `json:"team_b_player_ids" db:"team_b_players"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

// NewTeamAssignment создаёт назначение команд, проверяя инварианты состава:
// обе команды непустые, равного размера, без пересечений и без повторов
// внутри команды. Идентификатор и отметка времени выдаются здесь же.
func NewTeamAssignment(competitionID int, mode AssignmentMode, teamA, teamB []int) (*TeamAssignment, error) {
	if len(teamA) == 0 || len(teamB) == 0 {
		return nil, ErrTeamAssignmentEmptyTeam
	}
	if len(teamA) != len(teamB) {
		return nil, ErrTeamAssignmentUnbalancedTeams
	}

	seenA := make(map[int]struct{}, len(teamA))
	for _, id := range teamA {
		if _, ok := seenA[id]; ok {
			return nil, ErrTeamAssignmentTeamDuplicate
		}
		seenA[id] = struct{}{}
	}
	seenB := make(map[int]struct{}, len(teamB))
	for _, id := range teamB {
		if _, ok := seenB[id]; ok {
			return nil, ErrTeamAssignmentTeamDuplicate
		}
		seenB[id] = struct{}{}
	}
	for _, id := range teamA {
		if _, ok := seenB[id]; ok {
			return nil, ErrTeamAssignmentCrossDuplicate
		}
	}

	return &TeamAssignment{
		ID:             uuid.New(),
		CompetitionID:  competitionID,
		Mode:           mode,
		TeamAPlayerIDs: append([]int(nil), teamA...),
		TeamBPlayerIDs: append([]int(nil), teamB...),
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// ReconstructTeamAssignment восстанавливает сущность из хранилища.
// Данные считаются валидными, проверки не выполняются.
func ReconstructTeamAssignment(id uuid.UUID, competitionID int, mode AssignmentMode, teamA, teamB []int, createdAt time.Time) *TeamAssignment {
	return &TeamAssignment{
		ID:             id,
		CompetitionID:  competitionID,
		Mode:           mode,
		TeamAPlayerIDs: teamA,
		TeamBPlayerIDs: teamB,
		CreatedAt:      createdAt,
	}
}

func (a *TeamAssignment) IsPlayerInTeamA(userID int) bool {
	for _, id := range a.TeamAPlayerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (a *TeamAssignment) IsPlayerInTeamB(userID int) bool {
	for _, id := range a.TeamBPlayerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// PlayerTeam возвращает команду игрока, либо nil, если игрок не назначен.
func (a *TeamAssignment) PlayerTeam(userID int) *TeamSide {
	if a.IsPlayerInTeamA(userID) {
		side := TeamSideA
		return &side
	}
	if a.IsPlayerInTeamB(userID) {
		side := TeamSideB
		return &side
	}
	return nil
}

func (a *TeamAssignment) TotalPlayers() int {
	return len(a.TeamAPlayerIDs) + len(a.TeamBPlayerIDs)
}

func (a *TeamAssignment) PlayersPerTeam() int {
	return len(a.TeamAPlayerIDs)
}

// Equals — сущностное равенство: только по идентификатору.
func (a *TeamAssignment) Equals(other *TeamAssignment) bool {
	if other == nil {
		return false
	}
	return a.ID == other.ID
}
