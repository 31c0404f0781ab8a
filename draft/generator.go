package draft

import (
	"context"
	"sort"

	"github.com/kmalikov/competition-system/models"
	"github.com/shopspring/decimal"
)

// PlayerForDraft — транзиентное представление игрока для одного запуска
// жеребьёвки. Собирается из утверждённых заявок, не сохраняется.
type PlayerForDraft struct {
	UserID      int
	Handicap    decimal.Decimal
	DisplayName string
}

// DraftResult — одна позиция жеребьёвки: игрок, команда и номер пика
// (нумерация с единицы, по отсортированному списку).
type DraftResult struct {
	UserID     int             `json:"user_id"`
	Team       models.TeamSide `json:"team"`
	DraftOrder int             `json:"draft_order"`
}

type AssignTeamsParams struct {
	Players   []PlayerForDraft
	FirstPick models.TeamSide
}

type TeamAssigner interface {
	AssignTeams(ctx context.Context, params AssignTeamsParams) ([]DraftResult, error)

	GetName() string
}

// ValidateTeamBalance проверяет, что обе команды получили поровну игроков.
func ValidateTeamBalance(results []DraftResult) bool {
	countA, countB := 0, 0
	for _, r := range results {
		switch r.Team {
		case models.TeamSideA:
			countA++
		case models.TeamSideB:
			countB++
		}
	}
	return countA == countB
}

// TeamPlayers возвращает идентификаторы игроков команды в порядке пиков.
func TeamPlayers(results []DraftResult, team models.TeamSide) []int {
	filtered := make([]DraftResult, 0, len(results))
	for _, r := range results {
		if r.Team == team {
			filtered = append(filtered, r)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].DraftOrder < filtered[j].DraftOrder
	})
	ids := make([]int, len(filtered))
	for i, r := range filtered {
		ids[i] = r.UserID
	}
	return ids
}
