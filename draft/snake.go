package draft

import (
	"context"
	"errors"
	"sort"

	"github.com/kmalikov/competition-system/models"
)

var (
	ErrNotEnoughPlayers = errors.New("at least 2 players are required to assign teams")
	ErrOddPlayerCount   = errors.New("an even number of players is required to assign teams")
)

// SnakeDraftAssigner делит чётный список игроков на две равные команды
// змейкой: после сортировки по гандикапу по возрастанию пики чередуются
// с разворотом каждые два пика (A,B,B,A,A,B,...), что выравнивает
// суммарную силу команд.
type SnakeDraftAssigner struct {
}

func NewSnakeDraftAssigner() TeamAssigner {
	return &SnakeDraftAssigner{}
}

func (a *SnakeDraftAssigner) GetName() string {
	return "SnakeDraft"
}

func (a *SnakeDraftAssigner) AssignTeams(ctx context.Context, params AssignTeamsParams) ([]DraftResult, error) {
	players := params.Players
	n := len(players)

	if n < 2 {
		return nil, ErrNotEnoughPlayers
	}
	if n%2 != 0 {
		return nil, ErrOddPlayerCount
	}

	firstPick := params.FirstPick
	if firstPick != models.TeamSideB {
		firstPick = models.TeamSideA
	}

	sorted := make([]PlayerForDraft, n)
	copy(sorted, players)
	// Стабильная сортировка: при равных гандикапах сохраняется порядок входа.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Handicap.LessThan(sorted[j].Handicap)
	})

	results := make([]DraftResult, 0, n)
	current := firstPick
	for pick := 1; pick <= n; pick++ {
		results = append(results, DraftResult{
			UserID:     sorted[pick-1].UserID,
			Team:       current,
			DraftOrder: pick,
		})
		// Разворот змейки: команда меняется после нечётных пиков,
		// после чётных та же команда пикует ещё раз.
		if pick%2 == 1 {
			current = otherTeam(current)
		}
	}

	return results, nil
}

func otherTeam(team models.TeamSide) models.TeamSide {
	if team == models.TeamSideA {
		return models.TeamSideB
	}
	return models.TeamSideA
}
