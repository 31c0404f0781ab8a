package models

import "time"

// RoundStatus отражает готовность раунда к проведению матчей.
type RoundStatus string

const (
	RoundStatusPendingTeams   RoundStatus = "pending_teams"
	RoundStatusPendingMatches RoundStatus = "pending_matches"
	RoundStatusInProgress     RoundStatus = "in_progress"
	RoundStatusCompleted      RoundStatus = "completed"
)

// Round — игровой день соревнования. Составление пар и счёт по лункам
// ведёт отдельная подсистема, здесь раунд нужен только как получатель
// перехода pending_teams -> pending_matches после назначения команд.
type Round struct {
	ID            int         `json:"id" db:"id"`
	CompetitionID int         `json:"competition_id" db:"competition_id"`
	RoundNumber   int         `json:"round_number" db:"round_number"`
	GolfCourseID  *int        `json:"golf_course_id,omitempty" db:"golf_course_id"`
	ScheduledDate *time.Time  `json:"scheduled_date,omitempty" db:"scheduled_date"`
	Status        RoundStatus `json:"status" db:"status"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}

// MarkTeamsAssigned переводит раунд в ожидание матчей. Переход применяется
// только из pending_teams, остальные статусы не трогаем.
func (r *Round) MarkTeamsAssigned() bool {
	if r.Status != RoundStatusPendingTeams {
		return false
	}
	r.Status = RoundStatusPendingMatches
	return true
}
