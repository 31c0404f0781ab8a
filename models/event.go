package models

import "time"

// DomainEventType идентифицирует тип доменного события.
type DomainEventType string

const (
	EventCompetitionStatusChanged DomainEventType = "COMPETITION_STATUS_CHANGED"
	EventGolfCourseAdded          DomainEventType = "GOLF_COURSE_ADDED"
	EventEnrollmentApproved       DomainEventType = "ENROLLMENT_APPROVED"
	EventTeamsAssigned            DomainEventType = "TEAMS_ASSIGNED"
)

// DomainEvent — событие, возвращаемое мутациями агрегатов явным списком.
// Сервисы публикуют накопленные события (websocket, email) только после
// успешного коммита транзакции, само событие не несёт побочных эффектов.
type DomainEvent struct {
	Type          DomainEventType `json:"type"`
	CompetitionID int             `json:"competition_id"`
	Payload       interface{}     `json:"payload,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func NewDomainEvent(eventType DomainEventType, competitionID int, payload interface{}) DomainEvent {
	return DomainEvent{
		Type:          eventType,
		CompetitionID: competitionID,
		Payload:       payload,
		OccurredAt:    time.Now().UTC(),
	}
}
