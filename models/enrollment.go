package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EnrollmentStatus представляет статусы заявки игрока, соответствующие ENUM в БД.
type EnrollmentStatus string

const (
	EnrollmentStatusRequested EnrollmentStatus = "requested"
	EnrollmentStatusInvited   EnrollmentStatus = "invited"
	EnrollmentStatusApproved  EnrollmentStatus = "approved"
	EnrollmentStatusRejected  EnrollmentStatus = "rejected"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
	EnrollmentStatusWithdrawn EnrollmentStatus = "withdrawn"
)

// enrollmentStatusTransitions задаёт допустимые переходы заявки.
// cancelled фиксирует выход ДО утверждения, withdrawn — выход ПОСЛЕ.
// Это разные терминальные статусы, объединять их нельзя.
var enrollmentStatusTransitions = map[EnrollmentStatus][]EnrollmentStatus{
	EnrollmentStatusRequested: {EnrollmentStatusApproved, EnrollmentStatusRejected, EnrollmentStatusCancelled},
	EnrollmentStatusInvited:   {EnrollmentStatusApproved, EnrollmentStatusRejected, EnrollmentStatusCancelled},
	EnrollmentStatusApproved:  {EnrollmentStatusWithdrawn},
	EnrollmentStatusRejected:  {},
	EnrollmentStatusCancelled: {},
	EnrollmentStatusWithdrawn: {},
}

func (s EnrollmentStatus) CanTransitionTo(next EnrollmentStatus) bool {
	for _, allowed := range enrollmentStatusTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

func (s EnrollmentStatus) IsPending() bool {
	return s == EnrollmentStatusRequested || s == EnrollmentStatusInvited
}

func (s EnrollmentStatus) IsActive() bool {
	return s == EnrollmentStatusApproved
}

func (s EnrollmentStatus) IsFinal() bool {
	return s == EnrollmentStatusRejected || s == EnrollmentStatusCancelled || s == EnrollmentStatusWithdrawn
}

func (s EnrollmentStatus) IsValid() bool {
	switch s {
	case EnrollmentStatusRequested, EnrollmentStatusInvited, EnrollmentStatusApproved,
		EnrollmentStatusRejected, EnrollmentStatusCancelled, EnrollmentStatusWithdrawn:
		return true
	}
	return false
}

// Enrollment представляет заявку игрока на участие в соревновании.
type Enrollment struct {
	ID             int              `json:"id" db:"id"`
	CompetitionID  int              `json:"competition_id" db:"competition_id"`
	UserID         int              `json:"user_id" db:"user_id"`
	Status         EnrollmentStatus `json:"status" db:"status"`
	CustomHandicap *decimal.Decimal `json:"custom_handicap,omitempty" db:"custom_handicap"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	User *User `json:"user,omitempty" db:"-"`
}
