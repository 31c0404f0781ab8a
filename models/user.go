package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RolePlayer UserRole = "player"
)

// User представляет зарегистрированного игрока.
// Handicap — гандикап игрока по умолчанию; меньше — сильнее.
type User struct {
	ID                     int              `json:"id" db:"id"`
	FirstName              string           `json:"first_name" db:"first_name"`
	LastName               string           `json:"last_name" db:"last_name"`
	Nickname               *string          `json:"nickname,omitempty" db:"nickname"`
	Email                  string           `json:"email" db:"email"`
	PasswordHash           string           `json:"-" db:"password_hash"`
	Role                   UserRole         `json:"role" db:"role"`
	Handicap               *decimal.Decimal `json:"handicap,omitempty" db:"handicap"`
	EmailConfirmed         bool             `json:"email_confirmed" db:"email_confirmed"`
	EmailConfirmationToken *string          `json:"-" db:"email_confirmation_token"`
	CreatedAt              time.Time        `json:"created_at" db:"created_at"`
	LogoKey                *string          `json:"-" db:"logo_key"`
	LogoURL                *string          `json:"logo_url,omitempty" db:"-"`
}

// DisplayName возвращает никнейм, если задан, иначе имя и фамилию.
func (u *User) DisplayName() string {
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
