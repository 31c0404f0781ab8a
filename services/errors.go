package services

import (
	"errors"

	"github.com/kmalikov/competition-system/models"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурсы не найдены
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrGolfCourseNotFound  = errors.New("golf course not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrAssignmentNotFound  = errors.New("team assignment not found")

	// Ошибки авторизации
	ErrNotCompetitionCreator = errors.New("only the competition creator can perform this action")
	ErrForbiddenOperation    = errors.New("operation not allowed for the current user")

	// Нарушения статусной модели
	ErrCompetitionNotDraft    = errors.New("competition is not in draft status")
	ErrCompetitionNotClosed   = errors.New("competition is not closed for enrollment")
	ErrInvalidStateTransition = models.ErrCompetitionInvalidStatus
	ErrEnrollmentNotPending   = errors.New("enrollment is not pending")
	ErrEnrollmentNotApproved  = errors.New("enrollment is not approved")

	// Нарушения бизнес-правил назначения команд
	ErrInsufficientPlayers    = errors.New("at least 2 approved players are required to assign teams")
	ErrOddPlayerCount         = errors.New("an even number of approved players is required to assign teams")
	ErrPlayerNotEnrolled      = errors.New("player is not approved for this competition")
	ErrDuplicatePlayerInTeams = errors.New("player cannot be in both teams")

	// Нарушения бизнес-правил гольф-полей (определены на агрегате)
	ErrGolfCourseNotApproved     = models.ErrGolfCourseNotApproved
	ErrGolfCourseAlreadyAssigned = models.ErrGolfCourseAlreadyAssigned
	ErrIncompatibleCountry       = models.ErrGolfCourseCountryMismatch

	// Ошибки аутентификации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password is too short")

	// Конфликты
	ErrEnrollmentConflict = errors.New("user is already enrolled in this competition")
)
