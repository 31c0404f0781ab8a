package models

import (
	"errors"
	"time"
)

// Ошибки бизнес-правил агрегата Competition. Сервисный слой пробрасывает их
// наверх без изменений, маппинг на HTTP-статусы делает слой handlers.
var (
	ErrCompetitionNotModifiable    = errors.New("competition no longer accepts modifications")
	ErrCompetitionInvalidStatus    = errors.New("invalid competition status transition")
	ErrGolfCourseNotApproved       = errors.New("golf course is not approved")
	ErrGolfCourseAlreadyAssigned   = errors.New("golf course is already assigned to this competition")
	ErrGolfCourseCountryMismatch   = errors.New("golf course country is not compatible with the competition")
	ErrCompetitionNotOwnedByCaller = errors.New("only the competition creator can perform this action")
)

// CompetitionGolfCourse — связь соревнования с гольф-полем.
// DisplayOrder задаёт порядок показа полей, нумерация с единицы.
type CompetitionGolfCourse struct {
	ID            int       `json:"id" db:"id"`
	CompetitionID int       `json:"competition_id" db:"competition_id"`
	GolfCourseID  int       `json:"golf_course_id" db:"golf_course_id"`
	CountryCode   string    `json:"country_code" db:"country_code"`
	DisplayOrder  int       `json:"display_order" db:"display_order"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	GolfCourse *GolfCourse `json:"golf_course,omitempty" db:"-"`
}

// Competition — агрегат соревнования в формате Кубка Райдера.
// Все мутации, затрагивающие инварианты, проходят через его методы.
type Competition struct {
	ID          int               `json:"id" db:"id"`
	Name        string            `json:"name" db:"name"`
	Description *string           `json:"description,omitempty" db:"description"`
	CreatorID   int               `json:"creator_id" db:"creator_id"`
	CountryCode string            `json:"country_code" db:"country_code"`
	StartDate   time.Time         `json:"start_date" db:"start_date"`
	EndDate     time.Time         `json:"end_date" db:"end_date"`
	Status      CompetitionStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	LogoKey     *string           `json:"-" db:"logo_key"`
	LogoURL     *string           `json:"logo_url,omitempty" db:"-"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Creator     *User                   `json:"creator,omitempty" db:"-"`
	GolfCourses []CompetitionGolfCourse `json:"golf_courses,omitempty" db:"-"`
	Enrollments []Enrollment            `json:"enrollments,omitempty" db:"-"`
	Rounds      []Round                 `json:"rounds,omitempty" db:"-"`
}

// IsCreator сообщает, является ли пользователь создателем соревнования.
func (c *Competition) IsCreator(userID int) bool {
	return c.CreatorID == userID
}

// TransitionTo переводит соревнование в новый статус, сверяясь с таблицей
// допустимых переходов. Возвращает доменное событие для публикации после коммита.
func (c *Competition) TransitionTo(next CompetitionStatus) (DomainEvent, error) {
	if !next.IsValid() {
		return DomainEvent{}, ErrCompetitionInvalidStatus
	}
	if !c.Status.CanTransitionTo(next) {
		return DomainEvent{}, ErrCompetitionInvalidStatus
	}
	previous := c.Status
	c.Status = next
	return NewDomainEvent(EventCompetitionStatusChanged, c.ID, map[string]interface{}{
		"from": previous,
		"to":   next,
	}), nil
}

// AddGolfCourse присоединяет утверждённое гольф-поле к соревнованию.
// Разрешено только в статусе draft; поле должно быть approved, совпадать
// по стране и не быть привязанным ранее. DisplayOrder выдаётся следующим
// по порядку.
func (c *Competition) AddGolfCourse(course *GolfCourse) (CompetitionGolfCourse, DomainEvent, error) {
	if !c.Status.AllowsModifications() {
		return CompetitionGolfCourse{}, DomainEvent{}, ErrCompetitionNotModifiable
	}
	if !course.IsApproved() {
		return CompetitionGolfCourse{}, DomainEvent{}, ErrGolfCourseNotApproved
	}
	if !c.isCountryCompatible(course.CountryCode) {
		return CompetitionGolfCourse{}, DomainEvent{}, ErrGolfCourseCountryMismatch
	}
	for _, assigned := range c.GolfCourses {
		if assigned.GolfCourseID == course.ID {
			return CompetitionGolfCourse{}, DomainEvent{}, ErrGolfCourseAlreadyAssigned
		}
	}

	association := CompetitionGolfCourse{
		CompetitionID: c.ID,
		GolfCourseID:  course.ID,
		CountryCode:   course.CountryCode,
		DisplayOrder:  len(c.GolfCourses) + 1,
	}
	c.GolfCourses = append(c.GolfCourses, association)

	event := NewDomainEvent(EventGolfCourseAdded, c.ID, map[string]interface{}{
		"golf_course_id": course.ID,
		"display_order":  association.DisplayOrder,
	})
	return association, event, nil
}

// isCountryCompatible — поле совместимо, если страна совпадает со страной
// соревнования. Таблицы соседних стран нет, правило строгого равенства.
func (c *Competition) isCountryCompatible(countryCode string) bool {
	return countryCode == c.CountryCode
}
