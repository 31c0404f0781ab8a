package models

// CompetitionStatus представляет статусы соревнования, соответствующие ENUM в БД.
type CompetitionStatus string

const (
	CompetitionStatusDraft      CompetitionStatus = "draft"
	CompetitionStatusActive     CompetitionStatus = "active"
	CompetitionStatusClosed     CompetitionStatus = "closed"
	CompetitionStatusInProgress CompetitionStatus = "in_progress"
	CompetitionStatusCompleted  CompetitionStatus = "completed"
	CompetitionStatusCancelled  CompetitionStatus = "cancelled"
)

// competitionStatusTransitions задаёт допустимые переходы между статусами.
// completed и cancelled — терминальные, из них переходов нет.
var competitionStatusTransitions = map[CompetitionStatus][]CompetitionStatus{
	CompetitionStatusDraft:      {CompetitionStatusActive, CompetitionStatusCancelled},
	CompetitionStatusActive:     {CompetitionStatusClosed, CompetitionStatusCancelled},
	CompetitionStatusClosed:     {CompetitionStatusInProgress, CompetitionStatusCancelled},
	CompetitionStatusInProgress: {CompetitionStatusCompleted, CompetitionStatusCancelled},
	CompetitionStatusCompleted:  {},
	CompetitionStatusCancelled:  {},
}

// CanTransitionTo сообщает, допустим ли переход из текущего статуса в next.
func (s CompetitionStatus) CanTransitionTo(next CompetitionStatus) bool {
	for _, allowed := range competitionStatusTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

func (s CompetitionStatus) IsActive() bool {
	return s == CompetitionStatusActive
}

// IsFinal — терминальный статус, дальнейшие переходы запрещены.
func (s CompetitionStatus) IsFinal() bool {
	return s == CompetitionStatusCompleted || s == CompetitionStatusCancelled
}

// AllowsModifications — пока соревнование в черновике, состав полей
// и гольф-поля ещё можно менять.
func (s CompetitionStatus) AllowsModifications() bool {
	return s == CompetitionStatusDraft
}

func (s CompetitionStatus) IsValid() bool {
	switch s {
	case CompetitionStatusDraft, CompetitionStatusActive, CompetitionStatusClosed,
		CompetitionStatusInProgress, CompetitionStatusCompleted, CompetitionStatusCancelled:
		return true
	}
	return false
}
