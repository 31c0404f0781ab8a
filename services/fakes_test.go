package services_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/kmalikov/competition-system/models"
	"github.com/kmalikov/competition-system/repositories"
	"github.com/shopspring/decimal"
)

// Фейки репозиториев. Встраивание интерфейса оставляет неиспользуемые
// методы паникующими: тест, который их заденет, упадёт явно.

// txExec — маркер исполнителя транзакции. Фейки записывают полученный
// exec, тесты сверяют его с маркером: чтения внутри WithinTx обязаны
// идти через транзакцию, а не мимо неё.
var txExec repositories.SQLExecutor = struct{ repositories.SQLExecutor }{}

type fakeUnitOfWork struct{}

func (f *fakeUnitOfWork) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(txExec)
}

type fakeCompetitionRepo struct {
	repositories.CompetitionRepository
	competition    *models.Competition
	autoCandidates []*models.Competition
	associations   []models.CompetitionGolfCourse
	savedAssocs    []models.CompetitionGolfCourse
	statusUpdates  map[int]models.CompetitionStatus
	created        []*models.Competition
	associationErr error
	listAssocExec  repositories.SQLExecutor
}

func (f *fakeCompetitionRepo) Create(ctx context.Context, competition *models.Competition) error {
	competition.ID = len(f.created) + 1
	f.created = append(f.created, competition)
	return nil
}

func (f *fakeCompetitionRepo) GetCompetitionsForAutoStatusUpdate(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Competition, error) {
	return f.autoCandidates, nil
}

func (f *fakeCompetitionRepo) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	if f.competition == nil || f.competition.ID != id {
		return nil, repositories.ErrCompetitionNotFound
	}
	return f.competition, nil
}

func (f *fakeCompetitionRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Competition, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCompetitionRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.CompetitionStatus) error {
	if f.statusUpdates == nil {
		f.statusUpdates = make(map[int]models.CompetitionStatus)
	}
	f.statusUpdates[id] = status
	return nil
}

func (f *fakeCompetitionRepo) ListGolfCourseAssociations(ctx context.Context, exec repositories.SQLExecutor, competitionID int) ([]models.CompetitionGolfCourse, error) {
	f.listAssocExec = exec
	return f.associations, nil
}

func (f *fakeCompetitionRepo) AddGolfCourseAssociation(ctx context.Context, exec repositories.SQLExecutor, association *models.CompetitionGolfCourse) error {
	if f.associationErr != nil {
		return f.associationErr
	}
	association.ID = len(f.savedAssocs) + 1
	f.savedAssocs = append(f.savedAssocs, *association)
	return nil
}

type fakeGolfCourseRepo struct {
	repositories.GolfCourseRepository
	courses map[int]*models.GolfCourse
}

func (f *fakeGolfCourseRepo) GetByID(ctx context.Context, id int) (*models.GolfCourse, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, repositories.ErrGolfCourseNotFound
	}
	return course, nil
}

type fakeEnrollmentRepo struct {
	repositories.EnrollmentRepository
	approved         []*models.Enrollment
	enrollment       *models.Enrollment
	created          []*models.Enrollment
	updated          map[int]models.EnrollmentStatus
	handicaps        map[int]*decimal.Decimal
	createErr        error
	statusUpdErrs    map[int]error
	findByStatusExec repositories.SQLExecutor
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if f.createErr != nil {
		return f.createErr
	}
	enrollment.ID = len(f.created) + 1
	f.created = append(f.created, enrollment)
	return nil
}

func (f *fakeEnrollmentRepo) FindByID(ctx context.Context, id int) (*models.Enrollment, error) {
	if f.enrollment == nil || f.enrollment.ID != id {
		return nil, repositories.ErrEnrollmentNotFound
	}
	return f.enrollment, nil
}

func (f *fakeEnrollmentRepo) FindByCompetitionAndStatus(ctx context.Context, exec repositories.SQLExecutor, competitionID int, status models.EnrollmentStatus) ([]*models.Enrollment, error) {
	f.findByStatusExec = exec
	if status != models.EnrollmentStatusApproved {
		return nil, nil
	}
	return f.approved, nil
}

func (f *fakeEnrollmentRepo) ListByCompetition(ctx context.Context, competitionID int) ([]*models.Enrollment, error) {
	return f.approved, nil
}

func (f *fakeEnrollmentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.EnrollmentStatus) error {
	if err := f.statusUpdErrs[id]; err != nil {
		return err
	}
	if f.updated == nil {
		f.updated = make(map[int]models.EnrollmentStatus)
	}
	f.updated[id] = status
	return nil
}

func (f *fakeEnrollmentRepo) UpdateCustomHandicap(ctx context.Context, id int, handicap *decimal.Decimal) error {
	if f.handicaps == nil {
		f.handicaps = make(map[int]*decimal.Decimal)
	}
	f.handicaps[id] = handicap
	return nil
}

type fakeUserRepo struct {
	repositories.UserRepository
	users map[int]*models.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

type fakeAssignmentRepo struct {
	repositories.TeamAssignmentRepository
	stored    *models.TeamAssignment
	deleted   []int
	createErr error
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, assignment *models.TeamAssignment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.stored = assignment
	return nil
}

func (f *fakeAssignmentRepo) DeleteByCompetition(ctx context.Context, exec repositories.SQLExecutor, competitionID int) error {
	f.deleted = append(f.deleted, competitionID)
	return nil
}

func (f *fakeAssignmentRepo) FindByCompetition(ctx context.Context, competitionID int) (*models.TeamAssignment, error) {
	if f.stored == nil || f.stored.CompetitionID != competitionID {
		return nil, repositories.ErrTeamAssignmentNotFound
	}
	return f.stored, nil
}

type fakeRoundRepo struct {
	repositories.RoundRepository
	rounds  []*models.Round
	updated map[int]models.RoundStatus
}

func (f *fakeRoundRepo) ListByCompetition(ctx context.Context, competitionID int) ([]*models.Round, error) {
	return f.rounds, nil
}

func (f *fakeRoundRepo) ListByCompetitionAndStatus(ctx context.Context, exec repositories.SQLExecutor, competitionID int, status models.RoundStatus) ([]*models.Round, error) {
	var out []*models.Round
	for _, r := range f.rounds {
		if r.CompetitionID == competitionID && r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRoundRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.RoundStatus) error {
	if f.updated == nil {
		f.updated = make(map[int]models.RoundStatus)
	}
	f.updated[id] = status
	return nil
}

type fakeBroadcaster struct {
	rooms    []string
	messages []interface{}
}

func (f *fakeBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	f.rooms = append(f.rooms, roomID)
	f.messages = append(f.messages, message)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
