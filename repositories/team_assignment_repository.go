package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kmalikov/competition-system/models"
	"github.com/lib/pq"
)

var (
	ErrTeamAssignmentNotFound           = errors.New("team assignment not found")
	ErrTeamAssignmentCompetitionInvalid = errors.New("team assignment competition conflict or invalid")
)

type TeamAssignmentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, assignment *models.TeamAssignment) error
	FindByCompetition(ctx context.Context, competitionID int) (*models.TeamAssignment, error)
	DeleteByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) error
}

type postgresTeamAssignmentRepository struct {
	db *sql.DB
}

func NewPostgresTeamAssignmentRepository(db *sql.DB) TeamAssignmentRepository {
	return &postgresTeamAssignmentRepository{db: db}
}

func (r *postgresTeamAssignmentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Состав команд хранится массивами integer[], порядок элементов — порядок пиков.
func (r *postgresTeamAssignmentRepository) Create(ctx context.Context, exec SQLExecutor, a *models.TeamAssignment) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO team_assignments (id, competition_id, mode, team_a_players, team_b_players, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := executor.ExecContext(ctx, query,
		a.ID, a.CompetitionID, a.Mode,
		pq.Array(toInt64Slice(a.TeamAPlayerIDs)), pq.Array(toInt64Slice(a.TeamBPlayerIDs)),
		a.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "team_assignments_competition_id_fkey" {
				return ErrTeamAssignmentCompetitionInvalid
			}
		}
		return fmt.Errorf("failed to create team assignment for competition %d: %w", a.CompetitionID, err)
	}
	return nil
}

func (r *postgresTeamAssignmentRepository) FindByCompetition(ctx context.Context, competitionID int) (*models.TeamAssignment, error) {
	query := `
		SELECT id, competition_id, mode, team_a_players, team_b_players, created_at
		FROM team_assignments
		WHERE competition_id = $1`

	var (
		id        uuid.UUID
		compID    int
		mode      models.AssignmentMode
		teamA     pq.Int64Array
		teamB     pq.Int64Array
		createdAt time.Time
	)
	err := r.db.QueryRowContext(ctx, query, competitionID).Scan(&id, &compID, &mode, &teamA, &teamB, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to find team assignment for competition %d: %w", competitionID, err)
	}

	// Путь восстановления: данные в БД уже прошли валидацию при создании.
	return models.ReconstructTeamAssignment(id, compID, mode, toIntSlice(teamA), toIntSlice(teamB), createdAt), nil
}

func (r *postgresTeamAssignmentRepository) DeleteByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM team_assignments WHERE competition_id = $1`
	_, err := executor.ExecContext(ctx, query, competitionID)
	if err != nil {
		return fmt.Errorf("failed to delete team assignment for competition %d: %w", competitionID, err)
	}
	return nil
}

func toInt64Slice(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func toIntSlice(ids pq.Int64Array) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
