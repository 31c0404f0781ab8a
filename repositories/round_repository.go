package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kmalikov/competition-system/models"
)

var ErrRoundNotFound = errors.New("round not found")

type RoundRepository interface {
	Create(ctx context.Context, round *models.Round) error
	ListByCompetition(ctx context.Context, competitionID int) ([]*models.Round, error)
	ListByCompetitionAndStatus(ctx context.Context, exec SQLExecutor, competitionID int, status models.RoundStatus) ([]*models.Round, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.RoundStatus) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const roundColumns = `id, competition_id, round_number, golf_course_id, scheduled_date, status, created_at`

func (r *postgresRoundRepository) Create(ctx context.Context, round *models.Round) error {
	query := `
		INSERT INTO rounds (competition_id, round_number, golf_course_id, scheduled_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		round.CompetitionID, round.RoundNumber, round.GolfCourseID, round.ScheduledDate, round.Status,
	).Scan(&round.ID, &round.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create round for competition %d: %w", round.CompetitionID, err)
	}
	return nil
}

func (r *postgresRoundRepository) ListByCompetition(ctx context.Context, competitionID int) ([]*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE competition_id = $1 ORDER BY round_number ASC`
	return r.queryRounds(ctx, r.db, query, competitionID)
}

func (r *postgresRoundRepository) ListByCompetitionAndStatus(ctx context.Context, exec SQLExecutor, competitionID int, status models.RoundStatus) ([]*models.Round, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE competition_id = $1 AND status = $2 ORDER BY round_number ASC`
	return r.queryRounds(ctx, executor, query, competitionID, status)
}

func (r *postgresRoundRepository) queryRounds(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.Round, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		var round models.Round
		if scanErr := rows.Scan(
			&round.ID, &round.CompetitionID, &round.RoundNumber,
			&round.GolfCourseID, &round.ScheduledDate, &round.Status, &round.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan round: %w", scanErr)
		}
		rounds = append(rounds, &round)
	}
	return rounds, rows.Err()
}

func (r *postgresRoundRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.RoundStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE rounds SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update round %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}
