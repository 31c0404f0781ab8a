package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kmalikov/competition-system/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	ErrEnrollmentNotFound           = errors.New("enrollment not found")
	ErrEnrollmentConflict           = errors.New("user is already enrolled in this competition")
	ErrEnrollmentUserInvalid        = errors.New("enrollment user conflict or invalid")
	ErrEnrollmentCompetitionInvalid = errors.New("enrollment competition conflict or invalid")
)

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindByID(ctx context.Context, id int) (*models.Enrollment, error)
	FindByCompetitionAndUser(ctx context.Context, competitionID, userID int) (*models.Enrollment, error)
	FindByCompetitionAndStatus(ctx context.Context, exec SQLExecutor, competitionID int, status models.EnrollmentStatus) ([]*models.Enrollment, error)
	ListByCompetition(ctx context.Context, competitionID int) ([]*models.Enrollment, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.EnrollmentStatus) error
	UpdateCustomHandicap(ctx context.Context, id int, handicap *decimal.Decimal) error
}

type postgresEnrollmentRepository struct {
	db *sql.DB
}

func NewPostgresEnrollmentRepository(db *sql.DB) EnrollmentRepository {
	return &postgresEnrollmentRepository{db: db}
}

func (r *postgresEnrollmentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEnrollmentRepository) Create(ctx context.Context, e *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (competition_id, user_id, status, custom_handicap)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		e.CompetitionID, e.UserID, e.Status, nullDecimal(e.CustomHandicap),
	).Scan(&e.ID, &e.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "enrollments_competition_id_user_id_key" {
					return ErrEnrollmentConflict
				}
			case "23503":
				switch pqErr.Constraint {
				case "enrollments_user_id_fkey":
					return ErrEnrollmentUserInvalid
				case "enrollments_competition_id_fkey":
					return ErrEnrollmentCompetitionInvalid
				}
			}
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *postgresEnrollmentRepository) scanEnrollmentRow(rows *sql.Rows) (*models.Enrollment, error) {
	e := &models.Enrollment{}
	var customHandicap decimal.NullDecimal
	var userHandicap decimal.NullDecimal
	u := &models.User{}
	err := rows.Scan(
		&e.ID, &e.CompetitionID, &e.UserID, &e.Status, &customHandicap, &e.CreatedAt,
		&u.ID, &u.FirstName, &u.LastName, &u.Nickname, &u.Email, &userHandicap,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan enrollment: %w", err)
	}
	if customHandicap.Valid {
		e.CustomHandicap = &customHandicap.Decimal
	}
	if userHandicap.Valid {
		u.Handicap = &userHandicap.Decimal
	}
	e.User = u
	return e, nil
}

const enrollmentJoinQuery = `
	SELECT e.id, e.competition_id, e.user_id, e.status, e.custom_handicap, e.created_at,
	       u.id, u.first_name, u.last_name, u.nickname, u.email, u.handicap
	FROM enrollments e
	JOIN users u ON u.id = e.user_id`

func (r *postgresEnrollmentRepository) FindByID(ctx context.Context, id int) (*models.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, enrollmentJoinQuery+` WHERE e.id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrEnrollmentNotFound
	}
	return r.scanEnrollmentRow(rows)
}

func (r *postgresEnrollmentRepository) FindByCompetitionAndUser(ctx context.Context, competitionID, userID int) (*models.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, enrollmentJoinQuery+` WHERE e.competition_id = $1 AND e.user_id = $2`, competitionID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrEnrollmentNotFound
	}
	return r.scanEnrollmentRow(rows)
}

func (r *postgresEnrollmentRepository) FindByCompetitionAndStatus(ctx context.Context, exec SQLExecutor, competitionID int, status models.EnrollmentStatus) ([]*models.Enrollment, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx,
		enrollmentJoinQuery+` WHERE e.competition_id = $1 AND e.status = $2 ORDER BY e.created_at ASC`,
		competitionID, status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments for competition %d: %w", competitionID, err)
	}
	defer rows.Close()

	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		e, scanErr := r.scanEnrollmentRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

func (r *postgresEnrollmentRepository) ListByCompetition(ctx context.Context, competitionID int) ([]*models.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx,
		enrollmentJoinQuery+` WHERE e.competition_id = $1 ORDER BY e.created_at ASC`,
		competitionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments for competition %d: %w", competitionID, err)
	}
	defer rows.Close()

	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		e, scanErr := r.scanEnrollmentRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

func (r *postgresEnrollmentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.EnrollmentStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE enrollments SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update enrollment %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrEnrollmentNotFound)
}

func (r *postgresEnrollmentRepository) UpdateCustomHandicap(ctx context.Context, id int, handicap *decimal.Decimal) error {
	query := `UPDATE enrollments SET custom_handicap = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, nullDecimal(handicap), id)
	if err != nil {
		return fmt.Errorf("failed to update enrollment %d custom handicap: %w", id, err)
	}
	return checkAffectedRows(result, ErrEnrollmentNotFound)
}
