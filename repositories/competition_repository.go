package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kmalikov/competition-system/models"
	"github.com/lib/pq"
)

var (
	ErrCompetitionNotFound       = errors.New("competition not found")
	ErrCompetitionNameConflict   = errors.New("competition name conflict for this creator")
	ErrCompetitionInvalidCreator = errors.New("invalid creator reference")
	ErrCourseAssociationConflict = errors.New("golf course is already associated with this competition")
)

type ListCompetitionsFilter struct {
	CreatorID   *int
	Status      *models.CompetitionStatus
	CountryCode *string
	Limit       int
	Offset      int
}

type CompetitionRepository interface {
	Create(ctx context.Context, competition *models.Competition) error
	GetByID(ctx context.Context, id int) (*models.Competition, error)
	// GetByIDForUpdate блокирует строку соревнования (SELECT ... FOR UPDATE),
	// защищая от гонки двух одновременных назначений команд.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Competition, error)
	List(ctx context.Context, filter ListCompetitionsFilter) ([]models.Competition, error)
	Update(ctx context.Context, competition *models.Competition) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.CompetitionStatus) error
	UpdateLogoKey(ctx context.Context, competitionID int, logoKey *string) error
	ListGolfCourseAssociations(ctx context.Context, exec SQLExecutor, competitionID int) ([]models.CompetitionGolfCourse, error)
	AddGolfCourseAssociation(ctx context.Context, exec SQLExecutor, association *models.CompetitionGolfCourse) error
	GetCompetitionsForAutoStatusUpdate(ctx context.Context, exec SQLExecutor) ([]*models.Competition, error)
}

type postgresCompetitionRepository struct {
	db *sql.DB
}

func NewPostgresCompetitionRepository(db *sql.DB) CompetitionRepository {
	return &postgresCompetitionRepository{db: db}
}

func (r *postgresCompetitionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const competitionColumns = `
	id, name, description, creator_id, country_code,
	start_date, end_date, status, created_at, logo_key`

func scanCompetition(row interface{ Scan(dest ...interface{}) error }) (*models.Competition, error) {
	c := &models.Competition{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.CreatorID, &c.CountryCode,
		&c.StartDate, &c.EndDate, &c.Status, &c.CreatedAt, &c.LogoKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCompetitionRepository) Create(ctx context.Context, c *models.Competition) error {
	query := `
		INSERT INTO competitions (name, description, creator_id, country_code, start_date, end_date, status, logo_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.Name, c.Description, c.CreatorID, c.CountryCode, c.StartDate, c.EndDate, c.Status, c.LogoKey,
	).Scan(&c.ID, &c.CreatedAt)

	return r.handleCompetitionError(err)
}

func (r *postgresCompetitionRepository) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	query := `SELECT` + competitionColumns + ` FROM competitions WHERE id = $1`
	return scanCompetition(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresCompetitionRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Competition, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + competitionColumns + ` FROM competitions WHERE id = $1 FOR UPDATE`
	return scanCompetition(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresCompetitionRepository) List(ctx context.Context, filter ListCompetitionsFilter) ([]models.Competition, error) {
	query := `SELECT` + competitionColumns + ` FROM competitions WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.CreatorID != nil {
		query += fmt.Sprintf(" AND creator_id = $%d", argID)
		args = append(args, *filter.CreatorID)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.CountryCode != nil {
		query += fmt.Sprintf(" AND country_code = $%d", argID)
		args = append(args, *filter.CountryCode)
		argID++
	}

	query += " ORDER BY start_date DESC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	competitions := make([]models.Competition, 0)
	for rows.Next() {
		c, scanErr := scanCompetition(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		competitions = append(competitions, *c)
	}
	return competitions, rows.Err()
}

func (r *postgresCompetitionRepository) Update(ctx context.Context, c *models.Competition) error {
	query := `
		UPDATE competitions SET
			name = $1,
			description = $2,
			country_code = $3,
			start_date = $4,
			end_date = $5,
			status = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		c.Name, c.Description, c.CountryCode, c.StartDate, c.EndDate, c.Status, c.ID,
	)
	if err != nil {
		return r.handleCompetitionError(err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.CompetitionStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE competitions SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleCompetitionError(err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) UpdateLogoKey(ctx context.Context, competitionID int, logoKey *string) error {
	query := `UPDATE competitions SET logo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, competitionID)
	if err != nil {
		return fmt.Errorf("failed to update competition logo key: %w", err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) ListGolfCourseAssociations(ctx context.Context, exec SQLExecutor, competitionID int) ([]models.CompetitionGolfCourse, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT cgc.id, cgc.competition_id, cgc.golf_course_id, cgc.country_code, cgc.display_order, cgc.created_at
		FROM competition_golf_courses cgc
		WHERE cgc.competition_id = $1
		ORDER BY cgc.display_order ASC`

	rows, err := executor.QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list golf course associations for competition %d: %w", competitionID, err)
	}
	defer rows.Close()

	associations := make([]models.CompetitionGolfCourse, 0)
	for rows.Next() {
		var a models.CompetitionGolfCourse
		if scanErr := rows.Scan(&a.ID, &a.CompetitionID, &a.GolfCourseID, &a.CountryCode, &a.DisplayOrder, &a.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		associations = append(associations, a)
	}
	return associations, rows.Err()
}

func (r *postgresCompetitionRepository) AddGolfCourseAssociation(ctx context.Context, exec SQLExecutor, a *models.CompetitionGolfCourse) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO competition_golf_courses (competition_id, golf_course_id, country_code, display_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		a.CompetitionID, a.GolfCourseID, a.CountryCode, a.DisplayOrder,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "competition_golf_courses_competition_id_golf_course_id_key" {
				return ErrCourseAssociationConflict
			}
		}
		return fmt.Errorf("failed to associate golf course %d with competition %d: %w", a.GolfCourseID, a.CompetitionID, err)
	}
	return nil
}

// GetCompetitionsForAutoStatusUpdate выбирает соревнования, чей статус пора
// продвинуть по датам: active, когда дата старта уже наступила (пора
// закрывать регистрацию), и in_progress с прошедшей датой окончания.
func (r *postgresCompetitionRepository) GetCompetitionsForAutoStatusUpdate(ctx context.Context, exec SQLExecutor) ([]*models.Competition, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT` + competitionColumns + `
		FROM competitions
		WHERE (status = $1 AND start_date <= NOW())
		   OR (status = $2 AND end_date <= NOW())`

	rows, err := executor.QueryContext(ctx, query, models.CompetitionStatusActive, models.CompetitionStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to query competitions for auto status update: %w", err)
	}
	defer rows.Close()

	var competitions []*models.Competition
	for rows.Next() {
		c, scanErr := scanCompetition(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan competition for auto status update: %w", scanErr)
		}
		competitions = append(competitions, c)
	}
	return competitions, rows.Err()
}

func (r *postgresCompetitionRepository) handleCompetitionError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "competitions_creator_id_name_key" {
				return ErrCompetitionNameConflict
			}
		case "23503":
			if pqErr.Constraint == "competitions_creator_id_fkey" {
				return ErrCompetitionInvalidCreator
			}
		}
	}
	return err
}
