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
	ErrGolfCourseNotFound     = errors.New("golf course not found")
	ErrGolfCourseNameConflict = errors.New("golf course with this name already exists in the country")
)

type ListGolfCoursesFilter struct {
	CountryCode    *string
	ApprovalStatus *models.GolfCourseApprovalStatus
	Limit          int
	Offset         int
}

type GolfCourseRepository interface {
	Create(ctx context.Context, course *models.GolfCourse) error
	GetByID(ctx context.Context, id int) (*models.GolfCourse, error)
	List(ctx context.Context, filter ListGolfCoursesFilter) ([]models.GolfCourse, error)
	UpdateApprovalStatus(ctx context.Context, id int, status models.GolfCourseApprovalStatus) error
	UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error
}

type postgresGolfCourseRepository struct {
	db *sql.DB
}

func NewPostgresGolfCourseRepository(db *sql.DB) GolfCourseRepository {
	return &postgresGolfCourseRepository{db: db}
}

const golfCourseColumns = `id, name, country_code, city, holes_count, approval_status, submitted_by, created_at, photo_key`

func scanGolfCourse(row interface{ Scan(dest ...interface{}) error }) (*models.GolfCourse, error) {
	g := &models.GolfCourse{}
	err := row.Scan(
		&g.ID, &g.Name, &g.CountryCode, &g.City, &g.HolesCount,
		&g.ApprovalStatus, &g.SubmittedBy, &g.CreatedAt, &g.PhotoKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGolfCourseNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *postgresGolfCourseRepository) Create(ctx context.Context, g *models.GolfCourse) error {
	query := `
		INSERT INTO golf_courses (name, country_code, city, holes_count, approval_status, submitted_by, photo_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		g.Name, g.CountryCode, g.City, g.HolesCount, g.ApprovalStatus, g.SubmittedBy, g.PhotoKey,
	).Scan(&g.ID, &g.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "golf_courses_country_code_name_key" {
				return ErrGolfCourseNameConflict
			}
		}
		return fmt.Errorf("failed to create golf course: %w", err)
	}
	return nil
}

func (r *postgresGolfCourseRepository) GetByID(ctx context.Context, id int) (*models.GolfCourse, error) {
	query := `SELECT ` + golfCourseColumns + ` FROM golf_courses WHERE id = $1`
	return scanGolfCourse(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresGolfCourseRepository) List(ctx context.Context, filter ListGolfCoursesFilter) ([]models.GolfCourse, error) {
	query := `SELECT ` + golfCourseColumns + ` FROM golf_courses WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.CountryCode != nil {
		query += fmt.Sprintf(" AND country_code = $%d", argID)
		args = append(args, *filter.CountryCode)
		argID++
	}
	if filter.ApprovalStatus != nil {
		query += fmt.Sprintf(" AND approval_status = $%d", argID)
		args = append(args, *filter.ApprovalStatus)
		argID++
	}

	query += " ORDER BY name ASC"

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

	courses := make([]models.GolfCourse, 0)
	for rows.Next() {
		g, scanErr := scanGolfCourse(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		courses = append(courses, *g)
	}
	return courses, rows.Err()
}

func (r *postgresGolfCourseRepository) UpdateApprovalStatus(ctx context.Context, id int, status models.GolfCourseApprovalStatus) error {
	query := `UPDATE golf_courses SET approval_status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update golf course %d approval status: %w", id, err)
	}
	return checkAffectedRows(result, ErrGolfCourseNotFound)
}

func (r *postgresGolfCourseRepository) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	query := `UPDATE golf_courses SET photo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, photoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update golf course photo key: %w", err)
	}
	return checkAffectedRows(result, ErrGolfCourseNotFound)
}
