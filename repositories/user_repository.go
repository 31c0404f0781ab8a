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
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("email address is already in use")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByConfirmationToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateHandicap(ctx context.Context, userID int, handicap *decimal.Decimal) error
	ConfirmEmail(ctx context.Context, userID int) error
	UpdateLogoKey(ctx context.Context, userID int, logoKey *string) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `
	id, first_name, last_name, nickname, email, password_hash, role,
	handicap, email_confirmed, email_confirmation_token, created_at, logo_key`

func (r *postgresUserRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var handicap decimal.NullDecimal
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Nickname, &u.Email, &u.PasswordHash, &u.Role,
		&handicap, &u.EmailConfirmed, &u.EmailConfirmationToken, &u.CreatedAt, &u.LogoKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if handicap.Valid {
		u.Handicap = &handicap.Decimal
	}
	return u, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func (r *postgresUserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (first_name, last_name, nickname, email, password_hash, role, handicap, email_confirmation_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		u.FirstName, u.LastName, u.Nickname, u.Email, u.PasswordHash, u.Role, nullDecimal(u.Handicap), u.EmailConfirmationToken,
	).Scan(&u.ID, &u.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "users_email_key" {
				return ErrUserEmailConflict
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresUserRepository) GetByConfirmationToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email_confirmation_token = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, token))
}

func (r *postgresUserRepository) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users SET
			first_name = $1,
			last_name = $2,
			nickname = $3,
			handicap = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, u.FirstName, u.LastName, u.Nickname, nullDecimal(u.Handicap), u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", u.ID, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateHandicap(ctx context.Context, userID int, handicap *decimal.Decimal) error {
	query := `UPDATE users SET handicap = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, nullDecimal(handicap), userID)
	if err != nil {
		return fmt.Errorf("failed to update handicap for user %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) ConfirmEmail(ctx context.Context, userID int) error {
	query := `UPDATE users SET email_confirmed = TRUE, email_confirmation_token = NULL WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to confirm email for user %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateLogoKey(ctx context.Context, userID int, logoKey *string) error {
	query := `UPDATE users SET logo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, userID)
	if err != nil {
		return fmt.Errorf("failed to update user logo key: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}
