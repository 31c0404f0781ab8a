package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kmalikov/competition-system/repositories"
)

// UnitOfWork очерчивает транзакционную границу use case: все репозиторные
// вызовы внутри fn выполняются через один SQLExecutor и коммитятся атомарно.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

type sqlUnitOfWork struct {
	db *sql.DB
}

func NewSQLUnitOfWork(db *sql.DB) UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

// WithinTx открывает транзакцию явно: Commit только при чистом выходе fn,
// Rollback при ошибке или панике.
func (u *sqlUnitOfWork) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", err, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	err = fn(tx)
	return err
}
