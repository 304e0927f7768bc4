package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, so repository
// methods can join a caller's transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxManager runs a function inside one database transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, exec SQLExecutor) error) error
}

type sqlTxManager struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewTxManager(db *sql.DB, logger *slog.Logger) TxManager {
	return &sqlTxManager{db: db, logger: logger}
}

// WithinTx commits when fn returns nil and rolls back on error or panic.
func (m *sqlTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, exec SQLExecutor) error) (txErr error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				m.logger.ErrorContext(ctx, "rollback failed", "error", rbErr, "cause", txErr)
				txErr = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(ctx, tx)
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// pqCode returns the SQLSTATE of a lib/pq error, or "".
func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

const (
	pqUniqueViolation     pq.ErrorCode = "23505"
	pqForeignKeyViolation pq.ErrorCode = "23503"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}
