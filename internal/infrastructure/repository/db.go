package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/arcrobot/admin_backend/internal/domain"
	"github.com/arcrobot/admin_backend/internal/ranking"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// conn returns the transaction carried by ctx, or db.
func conn(ctx context.Context, db *sql.DB) execer {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

type scanner interface {
	Scan(dest ...any) error
}

// TxManager opens transactions and hands them to repositories through the
// context. It implements ranking.Transactor.
type TxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx runs fn in a transaction. Nested calls join the outer one. The
// transaction is rolled back unless fn returns nil, including when fn panics.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	// no-op after Commit
	defer func() { _ = tx.Rollback() }()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapWriteError(fmt.Errorf("error committing transaction: %w", err))
	}
	return nil
}

// InScope runs fn in a transaction holding the advisory lock of scope, so
// concurrent reorders of one collection are serialized.
func (m *TxManager) InScope(ctx context.Context, scope ranking.Scope, fn func(ctx context.Context) error) error {
	return m.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := conn(ctx, m.db).ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "rank:"+string(scope)); err != nil {
			return fmt.Errorf("error locking %s ranks: %w", scope, err)
		}
		return fn(ctx)
	})
}

const uniqueViolation = "23505"

// mapWriteError turns a violation of an order_key unique constraint into
// ranking.ErrRankConflict.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && strings.HasSuffix(pqErr.Constraint, "_order_key_unique") {
		return fmt.Errorf("%w: %v", ranking.ErrRankConflict, err)
	}
	return err
}

// notFound maps sql.ErrNoRows to domain.ErrNotFound.
func notFound(err error, what string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return err
}

func checkAffected(result sql.Result, what string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return nil
}
