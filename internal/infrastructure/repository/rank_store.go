package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arcrobot/admin_backend/internal/ranking"
)

var rankTables = map[ranking.Scope]string{
	ranking.ScopeBlog:    "blog",
	ranking.ScopeCatalog: "catalog",
}

// RankedScopes lists every scope backed by a table.
func RankedScopes() []ranking.Scope {
	return []ranking.Scope{ranking.ScopeBlog, ranking.ScopeCatalog}
}

// RankStore implements ranking.Store over the order_key column.
type RankStore struct {
	db *sql.DB
}

func NewRankStore(db *sql.DB) *RankStore {
	return &RankStore{db: db}
}

func rankTable(scope ranking.Scope) (string, error) {
	table, ok := rankTables[scope]
	if !ok {
		return "", fmt.Errorf("unknown rank scope %q", scope)
	}
	return table, nil
}

func (s *RankStore) CurrentRank(ctx context.Context, scope ranking.Scope, id int64) (int, error) {
	table, err := rankTable(scope)
	if err != nil {
		return 0, err
	}
	var rank int
	query := fmt.Sprintf(`SELECT COALESCE(order_key, 0) FROM %s WHERE id = $1 FOR UPDATE`, table)
	if err := conn(ctx, s.db).QueryRowContext(ctx, query, id).Scan(&rank); err != nil {
		return 0, notFound(err, string(scope), id)
	}
	return rank, nil
}

func (s *RankStore) MaxRank(ctx context.Context, scope ranking.Scope) (int, error) {
	table, err := rankTable(scope)
	if err != nil {
		return 0, err
	}
	var last int
	query := fmt.Sprintf(`SELECT COALESCE(MAX(order_key), 0) FROM %s`, table)
	if err := conn(ctx, s.db).QueryRowContext(ctx, query).Scan(&last); err != nil {
		return 0, fmt.Errorf("error querying max order_key: %w", err)
	}
	return last, nil
}

func (s *RankStore) ShiftRanks(ctx context.Context, scope ranking.Scope, span ranking.Span, delta int, exclude int64) error {
	table, err := rankTable(scope)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET order_key = order_key + $1
		WHERE order_key >= $2
		  AND ($3 = 0 OR order_key <= $3)
		  AND id <> $4`, table)
	if _, err := conn(ctx, s.db).ExecContext(ctx, query, delta, span.Min, span.Max, exclude); err != nil {
		return mapWriteError(fmt.Errorf("error shifting order_key: %w", err))
	}
	return nil
}

func (s *RankStore) DuplicateRanks(ctx context.Context, scope ranking.Scope) ([]int, error) {
	table, err := rankTable(scope)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT order_key
		FROM %s
		WHERE order_key IS NOT NULL
		GROUP BY order_key
		HAVING COUNT(*) > 1
		ORDER BY order_key`, table)
	return s.queryInts(ctx, query)
}

func (s *RankStore) Ranks(ctx context.Context, scope ranking.Scope) ([]int, error) {
	table, err := rankTable(scope)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT order_key FROM %s WHERE order_key IS NOT NULL ORDER BY order_key`, table)
	return s.queryInts(ctx, query)
}

func (s *RankStore) queryInts(ctx context.Context, query string) ([]int, error) {
	rows, err := conn(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying order_key: %w", err)
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("error scanning order_key: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order_key: %w", err)
	}
	return out, nil
}
