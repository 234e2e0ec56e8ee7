package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcrobot/admin_backend/internal/domain"
	"github.com/arcrobot/admin_backend/internal/ranking"
)

func TestMapWriteError(t *testing.T) {
	conflict := fmt.Errorf("error inserting blog: %w", &pq.Error{Code: "23505", Constraint: "blog_order_key_unique"})
	assert.ErrorIs(t, mapWriteError(conflict), ranking.ErrRankConflict)
	assert.ErrorIs(t, mapWriteError(conflict), domain.ErrRankConflict)

	other := &pq.Error{Code: "23505", Constraint: "worker_pkey"}
	assert.NotErrorIs(t, mapWriteError(other), ranking.ErrRankConflict)

	fk := &pq.Error{Code: "23503", Constraint: "blog_order_key_unique"}
	assert.NotErrorIs(t, mapWriteError(fk), ranking.ErrRankConflict)

	plain := errors.New("boom")
	assert.Equal(t, plain, mapWriteError(plain))
}

func TestNotFound(t *testing.T) {
	err := notFound(fmt.Errorf("scan: %w", sql.ErrNoRows), "catalog", 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "catalog 4")

	assert.NotErrorIs(t, notFound(errors.New("boom"), "catalog", 4), domain.ErrNotFound)
}

type affected int64

func (a affected) LastInsertId() (int64, error) { return 0, nil }
func (a affected) RowsAffected() (int64, error) { return int64(a), nil }

func TestCheckAffected(t *testing.T) {
	assert.NoError(t, checkAffected(affected(1), "worker", 1))
	assert.ErrorIs(t, checkAffected(affected(0), "worker", 1), domain.ErrNotFound)
}

func TestRankTables(t *testing.T) {
	for _, scope := range RankedScopes() {
		table, err := rankTable(scope)
		require.NoError(t, err)
		assert.NotEmpty(t, table)
	}
	_, err := rankTable("sites")
	assert.Error(t, err)
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.True(t, sort.StringsAreSorted(names))
	assert.Equal(t, "migrations/001_schema.sql", names[0])

	for _, name := range names {
		body, err := migrationFiles.ReadFile(name)
		require.NoError(t, err)
		assert.NotEmpty(t, body, name)
	}
}

func TestRankMigrationsRenumberBeforeConstraint(t *testing.T) {
	for _, tt := range []struct {
		file  string
		table string
	}{
		{"migrations/002_blog_author_and_rank.sql", "blog"},
		{"migrations/003_catalog_fields_and_rank.sql", "catalog"},
	} {
		body, err := migrationFiles.ReadFile(tt.file)
		require.NoError(t, err)
		script := string(body)

		renumber := strings.Index(script, "ROW_NUMBER() OVER (ORDER BY order_key")
		constraint := strings.Index(script, "ADD CONSTRAINT "+tt.table+"_order_key_unique")
		require.NotEqual(t, -1, renumber, tt.file)
		require.NotEqual(t, -1, constraint, tt.file)
		assert.Less(t, renumber, constraint, "%s must renumber duplicate ranks first", tt.file)
	}
}

func TestCanonicalImageList(t *testing.T) {
	tests := []struct {
		raw       sql.NullString
		want      string
		rewritten bool
	}{
		{sql.NullString{}, `[]`, true},
		{sql.NullString{String: `[]`, Valid: true}, `[]`, false},
		{sql.NullString{String: `["a","b"]`, Valid: true}, `["a","b"]`, false},
		{sql.NullString{String: `{"a","b,c"}`, Valid: true}, `["a","b,c"]`, true},
		{sql.NullString{String: `{}`, Valid: true}, `[]`, true},
		{sql.NullString{String: `[ "a" ]`, Valid: true}, `["a"]`, true},
	}
	for _, tt := range tests {
		got, rewritten := canonicalImageList(tt.raw)
		assert.Equal(t, tt.want, got, "raw %+v", tt.raw)
		assert.Equal(t, tt.rewritten, rewritten, "raw %+v", tt.raw)
	}
}
