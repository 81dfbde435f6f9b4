// Package postgres implements store.Store on top of a pgx connection pool.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"staff-tracker/internal/store"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// setClause renders "a=$1, b=$2" and returns the args and the next placeholder index.
func setClause(sets []store.Assignment) (string, []any, int) {
	parts := make([]string, 0, len(sets))
	args := make([]any, 0, len(sets)+1)
	idx := 1
	for _, a := range sets {
		parts = append(parts, fmt.Sprintf("%s=$%d", a.Column, idx))
		args = append(args, a.Value)
		idx++
	}
	return strings.Join(parts, ", "), args, idx
}

// mapErr surfaces the constraint violations callers care about.
func mapErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "employees_email_key" {
		return store.ErrDuplicateEmail
	}
	return err
}
