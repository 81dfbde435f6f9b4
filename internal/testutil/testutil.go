// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"staff-tracker/internal/db"
	"staff-tracker/internal/live"
	"staff-tracker/internal/models"
	"staff-tracker/internal/store/sqlite"
)

// NewSQLiteStore opens a migrated SQLite store in a temp dir, closed at test end.
func NewSQLiteStore(t testing.TB) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "staff.db"))
	require.NoError(t, err)

	st := sqlite.New(conn)
	require.NoError(t, st.Migrate(ctx))
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// Publisher records published topics.
type Publisher struct {
	mu     sync.Mutex
	topics []live.Topic
}

func (p *Publisher) Publish(_ context.Context, topics ...live.Topic) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topics...)
}

func (p *Publisher) Topics() []live.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]live.Topic(nil), p.topics...)
}

// Ada returns the sample employee used across tests.
func Ada() models.CreateEmployeeDTO {
	return models.CreateEmployeeDTO{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@x.com",
		Department: "Engineering",
		Position:   "Engineer",
		Salary:     90000,
		HireDate:   "2020-01-01",
	}
}

func Ptr[T any](v T) *T { return &v }
