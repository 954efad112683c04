package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/store"
	"github.com/aussiebroadwan/passport/internal/auth/store/drivers/sqlite/gen"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string

	schemaVersion uint
}

var _ store.Store = (*Store)(nil)

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite has a single writer, and ":memory:" databases exist per
	// connection, so the pool holds exactly one.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(context.Background(), `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) AuditEvents() store.AuditEvents { return &auditEventsRepo{q: s.q} }

// Timestamps are stored as unix milliseconds so range queries compare
// integers rather than driver-formatted strings.
func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }
