package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-heartbeat/internal/domain/model"
)

const (
	createStatusTable = `CREATE TABLE IF NOT EXISTS heartbeat_status (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	upsertStatus = `INSERT INTO heartbeat_status (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	selectStatus     = `SELECT value FROM heartbeat_status WHERE key = $1`
	selectStatusKeys = `SELECT key FROM heartbeat_status WHERE key LIKE $1 ESCAPE '\' ORDER BY key`
)

// SQLCStatusStore keeps the status keys in a single Postgres table.
type SQLCStatusStore struct {
	DB *sql.DB
}

var _ StatusStore = (*SQLCStatusStore)(nil)

func NewSQLCStatusStore(db *sql.DB) *SQLCStatusStore {
	return &SQLCStatusStore{DB: db}
}

// EnsureSchema creates the status table if needed.
func (s *SQLCStatusStore) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, createStatusTable)
	return err
}

func (s *SQLCStatusStore) Set(ctx context.Context, key, value string) error {
	_, err := s.DB.ExecContext(ctx, upsertStatus, key, value)
	return err
}

func (s *SQLCStatusStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, selectStatus, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLCStatusStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, selectStatusKeys, globToLike(pattern))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *SQLCStatusStore) Health() model.ComponentHealthStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		return model.ComponentHealthStatus{
			Status: model.StatusDown,
			Details: map[string]string{
				"message": err.Error(),
			},
		}
	}

	return model.ComponentHealthStatus{
		Status: model.StatusUp,
		Details: map[string]string{
			"message": string(model.StatusUp),
		},
	}
}

// globToLike converts a Redis-style glob ('*' and '?') into a LIKE pattern.
func globToLike(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteRune('%')
		case '?':
			b.WriteRune('_')
		case '%', '_', '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
