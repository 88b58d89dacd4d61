package sessionstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/samutthan/internal/domain/wizard"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS wizard_sessions (
	id         TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore persists sessions in Postgres using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, ttl: ttl}
}

// EnsureSchema creates the sessions table when missing.
func (r *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schemaSQL)
	return err
}

// Create inserts a new session row. An expired row with the same id is replaced.
func (r *PostgresStore) Create(ctx context.Context, session wizard.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO wizard_sessions (id, payload, expires_at, updated_at)
		VALUES ($1, $2::jsonb, $3, NOW())
		ON CONFLICT (id) DO UPDATE
			SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at, updated_at = NOW()
			WHERE wizard_sessions.expires_at <= NOW()
	`, session.ID, string(payload), r.expiry())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return wizard.ErrSessionExists
	}
	return nil
}

// Get fetches a live session.
func (r *PostgresStore) Get(ctx context.Context, id string) (wizard.Session, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT payload::text
		FROM wizard_sessions
		WHERE id = $1 AND expires_at > NOW()
		LIMIT 1
	`, id)
	if err != nil {
		return wizard.Session{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return wizard.Session{}, false, rows.Err()
	}
	var payload string
	if err := rows.Scan(&payload); err != nil {
		return wizard.Session{}, false, err
	}
	session, ok, err := decodeSession([]byte(payload))
	if err != nil {
		return wizard.Session{}, false, err
	}
	return session, ok, rows.Err()
}

// Save upserts the session and refreshes its expiry.
func (r *PostgresStore) Save(ctx context.Context, session wizard.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO wizard_sessions (id, payload, expires_at, updated_at)
		VALUES ($1, $2::jsonb, $3, NOW())
		ON CONFLICT (id) DO UPDATE
			SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at, updated_at = NOW()
	`, session.ID, string(payload), r.expiry())
	return err
}

// Delete removes the session row.
func (r *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM wizard_sessions WHERE id = $1`, id)
	return err
}

func (r *PostgresStore) expiry() time.Time {
	return time.Now().Add(r.ttl)
}

var _ wizard.Store = (*PostgresStore)(nil)
