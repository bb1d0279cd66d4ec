package configstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the agent_voices table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS agent_voices (
    agent_id   TEXT PRIMARY KEY,
    voice_id   TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// PostgresStore is a [Store] backed by a PostgreSQL database, for hosts that
// share voice bindings across processes. Set is an upsert, so the
// write-through contract holds: when a mutating call returns, the row already
// reflects the change.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a PostgresStore that uses the given connection or
// pool. The caller is responsible for calling [PostgresStore.Migrate] to
// ensure the schema exists before issuing queries.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes the [Schema] DDL against the database, creating the
// agent_voices table if it does not already exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("configstore: migrate: %w", err)
	}
	return nil
}

// Get implements [Store.Get].
func (s *PostgresStore) Get(ctx context.Context, agentID string) (AgentVoice, error) {
	const query = `SELECT voice_id FROM agent_voices WHERE agent_id = $1`

	var b AgentVoice
	err := s.db.QueryRow(ctx, query, agentID).Scan(&b.VoiceID)
	if errors.Is(err, pgx.ErrNoRows) {
		return AgentVoice{}, ErrNotFound
	}
	if err != nil {
		return AgentVoice{}, fmt.Errorf("configstore: get %q: %w", agentID, err)
	}
	return b, nil
}

// Set implements [Store.Set].
func (s *PostgresStore) Set(ctx context.Context, agentID string, binding AgentVoice) error {
	const query = `
		INSERT INTO agent_voices (agent_id, voice_id)
		VALUES ($1, $2)
		ON CONFLICT (agent_id)
		DO UPDATE SET voice_id = EXCLUDED.voice_id, updated_at = now()`

	if _, err := s.db.Exec(ctx, query, agentID, binding.VoiceID); err != nil {
		return fmt.Errorf("configstore: set %q: %w", agentID, err)
	}
	return nil
}

// Remove implements [Store.Remove].
func (s *PostgresStore) Remove(ctx context.Context, agentID string) error {
	const query = `DELETE FROM agent_voices WHERE agent_id = $1`

	if _, err := s.db.Exec(ctx, query, agentID); err != nil {
		return fmt.Errorf("configstore: remove %q: %w", agentID, err)
	}
	return nil
}

// List implements [Store.List].
func (s *PostgresStore) List(ctx context.Context) (map[string]AgentVoice, error) {
	const query = `SELECT agent_id, voice_id FROM agent_voices`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("configstore: list: %w", err)
	}
	defer rows.Close()

	bindings := make(map[string]AgentVoice)
	for rows.Next() {
		var agentID string
		var b AgentVoice
		if err := rows.Scan(&agentID, &b.VoiceID); err != nil {
			return nil, fmt.Errorf("configstore: list scan: %w", err)
		}
		bindings[agentID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("configstore: list rows: %w", err)
	}
	return bindings, nil
}
