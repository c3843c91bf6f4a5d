package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// User sub-collections live as jsonb on the users row so the grant /
// request-status / notification triple commits in one statement, the
// same way the original single-document writes did.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	email           TEXT NOT NULL UNIQUE,
	phone           TEXT NOT NULL DEFAULT '',
	password_hash   BYTEA NOT NULL,
	profile_picture TEXT NOT NULL DEFAULT '',
	role            TEXT NOT NULL DEFAULT 'user',
	has_paid        BOOLEAN NOT NULL DEFAULT FALSE,

	completed_sessions JSONB NOT NULL DEFAULT '[]',
	special_access     JSONB NOT NULL DEFAULT '[]',
	access_requests    JSONB NOT NULL DEFAULT '[]',
	notifications      JSONB NOT NULL DEFAULT '[]',

	version    BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS course_sessions (
	id             TEXT PRIMARY KEY,
	day_number     INTEGER NOT NULL UNIQUE,
	title          TEXT NOT NULL UNIQUE,
	type           TEXT NOT NULL,
	context_points TEXT[] NOT NULL DEFAULT '{}',
	media_url      TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS reflections (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	session_id   TEXT NOT NULL REFERENCES course_sessions(id) ON DELETE CASCADE,
	entries      JSONB NOT NULL DEFAULT '[]',
	replies      JSONB NOT NULL DEFAULT '[]',
	status       TEXT NOT NULL DEFAULT 'pending',
	last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, session_id)
);

CREATE INDEX IF NOT EXISTS idx_reflections_last_updated ON reflections (last_updated DESC);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
