package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE SCHEMA IF NOT EXISTS wsm;
CREATE TABLE IF NOT EXISTS wsm.workspaces (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'inactive',
	install_progress INT NOT NULL DEFAULT 0,
	tools JSONB NOT NULL DEFAULT '[]'::jsonb,
	config JSONB NOT NULL DEFAULT '{}'::jsonb,
	resource_usage JSONB NOT NULL DEFAULT '{}'::jsonb,
	user_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_active TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS workspaces_single_active
	ON wsm.workspaces ((true)) WHERE status = 'active';
`

// Migrate creates the wsm schema if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
