package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lzjever/wsm/internal/core"
)

const workspaceColumns = `id, name, description, type, status, install_progress,
	tools, config, resource_usage, user_id, created_at, last_active`

// Workspaces is the Postgres-backed workspace table.
type Workspaces struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Workspaces {
	return &Workspaces{pool: pool}
}

func (s *Workspaces) Insert(ctx context.Context, ws *core.Workspace) error {
	tools, config, usage, err := encodeJSON(ws)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO wsm.workspaces (`+workspaceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		ws.ID, ws.Name, ws.Description, string(ws.Type), string(ws.Status), ws.InstallProgress,
		tools, config, usage, ws.UserID, ws.CreatedAt, ws.LastActive,
	)
	if err != nil {
		return fmt.Errorf("insert workspace: %w", err)
	}
	return nil
}

func (s *Workspaces) List(ctx context.Context) ([]*core.Workspace, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+workspaceColumns+` FROM wsm.workspaces ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	out := []*core.Workspace{}
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

func (s *Workspaces) Get(ctx context.Context, id string) (*core.Workspace, error) {
	return getWorkspace(ctx, s.pool, id, false)
}

// Activate demotes whichever workspace holds the active slot and promotes id
// in a single transaction.
func (s *Workspaces) Activate(ctx context.Context, id string, now time.Time, usage core.ResourceUsage) (*core.Workspace, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	ws, err := getWorkspace(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE wsm.workspaces
		SET status = 'inactive',
			resource_usage = jsonb_build_object(
				'cpu', 0, 'memory', 0, 'network_in', 0, 'network_out', 0,
				'disk', COALESCE(resource_usage->'disk', '0'::jsonb))
		WHERE status = 'active' AND id <> $1`, id)
	if err != nil {
		return nil, fmt.Errorf("demote active: %w", err)
	}

	ws.Status = core.StatusActive
	ws.LastActive = now
	ws.ResourceUsage = usage
	if err := saveWorkspace(ctx, tx, ws); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ws, nil
}

func (s *Workspaces) Deactivate(ctx context.Context, id string) (*core.Workspace, error) {
	return s.mutate(ctx, id, func(ws *core.Workspace) {
		ws.Status = core.StatusInactive
		ws.ResourceUsage = ws.ResourceUsage.Idle()
	})
}

func (s *Workspaces) Update(ctx context.Context, id string, patch core.WorkspacePatch) (*core.Workspace, error) {
	return s.mutate(ctx, id, patch.Apply)
}

// Delete is idempotent: removing a missing row is not an error.
func (s *Workspaces) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM wsm.workspaces WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return nil
}

func (s *Workspaces) mutate(ctx context.Context, id string, fn func(*core.Workspace)) (*core.Workspace, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	ws, err := getWorkspace(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	fn(ws)
	if err := saveWorkspace(ctx, tx, ws); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ws, nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func getWorkspace(ctx context.Context, q querier, id string, forUpdate bool) (*core.Workspace, error) {
	sql := `SELECT ` + workspaceColumns + ` FROM wsm.workspaces WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	ws, err := scanWorkspace(q.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.NotFound(id)
	}
	return ws, err
}

func saveWorkspace(ctx context.Context, q querier, ws *core.Workspace) error {
	tools, config, usage, err := encodeJSON(ws)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
		UPDATE wsm.workspaces
		SET name = $2, description = $3, type = $4, status = $5, install_progress = $6,
			tools = $7, config = $8, resource_usage = $9, last_active = $10
		WHERE id = $1`,
		ws.ID, ws.Name, ws.Description, string(ws.Type), string(ws.Status), ws.InstallProgress,
		tools, config, usage, ws.LastActive,
	)
	if err != nil {
		return fmt.Errorf("update workspace %s: %w", ws.ID, err)
	}
	return nil
}

func scanWorkspace(row pgx.Row) (*core.Workspace, error) {
	var (
		ws                   core.Workspace
		wsType, status       string
		tools, config, usage []byte
	)
	err := row.Scan(
		&ws.ID, &ws.Name, &ws.Description, &wsType, &status, &ws.InstallProgress,
		&tools, &config, &usage, &ws.UserID, &ws.CreatedAt, &ws.LastActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan workspace: %w", err)
	}
	ws.Type = core.WorkspaceType(wsType)
	ws.Status = core.WorkspaceStatus(status)
	if err := json.Unmarshal(tools, &ws.Tools); err != nil {
		return nil, fmt.Errorf("decode tools: %w", err)
	}
	if ws.Tools == nil {
		ws.Tools = []core.InstalledTool{}
	}
	if err := json.Unmarshal(config, &ws.Config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := json.Unmarshal(usage, &ws.ResourceUsage); err != nil {
		return nil, fmt.Errorf("decode resource usage: %w", err)
	}
	ws.CreatedAt = ws.CreatedAt.UTC()
	ws.LastActive = ws.LastActive.UTC()
	return &ws, nil
}

func encodeJSON(ws *core.Workspace) (tools, config, usage []byte, err error) {
	t := ws.Tools
	if t == nil {
		t = []core.InstalledTool{}
	}
	if tools, err = json.Marshal(t); err != nil {
		return nil, nil, nil, fmt.Errorf("encode tools: %w", err)
	}
	if config, err = json.Marshal(ws.Config); err != nil {
		return nil, nil, nil, fmt.Errorf("encode config: %w", err)
	}
	if usage, err = json.Marshal(ws.ResourceUsage); err != nil {
		return nil, nil, nil, fmt.Errorf("encode resource usage: %w", err)
	}
	return tools, config, usage, nil
}
