// Package lifecycle owns workspace mutations: it keeps at most one workspace
// active, routes every change through the persistence gateway and commits the
// result to the repository before mirroring it to the local store.
package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/lzjever/wsm/internal/core"
	"github.com/lzjever/wsm/internal/gateway"
	"github.com/lzjever/wsm/internal/observability"
	"github.com/lzjever/wsm/internal/repository"
)

// Mirror persists the repository snapshot after each mutation and hands it
// back on the first load of a process.
type Mirror interface {
	Save(ctx context.Context) error
	Load(ctx context.Context) ([]*core.Workspace, string, error)
}

type Manager struct {
	repo   *repository.Repository
	gw     gateway.Backend
	mirror Mirror
	log    *zap.Logger

	// mu serializes mutations; reads go straight to the repository.
	mu sync.Mutex
	// restored is set once the mirrored snapshot is back in the repository.
	restored bool
}

func New(repo *repository.Repository, gw gateway.Backend, mirror Mirror, log *zap.Logger) *Manager {
	return &Manager{repo: repo, gw: gw, mirror: mirror, log: log}
}

func (m *Manager) Create(ctx context.Context, req core.CreateWorkspaceRequest) (*core.Workspace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ws, err := m.gw.CreateWorkspace(ctx, req)
	if err != nil {
		return nil, err
	}
	m.repo.Put(ws)
	transition("none", ws.Status)
	m.persist(ctx)
	m.log.Info("workspace created", zap.String("wsid", ws.ID), zap.String("type", string(ws.Type)))
	return ws.Clone(), nil
}

// Activate makes id the single active workspace, demoting the previous one in
// the same repository commit.
func (m *Manager) Activate(ctx context.Context, id string) (*core.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.repo.Get(id)
	if !ok {
		return nil, core.NotFound(id)
	}
	prevActive := m.repo.ActiveID()

	ws, err := m.gw.ActivateWorkspace(ctx, id)
	if err != nil {
		return nil, err
	}
	m.repo.Put(ws)

	if prevActive != "" && prevActive != id {
		transition(core.StatusActive, core.StatusInactive)
		m.log.Info("workspace deactivated", zap.String("wsid", prevActive), zap.String("reason", "superseded"))
	}
	transition(prev.Status, ws.Status)
	m.persist(ctx)
	m.log.Info("workspace activated", zap.String("wsid", id))
	return ws.Clone(), nil
}

func (m *Manager) Deactivate(ctx context.Context, id string) (*core.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.repo.Get(id)
	if !ok {
		return nil, core.NotFound(id)
	}
	ws, err := m.gw.DeactivateWorkspace(ctx, id)
	if err != nil {
		return nil, err
	}
	m.repo.Put(ws)
	transition(prev.Status, ws.Status)
	m.persist(ctx)
	m.log.Info("workspace deactivated", zap.String("wsid", id))
	return ws.Clone(), nil
}

// Delete removes id. Deleting an absent id is a no-op.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.gw.DeleteWorkspace(ctx, id); err != nil {
		return err
	}
	if m.repo.Remove(id) {
		m.log.Info("workspace deleted", zap.String("wsid", id))
	}
	m.persist(ctx)
	return nil
}

func (m *Manager) Update(ctx context.Context, id string, patch core.WorkspacePatch) (*core.Workspace, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.repo.Get(id)
	if !ok {
		return nil, core.NotFound(id)
	}
	ws, err := m.gw.UpdateWorkspace(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	m.repo.Put(ws)
	if prev.Status != ws.Status {
		transition(prev.Status, ws.Status)
	}
	m.persist(ctx)
	return ws.Clone(), nil
}

// Load pulls the full list through the gateway and merges it by id into the
// repository. Records missing from the result are kept. The first Load of a
// process restores the mirrored snapshot before merging, so records written
// locally survive a restart with the backend reachable.
func (m *Manager) Load(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.restoreLocked(ctx); err != nil {
		return 0, err
	}
	list, err := m.gw.GetWorkspaces(ctx)
	if err != nil {
		return 0, err
	}
	m.repo.Merge(list)
	m.persist(ctx)
	return len(list), nil
}

func (m *Manager) restoreLocked(ctx context.Context) error {
	if m.restored || m.mirror == nil {
		return nil
	}
	list, activeID, err := m.mirror.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore local snapshot: %w", err)
	}
	m.repo.Restore(list, activeID)
	m.restored = true
	m.log.Info("local snapshot restored", zap.Int("count", len(list)), zap.String("active", activeID))
	return nil
}

func (m *Manager) Get(id string) (*core.Workspace, bool) {
	return m.repo.Get(id)
}

func (m *Manager) List() []*core.Workspace {
	return m.repo.List()
}

// Active returns the active workspace or nil.
func (m *Manager) Active() *core.Workspace {
	return m.repo.Active()
}

// persist mirrors the repository. Failures are logged and absorbed.
func (m *Manager) persist(ctx context.Context) {
	if m.repo.ActiveID() != "" {
		observability.ActiveWorkspaces.Set(1)
	} else {
		observability.ActiveWorkspaces.Set(0)
	}
	if m.mirror == nil {
		return
	}
	if err := m.mirror.Save(context.WithoutCancel(ctx)); err != nil {
		m.log.Warn("local mirror failed", zap.Error(err))
	}
}

func transition[From, To ~string](from From, to To) {
	observability.WorkspaceStateTransitions.WithLabelValues(string(from), string(to)).Inc()
}
