package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lzjever/wsm/internal/catalog"
	"github.com/lzjever/wsm/internal/core"
	"github.com/lzjever/wsm/internal/kvstore"
	"github.com/lzjever/wsm/internal/observability"
	"github.com/lzjever/wsm/internal/repository"
)

const (
	KeyWorkspaces = "wsm_workspaces"
	KeyActive     = "wsm_active_workspace"
)

// Local serves every call from the in-memory repository and mirrors the
// repository into the key-value store on Save.
type Local struct {
	repo   *repository.Repository
	kv     *kvstore.Store
	userID string
	log    *zap.Logger
	now    func() time.Time
}

func NewLocal(repo *repository.Repository, kv *kvstore.Store, userID string, log *zap.Logger) *Local {
	return &Local{repo: repo, kv: kv, userID: userID, log: log, now: time.Now}
}

func (l *Local) CreateWorkspace(_ context.Context, req core.CreateWorkspaceRequest) (*core.Workspace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ws := catalog.NewWorkspace(core.NewID(), req, l.userID, l.now().UTC())
	l.repo.Put(ws)
	return ws, nil
}

// GetWorkspaces reloads the persisted snapshot and restores it, including the
// active reference, into the repository.
func (l *Local) GetWorkspaces(ctx context.Context) ([]*core.Workspace, error) {
	list, activeID, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	l.repo.Restore(list, activeID)
	return list, nil
}

func (l *Local) ActivateWorkspace(_ context.Context, id string) (*core.Workspace, error) {
	ws, _, err := l.repo.Activate(id, l.now().UTC(), core.SimulatedUsage())
	return ws, err
}

func (l *Local) DeactivateWorkspace(_ context.Context, id string) (*core.Workspace, error) {
	return l.repo.Deactivate(id)
}

func (l *Local) DeleteWorkspace(_ context.Context, id string) error {
	l.repo.Remove(id)
	return nil
}

func (l *Local) UpdateWorkspace(_ context.Context, id string, patch core.WorkspacePatch) (*core.Workspace, error) {
	return l.repo.Update(id, patch)
}

// Load reads the persisted workspace list and active id. A store that has
// never been written yields an empty list.
func (l *Local) Load(ctx context.Context) ([]*core.Workspace, string, error) {
	raw, ok, err := l.kv.Get(ctx, KeyWorkspaces)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", KeyWorkspaces, err)
	}
	list := []*core.Workspace{}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, "", fmt.Errorf("decode %s: %w", KeyWorkspaces, err)
		}
	}
	activeID, _, err := l.kv.Get(ctx, KeyActive)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", KeyActive, err)
	}
	return list, activeID, nil
}

// Save overwrites the persisted snapshot with the repository's current state.
func (l *Local) Save(ctx context.Context) error {
	list, activeID := l.repo.Snapshot()
	data, err := json.Marshal(list)
	if err != nil {
		observability.LocalSaveFailTotal.Inc()
		return fmt.Errorf("encode workspaces: %w", err)
	}
	err = l.kv.PutMany(ctx, map[string]string{
		KeyWorkspaces: string(data),
		KeyActive:     activeID,
	})
	if err != nil {
		observability.LocalSaveFailTotal.Inc()
		l.log.Error("local save failed", zap.Error(err))
		return err
	}
	return nil
}
