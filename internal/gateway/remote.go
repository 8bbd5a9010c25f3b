package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/lzjever/wsm/internal/backend"
	"github.com/lzjever/wsm/internal/backendclient"
	"github.com/lzjever/wsm/internal/core"
)

// Remote issues the named calls against the gRPC backend. Every failure is
// reported as WSM_BACKEND_UNAVAILABLE regardless of its cause.
type Remote struct {
	client  *backendclient.Client
	timeout time.Duration
}

func NewRemote(client *backendclient.Client, timeout time.Duration) *Remote {
	return &Remote{client: client, timeout: timeout}
}

var errEmptyResponse = errors.New("empty response")

func (r *Remote) CreateWorkspace(ctx context.Context, req core.CreateWorkspaceRequest) (*core.Workspace, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	resp, err := r.client.CreateWorkspace(ctx, &backend.CreateWorkspaceRequest{Request: req})
	return single(CallCreate, resp, err)
}

func (r *Remote) GetWorkspaces(ctx context.Context) ([]*core.Workspace, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	resp, err := r.client.GetWorkspaces(ctx)
	if err != nil {
		return nil, unavailable(CallList, err)
	}
	out := make([]*core.Workspace, 0, len(resp.Workspaces))
	for _, ws := range resp.Workspaces {
		if ws != nil {
			out = append(out, ws)
		}
	}
	return out, nil
}

func (r *Remote) ActivateWorkspace(ctx context.Context, id string) (*core.Workspace, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	resp, err := r.client.ActivateWorkspace(ctx, id)
	return single(CallActivate, resp, err)
}

func (r *Remote) DeactivateWorkspace(ctx context.Context, id string) (*core.Workspace, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	resp, err := r.client.DeactivateWorkspace(ctx, id)
	return single(CallDeactivate, resp, err)
}

func (r *Remote) DeleteWorkspace(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.client.DeleteWorkspace(ctx, id); err != nil {
		return unavailable(CallDelete, err)
	}
	return nil
}

func (r *Remote) UpdateWorkspace(ctx context.Context, id string, patch core.WorkspacePatch) (*core.Workspace, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	resp, err := r.client.UpdateWorkspace(ctx, &backend.UpdateWorkspaceRequest{ID: id, Updates: patch})
	return single(CallUpdate, resp, err)
}

func (r *Remote) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func single(call string, resp *backend.WorkspaceResponse, err error) (*core.Workspace, error) {
	if err != nil {
		return nil, unavailable(call, err)
	}
	if resp == nil || resp.Workspace == nil {
		return nil, unavailable(call, errEmptyResponse)
	}
	return resp.Workspace, nil
}

func unavailable(call string, err error) error {
	return core.WrapAppError(core.ErrBackendUnavailable, call+": "+err.Error(), err)
}
