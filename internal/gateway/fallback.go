package gateway

import (
	"context"

	"go.uber.org/zap"

	"github.com/lzjever/wsm/internal/core"
	"github.com/lzjever/wsm/internal/observability"
)

// Fallback tries primary first and, on any error, repeats the call against
// secondary. A nil primary means local-only operation.
type Fallback struct {
	primary   Backend
	secondary Backend
	log       *zap.Logger
}

func NewFallback(primary, secondary Backend, log *zap.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, log: log}
}

func (f *Fallback) CreateWorkspace(ctx context.Context, req core.CreateWorkspaceRequest) (*core.Workspace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return do(f, CallCreate, func(b Backend) (*core.Workspace, error) {
		return b.CreateWorkspace(ctx, req)
	})
}

func (f *Fallback) GetWorkspaces(ctx context.Context) ([]*core.Workspace, error) {
	return do(f, CallList, func(b Backend) ([]*core.Workspace, error) {
		return b.GetWorkspaces(ctx)
	})
}

func (f *Fallback) ActivateWorkspace(ctx context.Context, id string) (*core.Workspace, error) {
	return do(f, CallActivate, func(b Backend) (*core.Workspace, error) {
		return b.ActivateWorkspace(ctx, id)
	})
}

func (f *Fallback) DeactivateWorkspace(ctx context.Context, id string) (*core.Workspace, error) {
	return do(f, CallDeactivate, func(b Backend) (*core.Workspace, error) {
		return b.DeactivateWorkspace(ctx, id)
	})
}

func (f *Fallback) DeleteWorkspace(ctx context.Context, id string) error {
	_, err := do(f, CallDelete, func(b Backend) (struct{}, error) {
		return struct{}{}, b.DeleteWorkspace(ctx, id)
	})
	return err
}

func (f *Fallback) UpdateWorkspace(ctx context.Context, id string, patch core.WorkspacePatch) (*core.Workspace, error) {
	return do(f, CallUpdate, func(b Backend) (*core.Workspace, error) {
		return b.UpdateWorkspace(ctx, id, patch)
	})
}

// Remote reports whether a primary backend is configured.
func (f *Fallback) Remote() bool {
	return f.primary != nil
}

func do[T any](f *Fallback, call string, fn func(Backend) (T, error)) (T, error) {
	if f.primary != nil {
		out, err := fn(f.primary)
		if err == nil {
			observability.GatewayCallsTotal.WithLabelValues(call, PathRemote).Inc()
			return out, nil
		}
		observability.GatewayFallbackTotal.WithLabelValues(call).Inc()
		f.log.Warn("backend unavailable, using local store",
			zap.String("call", call),
			zap.Error(err),
		)
	}
	observability.GatewayCallsTotal.WithLabelValues(call, PathLocal).Inc()
	return fn(f.secondary)
}
