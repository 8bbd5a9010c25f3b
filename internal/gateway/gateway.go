// Package gateway is the persistence gateway: a remote backend reached over
// gRPC, a local store over the in-memory repository and SQLite, and a
// fallback that prefers the former and silently substitutes the latter.
package gateway

import (
	"context"

	"github.com/lzjever/wsm/internal/core"
)

// Backend is the set of named persistence calls. Every mutating call has a
// remote and a local implementation producing an equivalent Workspace.
type Backend interface {
	CreateWorkspace(ctx context.Context, req core.CreateWorkspaceRequest) (*core.Workspace, error)
	GetWorkspaces(ctx context.Context) ([]*core.Workspace, error)
	ActivateWorkspace(ctx context.Context, id string) (*core.Workspace, error)
	DeactivateWorkspace(ctx context.Context, id string) (*core.Workspace, error)
	DeleteWorkspace(ctx context.Context, id string) error
	UpdateWorkspace(ctx context.Context, id string, patch core.WorkspacePatch) (*core.Workspace, error)
}

const (
	CallCreate     = "create_workspace"
	CallList       = "get_workspaces"
	CallActivate   = "activate_workspace"
	CallDeactivate = "deactivate_workspace"
	CallDelete     = "delete_workspace"
	CallUpdate     = "update_workspace"
)

const (
	PathRemote = "remote"
	PathLocal  = "local"
)
