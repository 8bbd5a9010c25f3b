package backendclient

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/lzjever/wsm/internal/backend"
	"github.com/lzjever/wsm/internal/core"
)

// memStore is a minimal backend.Store for exercising the wire path.
type memStore struct {
	mu    sync.Mutex
	items map[string]*core.Workspace
}

func (m *memStore) Insert(_ context.Context, ws *core.Workspace) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[ws.ID] = ws.Clone()
	return nil
}

func (m *memStore) List(_ context.Context) ([]*core.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*core.Workspace
	for _, ws := range m.items {
		out = append(out, ws.Clone())
	}
	return out, nil
}

func (m *memStore) Activate(_ context.Context, id string, now time.Time, usage core.ResourceUsage) (*core.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.items[id]
	if !ok {
		return nil, core.NotFound(id)
	}
	for _, other := range m.items {
		if other.Status == core.StatusActive {
			other.Status = core.StatusInactive
			other.ResourceUsage = other.ResourceUsage.Idle()
		}
	}
	ws.Status = core.StatusActive
	ws.LastActive = now
	ws.ResourceUsage = usage
	return ws.Clone(), nil
}

func (m *memStore) Deactivate(_ context.Context, id string) (*core.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.items[id]
	if !ok {
		return nil, core.NotFound(id)
	}
	ws.Status = core.StatusInactive
	ws.ResourceUsage = ws.ResourceUsage.Idle()
	return ws.Clone(), nil
}

func (m *memStore) Update(_ context.Context, id string, patch core.WorkspacePatch) (*core.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.items[id]
	if !ok {
		return nil, core.NotFound(id)
	}
	patch.Apply(ws)
	return ws.Clone(), nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func startBackend(t *testing.T) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(backend.UnaryInterceptor(zap.NewNop())))
	backend.RegisterWorkspaceBackendServer(srv, backend.NewServer(&memStore{items: map[string]*core.Workspace{}}, "default", zap.NewNop()))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	c, err := New("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCreateAndList(t *testing.T) {
	c := startBackend(t)
	ctx := context.Background()

	created, err := c.CreateWorkspace(ctx, &backend.CreateWorkspaceRequest{
		Request: core.CreateWorkspaceRequest{Name: "Web", Type: core.TypeWebDev, Tools: []string{"Git"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ws := created.Workspace
	if ws.ID == "" || ws.Status != core.StatusInactive || ws.UserID != "default" {
		t.Fatalf("unexpected workspace: %+v", ws)
	}
	if len(ws.Tools) != 1 || ws.Tools[0].Name != "Git" {
		t.Errorf("expected Git tool, got %+v", ws.Tools)
	}

	list, err := c.GetWorkspaces(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Workspaces) != 1 || list.Workspaces[0].ID != ws.ID {
		t.Errorf("expected created workspace in list, got %+v", list.Workspaces)
	}
	if !list.Workspaces[0].CreatedAt.Equal(ws.CreatedAt) {
		t.Errorf("created_at did not survive the wire: %v vs %v", list.Workspaces[0].CreatedAt, ws.CreatedAt)
	}
}

func TestActivateSwitchesActive(t *testing.T) {
	c := startBackend(t)
	ctx := context.Background()

	a, _ := c.CreateWorkspace(ctx, &backend.CreateWorkspaceRequest{Request: core.CreateWorkspaceRequest{Name: "A", Type: core.TypeCustom}})
	b, _ := c.CreateWorkspace(ctx, &backend.CreateWorkspaceRequest{Request: core.CreateWorkspaceRequest{Name: "B", Type: core.TypeCustom}})

	if _, err := c.ActivateWorkspace(ctx, a.Workspace.ID); err != nil {
		t.Fatal(err)
	}
	resp, err := c.ActivateWorkspace(ctx, b.Workspace.ID)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Workspace.Status != core.StatusActive || resp.Workspace.ResourceUsage.CPU == 0 {
		t.Errorf("expected b active with gauges, got %+v", resp.Workspace)
	}

	list, _ := c.GetWorkspaces(ctx)
	active := 0
	for _, ws := range list.Workspaces {
		if ws.Status == core.StatusActive {
			active++
		}
	}
	if active != 1 {
		t.Errorf("expected exactly one active, got %d", active)
	}
}

func TestErrorsMapToStatusCodes(t *testing.T) {
	c := startBackend(t)
	ctx := context.Background()

	_, err := c.ActivateWorkspace(ctx, "missing")
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}

	_, err = c.CreateWorkspace(ctx, &backend.CreateWorkspaceRequest{Request: core.CreateWorkspaceRequest{Type: core.TypeWebDev}})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	c := startBackend(t)
	ctx := context.Background()

	created, _ := c.CreateWorkspace(ctx, &backend.CreateWorkspaceRequest{Request: core.CreateWorkspaceRequest{Name: "A", Type: core.TypeCustom}})
	name := "Renamed"
	resp, err := c.UpdateWorkspace(ctx, &backend.UpdateWorkspaceRequest{ID: created.Workspace.ID, Updates: core.WorkspacePatch{Name: &name}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Workspace.Name != "Renamed" {
		t.Errorf("expected Renamed, got %s", resp.Workspace.Name)
	}

	if err := c.DeleteWorkspace(ctx, created.Workspace.ID); err != nil {
		t.Fatal(err)
	}
	list, _ := c.GetWorkspaces(ctx)
	if len(list.Workspaces) != 0 {
		t.Errorf("expected empty list after delete, got %d", len(list.Workspaces))
	}
}
