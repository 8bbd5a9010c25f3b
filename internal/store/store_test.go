package store

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lzjever/wsm/internal/core"
)

func TestStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("wsm"),
		postgres.WithUsername("wsm"),
		postgres.WithPassword("wsm_pass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	pool, err := Open(ctx, connStr, 4)
	if err != nil {
		t.Fatalf("failed to open store: %s", err)
	}
	defer pool.Close()

	// Migrate must be re-runnable.
	if err := Migrate(ctx, pool); err != nil {
		t.Fatalf("second migrate: %s", err)
	}

	s := New(pool)
	created := time.Date(2026, 1, 2, 3, 4, 5, 123000000, time.UTC)

	newWS := func(id string) *core.Workspace {
		return &core.Workspace{
			ID:            id,
			Name:          "ws " + id,
			Type:          core.TypeWebDev,
			Status:        core.StatusInactive,
			Tools:         []core.InstalledTool{{Name: "Git", Type: "cli", Version: "2.42.0", Status: "installed"}},
			Config:        core.WorkspaceConfig{EnvironmentVariables: map[string]string{"A": "1"}},
			ResourceUsage: core.ResourceUsage{Disk: 900},
			CreatedAt:     created,
			LastActive:    created,
			UserID:        "test-user",
		}
	}

	t.Run("InsertAndList", func(t *testing.T) {
		for _, id := range []string{"ws-1", "ws-2"} {
			if err := s.Insert(ctx, newWS(id)); err != nil {
				t.Fatalf("insert %s: %s", id, err)
			}
		}
		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("list: %s", err)
		}
		if len(list) != 2 {
			t.Fatalf("expected 2 workspaces, got %d", len(list))
		}
		got := list[0]
		if !got.CreatedAt.Equal(created) {
			t.Errorf("created_at mismatch: %v", got.CreatedAt)
		}
		if len(got.Tools) != 1 || got.Tools[0].Name != "Git" {
			t.Errorf("tools did not round-trip: %+v", got.Tools)
		}
		if got.Config.EnvironmentVariables["A"] != "1" {
			t.Errorf("config did not round-trip: %+v", got.Config)
		}
	})

	t.Run("ActivateKeepsSingleActive", func(t *testing.T) {
		usage := core.ResourceUsage{CPU: 10, Memory: 300, Disk: 900, NetworkIn: 1, NetworkOut: 0.5}
		if _, err := s.Activate(ctx, "ws-1", time.Now(), usage); err != nil {
			t.Fatalf("activate ws-1: %s", err)
		}
		ws, err := s.Activate(ctx, "ws-2", time.Now(), usage)
		if err != nil {
			t.Fatalf("activate ws-2: %s", err)
		}
		if ws.Status != core.StatusActive {
			t.Errorf("expected active, got %s", ws.Status)
		}

		prev, err := s.Get(ctx, "ws-1")
		if err != nil {
			t.Fatalf("get ws-1: %s", err)
		}
		if prev.Status != core.StatusInactive {
			t.Errorf("expected ws-1 demoted, got %s", prev.Status)
		}
		if prev.ResourceUsage.CPU != 0 || prev.ResourceUsage.Disk != 900 {
			t.Errorf("expected idle gauges with disk kept, got %+v", prev.ResourceUsage)
		}
	})

	t.Run("DeactivateResetsGauges", func(t *testing.T) {
		ws, err := s.Deactivate(ctx, "ws-2")
		if err != nil {
			t.Fatalf("deactivate: %s", err)
		}
		if ws.Status != core.StatusInactive || ws.ResourceUsage.CPU != 0 || ws.ResourceUsage.Memory != 0 {
			t.Errorf("unexpected deactivated workspace: %+v", ws)
		}
	})

	t.Run("Update", func(t *testing.T) {
		name := "renamed"
		progress := 40
		ws, err := s.Update(ctx, "ws-1", core.WorkspacePatch{Name: &name, InstallProgress: &progress})
		if err != nil {
			t.Fatalf("update: %s", err)
		}
		if ws.Name != "renamed" || ws.InstallProgress != 40 {
			t.Errorf("patch not applied: %+v", ws)
		}
	})

	t.Run("MissingIsNotFound", func(t *testing.T) {
		_, err := s.Activate(ctx, "nope", time.Now(), core.ResourceUsage{})
		if !core.IsCode(err, core.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
		_, err = s.Update(ctx, "nope", core.WorkspacePatch{})
		if !core.IsCode(err, core.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		if err := s.Delete(ctx, "ws-1"); err != nil {
			t.Fatalf("delete: %s", err)
		}
		if err := s.Delete(ctx, "ws-1"); err != nil {
			t.Fatalf("second delete: %s", err)
		}
		list, _ := s.List(ctx)
		if len(list) != 1 {
			t.Errorf("expected 1 workspace left, got %d", len(list))
		}
	})
}
