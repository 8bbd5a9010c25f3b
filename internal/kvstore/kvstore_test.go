package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "wsm.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, found, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected key to be absent")
	}
}

func TestPutOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "k", "v1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "k", "v2"); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, found, err := s.Get(ctx, "k")
	if err != nil || !found {
		t.Fatalf("expected k, found=%v err=%v", found, err)
	}
	if v != "v2" {
		t.Errorf("expected v2, got %s", v)
	}
}

func TestPutManyAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.PutMany(ctx, map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("put many: %v", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := s.Get(ctx, "a"); found {
		t.Error("expected a deleted")
	}
	if v, _, _ := s.Get(ctx, "b"); v != "2" {
		t.Errorf("expected b=2, got %q", v)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wsm.db")
	ctx := context.Background()

	s, err := Open(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "k", "persisted"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	v, found, err := s.Get(ctx, "k")
	if err != nil || !found || v != "persisted" {
		t.Fatalf("expected persisted value, got %q found=%v err=%v", v, found, err)
	}
}

func TestPing(t *testing.T) {
	s := openTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
