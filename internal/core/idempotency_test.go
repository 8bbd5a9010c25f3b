package core

import (
	"encoding/json"
	"testing"
)

func TestComputeRequestHash_Deterministic(t *testing.T) {
	body := json.RawMessage(`{"name":"Web","type":"web-dev"}`)
	h1 := ComputeRequestHash(body, "POST", "/v1/workspaces")
	h2 := ComputeRequestHash(body, "POST", "/v1/workspaces")
	if h1 != h2 {
		t.Fatalf("same input produced different hashes: %s vs %s", h1, h2)
	}
}

func TestComputeRequestHash_KeyOrderIrrelevant(t *testing.T) {
	body1 := json.RawMessage(`{"type":"web-dev","name":"Web"}`)
	body2 := json.RawMessage(`{"name":"Web","type":"web-dev"}`)
	h1 := ComputeRequestHash(body1, "POST", "/v1/workspaces")
	h2 := ComputeRequestHash(body2, "POST", "/v1/workspaces")
	if h1 != h2 {
		t.Fatalf("different key order produced different hashes: %s vs %s", h1, h2)
	}
}

func TestComputeRequestHash_DifferentBody(t *testing.T) {
	body1 := json.RawMessage(`{"name":"Web"}`)
	body2 := json.RawMessage(`{"name":"Data"}`)
	h1 := ComputeRequestHash(body1, "POST", "/v1/workspaces")
	h2 := ComputeRequestHash(body2, "POST", "/v1/workspaces")
	if h1 == h2 {
		t.Fatal("different bodies produced same hash")
	}
}

func TestComputeRequestHash_DifferentMethod(t *testing.T) {
	body := json.RawMessage(`{"name":"Web"}`)
	h1 := ComputeRequestHash(body, "POST", "/v1/workspaces")
	h2 := ComputeRequestHash(body, "PATCH", "/v1/workspaces")
	if h1 == h2 {
		t.Fatal("different methods produced same hash")
	}
}

func TestIdempotencyKeys(t *testing.T) {
	keys := NewIdempotencyKeys(2)
	keys.Remember("k1", "h1", "ws-1")

	id, ok, err := keys.Lookup("k1", "h1")
	if err != nil || !ok || id != "ws-1" {
		t.Fatalf("expected ws-1, got %q ok=%v err=%v", id, ok, err)
	}

	if _, _, err := keys.Lookup("k1", "other"); !IsCode(err, ErrConflictIdempotent) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}

	keys.Remember("k2", "h2", "ws-2")
	keys.Remember("k3", "h3", "ws-3")
	if _, ok, _ := keys.Lookup("k1", "h1"); ok {
		t.Fatal("expected oldest key to be evicted")
	}
}
