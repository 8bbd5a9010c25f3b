package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// ComputeRequestHash computes SHA-256(sorted_json(body) + method + path).
func ComputeRequestHash(body json.RawMessage, method, path string) string {
	h := sha256.New()
	h.Write(sortedJSON(body))
	h.Write([]byte(method))
	h.Write([]byte(path))
	return fmt.Sprintf("%x", h.Sum(nil))
}

func sortedJSON(data json.RawMessage) []byte {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		var v any
		if err2 := json.Unmarshal(data, &v); err2 != nil {
			return data
		}
		b, _ := json.Marshal(v)
		return b
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}
		kb, _ := json.Marshal(k)
		result = append(result, kb...)
		result = append(result, ':')
		result = append(result, sortedJSON(obj[k])...)
	}
	return append(result, '}')
}

type idempotencyEntry struct {
	hash        string
	workspaceID string
}

// IdempotencyKeys remembers which workspace a create request produced so a
// retried request with the same key returns the same workspace.
type IdempotencyKeys struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	order   []string
	max     int
}

func NewIdempotencyKeys(max int) *IdempotencyKeys {
	if max <= 0 {
		max = 1024
	}
	return &IdempotencyKeys{entries: make(map[string]idempotencyEntry), max: max}
}

// Lookup returns the workspace id recorded for key. A key reused with a
// different request hash is a conflict.
func (k *IdempotencyKeys) Lookup(key, hash string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		return "", false, nil
	}
	if e.hash != hash {
		return "", false, NewAppError(ErrConflictIdempotent, "idempotency key reused with a different request")
	}
	return e.workspaceID, true, nil
}

func (k *IdempotencyKeys) Remember(key, hash, workspaceID string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.entries[key]; !ok {
		k.order = append(k.order, key)
	}
	k.entries[key] = idempotencyEntry{hash: hash, workspaceID: workspaceID}
	for len(k.order) > k.max {
		delete(k.entries, k.order[0])
		k.order = k.order[1:]
	}
}
