// Package repository holds the in-process set of workspace records and the
// single active-workspace slot. Every mutation happens under one lock so a
// reader never observes two active workspaces.
package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/lzjever/wsm/internal/core"
)

type Repository struct {
	mu       sync.RWMutex
	items    map[string]*core.Workspace
	activeID string
}

func New() *Repository {
	return &Repository{items: make(map[string]*core.Workspace)}
}

// Get returns a copy of the workspace with the given id.
func (r *Repository) Get(id string) (*core.Workspace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ws, ok := r.items[id]
	if !ok {
		return nil, false
	}
	return ws.Clone(), true
}

// List returns copies of all workspaces ordered by creation time.
func (r *Repository) List() []*core.Workspace {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked()
}

func (r *Repository) listLocked() []*core.Workspace {
	out := make([]*core.Workspace, 0, len(r.items))
	for _, ws := range r.items {
		out = append(out, ws.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Snapshot returns all workspaces and the active id as one consistent view.
func (r *Repository) Snapshot() ([]*core.Workspace, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(), r.activeID
}

func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Repository) Active() *core.Workspace {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.activeID == "" {
		return nil
	}
	return r.items[r.activeID].Clone()
}

func (r *Repository) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID
}

// Put inserts or overwrites ws by id. An active ws takes over the active slot
// and demotes the previous holder.
func (r *Repository) Put(ws *core.Workspace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putLocked(ws.Clone())
}

// Merge overwrites by id and keeps records that are not in list.
func (r *Repository) Merge(list []*core.Workspace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ws := range list {
		r.putLocked(ws.Clone())
	}
}

// Restore merges list and re-points the active slot at activeID when that
// record exists and nothing is active yet.
func (r *Repository) Restore(list []*core.Workspace, activeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ws := range list {
		r.putLocked(ws.Clone())
	}
	if r.activeID != "" || activeID == "" {
		return
	}
	if ws, ok := r.items[activeID]; ok && ws.Status == core.StatusActive {
		r.activeID = activeID
	}
}

func (r *Repository) putLocked(ws *core.Workspace) {
	if ws.Status == core.StatusActive {
		r.demoteLocked(ws.ID)
		r.activeID = ws.ID
	} else if r.activeID == ws.ID {
		r.activeID = ""
	}
	r.items[ws.ID] = ws
}

// demoteLocked deactivates every active workspace except keep and returns
// copies of the ones it changed.
func (r *Repository) demoteLocked(keep string) []*core.Workspace {
	var demoted []*core.Workspace
	for id, ws := range r.items {
		if id == keep || ws.Status != core.StatusActive {
			continue
		}
		ws.Status = core.StatusInactive
		ws.ResourceUsage = ws.ResourceUsage.Idle()
		demoted = append(demoted, ws.Clone())
	}
	if r.activeID != keep {
		r.activeID = ""
	}
	return demoted
}

// Activate makes id the single active workspace. The previous holder, if
// any, is returned as demoted.
func (r *Repository) Activate(id string, now time.Time, usage core.ResourceUsage) (activated *core.Workspace, demoted []*core.Workspace, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.items[id]
	if !ok {
		return nil, nil, core.NotFound(id)
	}
	demoted = r.demoteLocked(id)
	ws.Status = core.StatusActive
	ws.LastActive = now
	ws.ResourceUsage = usage
	r.activeID = id
	return ws.Clone(), demoted, nil
}

// Deactivate stops id, zeroing its runtime gauges but keeping disk usage.
func (r *Repository) Deactivate(id string) (*core.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.items[id]
	if !ok {
		return nil, core.NotFound(id)
	}
	ws.Status = core.StatusInactive
	ws.ResourceUsage = ws.ResourceUsage.Idle()
	if r.activeID == id {
		r.activeID = ""
	}
	return ws.Clone(), nil
}

// Update shallow-merges patch into id.
func (r *Repository) Update(id string, patch core.WorkspacePatch) (*core.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.items[id]
	if !ok {
		return nil, core.NotFound(id)
	}
	next := ws.Clone()
	patch.Apply(next)
	r.putLocked(next)
	return next.Clone(), nil
}

// Remove deletes id. Removing an absent id is not an error.
func (r *Repository) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	delete(r.items, id)
	if r.activeID == id {
		r.activeID = ""
	}
	return ok
}
