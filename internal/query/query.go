// Package query serves read-only views of the workspace repository. Nothing
// here mutates state or touches persistence.
package query

import (
	"strings"

	"github.com/lzjever/wsm/internal/core"
)

// CategoryAll selects every workspace.
const CategoryAll = "all"

type Source interface {
	List() []*core.Workspace
	Get(id string) (*core.Workspace, bool)
}

type Query struct {
	src Source
}

func New(src Source) *Query {
	return &Query{src: src}
}

func (q *Query) ByID(id string) (*core.Workspace, error) {
	ws, ok := q.src.Get(id)
	if !ok {
		return nil, core.NotFound(id)
	}
	return ws, nil
}

func (q *Query) ByCategory(category string) []*core.Workspace {
	return filter(q.src.List(), categoryMatch(category))
}

// Search matches query case-insensitively against name, description, type
// and tool names. A blank query matches everything.
func (q *Query) Search(query string) []*core.Workspace {
	return filter(q.src.List(), searchMatch(query))
}

func (q *Query) Installed() []*core.Workspace {
	return filter(q.src.List(), func(ws *core.Workspace) bool {
		return ws.Status == core.StatusInstalled
	})
}

type Params struct {
	Category      string
	Search        string
	InstalledOnly bool
}

// Filter applies every non-empty criterion in p.
func (q *Query) Filter(p Params) []*core.Workspace {
	cat, text := categoryMatch(p.Category), searchMatch(p.Search)
	return filter(q.src.List(), func(ws *core.Workspace) bool {
		if p.InstalledOnly && ws.Status != core.StatusInstalled {
			return false
		}
		return cat(ws) && text(ws)
	})
}

func categoryMatch(category string) func(*core.Workspace) bool {
	category = strings.TrimSpace(category)
	if category == "" || category == CategoryAll {
		return func(*core.Workspace) bool { return true }
	}
	return func(ws *core.Workspace) bool { return string(ws.Type) == category }
}

func searchMatch(query string) func(*core.Workspace) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return func(*core.Workspace) bool { return true }
	}
	return func(ws *core.Workspace) bool {
		if contains(ws.Name, needle) || contains(ws.Description, needle) || contains(string(ws.Type), needle) {
			return true
		}
		for _, t := range ws.Tools {
			if contains(t.Name, needle) {
				return true
			}
		}
		return false
	}
}

func contains(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

func filter(list []*core.Workspace, keep func(*core.Workspace) bool) []*core.Workspace {
	out := []*core.Workspace{}
	for _, ws := range list {
		if keep(ws) {
			out = append(out, ws)
		}
	}
	return out
}
