package query

import (
	"testing"
	"time"

	"github.com/lzjever/wsm/internal/core"
	"github.com/lzjever/wsm/internal/repository"
)

func seed(t *testing.T) *Query {
	t.Helper()
	repo := repository.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.Put(&core.Workspace{ID: "a", Name: "Web Frontend", Type: core.TypeWebDev, Status: core.StatusInstalled, CreatedAt: base,
		Tools: []core.InstalledTool{{Name: "React"}, {Name: "TypeScript"}}})
	repo.Put(&core.Workspace{ID: "b", Name: "Notebook", Description: "Pandas and plots", Type: core.TypeDataAnalysis, Status: core.StatusInactive, CreatedAt: base.Add(time.Minute),
		Tools: []core.InstalledTool{{Name: "Jupyter"}}})
	repo.Put(&core.Workspace{ID: "c", Name: "Infra", Type: core.TypeDevOps, Status: core.StatusInstalled, CreatedAt: base.Add(2 * time.Minute),
		Tools: []core.InstalledTool{{Name: "Docker"}}})
	return New(repo)
}

func ids(list []*core.Workspace) []string {
	out := make([]string, len(list))
	for i, ws := range list {
		out[i] = ws.ID
	}
	return out
}

func equal(got []*core.Workspace, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestByID(t *testing.T) {
	q := seed(t)
	ws, err := q.ByID("b")
	if err != nil || ws.Name != "Notebook" {
		t.Fatalf("expected Notebook, got %v %v", ws, err)
	}
	if _, err := q.ByID("zzz"); !core.IsCode(err, core.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestByCategory(t *testing.T) {
	q := seed(t)
	if got := q.ByCategory("all"); !equal(got, "a", "b", "c") {
		t.Errorf("all: got %v", ids(got))
	}
	if got := q.ByCategory("devops"); !equal(got, "c") {
		t.Errorf("devops: got %v", ids(got))
	}
	if got := q.ByCategory("blockchain"); len(got) != 0 {
		t.Errorf("blockchain: got %v", ids(got))
	}
}

func TestSearch(t *testing.T) {
	q := seed(t)
	tests := []struct {
		query string
		want  []string
	}{
		{"web", []string{"a"}},
		{"PANDAS", []string{"b"}},
		{"data-analysis", []string{"b"}},
		{"docker", []string{"c"}},
		{"script", []string{"a"}},
		{"  ", []string{"a", "b", "c"}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		if got := q.Search(tt.query); !equal(got, tt.want...) {
			t.Errorf("Search(%q) = %v, want %v", tt.query, ids(got), tt.want)
		}
	}
}

func TestInstalled(t *testing.T) {
	q := seed(t)
	if got := q.Installed(); !equal(got, "a", "c") {
		t.Errorf("got %v", ids(got))
	}
}

func TestFilter_Combines(t *testing.T) {
	q := seed(t)
	if got := q.Filter(Params{Category: "web-dev", Search: "react", InstalledOnly: true}); !equal(got, "a") {
		t.Errorf("got %v", ids(got))
	}
	if got := q.Filter(Params{Search: "o", InstalledOnly: true}); !equal(got, "a", "c") {
		t.Errorf("got %v", ids(got))
	}
}

func TestResultsAreCopies(t *testing.T) {
	q := seed(t)
	q.Search("web")[0].Name = "mutated"
	if ws, _ := q.ByID("a"); ws.Name != "Web Frontend" {
		t.Error("query results must not alias repository records")
	}
}
