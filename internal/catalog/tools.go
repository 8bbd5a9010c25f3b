// Package catalog holds the static data the workspace core draws on: the
// mock tool catalog, the default workspace configuration and the built-in
// workspace templates.
package catalog

import (
	"strings"
	"time"

	"github.com/lzjever/wsm/internal/core"
)

type toolInfo struct {
	kind    string
	version string
	size    uint64
}

var tools = map[string]toolInfo{
	"Python":     {"language", "3.11.0", 50_000_000},
	"Node.js":    {"language", "18.17.0", 75_000_000},
	"React":      {"package", "18.2.0", 5_000_000},
	"TypeScript": {"package", "5.0.0", 10_000_000},
	"PostgreSQL": {"database", "15.2", 100_000_000},
	"Docker":     {"cli", "24.0.7", 150_000_000},
	"VS Code":    {"ide", "1.85.0", 200_000_000},
	"Jupyter":    {"ide", "6.4.0", 25_000_000},
	"Git":        {"cli", "2.40.0", 30_000_000},
}

var unknownTool = toolInfo{"package", "1.0.0", 10_000_000}

// Tool returns the descriptor recorded for a tool installed by name.
func Tool(name string) core.InstalledTool {
	info, ok := tools[name]
	if !ok {
		info = unknownTool
	}
	return core.InstalledTool{
		Name:         name,
		Type:         info.kind,
		Version:      info.version,
		Path:         "/usr/local/bin/" + strings.ToLower(name),
		Size:         info.size,
		Status:       "installed",
		Dependencies: []string{},
		Conflicts:    []string{},
	}
}

func DefaultConfig() core.WorkspaceConfig {
	return core.WorkspaceConfig{
		AutoStart:            false,
		PortMappings:         []core.PortMapping{},
		EnvironmentVariables: map[string]string{},
		StartupCommands:      []string{},
		CleanupCommands:      []string{},
		ShellConfig: core.ShellConfig{
			DefaultShell:    "bash",
			AvailableShells: []string{"bash"},
			ShellRCFiles:    map[string]string{},
			Plugins:         []string{},
		},
		Aliases:     map[string]string{},
		CustomPaths: []string{},
	}
}

// NewWorkspace builds the record for a create request. Both the backend and
// the local store use it so either path yields the same workspace.
func NewWorkspace(id string, req core.CreateWorkspaceRequest, userID string, now time.Time) *core.Workspace {
	installed := make([]core.InstalledTool, 0, len(req.Tools))
	for _, name := range req.Tools {
		installed = append(installed, Tool(name))
	}
	cfg := DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}
	return &core.Workspace{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Status:      core.StatusInactive,
		Tools:       installed,
		Config:      cfg,
		CreatedAt:   now,
		LastActive:  now,
		UserID:      userID,
	}
}
