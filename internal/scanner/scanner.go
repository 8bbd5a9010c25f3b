// Package scanner reports the developer tools detected on the host. Detection
// is stubbed: the list is fixed per platform.
package scanner

import (
	"context"
	"runtime"
)

type ToolStatus string

const (
	ToolInstalled    ToolStatus = "installed"
	ToolNotInstalled ToolStatus = "not-installed"
	ToolOutdated     ToolStatus = "outdated"
)

type Tool struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Version     string     `json:"version,omitempty"`
	Status      ToolStatus `json:"status"`
	Type        string     `json:"type"`
}

type Scanner struct {
	goos string
}

func New() *Scanner {
	return &Scanner{goos: runtime.GOOS}
}

// Scan returns the detected tools. progress, when non-nil, receives
// percentages in increasing order.
func (s *Scanner) Scan(ctx context.Context, progress func(percent float64)) ([]Tool, error) {
	const steps = 10
	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if progress != nil {
			progress(float64(i) / steps * 100)
		}
	}

	var tools []Tool
	switch s.goos {
	case "darwin":
		tools = append(tools,
			Tool{ID: "macos", Name: "macOS", Description: "Operating System", Status: ToolInstalled, Type: "service"},
			Tool{ID: "homebrew", Name: "Homebrew", Description: "Package Manager", Status: ToolNotInstalled, Type: "package"},
		)
	case "windows":
		tools = append(tools,
			Tool{ID: "windows", Name: "Windows", Description: "Operating System", Status: ToolInstalled, Type: "service"},
			Tool{ID: "chocolatey", Name: "Chocolatey", Description: "Package Manager", Status: ToolNotInstalled, Type: "package"},
		)
	default:
		tools = append(tools,
			Tool{ID: "linux", Name: "Linux", Description: "Operating System", Status: ToolInstalled, Type: "service"},
		)
	}
	tools = append(tools,
		Tool{ID: "nodejs", Name: "Node.js", Description: "JavaScript Runtime", Status: ToolNotInstalled, Type: "language"},
		Tool{ID: "python", Name: "Python", Description: "Programming Language", Status: ToolNotInstalled, Type: "language"},
		Tool{ID: "git", Name: "Git", Description: "Version Control", Status: ToolNotInstalled, Type: "cli"},
		Tool{ID: "docker", Name: "Docker", Description: "Container Platform", Status: ToolNotInstalled, Type: "cli"},
		Tool{ID: "vscode", Name: "VS Code", Description: "Code Editor", Status: ToolNotInstalled, Type: "ide"},
	)
	return tools, nil
}
