package core

import "time"

type WorkspaceStatus string

const (
	StatusInactive   WorkspaceStatus = "inactive"
	StatusActive     WorkspaceStatus = "active"
	StatusInstalling WorkspaceStatus = "installing"
	StatusInstalled  WorkspaceStatus = "installed"
	StatusError      WorkspaceStatus = "error"
)

// Valid reports whether s is one of the known statuses.
func (s WorkspaceStatus) Valid() bool {
	switch s {
	case StatusInactive, StatusActive, StatusInstalling, StatusInstalled, StatusError:
		return true
	}
	return false
}

type WorkspaceType string

const (
	TypeWebDev        WorkspaceType = "web-dev"
	TypeDataAnalysis  WorkspaceType = "data-analysis"
	TypeDevOps        WorkspaceType = "devops"
	TypeMobileDev     WorkspaceType = "mobile-dev"
	TypeBlockchain    WorkspaceType = "blockchain"
	TypeCustom        WorkspaceType = "custom"
	TypeDataScience   WorkspaceType = "data-science"
	TypeCybersecurity WorkspaceType = "cybersecurity"
	TypeFrontend      WorkspaceType = "frontend"
	TypeBackend       WorkspaceType = "backend"
	TypeMobile        WorkspaceType = "mobile"
	TypeAIML          WorkspaceType = "ai-ml"
	TypeCloud         WorkspaceType = "cloud"
	TypeGamedev       WorkspaceType = "gamedev"
	TypeEmbedded      WorkspaceType = "embedded"
	TypeFullstack     WorkspaceType = "fullstack"
)

var knownTypes = map[WorkspaceType]struct{}{
	TypeWebDev: {}, TypeDataAnalysis: {}, TypeDevOps: {}, TypeMobileDev: {},
	TypeBlockchain: {}, TypeCustom: {}, TypeDataScience: {}, TypeCybersecurity: {},
	TypeFrontend: {}, TypeBackend: {}, TypeMobile: {}, TypeAIML: {}, TypeCloud: {},
	TypeGamedev: {}, TypeEmbedded: {}, TypeFullstack: {},
}

func (t WorkspaceType) Valid() bool {
	_, ok := knownTypes[t]
	return ok
}

// InstalledTool is informational only; dependencies and conflicts are not enforced.
type InstalledTool struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Version      string   `json:"version"`
	Path         string   `json:"path"`
	Size         uint64   `json:"size"`
	Status       string   `json:"status"`
	Dependencies []string `json:"dependencies"`
	Conflicts    []string `json:"conflicts"`
}

type PortMapping struct {
	HostPort      uint16 `json:"host_port"`
	ContainerPort uint16 `json:"container_port"`
	Protocol      string `json:"protocol"`
}

type ShellConfig struct {
	DefaultShell    string            `json:"default_shell"`
	AvailableShells []string          `json:"available_shells"`
	ShellRCFiles    map[string]string `json:"shell_rc_files"`
	CustomPrompt    string            `json:"custom_prompt,omitempty"`
	Plugins         []string          `json:"plugins"`
}

// WorkspaceConfig is carried as an opaque payload and never interpreted here.
type WorkspaceConfig struct {
	AutoStart            bool              `json:"auto_start"`
	PortMappings         []PortMapping     `json:"port_mappings"`
	EnvironmentVariables map[string]string `json:"environment_variables"`
	StartupCommands      []string          `json:"startup_commands"`
	CleanupCommands      []string          `json:"cleanup_commands"`
	ShellConfig          ShellConfig       `json:"shell_config"`
	Aliases              map[string]string `json:"aliases"`
	CustomPaths          []string          `json:"custom_paths"`
}

// ResourceUsage holds simulated gauges. CPU is a percentage, memory and disk
// are MB, network rates are MB/s.
type ResourceUsage struct {
	CPU        float64 `json:"cpu"`
	Memory     float64 `json:"memory"`
	Disk       float64 `json:"disk"`
	NetworkIn  float64 `json:"network_in"`
	NetworkOut float64 `json:"network_out"`
}

// Idle returns the gauges of a stopped workspace. Disk reflects the persisted
// footprint and is kept.
func (r ResourceUsage) Idle() ResourceUsage {
	return ResourceUsage{Disk: r.Disk}
}

type Workspace struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Type            WorkspaceType   `json:"type"`
	Status          WorkspaceStatus `json:"status"`
	InstallProgress int             `json:"install_progress"`
	Tools           []InstalledTool `json:"tools"`
	Config          WorkspaceConfig `json:"config"`
	ResourceUsage   ResourceUsage   `json:"resource_usage"`
	CreatedAt       time.Time       `json:"created_at"`
	LastActive      time.Time       `json:"last_active"`
	UserID          string          `json:"user_id"`
}

// Clone returns a deep copy so callers never share slices or maps with the
// repository.
func (w *Workspace) Clone() *Workspace {
	if w == nil {
		return nil
	}
	c := *w
	c.Tools = make([]InstalledTool, len(w.Tools))
	for i, t := range w.Tools {
		t.Dependencies = cloneSlice(t.Dependencies)
		t.Conflicts = cloneSlice(t.Conflicts)
		c.Tools[i] = t
	}
	c.Config = w.Config.clone()
	return &c
}

func (c WorkspaceConfig) clone() WorkspaceConfig {
	out := c
	out.PortMappings = cloneSlice(c.PortMappings)
	out.EnvironmentVariables = cloneMap(c.EnvironmentVariables)
	out.StartupCommands = cloneSlice(c.StartupCommands)
	out.CleanupCommands = cloneSlice(c.CleanupCommands)
	out.ShellConfig.AvailableShells = cloneSlice(c.ShellConfig.AvailableShells)
	out.ShellConfig.ShellRCFiles = cloneMap(c.ShellConfig.ShellRCFiles)
	out.ShellConfig.Plugins = cloneSlice(c.ShellConfig.Plugins)
	out.Aliases = cloneMap(c.Aliases)
	out.CustomPaths = cloneSlice(c.CustomPaths)
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type CreateWorkspaceRequest struct {
	Name        string           `json:"name"`
	Type        WorkspaceType    `json:"type"`
	Description string           `json:"description,omitempty"`
	Tools       []string         `json:"tools,omitempty"`
	Config      *WorkspaceConfig `json:"config,omitempty"`
}

// Validate checks required fields only.
func (r CreateWorkspaceRequest) Validate() error {
	if r.Name == "" {
		return Validation("name is required")
	}
	if r.Type == "" {
		return Validation("type is required")
	}
	if !r.Type.Valid() {
		return Validation("unknown workspace type " + string(r.Type))
	}
	return nil
}

// WorkspacePatch is a shallow partial update. Nil fields are left untouched.
type WorkspacePatch struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Type            *WorkspaceType   `json:"type,omitempty"`
	Status          *WorkspaceStatus `json:"status,omitempty"`
	InstallProgress *int             `json:"install_progress,omitempty"`
	Tools           *[]InstalledTool `json:"tools,omitempty"`
	Config          *WorkspaceConfig `json:"config,omitempty"`
	ResourceUsage   *ResourceUsage   `json:"resource_usage,omitempty"`
}

func (p WorkspacePatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return Validation("name must not be empty")
	}
	if p.Type != nil && !p.Type.Valid() {
		return Validation("unknown workspace type " + string(*p.Type))
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return Validation("unknown status " + string(*p.Status))
		}
		if *p.Status == StatusActive {
			return Validation("status active can only be set by activation")
		}
	}
	if p.InstallProgress != nil && (*p.InstallProgress < 0 || *p.InstallProgress > 100) {
		return Validation("install_progress must be within 0..100")
	}
	if p.ResourceUsage != nil && !p.ResourceUsage.nonNegative() {
		return Validation("resource usage gauges must be non-negative")
	}
	return nil
}

// Apply merges p into w in place.
func (p WorkspacePatch) Apply(w *Workspace) {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Description != nil {
		w.Description = *p.Description
	}
	if p.Type != nil {
		w.Type = *p.Type
	}
	if p.Status != nil {
		w.Status = *p.Status
	}
	if p.InstallProgress != nil {
		w.InstallProgress = *p.InstallProgress
	}
	if p.Tools != nil {
		w.Tools = append(make([]InstalledTool, 0, len(*p.Tools)), (*p.Tools)...)
	}
	if p.Config != nil {
		w.Config = p.Config.clone()
	}
	if p.ResourceUsage != nil {
		w.ResourceUsage = *p.ResourceUsage
	}
}

func (r ResourceUsage) nonNegative() bool {
	return r.CPU >= 0 && r.Memory >= 0 && r.Disk >= 0 && r.NetworkIn >= 0 && r.NetworkOut >= 0
}
