package core

import "time"

type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
	LogSuccess LogLevel = "success"
)

// InstallationLog is append-only; entries are never modified once emitted.
type InstallationLog struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Timestamp   time.Time `json:"timestamp"`
	Level       LogLevel  `json:"level"`
	Message     string    `json:"message"`
	Step        string    `json:"step,omitempty"`
}

type InstallState string

const (
	InstallIdle      InstallState = "idle"
	InstallRunning   InstallState = "running"
	InstallCompleted InstallState = "completed"
	InstallFailed    InstallState = "failed"
	InstallCancelled InstallState = "cancelled"
)

type InstallProgress struct {
	State       InstallState `json:"state"`
	WorkspaceID string       `json:"workspace_id,omitempty"`
	Percent     float64      `json:"percent"`
	CurrentStep string       `json:"current_step"`
	Installing  bool         `json:"is_installing"`
}
