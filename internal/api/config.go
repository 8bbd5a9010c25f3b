package api

import "time"

type Config struct {
	HTTPAddr        string        `envconfig:"WSM_HTTP_ADDR" default:"0.0.0.0:8080"`
	MetricsAddr     string        `envconfig:"WSM_METRICS_ADDR" default:"0.0.0.0:9090"`
	LogLevel        string        `envconfig:"WSM_LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"WSM_SHUTDOWN_TIMEOUT" default:"30s"`

	// Empty BackendAddr runs against the local store only.
	BackendAddr    string        `envconfig:"WSM_BACKEND_ADDR"`
	BackendTimeout time.Duration `envconfig:"WSM_BACKEND_TIMEOUT" default:"2s"`
	LocalDBPath    string        `envconfig:"WSM_LOCAL_DB_PATH" default:"wsm.db"`
	UserID         string        `envconfig:"WSM_USER_ID" default:"local-user"`

	RefreshInterval time.Duration `envconfig:"WSM_REFRESH_INTERVAL" default:"30s"`

	PipelineFile string        `envconfig:"WSM_PIPELINE_FILE"`
	StepTimeout  time.Duration `envconfig:"WSM_STEP_TIMEOUT" default:"60s"`
	TickInterval time.Duration `envconfig:"WSM_TICK_INTERVAL" default:"100ms"`
	TimeScale    float64       `envconfig:"WSM_TIME_SCALE" default:"1.0"`
}
