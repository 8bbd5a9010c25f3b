package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the JSON logger shared by every wsm binary. Unknown levels
// fall back to info; stack traces are kept for debug only.
func NewLogger(service, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = lvl > zapcore.DebugLevel
	cfg.InitialFields = map[string]any{"service": service}
	return cfg.Build()
}

// InstallLogger scopes a logger to one installation run.
func InstallLogger(base *zap.Logger, installID, wsid string) *zap.Logger {
	return base.With(zap.String("install_id", installID), zap.String("wsid", wsid))
}
