package backend

type Config struct {
	GRPCAddr    string `envconfig:"WSM_BACKEND_GRPC_ADDR" default:"0.0.0.0:7070"`
	DBDSN       string `envconfig:"WSM_DB_DSN" required:"true"`
	DBMaxConns  int32  `envconfig:"WSM_DB_MAX_CONNS" default:"10"`
	MetricsAddr string `envconfig:"WSM_BACKEND_METRICS_ADDR" default:"0.0.0.0:9092"`
	LogLevel    string `envconfig:"WSM_LOG_LEVEL" default:"info"`
	UserID      string `envconfig:"WSM_BACKEND_USER_ID" default:"default"`
}
