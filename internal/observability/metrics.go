package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// wsm-api metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wsm_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"route", "method", "code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wsm_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	ActiveRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wsm_active_requests",
		Help: "Current in-flight requests",
	})

	// persistence gateway
	GatewayCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wsm_gateway_calls_total",
		Help: "Persistence gateway calls by serving path",
	}, []string{"call", "path"})

	GatewayFallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wsm_gateway_fallback_total",
		Help: "Remote calls that fell back to the local store",
	}, []string{"call"})

	LocalSaveFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wsm_local_save_fail_total",
		Help: "Failed writes to the local store",
	})

	// lifecycle
	WorkspaceStateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wsm_workspace_state_transitions_total",
		Help: "Workspace status transition count",
	}, []string{"from", "to"})

	ActiveWorkspaces = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wsm_active_workspaces",
		Help: "Workspaces currently marked active (0 or 1)",
	})

	RefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wsm_refresh_total",
		Help: "Periodic workspace reloads by result",
	}, []string{"result"})

	// installer
	InstallationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wsm_installations_total",
		Help: "Installation runs by outcome",
	}, []string{"outcome"})

	InstallationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wsm_installation_duration_seconds",
		Help:    "Installation run duration",
		Buckets: []float64{1, 5, 10, 20, 30, 60, 120, 300},
	})

	InstallationProgress = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wsm_installation_progress_percent",
		Help: "Progress of the current installation run",
	})

	// wsm-backend metrics
	BackendRPCTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wsm_backend_rpc_total",
		Help: "Backend RPC count",
	}, []string{"method", "code"})

	BackendRPCDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wsm_backend_rpc_duration_seconds",
		Help:    "Backend RPC latency",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
	}, []string{"method"})
)

func RegisterAll(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, ActiveRequests,
		GatewayCallsTotal, GatewayFallbackTotal, LocalSaveFailTotal,
		WorkspaceStateTransitions, ActiveWorkspaces, RefreshTotal,
		InstallationsTotal, InstallationDuration, InstallationProgress,
		BackendRPCTotal, BackendRPCDuration,
	)
}
