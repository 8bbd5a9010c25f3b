package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var obsCmd = &cobra.Command{
	Use:   "obs",
	Short: "Observability commands (query VictoriaMetrics)",
}

var vmsingleURL string

type VMResponse struct {
	Status string `json:"status"`
	Data   struct {
		Result []struct {
			Metric map[string]string `json:"metric"`
			Value  []any             `json:"value"`
		} `json:"result"`
	} `json:"data"`
}

type namedQuery struct {
	name  string
	query string
}

func obsQueryCmd(use, short string, queries []namedQuery) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			for _, q := range queries {
				fmt.Printf("%s: %s\n", q.name, queryVM(vmsingleURL, q.query))
			}
		},
	}
}

var obsSummaryCmd = obsQueryCmd("summary", "Show system summary metrics", []namedQuery{
	{"HTTP Request Rate", `sum(rate(wsm_http_requests_total[5m]))`},
	{"Active Requests", `wsm_active_requests`},
	{"Active Workspaces", `wsm_active_workspaces`},
	{"Install Success Rate", `sum(rate(wsm_installations_total{outcome="completed"}[1h])) / sum(rate(wsm_installations_total[1h])) * 100`},
})

var obsLatencyCmd = obsQueryCmd("latency", "Show latency metrics", []namedQuery{
	{"HTTP P50", `histogram_quantile(0.5, sum(rate(wsm_http_request_duration_seconds_bucket[5m])) by (le))`},
	{"HTTP P95", `histogram_quantile(0.95, sum(rate(wsm_http_request_duration_seconds_bucket[5m])) by (le))`},
	{"HTTP P99", `histogram_quantile(0.99, sum(rate(wsm_http_request_duration_seconds_bucket[5m])) by (le))`},
	{"Backend RPC P95", `histogram_quantile(0.95, sum(rate(wsm_backend_rpc_duration_seconds_bucket[5m])) by (le))`},
})

var obsGatewayCmd = obsQueryCmd("gateway", "Show persistence gateway metrics", []namedQuery{
	{"Remote Calls", `sum(rate(wsm_gateway_calls_total{path="remote"}[5m]))`},
	{"Local Calls", `sum(rate(wsm_gateway_calls_total{path="local"}[5m]))`},
	{"Fallback Rate", `sum(rate(wsm_gateway_fallback_total[5m]))`},
	{"Local Save Failures", `sum(wsm_local_save_fail_total)`},
	{"Refresh Errors", `sum(rate(wsm_refresh_total{result="error"}[15m]))`},
})

var obsInstallCmd = obsQueryCmd("install", "Show installation metrics", []namedQuery{
	{"Progress", `wsm_installation_progress_percent`},
	{"Duration P95", `histogram_quantile(0.95, sum(rate(wsm_installation_duration_seconds_bucket[1h])) by (le))`},
	{"Failed (1h)", `sum(increase(wsm_installations_total{outcome="failed"}[1h]))`},
	{"Cancelled (1h)", `sum(increase(wsm_installations_total{outcome="cancelled"}[1h]))`},
})

func queryVM(baseURL, query string) string {
	resp, err := http.Get(baseURL + "/api/v1/query?query=" + url.QueryEscape(query))
	if err != nil {
		return "error: " + err.Error()
	}
	defer resp.Body.Close()

	var vmResp VMResponse
	if err := json.NewDecoder(resp.Body).Decode(&vmResp); err != nil {
		return "parse error"
	}
	if len(vmResp.Data.Result) == 0 {
		return "no data"
	}
	result := vmResp.Data.Result[0]
	if len(result.Value) >= 2 {
		return fmt.Sprintf("%v", result.Value[1])
	}
	return "no value"
}

func init() {
	obsCmd.PersistentFlags().StringVar(&vmsingleURL, "vm-url", envOr("WSM_VM_URL", "http://localhost:8428"), "VictoriaMetrics URL")
	obsCmd.AddCommand(obsSummaryCmd, obsLatencyCmd, obsGatewayCmd, obsInstallCmd)
	rootCmd.AddCommand(obsCmd)
}
