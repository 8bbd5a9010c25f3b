package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lzjever/wsm/internal/core"
)

type InstallationResponse struct {
	Progress core.InstallProgress   `json:"progress"`
	Logs     []core.InstallationLog `json:"logs"`
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Installation pipeline commands",
}

var installStartCmd = &cobra.Command{
	Use:   "start <wsid>",
	Short: "Start installing a workspace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitOnErr(NewClient(apiURL).Post("/v1/workspaces/"+args[0]+":install", nil, nil))
		fmt.Printf("Installation of %s started.\n", args[0])
		fmt.Println("Check status: wsmctl install watch")
	},
}

var installStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show installation progress and logs",
	Run: func(cmd *cobra.Command, args []string) {
		var resp InstallationResponse
		exitOnErr(NewClient(apiURL).Get("/v1/installation", &resp))
		printResult(resp)
	},
}

var watchInterval time.Duration

var installWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the installation until it ends",
	Run: func(cmd *cobra.Command, args []string) {
		client := NewClient(apiURL)
		printed := 0
		for {
			var resp InstallationResponse
			exitOnErr(client.Get("/v1/installation", &resp))

			if len(resp.Logs) < printed {
				printed = 0
			}
			for _, l := range resp.Logs[printed:] {
				fmt.Println(formatLog(l))
			}
			printed = len(resp.Logs)

			if !resp.Progress.Installing {
				fmt.Printf("State: %s (%.0f%%)\n", resp.Progress.State, resp.Progress.Percent)
				return
			}
			fmt.Printf("  %5.1f%%  %s\n", resp.Progress.Percent, resp.Progress.CurrentStep)
			time.Sleep(watchInterval)
		}
	},
}

var installCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the running installation",
	Run: func(cmd *cobra.Command, args []string) {
		var resp map[string]bool
		exitOnErr(NewClient(apiURL).Post("/v1/installation:cancel", nil, &resp))
		if resp["cancelled"] {
			fmt.Println("Installation cancelled.")
			return
		}
		fmt.Println("No installation running.")
	},
}

func init() {
	installWatchCmd.Flags().DurationVar(&watchInterval, "interval", time.Second, "Poll interval")
	installCmd.AddCommand(installStartCmd, installStatusCmd, installWatchCmd, installCancelCmd)
	rootCmd.AddCommand(installCmd)
}
