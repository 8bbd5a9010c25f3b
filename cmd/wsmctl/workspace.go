package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lzjever/wsm/internal/core"
)

type WorkspaceListResponse struct {
	Workspaces []core.Workspace `json:"workspaces"`
	Count      int              `json:"count"`
}

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Workspace management commands",
}

var (
	createType        string
	createDescription string
	createTools       []string
)

var wsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new workspace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		req := core.CreateWorkspaceRequest{
			Name:        args[0],
			Type:        core.WorkspaceType(createType),
			Description: createDescription,
			Tools:       createTools,
		}
		var ws core.Workspace
		err := NewClient(apiURL).Do("POST", "/v1/workspaces", req, &ws, map[string]string{
			"Idempotency-Key": uuid.New().String(),
		})
		exitOnErr(err)
		fmt.Printf("Workspace %s created (%s).\n", ws.ID, ws.Name)
	},
}

var wsGetCmd = &cobra.Command{
	Use:   "get <wsid>",
	Short: "Get workspace details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var ws core.Workspace
		exitOnErr(NewClient(apiURL).Get("/v1/workspaces/"+args[0], &ws))
		printResult(ws)
	},
}

var (
	listCategory  string
	listSearch    string
	listInstalled bool
)

var wsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	Run: func(cmd *cobra.Command, args []string) {
		q := url.Values{}
		if listCategory != "" {
			q.Set("category", listCategory)
		}
		if listSearch != "" {
			q.Set("q", listSearch)
		}
		if listInstalled {
			q.Set("installed", "true")
		}
		path := "/v1/workspaces"
		if len(q) > 0 {
			path += "?" + q.Encode()
		}
		var resp WorkspaceListResponse
		exitOnErr(NewClient(apiURL).Get(path, &resp))
		printResult(resp.Workspaces)
	},
}

var (
	updateName        string
	updateDescription string
	updateStatus      string
)

var wsUpdateCmd = &cobra.Command{
	Use:   "update <wsid>",
	Short: "Update workspace fields",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		patch := map[string]string{}
		if cmd.Flags().Changed("name") {
			patch["name"] = updateName
		}
		if cmd.Flags().Changed("description") {
			patch["description"] = updateDescription
		}
		if cmd.Flags().Changed("status") {
			patch["status"] = updateStatus
		}
		if len(patch) == 0 {
			exitOnErr(fmt.Errorf("nothing to update"))
		}
		var ws core.Workspace
		exitOnErr(NewClient(apiURL).Patch("/v1/workspaces/"+args[0], patch, &ws))
		printResult(ws)
	},
}

var wsDeleteCmd = &cobra.Command{
	Use:   "delete <wsid>",
	Short: "Delete a workspace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitOnErr(NewClient(apiURL).Delete("/v1/workspaces/" + args[0]))
		fmt.Printf("Workspace %s deleted.\n", args[0])
	},
}

var wsActivateCmd = &cobra.Command{
	Use:   "activate <wsid>",
	Short: "Make a workspace the active one",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var ws core.Workspace
		exitOnErr(NewClient(apiURL).Post("/v1/workspaces/"+args[0]+":activate", nil, &ws))
		printResult(ws)
	},
}

var wsDeactivateCmd = &cobra.Command{
	Use:   "deactivate <wsid>",
	Short: "Deactivate a workspace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var ws core.Workspace
		exitOnErr(NewClient(apiURL).Post("/v1/workspaces/"+args[0]+":deactivate", nil, &ws))
		printResult(ws)
	},
}

var wsActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the active workspace",
	Run: func(cmd *cobra.Command, args []string) {
		var resp struct {
			Workspace *core.Workspace `json:"workspace"`
		}
		exitOnErr(NewClient(apiURL).Get("/v1/workspaces:active", &resp))
		if resp.Workspace == nil {
			fmt.Println("No active workspace.")
			return
		}
		printResult(*resp.Workspace)
	},
}

func init() {
	wsCreateCmd.Flags().StringVarP(&createType, "type", "t", string(core.TypeCustom), "Workspace type")
	wsCreateCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Description")
	wsCreateCmd.Flags().StringSliceVar(&createTools, "tools", nil, "Comma-separated tool names")

	wsListCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by workspace type (or all)")
	wsListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search name, description, type and tools")
	wsListCmd.Flags().BoolVar(&listInstalled, "installed", false, "Only installed workspaces")

	wsUpdateCmd.Flags().StringVar(&updateName, "name", "", "New name")
	wsUpdateCmd.Flags().StringVar(&updateDescription, "description", "", "New description")
	wsUpdateCmd.Flags().StringVar(&updateStatus, "status", "", "New status ("+strings.Join([]string{
		string(core.StatusInactive), string(core.StatusInstalling), string(core.StatusInstalled), string(core.StatusError),
	}, ", ")+")")

	workspaceCmd.AddCommand(wsCreateCmd, wsGetCmd, wsListCmd, wsUpdateCmd, wsDeleteCmd,
		wsActivateCmd, wsDeactivateCmd, wsActiveCmd)
	rootCmd.AddCommand(workspaceCmd)
}

func exitOnErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
