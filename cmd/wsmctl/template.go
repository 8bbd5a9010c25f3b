package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lzjever/wsm/internal/catalog"
	"github.com/lzjever/wsm/internal/core"
	"github.com/lzjever/wsm/internal/scanner"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Workspace template commands",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in templates",
	Run: func(cmd *cobra.Command, args []string) {
		var resp struct {
			Templates []catalog.Template `json:"templates"`
		}
		exitOnErr(NewClient(apiURL).Get("/v1/templates", &resp))
		printResult(resp.Templates)
	},
}

var templateName string

var templateCreateCmd = &cobra.Command{
	Use:   "create <template-id>",
	Short: "Create a workspace from a template",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var ws core.Workspace
		body := map[string]string{"name": templateName}
		exitOnErr(NewClient(apiURL).Post("/v1/templates/"+args[0]+":create", body, &ws))
		fmt.Printf("Workspace %s created from %s.\n", ws.ID, args[0])
	},
}

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Host inspection commands",
}

var systemToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List tools detected on the API host",
	Run: func(cmd *cobra.Command, args []string) {
		var resp struct {
			Tools []scanner.Tool `json:"tools"`
		}
		exitOnErr(NewClient(apiURL).Get("/v1/system/tools", &resp))
		printResult(resp.Tools)
	},
}

func init() {
	templateCreateCmd.Flags().StringVarP(&templateName, "name", "n", "", "Workspace name (defaults to the template name)")
	templateCmd.AddCommand(templateListCmd, templateCreateCmd)
	systemCmd.AddCommand(systemToolsCmd)
	rootCmd.AddCommand(templateCmd, systemCmd)
}
