package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/lzjever/wsm/internal/catalog"
	"github.com/lzjever/wsm/internal/core"
	"github.com/lzjever/wsm/internal/scanner"
)

func printResult(v any) {
	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(v)
		return
	}
	printTable(v)
}

func printTable(v any) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	switch data := v.(type) {
	case []core.Workspace:
		if len(data) == 0 {
			fmt.Println("No workspaces found.")
			return
		}
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tTOOLS\tSIZE\tCREATED")
		for _, ws := range data {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				shortID(ws.ID), truncate(ws.Name, 30), ws.Type, ws.Status,
				len(ws.Tools), humanize.Bytes(toolsSize(ws.Tools)), humanize.Time(ws.CreatedAt))
		}
	case core.Workspace:
		fmt.Fprintf(w, "ID:\t%s\n", data.ID)
		fmt.Fprintf(w, "Name:\t%s\n", data.Name)
		if data.Description != "" {
			fmt.Fprintf(w, "Description:\t%s\n", data.Description)
		}
		fmt.Fprintf(w, "Type:\t%s\n", data.Type)
		fmt.Fprintf(w, "Status:\t%s\n", data.Status)
		if data.Status == core.StatusInstalling {
			fmt.Fprintf(w, "Progress:\t%d%%\n", data.InstallProgress)
		}
		u := data.ResourceUsage
		fmt.Fprintf(w, "CPU:\t%.1f%%\n", u.CPU)
		fmt.Fprintf(w, "Memory:\t%s\n", megabytes(u.Memory))
		fmt.Fprintf(w, "Disk:\t%s\n", megabytes(u.Disk))
		fmt.Fprintf(w, "Network:\t%.2f MB/s in, %.2f MB/s out\n", u.NetworkIn, u.NetworkOut)
		fmt.Fprintf(w, "Created:\t%s (%s)\n", data.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(data.CreatedAt))
		fmt.Fprintf(w, "Last active:\t%s\n", humanize.Time(data.LastActive))
		for i, t := range data.Tools {
			label := ""
			if i == 0 {
				label = "Tools:"
			}
			fmt.Fprintf(w, "%s\t%s %s (%s, %s)\n", label, t.Name, t.Version, t.Type, humanize.Bytes(t.Size))
		}
	case InstallationResponse:
		p := data.Progress
		fmt.Fprintf(w, "State:\t%s\n", p.State)
		if p.WorkspaceID != "" {
			fmt.Fprintf(w, "Workspace:\t%s\n", p.WorkspaceID)
		}
		fmt.Fprintf(w, "Progress:\t%.1f%%\n", p.Percent)
		if p.CurrentStep != "" {
			fmt.Fprintf(w, "Step:\t%s\n", p.CurrentStep)
		}
		w.Flush()
		for _, l := range data.Logs {
			fmt.Println(formatLog(l))
		}
	case []catalog.Template:
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tTOOLS\tDOWNLOADS\tRATING")
		for _, t := range data {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1f\n",
				t.ID, t.Name, t.Type, truncate(strings.Join(t.Tools, ","), 40), humanize.Comma(int64(t.Downloads)), t.Rating)
		}
	case []scanner.Tool:
		fmt.Fprintln(w, "NAME\tTYPE\tSTATUS\tDESCRIPTION")
		for _, t := range data {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Name, t.Type, t.Status, t.Description)
		}
	default:
		json.NewEncoder(os.Stdout).Encode(v)
	}
}

func formatLog(l core.InstallationLog) string {
	return fmt.Sprintf("%s [%-7s] %s", l.Timestamp.Local().Format("15:04:05"), l.Level, l.Message)
}

func toolsSize(tools []core.InstalledTool) uint64 {
	var total uint64
	for _, t := range tools {
		total += t.Size
	}
	return total
}

// megabytes renders a gauge expressed in MB.
func megabytes(mb float64) string {
	return humanize.Bytes(uint64(mb * 1_000_000))
}

func shortID(id string) string {
	if len(id) <= 13 {
		return id
	}
	return id[:13]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
