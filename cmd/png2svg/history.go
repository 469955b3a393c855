// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roshanlimbu/png-to-svg-frontend/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded conversion attempts",
	Long: `History lists past conversion attempts from the local SQLite history
database, newest first, with an aggregate summary. Use --export to write
the history to a YAML file.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	if cfg.History.Dir == "" {
		return fmt.Errorf("history is not configured: set --history-dir or history.dir")
	}

	store, err := history.Open(cfg.History.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := store.ExportYAML(cmd.Context(), exportPath, limit); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", exportPath)
		return nil
	}

	entries, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No conversions recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-6s  %-8s  %-8s  %s\n",
		"File", "Mode", "Result", "Duration", "When")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))

	for _, e := range entries {
		name := e.Filename
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		result := "ok"
		if !e.Success {
			result = "failed"
		}
		fmt.Fprintf(os.Stdout, "%-30s  %-6s  %-8s  %-8s  %s\n",
			name, e.Mode, result, e.Duration, e.CreatedAt.Format("2006-01-02 15:04"))
		if e.Error != "" {
			fmt.Fprintf(os.Stdout, "    %s\n", e.Error)
		}
	}

	sum, err := store.Summary(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\n%d recorded: %d succeeded, %d failed\n",
		sum.Total, sum.Succeeded, sum.Failed)
	return nil
}

func init() {
	historyCmd.Flags().String("history-dir", "", "directory for the conversion history database")
	historyCmd.Flags().Int("limit", 20, "maximum entries to show")
	historyCmd.Flags().Bool("json", false, "output entries as JSON")
	historyCmd.Flags().String("export", "", "write history to a YAML file instead of printing")

	rootCmd.AddCommand(historyCmd)
}
