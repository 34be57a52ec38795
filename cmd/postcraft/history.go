// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshint/postcraft/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded pipeline runs",
	Long: `History prints past runs from the run database, newest first, with
their status, quality score, and package path.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := loadConfig()
	store, err := history.NewStore(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-22s  %-7s  %-10s  %-20s  %-7s  %s\n",
		"Run", "Mode", "Status", "Started", "Quality", "Package")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, e := range entries {
		pkg := e.PackagePath
		if pkg == "" {
			pkg = "-"
		}
		fmt.Fprintf(os.Stdout, "%-22s  %-7s  %-10s  %-20s  %-7d  %s\n",
			e.RunID, e.Mode, e.Status, e.StartedAt.Format("2006-01-02 15:04:05"), e.QualityScore, pkg)
	}
	return nil
}
