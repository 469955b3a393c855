// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roshanlimbu/png-to-svg-frontend/internal/convert"
	"github.com/roshanlimbu/png-to-svg-frontend/internal/download"
	"github.com/roshanlimbu/png-to-svg-frontend/internal/history"
	"github.com/roshanlimbu/png-to-svg-frontend/internal/selection"
	"github.com/roshanlimbu/png-to-svg-frontend/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert PNG files to SVG via the converter backend",
	Long: `Convert validates the given files (PNG only, aggregate size ceiling),
sends one file to the single-item endpoint or several files in one request
to the bulk endpoint, and saves the returned SVGs to the output directory.
Bulk saves are spaced out with a fixed delay between files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)

	candidates, err := selection.LoadFiles(args)
	if err != nil {
		return err
	}

	result, err := selection.Filter(candidates, cfg.Selection.MaxTotalBytes)
	if err != nil {
		return err
	}
	if result.Warning != "" {
		fmt.Fprintln(os.Stderr, result.Warning)
	}

	opts, err := optionsFromFlags(cmd)
	if err != nil {
		return err
	}

	client := convert.NewClient(cfg.Backend)

	start := time.Now()
	single, bulk, err := client.Dispatch(context.Background(), result.Files, opts)
	elapsed := time.Since(start)

	recordHistory(cmd, cfg.History, result.Files, opts, single, bulk, err, elapsed)
	if err != nil {
		return err
	}

	if single != nil {
		path, err := download.Save(cfg.Download.OutDir, single.SVGName, single.SVG)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "saved:   %s\n", path)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%d of %d converted, %d failed", bulk.Summary.Successful,
		bulk.Summary.Total, bulk.Summary.Failed)
	if bulk.Summary.ProcessingTime != "" {
		fmt.Fprintf(os.Stdout, " in %s", bulk.Summary.ProcessingTime)
	}
	fmt.Fprintln(os.Stdout)

	saved, err := download.SaveAll(cmd.Context(), cfg.Download.OutDir, bulk.Results, cfg.Download.Stagger, os.Stdout)
	if err != nil {
		return err
	}
	if saved.Failed > 0 {
		return fmt.Errorf("%d file(s) failed", saved.Failed)
	}
	return nil
}

// optionsFromFlags builds and validates the conversion options.
func optionsFromFlags(cmd *cobra.Command) (types.Options, error) {
	opts := types.DefaultOptions()
	opts.Preset, _ = cmd.Flags().GetString("preset")
	opts.Threshold, _ = cmd.Flags().GetInt("threshold")
	opts.TurdSize, _ = cmd.Flags().GetInt("turd-size")
	opts.OptCurve, _ = cmd.Flags().GetBool("opt-curve")
	policy, _ := cmd.Flags().GetString("turn-policy")
	opts.TurnPolicy = types.TurnPolicy(policy)

	if err := opts.Validate(); err != nil {
		return types.Options{}, err
	}
	return opts, nil
}

// recordHistory stores the attempt when history recording is enabled.
func recordHistory(cmd *cobra.Command, hc types.HistoryConfig, files []selection.File, opts types.Options, single *types.SingleResult, bulk *types.BulkResult, convErr error, elapsed time.Duration) {
	if !hc.Enabled {
		return
	}

	store, err := history.Open(hc.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	now := time.Now().UTC()
	var entries []history.Entry

	switch {
	case single != nil:
		entries = append(entries, history.Entry{
			Filename: single.SourceName, Mode: history.ModeSingle, Preset: opts.Preset,
			Success: true, Duration: elapsed, CreatedAt: now,
		})
	case bulk != nil:
		for _, item := range bulk.Results {
			entries = append(entries, history.Entry{
				Filename: item.Filename, Mode: history.ModeBulk, Preset: opts.Preset,
				Success: item.Success, Error: item.Error, Duration: elapsed, CreatedAt: now,
			})
		}
	default:
		mode := history.ModeSingle
		if len(files) > 1 {
			mode = history.ModeBulk
		}
		msg := ""
		if convErr != nil {
			msg = convErr.Error()
		}
		for _, f := range files {
			entries = append(entries, history.Entry{
				Filename: f.Name, Mode: mode, Preset: opts.Preset,
				Error: msg, Duration: elapsed, CreatedAt: now,
			})
		}
	}

	if err := store.Record(cmd.Context(), entries); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording history: %v\n", err)
	}
}

func init() {
	defaults := types.DefaultOptions()

	convertCmd.Flags().String("out", "converted", "output directory for SVG files")
	convertCmd.Flags().String("preset", "", "preset name: logo, photo, drawing, or text")
	convertCmd.Flags().Int("threshold", defaults.Threshold, "black/white cutoff, 0-255")
	convertCmd.Flags().Int("turd-size", defaults.TurdSize, "noise-removal strength in pixels")
	convertCmd.Flags().Bool("opt-curve", defaults.OptCurve, "optimize curves in the traced output")
	convertCmd.Flags().String("turn-policy", string(defaults.TurnPolicy), "ambiguous-path policy: black, white, left, right, minority, majority, or random")
	convertCmd.Flags().Duration("stagger", 0, "delay between consecutive bulk saves (default 200ms)")
	convertCmd.Flags().String("history-dir", "", "directory for the conversion history database (empty = disabled)")

	rootCmd.AddCommand(convertCmd)
}
