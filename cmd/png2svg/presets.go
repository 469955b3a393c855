// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roshanlimbu/png-to-svg-frontend/pkg/types"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the available conversion presets and option defaults",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "%-8s  %-8s  %s\n", "Name", "Label", "Description")
		for _, p := range types.Presets {
			fmt.Fprintf(os.Stdout, "%-8s  %-8s  %s\n", p.Name, p.Label, p.Description)
		}

		d := types.DefaultOptions()
		fmt.Fprintf(os.Stdout, "\nDefaults: threshold=%d turd-size=%d opt-curve=%t turn-policy=%s\n",
			d.Threshold, d.TurdSize, d.OptCurve, d.TurnPolicy)
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
