package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of png2svg",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("png2svg %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
