// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roshanlimbu/png-to-svg-frontend/internal/convert"
	"github.com/roshanlimbu/png-to-svg-frontend/internal/history"
	"github.com/roshanlimbu/png-to-svg-frontend/internal/session"
	"github.com/roshanlimbu/png-to-svg-frontend/internal/webui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web interface",
	Long: `Serve starts the single-page web interface: drag in PNG files, tune
conversion options, convert through the remote backend, and download the
results individually or as a zip archive.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)

	var store *history.Store
	if cfg.History.Enabled {
		var err error
		store, err = history.Open(cfg.History.Dir)
		if err != nil {
			return err
		}
		defer store.Close()
		fmt.Fprintf(os.Stderr, "Recording conversion history to %s\n", cfg.History.Dir)
	}

	fmt.Fprintf(os.Stderr, "Converter backend: %s\n", cfg.Backend.URL)

	sess := session.New(cfg.Selection)
	client := convert.NewClient(cfg.Backend)

	return webui.New(sess, client, store).ListenAndServe(cfg.Server.Addr)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().String("history-dir", "", "directory for the conversion history database (empty = disabled)")

	rootCmd.AddCommand(serveCmd)
}
