// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the png2svg CLI: a frontend for a
// remote PNG-to-SVG converter service, with a web UI and a batch
// command-line mode.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roshanlimbu/png-to-svg-frontend/internal/secrets"
	"github.com/roshanlimbu/png-to-svg-frontend/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// defaultBackendURL is used when neither flag, config file, nor environment
// names the converter backend.
const defaultBackendURL = "http://localhost:3000"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the png2svg CLI.
var rootCmd = &cobra.Command{
	Use:   "png2svg",
	Short: "Frontend for a remote PNG-to-SVG converter service",
	Long: `png2svg uploads PNG images to a converter backend and hands back SVG
vector files. It validates selections (PNG only, 20 MB aggregate ceiling),
dispatches one file to the single endpoint or many files to the bulk
endpoint, and saves the results.

Run "png2svg serve" for the web interface or "png2svg convert" for
one-shot command-line conversion.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./png2svg.yaml or ~/.config/png2svg/config.yaml)")
	rootCmd.PersistentFlags().String("backend-url", "", "base URL of the converter backend")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("png2svg")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "png2svg"))
		}
	}

	viper.SetEnvPrefix("PNG2SVG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// backendConfig resolves converter backend settings: flag, then config file
// or environment, then the built-in default.
func backendConfig(cmd *cobra.Command) types.BackendConfig {
	url, _ := cmd.Flags().GetString("backend-url")
	if url == "" {
		url = viper.GetString("backend.url")
	}
	if url == "" {
		url = defaultBackendURL
	}

	apiKey := viper.GetString("backend.api_key")
	if apiKey == "" {
		apiKey = loadedSecrets.APIKey()
	}

	return types.BackendConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("backend.timeout"),
			UserAgent: "png2svg/" + version,
		},
		URL:    url,
		APIKey: apiKey,
	}
}

// loadConfig assembles the full configuration. Flags take precedence over
// the config file and environment, which take precedence over built-in
// defaults. Flags the command does not register are treated as unset.
func loadConfig(cmd *cobra.Command) types.AppConfig {
	cfg := types.AppConfig{
		Backend: backendConfig(cmd),
		Selection: types.SelectionConfig{
			MaxTotalBytes: viper.GetInt64("selection.max_total_bytes"),
		},
		Download: types.DownloadConfig{
			OutDir:  viper.GetString("download.out_dir"),
			Stagger: viper.GetDuration("download.stagger"),
		},
		Server:  types.ServerConfig{Addr: viper.GetString("server.addr")},
		History: types.HistoryConfig{Dir: viper.GetString("history.dir")},
	}

	if f := cmd.Flags().Lookup("out"); f != nil && (f.Changed || cfg.Download.OutDir == "") {
		cfg.Download.OutDir = f.Value.String()
	}
	if stagger, _ := cmd.Flags().GetDuration("stagger"); stagger > 0 {
		cfg.Download.Stagger = stagger
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if dir, _ := cmd.Flags().GetString("history-dir"); dir != "" {
		cfg.History.Dir = dir
	}

	if cfg.Selection.MaxTotalBytes <= 0 {
		cfg.Selection.MaxTotalBytes = types.MaxTotalBytes
	}
	if cfg.Download.Stagger <= 0 {
		cfg.Download.Stagger = types.DefaultStagger
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	// History records when a directory is configured, unless explicitly
	// switched off in the config file.
	cfg.History.Enabled = cfg.History.Dir != ""
	if viper.IsSet("history.enabled") && !viper.GetBool("history.enabled") {
		cfg.History.Enabled = false
	}

	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
