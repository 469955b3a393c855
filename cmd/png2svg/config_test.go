// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshanlimbu/png-to-svg-frontend/pkg/types"
)

// testCmd builds a command carrying the flags serve and convert register,
// so loadConfig sees the same flag set the real subcommands pass it.
func testCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("addr", "", "")
	cmd.Flags().String("out", "converted", "")
	cmd.Flags().Duration("stagger", 0, "")
	cmd.Flags().String("history-dir", "", "")
	return cmd
}

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := loadConfig(testCmd())

	assert.Equal(t, defaultBackendURL, cfg.Backend.URL)
	assert.Equal(t, types.MaxTotalBytes, cfg.Selection.MaxTotalBytes)
	assert.Equal(t, "converted", cfg.Download.OutDir)
	assert.Equal(t, types.DefaultStagger, cfg.Download.Stagger)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.History.Enabled)
}

func TestLoadConfig_ViperValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("backend.url", "http://converter.internal:9000")
	viper.Set("selection.max_total_bytes", int64(1<<20))
	viper.Set("download.out_dir", "/tmp/svgs")
	viper.Set("download.stagger", "50ms")
	viper.Set("server.addr", ":9999")
	viper.Set("history.dir", "/tmp/hist")

	cfg := loadConfig(testCmd())

	assert.Equal(t, "http://converter.internal:9000", cfg.Backend.URL)
	assert.Equal(t, int64(1<<20), cfg.Selection.MaxTotalBytes)
	assert.Equal(t, "/tmp/svgs", cfg.Download.OutDir)
	assert.Equal(t, 50*time.Millisecond, cfg.Download.Stagger)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	require.True(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/hist", cfg.History.Dir)
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("download.out_dir", "/tmp/svgs")
	viper.Set("download.stagger", "50ms")
	viper.Set("server.addr", ":9999")
	viper.Set("history.dir", "/tmp/hist")

	cmd := testCmd()
	require.NoError(t, cmd.Flags().Set("addr", ":7070"))
	require.NoError(t, cmd.Flags().Set("out", "elsewhere"))
	require.NoError(t, cmd.Flags().Set("stagger", "300ms"))
	require.NoError(t, cmd.Flags().Set("history-dir", "/tmp/other"))

	cfg := loadConfig(cmd)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "elsewhere", cfg.Download.OutDir)
	assert.Equal(t, 300*time.Millisecond, cfg.Download.Stagger)
	assert.Equal(t, "/tmp/other", cfg.History.Dir)
	assert.True(t, cfg.History.Enabled)
}

func TestLoadConfig_HistoryDisabledInConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("history.dir", "/tmp/hist")
	viper.Set("history.enabled", false)

	cfg := loadConfig(testCmd())

	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/hist", cfg.History.Dir)
}
