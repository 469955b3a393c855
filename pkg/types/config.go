package types

import "time"

// MaxTotalBytes is the default aggregate size ceiling for a selection: 20 MiB.
const MaxTotalBytes int64 = 20 * 1024 * 1024

// DefaultStagger is the default delay between consecutive batch downloads.
// The spacing keeps a burst of file writes from landing at the same instant;
// it is a heuristic, not an ordering guarantee.
const DefaultStagger = 200 * time.Millisecond

// HTTPConfig holds shared HTTP settings for requests to the converter backend.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no timeout: the
	// request is awaited to completion.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "png2svg/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// BackendConfig holds settings for the converter backend.
type BackendConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the base address of the converter backend
	// (e.g. "http://localhost:3000").
	URL string `json:"url" yaml:"url"`

	// APIKey is an optional bearer token sent with every request.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// SelectionConfig holds settings for file selection and validation.
type SelectionConfig struct {
	// MaxTotalBytes is the aggregate size ceiling for a selection
	// (default 20 MiB).
	MaxTotalBytes int64 `json:"max_total_bytes" yaml:"max_total_bytes"`
}

// DownloadConfig holds settings for saving converted SVGs.
type DownloadConfig struct {
	// OutDir is the directory converted SVGs are written to.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Stagger is the delay between consecutive batch saves (default 200ms).
	Stagger time.Duration `json:"stagger" yaml:"stagger"`
}

// ServerConfig holds settings for the web UI server.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// HistoryConfig holds settings for the conversion history store.
type HistoryConfig struct {
	// Enabled controls whether conversion attempts are recorded.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the directory holding the history database.
	Dir string `json:"dir" yaml:"dir"`
}

// AppConfig groups all configuration for the frontend.
type AppConfig struct {
	Backend   BackendConfig   `json:"backend" yaml:"backend"`
	Selection SelectionConfig `json:"selection" yaml:"selection"`
	Download  DownloadConfig  `json:"download" yaml:"download"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	History   HistoryConfig   `json:"history" yaml:"history"`
}
