package config

import (
	"os"
	"path/filepath"
)

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		// Core paths
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; the default DB is data_dir/peacecards.db"},
		{Key: "http_addr", Default: ":5000", Comment: "HTTP listen address for `peacecards serve`"},

		{Key: "db.url", Default: "", Comment: "Store URL: mem:// or sqlite://path (empty uses sqlite in data_dir)"},
		{Key: "db.seed", Default: true, Comment: "Load the default decks into an empty store"},

		{Key: "auth.token", Default: "", Comment: "Bearer token required for card updates; empty leaves updates open"},

		{Key: "http.acme_domains", Default: []string{}, Comment: "Domains served over automatic HTTPS (certmagic); empty serves plain HTTP"},
		{Key: "http.acme_email", Default: "", Comment: "Contact email for ACME certificate registration"},

		{Key: "remote.url", Default: "", Comment: "Browse a remote server instead of the local store (e.g. http://host:5000)"},
		{Key: "remote.token", Default: "", Comment: "Bearer token sent to the remote server for card updates"},

		{Key: "render.width", Default: 0, Comment: "Wrap width for terminal output; 0 uses the terminal width"},
		{Key: "render.style", Default: "auto", Comment: "Glamour style for pretty output: auto, dark, light, notty"},

		{Key: "output.format", Default: "plain", Comment: "Default card output: plain, pretty, json, ndjson, yaml, html, tui"},
	}
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/peacecards or ~/.local/share/peacecards
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "peacecards")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "peacecards")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "peacecards", "config.toml")
}
