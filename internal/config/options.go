package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
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
		// Core paths and conventions
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; DB is data_dir/blockmark.db"},
		{Key: "db_url", Default: "", Comment: "Store URL: sqlite://path or mem://; empty uses data_dir/blockmark.db"},
		{Key: "http_addr", Default: ":8080", Comment: "HTTP listen address for serve"},

		{Key: "auth.token", Default: "", Comment: "Bearer token required by /v1 routes when set"},

		{Key: "render.max_depth", Default: 100, Comment: "Deepest block nesting that is rendered"},
		{Key: "render.stylesheet", Default: "", Comment: "Stylesheet href linked from full HTML documents"},
		{Key: "render.cache", Default: true, Comment: "Cache rendered pages in the store"},
		{Key: "render.workers", Default: 4, Comment: "Parallel page renders for render --all"},

		{Key: "log.level", Default: "normal", Comment: "Console log level: none, normal or debug"},

		{Key: "preview.style", Default: "dracula", Comment: "Glamour style used by show"},
		{Key: "preview.width", Default: 80, Comment: "Word wrap for show; 0 uses the terminal width"},
	}
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/blockmark or ~/.local/share/blockmark
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "blockmark")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "blockmark")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "blockmark", "config.toml")
}

// ResolveDBURL returns the configured store URL, defaulting to a sqlite
// file under data_dir.
func ResolveDBURL(v *viper.Viper) string {
	if u := strings.TrimSpace(v.GetString("db_url")); u != "" {
		return u
	}
	return "sqlite://" + ResolveDBPath(v)
}

// ResolveDBPath returns the sqlite DB file path under data_dir.
func ResolveDBPath(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	// Expand ~ for convenience
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return filepath.Join(dir, "blockmark.db")
}
