package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved view of the settings the app wires from.
type Config struct {
	DataDir     string
	DBURL       string
	Seed        bool
	HTTPAddr    string
	AuthToken   string
	ACMEDomains []string
	ACMEEmail   string
	RemoteURL   string
	RemoteToken string
	RenderWidth int
	RenderStyle string
	Format      string
}

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// If SetConfigFile was provided upstream it takes precedence; these paths
	// are fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultConfigPath()))
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	// A missing file is fine; a malformed one is not.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return err
		}
	}

	// Environment variables: PEACECARDS_* (highest among these sources)
	v.SetEnvPrefix("peacecards")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.GetString("data_dir") == "" {
		v.Set("data_dir", defaultDataDir())
	}
	// Allow comma-separated env override for acme domains.
	if len(v.GetStringSlice("http.acme_domains")) == 1 {
		if s := v.GetStringSlice("http.acme_domains")[0]; strings.Contains(s, ",") {
			v.Set("http.acme_domains", splitList(s))
		}
	}
	return nil
}

// FromViper snapshots the resolved settings.
func FromViper(v *viper.Viper) Config {
	return Config{
		DataDir:     expandHome(v.GetString("data_dir")),
		DBURL:       ResolveDBURL(v),
		Seed:        v.GetBool("db.seed"),
		HTTPAddr:    v.GetString("http_addr"),
		AuthToken:   v.GetString("auth.token"),
		ACMEDomains: v.GetStringSlice("http.acme_domains"),
		ACMEEmail:   v.GetString("http.acme_email"),
		RemoteURL:   strings.TrimRight(v.GetString("remote.url"), "/"),
		RemoteToken: v.GetString("remote.token"),
		RenderWidth: v.GetInt("render.width"),
		RenderStyle: v.GetString("render.style"),
		Format:      v.GetString("output.format"),
	}
}

// ResolveDBURL returns db.url, or a sqlite URL inside data_dir when unset.
func ResolveDBURL(v *viper.Viper) string {
	if u := strings.TrimSpace(v.GetString("db.url")); u != "" {
		return u
	}
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	return "sqlite://" + filepath.Join(expandHome(dir), "peacecards.db")
}

func expandHome(dir string) string {
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dir[1:])
		}
	}
	return dir
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
