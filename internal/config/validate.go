package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

var (
	outputFormats = []string{"plain", "pretty", "json", "ndjson", "yaml", "html", "tui"}
	renderStyles  = []string{"auto", "dark", "light", "notty", "ascii", "dracula", "pink", "tokyo-night"}
)

// CheckConfigValidity reports every problem found in the resolved settings.
func CheckConfigValidity(v *viper.Viper) error {
	var problems []string

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		problems = append(problems, "data_dir is required")
	}
	if strings.TrimSpace(v.GetString("http_addr")) == "" {
		problems = append(problems, "http_addr is required")
	}
	if u := strings.TrimSpace(v.GetString("db.url")); u != "" &&
		!strings.HasPrefix(u, "mem://") && !strings.HasPrefix(u, "sqlite://") {
		problems = append(problems, fmt.Sprintf("db.url %q must start with mem:// or sqlite://", u))
	}
	if u := strings.TrimSpace(v.GetString("remote.url")); u != "" {
		pu, err := url.Parse(u)
		if err != nil || (pu.Scheme != "http" && pu.Scheme != "https") || pu.Host == "" {
			problems = append(problems, "remote.url must be an http(s) URL")
		}
	}
	if len(v.GetStringSlice("http.acme_domains")) > 0 && strings.TrimSpace(v.GetString("auth.token")) == "" {
		problems = append(problems, "auth.token is required when serving publicly over http.acme_domains")
	}
	if v.GetInt("render.width") < 0 {
		problems = append(problems, "render.width must not be negative")
	}
	if s := v.GetString("render.style"); !contains(renderStyles, s) {
		problems = append(problems, fmt.Sprintf("render.style %q must be one of %s", s, strings.Join(renderStyles, ", ")))
	}
	if f := v.GetString("output.format"); !contains(outputFormats, f) {
		problems = append(problems, fmt.Sprintf("output.format %q must be one of %s", f, strings.Join(outputFormats, ", ")))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid config:\n  - " + strings.Join(problems, "\n  - "))
}

// OutputFormats lists the accepted output.format values.
func OutputFormats() []string { return append([]string(nil), outputFormats...) }

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
