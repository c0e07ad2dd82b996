package config

import (
	"fmt"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	top, sections, order := groupOptions(GetConfigOptions())

	var b strings.Builder
	b.WriteString("# peacecards configuration (TOML)\n\n")
	for _, o := range top {
		b.WriteString(strings.Join(optionLines(o), "\n") + "\n\n")
	}
	for _, section := range order {
		b.WriteString("[" + section + "]\n")
		for _, o := range sections[section] {
			b.WriteString(strings.Join(optionLines(o), "\n") + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// UpdateTOML merges missing defaults into an existing TOML string and
// comments out keys the schema no longer knows.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	seen := make(map[string]bool)
	out := make([]string, 0)
	changed := false
	section := ""
	for _, line := range strings.Split(existing, "\n") {
		trim := strings.TrimSpace(line)
		if name, ok := sectionName(trim); ok {
			section = name
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(trim)
		if !ok {
			out = append(out, line)
			continue
		}
		full := joinKey(section, key)
		seen[full] = true
		if !known[full] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema", indent+"# "+trim)
			changed = true
			continue
		}
		out = append(out, line)
	}

	for _, o := range GetConfigOptions() {
		if seen[o.Key] {
			continue
		}
		section, name := splitKey(o.Key)
		out = placeKey(out, section, name, optionLines(ConfigOption{Key: name, Default: o.Default, Comment: o.Comment}))
		changed = true
	}
	return strings.Join(out, "\n"), changed
}

// groupOptions splits dotted keys into TOML sections, keeping first-seen order.
func groupOptions(opts []ConfigOption) (top []ConfigOption, sections map[string][]ConfigOption, order []string) {
	sections = make(map[string][]ConfigOption)
	for _, o := range opts {
		section, key, dotted := strings.Cut(o.Key, ".")
		if !dotted {
			top = append(top, o)
			continue
		}
		if _, ok := sections[section]; !ok {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func optionLines(o ConfigOption) []string {
	var lines []string
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, o.Key+" = "+tomlValue(o.Default))
}

func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case []string:
		quoted := make([]string, 0, len(v))
		for _, s := range v {
			quoted = append(quoted, fmt.Sprintf("%q", s))
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func parseTOMLKey(trim string) (string, bool) {
	if trim == "" || strings.HasPrefix(trim, "#") {
		return "", false
	}
	key, _, ok := strings.Cut(trim, "=")
	if !ok {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func sectionName(trim string) (string, bool) {
	if !strings.HasPrefix(trim, "[") || !strings.HasSuffix(trim, "]") {
		return "", false
	}
	return strings.TrimSpace(trim[1 : len(trim)-1]), true
}

func joinKey(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}
