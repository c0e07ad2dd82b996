package config

import (
	"fmt"
	"strconv"
	"strings"
)

// SetOption upserts one known dotted key in an existing TOML document,
// creating its section when needed. The raw value is parsed according to the
// option's default type.
func SetOption(existing, key, raw string) (string, error) {
	opt, ok := lookupOption(key)
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	value, err := parseValue(opt.Default, raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	section, name := splitKey(key)
	lines := placeKey(strings.Split(existing, "\n"), section, name, []string{name + " = " + tomlValue(value)})
	return strings.Join(lines, "\n"), nil
}

// placeKey writes block for section.name into lines. The last line of block
// is the key line: it replaces an existing assignment, otherwise the whole
// block is appended to the section, opening the section at the end if absent.
func placeKey(lines []string, section, name string, block []string) []string {
	current := ""
	end := -1
	for i, l := range lines {
		trim := strings.TrimSpace(l)
		if s, ok := sectionName(trim); ok {
			if current == section && end < 0 {
				end = i
			}
			current = s
			continue
		}
		if current != section {
			continue
		}
		if k, ok := parseTOMLKey(trim); ok && k == name {
			out := append([]string{}, lines[:i]...)
			out = append(out, block[len(block)-1])
			return append(out, lines[i+1:]...)
		}
	}
	if current == section && end < 0 {
		end = len(lines)
	}

	if end >= 0 {
		at := end
		for at > 0 && strings.TrimSpace(lines[at-1]) == "" {
			at--
		}
		out := append([]string{}, lines[:at]...)
		out = append(out, block...)
		return append(out, lines[at:]...)
	}

	out := append([]string{}, lines...)
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	if len(out) > 0 {
		out = append(out, "")
	}
	out = append(out, "["+section+"]")
	return append(out, block...)
}

func splitKey(key string) (section, name string) {
	section, name, dotted := strings.Cut(key, ".")
	if !dotted {
		return "", key
	}
	return section, name
}

func lookupOption(key string) (ConfigOption, bool) {
	for _, o := range GetConfigOptions() {
		if o.Key == key {
			return o, true
		}
	}
	return ConfigOption{}, false
}

func parseValue(def any, raw string) (any, error) {
	switch def.(type) {
	case bool:
		return strconv.ParseBool(raw)
	case int:
		return strconv.Atoi(raw)
	case []string:
		return splitList(raw), nil
	default:
		return raw, nil
	}
}
