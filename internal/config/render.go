package config

import (
	"fmt"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	var out []string
	out = append(out, "# blockmark configuration (TOML)")
	top, sections, order := splitSections(GetConfigOptions())
	for _, o := range top {
		writeTOMLOptionLines(&out, o.Key, o.Default, o.Comment)
	}
	for _, section := range order {
		out = append(out, "["+section+"]")
		for _, o := range sections[section] {
			writeTOMLOptionLines(&out, o.Key, o.Default, o.Comment)
		}
	}
	return strings.Join(out, "\n")
}

// UpdateTOML merges missing defaults into an existing TOML string and
// comments out keys that are no longer part of the schema.
func UpdateTOML(existing string) (string, bool) {
	lines := strings.Split(existing, "\n")
	opts := GetConfigOptions()

	known := make(map[string]bool, len(opts))
	for _, o := range opts {
		known[o.Key] = true
	}

	seen := make(map[string]bool)
	headers := make(map[string]int) // section => index of its header in out
	firstHeader := -1
	currentSection := ""
	out := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, ";") {
			out = append(out, line)
			continue
		}
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			currentSection = strings.TrimSpace(trim[1 : len(trim)-1])
			if _, ok := headers[currentSection]; !ok {
				headers[currentSection] = len(out)
			}
			if firstHeader < 0 {
				firstHeader = len(out)
			}
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		fullKey := key
		if currentSection != "" {
			fullKey = currentSection + "." + key
		}
		seen[fullKey] = true
		if !known[fullKey] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema")
			out = append(out, indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
			continue
		}
		out = append(out, line)
	}

	var missing []ConfigOption
	for _, o := range opts {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	// Missing keys go into their existing table when there is one; TOML
	// forbids defining a table twice. Top-level keys must precede every
	// table header.
	inserts := make(map[int][]string)
	var tail []string
	top, sections, order := splitSections(missing)
	if len(top) > 0 {
		block := []string{"# Added by config update"}
		for _, o := range top {
			writeTOMLOptionLines(&block, o.Key, o.Default, o.Comment)
		}
		if firstHeader < 0 {
			tail = append(tail, block...)
		} else {
			inserts[firstHeader] = append(inserts[firstHeader], block...)
		}
	}
	for _, section := range order {
		var block []string
		for _, o := range sections[section] {
			writeTOMLOptionLines(&block, o.Key, o.Default, o.Comment)
		}
		if at, ok := headers[section]; ok {
			inserts[at+1] = append(inserts[at+1], block...)
			continue
		}
		tail = append(tail, "["+section+"]")
		tail = append(tail, block...)
	}

	merged := make([]string, 0, len(out)+len(tail)+16)
	for i, line := range out {
		merged = append(merged, inserts[i]...)
		merged = append(merged, line)
	}
	merged = append(merged, inserts[len(out)]...)
	if len(tail) > 0 {
		merged = append(merged, "", "# Added by config update")
		merged = append(merged, tail...)
	}
	return strings.Join(merged, "\n"), true
}

// splitSections separates top-level keys from dotted ones, keyed by
// section with the section prefix stripped. Section order follows opts.
func splitSections(opts []ConfigOption) ([]ConfigOption, map[string][]ConfigOption, []string) {
	var top []ConfigOption
	sections := make(map[string][]ConfigOption)
	var order []string
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, exists := sections[section]; !exists {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") {
		return "", false
	}
	if strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func writeTOMLOptionLines(lines *[]string, key string, value any, comment string) {
	if comment != "" {
		*lines = append(*lines, "# "+comment)
	}
	switch v := value.(type) {
	case string:
		*lines = append(*lines, fmt.Sprintf("%s = %q", key, v), "")
	case bool, int, int64, float64:
		*lines = append(*lines, fmt.Sprintf("%s = %v", key, v), "")
	}
}
