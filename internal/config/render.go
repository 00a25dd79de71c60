package config

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderDefaultTOML renders a commented TOML config from GetConfigOptions.
func RenderDefaultTOML() string {
	var b strings.Builder
	b.WriteString("# tally configuration (TOML)\n\n")

	top, sections, order := groupOptions(GetConfigOptions())
	for _, o := range top {
		b.WriteString(strings.Join(optionLines(o), "\n") + "\n")
	}
	for _, section := range order {
		b.WriteString("[" + section + "]\n")
		for _, o := range sections[section] {
			b.WriteString(strings.Join(optionLines(o), "\n") + "\n")
		}
	}
	return b.String()
}

// UpdateTOML appends missing options to an existing config and comments out
// keys tally no longer knows. The bool reports whether anything changed.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	seen := make(map[string]bool)
	section := ""
	out := make([]string, 0)
	changed := false
	for _, line := range strings.Split(existing, "\n") {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			out = append(out, line)
			continue
		}
		if isHeader(trim) {
			section = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		if section != "" {
			key = section + "." + key
		}
		seen[key] = true
		if !known[key] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema")
			out = append(out, indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
			continue
		}
		out = append(out, line)
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	// Missing keys go at the end of their table, or the top-level block,
	// so no table is declared twice.
	top, sections, order := groupOptions(missing)
	ends := tableEnds(out)
	inserts := map[int][]string{}
	if len(top) > 0 {
		at := firstHeader(out)
		inserts[at] = append(inserts[at], "# Added by config update")
		for _, o := range top {
			inserts[at] = append(inserts[at], optionLines(o)...)
		}
	}
	var fresh []string
	for _, sec := range order {
		at, ok := ends[sec]
		if !ok {
			fresh = append(fresh, "["+sec+"]")
			for _, o := range sections[sec] {
				fresh = append(fresh, optionLines(o)...)
			}
			continue
		}
		for _, o := range sections[sec] {
			inserts[at] = append(inserts[at], optionLines(o)...)
		}
	}
	merged := make([]string, 0, len(out))
	for i := 0; i <= len(out); i++ {
		merged = append(merged, inserts[i]...)
		if i < len(out) {
			merged = append(merged, out[i])
		}
	}
	if len(fresh) > 0 {
		merged = append(merged, "", "# Added by config update")
		merged = append(merged, fresh...)
	}
	return strings.Join(merged, "\n"), true
}

func isHeader(line string) bool {
	trim := strings.TrimSpace(line)
	return strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]")
}

func firstHeader(lines []string) int {
	for i, line := range lines {
		if isHeader(line) {
			return i
		}
	}
	return len(lines)
}

// tableEnds maps each table name to the index just past its last line.
func tableEnds(lines []string) map[string]int {
	ends := map[string]int{}
	current := ""
	for i, line := range lines {
		if !isHeader(line) {
			continue
		}
		if current != "" {
			ends[current] = i
		}
		trim := strings.TrimSpace(line)
		current = strings.TrimSpace(trim[1 : len(trim)-1])
	}
	if current != "" {
		ends[current] = len(lines)
	}
	return ends
}

// groupOptions splits dotted keys into TOML tables, keeping first-seen order.
func groupOptions(opts []ConfigOption) ([]ConfigOption, map[string][]ConfigOption, []string) {
	var top []ConfigOption
	sections := make(map[string][]ConfigOption)
	var order []string
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, seen := sections[section]; !seen {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func parseTOMLKey(line string) (string, bool) {
	key, _, ok := strings.Cut(line, "=")
	if !ok {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key[:1], "[\"'") {
		return "", false
	}
	return key, true
}

func optionLines(o ConfigOption) []string {
	var lines []string
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, o.Key+" = "+tomlValue(o.Default), "")
}

func tomlValue(v any) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case []string:
		quoted := make([]string, len(t))
		for i, s := range t {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprint(t)
	}
}
