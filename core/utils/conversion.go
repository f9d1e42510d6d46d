package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionalInt parses an optional integer. Empty input yields nil.
func OptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return &v, nil
}

// IntOr parses s, returning def when s is empty.
func IntOr(s string, def int) (int, error) {
	v, err := OptionalInt(s)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

// SplitList splits a comma separated list, trimming entries and dropping empty ones.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ToBool parses "1" and "true" (any case) as true.
func ToBool(s string) bool {
	s = strings.TrimSpace(s)
	return s == "1" || strings.EqualFold(s, "true")
}
