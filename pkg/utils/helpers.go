package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLimit parses an optional positive limit, falling back to def when raw
// is empty and clamping to max.
func ParseLimit(raw string, def, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer, got %q", raw)
	}
	if max > 0 && n > max {
		n = max
	}
	return n, nil
}

// ParseOrder reports whether raw asks for descending order. Empty means def.
func ParseOrder(raw string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return def, nil
	case "desc":
		return true, nil
	case "asc":
		return false, nil
	default:
		return false, fmt.Errorf("order must be asc or desc, got %q", raw)
	}
}

// ParseID parses a numeric path segment.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
