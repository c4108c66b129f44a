package services

import (
	"strings"
	"time"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, invalid(field, field+" ist erforderlich.")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalid(field, field+" ist kein gültiges Datum (JJJJ-MM-TT).")
}
