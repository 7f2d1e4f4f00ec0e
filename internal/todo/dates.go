package todo

import (
	"strings"
	"time"
)

// dueDateLayouts are tried in order. Layouts without an offset parse as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02 15:04:05.999999Z07:00",
	"2006-01-02 15:04:05.999999Z0700",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04",
	"2006-01-02 15",
	"2006-01-02",
}

// ParseDueDate parses an ISO-8601 date or date-time and returns it in UTC.
func ParseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDueDate
	}

	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDueDate
}
