package format

import (
	"strings"
	"time"
)

// Placeholder is shown for missing dates.
const Placeholder = "—"

const displayLayout = "Jan 2, 2006"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// FormatDate renders a stored date or timestamp as "Jan 2, 2006".
// Nil or blank input yields Placeholder; unparseable input is returned as is.
func FormatDate(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return Placeholder
	}

	raw := strings.TrimSpace(*value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(displayLayout)
		}
	}
	return raw
}

// FormatTime renders a timestamp the same way as FormatDate.
func FormatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return t.Format(displayLayout)
}
