package registry

import (
	"strings"
	"time"
)

// Date layouts seen in ANVISA exports. Brazilian day-first forms come before
// the ISO forms they could be confused with.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a date string in any of the known source layouts.
// Returns nil for empty or unparseable input; a bad date never aborts
// a batch.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
