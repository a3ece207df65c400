package validation

import (
	"strings"
	"time"
)

// Accepted expiry layouts. The first is the plain date-time used by HTML
// forms; times in it are read in UTC.
var expiryLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// ParseExpiry returns the requested expiry and true if raw parses in one of
// the accepted layouts. Empty or unparsable input returns false.
func ParseExpiry(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range expiryLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
