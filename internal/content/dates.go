package content

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Zone-less values are read as UTC so the
// ordering does not depend on the host time zone.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04",
}

// epoch is where documents with a missing or broken date sort.
var epoch = time.Unix(0, 0).UTC()

// ParseDate normalises an authored date. ok is false when s is empty or
// matches none of the accepted formats, in which case the epoch is returned.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return epoch, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), true
		}
	}
	return epoch, false
}
