package domain

import (
	"regexp"
	"strings"
	"time"
)

// Layouts accepted for stored timestamps, tried in order. Fractional seconds are accepted after
// any seconds field even when the layout does not spell them out.
var instantLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",

	// ISO-8601 fallbacks
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST", // time.Time.String()
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04",
	"2006-01-02",
}

var monotonicSuffix = regexp.MustCompile(`\s+m=[+-]\d+(\.\d+)?$`)

// ParseInstant converts a stored date value into an instant. Native times pass through;
// strings are tried against the known layouts, with offset-less layouts read in loc
// (time.Local when loc is nil). Absent, blank and unparsable values yield nil.
func ParseInstant(raw interface{}, loc *time.Location) *time.Time {
	if loc == nil {
		loc = time.Local
	}

	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		t := *v
		return &t
	case string:
		return parseInstantString(v, loc)
	case []byte:
		return parseInstantString(string(v), loc)
	default:
		return nil
	}
}

func parseInstantString(s string, loc *time.Location) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = monotonicSuffix.ReplaceAllString(s, "")

	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t
		}
	}
	return nil
}
