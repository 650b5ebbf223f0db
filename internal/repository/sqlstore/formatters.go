package sqlstore

import (
	"time"
)

// FormatTimeForDB formats a time.Time value as a UTC RFC3339 string so stored text sorts and
// compares in one layout regardless of the configured zone
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatTimePtrForDB formats a *time.Time value as RFC3339 string, returning nil if the pointer is nil
func FormatTimePtrForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimeForDB(*t)
}

// CompletedValue is the integer form of the legacy completed flag.
func CompletedValue(status string) int {
	if status == "done" {
		return 1
	}
	return 0
}

// CompletedBool is the boolean form of the legacy completed flag.
func CompletedBool(status string) bool {
	return status == "done"
}
