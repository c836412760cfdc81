package utils

import "time"

// NowRFC3339 returns the current time formatted as RFC3339
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// FormatRFC3339 formats a time as RFC3339
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
