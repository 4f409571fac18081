package transcript

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTimestamp renders a millisecond offset as "[MM:SS] " or, past the
// first hour, "[HH:MM:SS] ". A nil or negative offset renders as "".
func FormatTimestamp(ms *int64) string {
	if ms == nil || *ms < 0 {
		return ""
	}

	totalSeconds := *ms / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("[%02d:%02d:%02d] ", hours, minutes, seconds)
	}
	return fmt.Sprintf("[%02d:%02d] ", minutes, seconds)
}

// FormatRawTimestamp formats the string value of a data-time attribute.
func FormatRawTimestamp(raw string) string {
	return FormatTimestamp(parseMillis(raw))
}

// parseMillis returns nil for anything that is not a non-negative integer.
func parseMillis(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms < 0 {
		return nil
	}
	return &ms
}
