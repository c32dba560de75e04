package game

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	MatchHour   = 19
	MatchMinute = 30
)

// MatchTimestamp pins ref's calendar date in loc to 19:30:00.000.
func MatchTimestamp(ref time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := ref.In(loc).Date()
	return time.Date(y, m, d, MatchHour, MatchMinute, 0, 0, loc)
}

// FirstOperationTime returns the time of the first event whose timestamp is
// present. ok is false when there is none or it cannot be read as a time.
func FirstOperationTime(events []Detail) (time.Time, bool) {
	for _, event := range events {
		if event.Timestamp == nil {
			continue
		}
		return parseOperationTime(event.Timestamp)
	}
	return time.Time{}, false
}

// parseOperationTime reads epoch milliseconds, as a number or numeric
// string, or an RFC 3339 string. Zero counts as missing.
func parseOperationTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case float64:
		return fromMillis(t)
	case int64:
		return fromMillis(float64(t))
	case int:
		return fromMillis(float64(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		if ms, err := strconv.ParseFloat(s, 64); err == nil {
			return fromMillis(ms)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func fromMillis(ms float64) (time.Time, bool) {
	if ms == 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}
