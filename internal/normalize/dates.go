package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common timestamp formats found in location documents written by the mobile clients.
var dateFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"1/2/2006, 3:04:05 PM",
	"01/02/2006",
	"1/2/2006",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
}

// ParseDate attempts to parse a date string in multiple common formats.
// Returns nil if the input is empty or unparseable.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// JS Date.toString() appends a zone name in parentheses.
	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	}
	for _, f := range dateFormats {
		if t, err := time.Parse(f, s); err == nil {
			return &t
		}
	}
	return nil
}

// maxEpochMillis bounds numeric timestamps to the range a JavaScript Date can
// hold. Larger values overflow the destination's microsecond encoding.
const maxEpochMillis = 8.64e15

var (
	minTimestamp = time.UnixMilli(-maxEpochMillis).UTC()
	maxTimestamp = time.UnixMilli(maxEpochMillis).UTC()
)

// ParseTimestamp converts a decoded document value into a time.Time.
// Numbers, and strings that hold only a number, are epoch milliseconds.
func ParseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("timestamp is missing")
	case primitive.DateTime:
		return fromEpochMillis(float64(t))
	case primitive.Timestamp:
		return inRange(time.Unix(int64(t.T), 0).UTC())
	case time.Time:
		return inRange(t.UTC())
	case int32:
		return fromEpochMillis(float64(t))
	case int64:
		return fromEpochMillis(float64(t))
	case float64:
		return fromEpochMillis(t)
	case string:
		if p := ParseDate(t); p != nil {
			return p.UTC(), nil
		}
		if ms, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return fromEpochMillis(ms)
		}
		return time.Time{}, fmt.Errorf("unparseable timestamp %q", t)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func fromEpochMillis(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, fmt.Errorf("timestamp %v is not finite", ms)
	}
	if math.Abs(ms) > maxEpochMillis {
		return time.Time{}, fmt.Errorf("timestamp %v ms out of range", ms)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

func inRange(t time.Time) (time.Time, error) {
	if t.Before(minTimestamp) || t.After(maxTimestamp) {
		return time.Time{}, fmt.Errorf("timestamp %s out of range", t.Format(time.RFC3339))
	}
	return t, nil
}
