package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Text renders a decoded document value as text. Nil becomes "".
// Floats use the shortest representation that round-trips, with no exponent
// for typical coordinate magnitudes.
func Text(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(t), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case int:
		return strconv.Itoa(t), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", fmt.Errorf("value %v is not finite", t)
		}
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case primitive.Decimal128:
		return t.String(), nil
	case primitive.ObjectID:
		return t.Hex(), nil
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano), nil
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC().Format(time.RFC3339), nil
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// Coordinate renders a latitude or longitude as text. Unlike Text, a missing
// coordinate is an error.
func Coordinate(v any) (string, error) {
	if v == nil {
		return "", fmt.Errorf("coordinate is missing")
	}
	s, err := Text(v)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("coordinate is empty")
	}
	return s, nil
}

// Installment parses an installment number. Numeric strings and numbers are
// accepted; fractional parts are truncated.
func Installment(v any) (int32, error) {
	var n float64
	switch t := v.(type) {
	case nil:
		return 0, fmt.Errorf("installment number is missing")
	case int32:
		return t, nil
	case int64:
		n = float64(t)
	case int:
		n = float64(t)
	case float64:
		n = t
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return 0, fmt.Errorf("installment number %q is not numeric", t.String())
		}
		n = f
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			n = float64(i)
			break
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("installment number %q is not numeric", t)
		}
		n = f
	default:
		return 0, fmt.Errorf("unsupported installment number type %T", v)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("installment number %v is not finite", n)
	}
	n = math.Trunc(n)
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("installment number %v out of range", n)
	}
	return int32(n), nil
}
