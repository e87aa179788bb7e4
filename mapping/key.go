package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Key identifies one image within a dataset.
type Key = uint32

// ErrInvalidKey is returned when a raw value cannot be used as a Key.
var ErrInvalidKey = errors.New("mapping: invalid key")

// ParseKey coerces a raw annotation value into a Key.
//
// Accepted values are JSON numbers with an integral value, Go integers,
// json.Number and strings of ASCII digits, all within the uint32 range.
func ParseKey(v any) (Key, error) {
	switch x := v.(type) {
	case float64:
		if x < 0 || x > math.MaxUint32 || x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidKey, x)
		}
		return Key(x), nil
	case int:
		return keyFromInt64(int64(x))
	case int64:
		return keyFromInt64(x)
	case uint32:
		return x, nil
	case json.Number:
		return ParseKeyString(x.String())
	case string:
		return ParseKeyString(x)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidKey, v)
	}
}

// ParseKeyString parses a string of ASCII digits into a Key.
func ParseKeyString(s string) (Key, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidKey)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidKey, s)
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return Key(n), nil
}

func keyFromInt64(x int64) (Key, error) {
	if x < 0 || x > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidKey, x)
	}
	return Key(x), nil
}

// String converts a raw value that must be a string.
func String(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("mapping: expected string, got %T", v)
	}
	return s, nil
}

// Int converts a raw JSON number into an int.
func Int(v any) (int, error) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || x < math.MinInt32 || x > math.MaxInt32 {
			return 0, fmt.Errorf("mapping: expected integer, got %v", x)
		}
		return int(x), nil
	case int:
		return x, nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("mapping: expected integer: %w", err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("mapping: expected integer, got %T", v)
	}
}
