package ui

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var intPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)

// IntLike reports whether v holds an integer, either as a Go number or as a
// decimal string, and returns its value. Booleans, nil, empty strings,
// fractional numbers and values outside the int range are rejected.
func IntLike(v any) (int, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		s := strings.TrimSpace(x)
		if !intPattern.MatchString(s) {
			return 0, false
		}
		// Leading zeros are decimal here, not octal.
		n, err := strconv.ParseInt(s, 10, 0)
		if err != nil {
			return 0, false
		}
		return int(n), true
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return fromInt64(n)
	case int64:
		return fromInt64(x)
	case uint:
		return fromUint64(uint64(x))
	case uint32:
		return fromUint64(uint64(x))
	case uint64:
		return fromUint64(x)
	case uintptr:
		return fromUint64(uint64(x))
	case float32, float64:
		f := cast.ToFloat64(x)
		// float64(math.MaxInt) rounds up to 2^63 (or 2^31), which is already
		// out of range.
		if math.IsNaN(f) || f != math.Trunc(f) || f >= float64(math.MaxInt) || f < float64(math.MinInt) {
			return 0, false
		}
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func fromInt64(n int64) (int, bool) {
	if n > math.MaxInt || n < math.MinInt {
		return 0, false
	}
	return int(n), true
}

func fromUint64(n uint64) (int, bool) {
	if n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}
