package ring

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// CheckSize rejects negative sizes.
func CheckSize(name string, n int) error {
	if n < 0 {
		return outOfRange(name, "expected %s to be zero or greater, got %d", name, n)
	}
	return nil
}

// ParseSize parses a capacity from text. Text that is not a number is a
// TypeMismatch; NaN, infinities, fractions and negative numbers are
// OutOfRange.
func ParseSize(name, s string) (int, error) {
	n, err := parseInt(name, s)
	if err != nil {
		return 0, err
	}
	if err := CheckSize(name, n); err != nil {
		return 0, err
	}
	return n, nil
}

// ParseOffset parses an offset from text. Negative offsets are accepted;
// Top, Bottom and Poke decide what they address.
func ParseOffset(name, s string) (int, error) {
	return parseInt(name, s)
}

func parseInt(name, s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, outOfRange(name, "%q does not fit in an int", s)
		}
		return 0, typeMismatch(name, "expected %s to be a number, got %q", name, s)
	}
	switch {
	case math.IsNaN(f):
		return 0, outOfRange(name, "expected %s to be a number, got NaN", name)
	case math.IsInf(f, 0), f >= math.MaxInt, f < math.MinInt:
		return 0, outOfRange(name, "%q does not fit in an int", s)
	case f != math.Trunc(f):
		return 0, outOfRange(name, "expected %s to be a whole number, got %q", name, s)
	}
	return int(f), nil
}
