package ring

import (
	"errors"
	"fmt"
)

// Kind classifies an ArgumentError.
type Kind int

const (
	KindUnknown Kind = iota
	// TypeMismatch means the argument is not a number at all.
	TypeMismatch
	// OutOfRange means the argument is numeric but NaN, infinite,
	// fractional or negative where zero or greater is required.
	OutOfRange
)

func (k Kind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case OutOfRange:
		return "out of range"
	default:
		return "unknown"
	}
}

// ErrInvalidArgument matches every *ArgumentError through errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError reports a size or offset argument that was rejected.
type ArgumentError struct {
	Kind Kind
	Name string
	Msg  string
}

func (e *ArgumentError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("invalid %s (%s): %s", e.Name, e.Kind, e.Msg)
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// KindOf returns the Kind of the first ArgumentError in err's chain.
func KindOf(err error) Kind {
	var e *ArgumentError
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func typeMismatch(name, format string, args ...any) error {
	return &ArgumentError{Kind: TypeMismatch, Name: name, Msg: fmt.Sprintf(format, args...)}
}

func outOfRange(name, format string, args ...any) error {
	return &ArgumentError{Kind: OutOfRange, Name: name, Msg: fmt.Sprintf(format, args...)}
}
