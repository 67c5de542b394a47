package route

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownLegType    = errors.New("unknown leg type")
	ErrIndexOutOfRange   = errors.New("waypoint index out of range")
	ErrDragInProgress    = errors.New("drag in progress")
	ErrNotDragging       = errors.New("no drag in progress")
	ErrAlphabetExhausted = errors.New("waypoint label alphabet exhausted")
	ErrInvalidField      = errors.New("field contains a separator")
)

// LegTypeError is returned when a leg metric needs a speed the active
// aircraft does not define
type LegTypeError struct {
	LegType  string
	Aircraft string
}

func (e *LegTypeError) Error() string {
	return fmt.Sprintf("leg type %q has no speed for aircraft %q", e.LegType, e.Aircraft)
}

func (e *LegTypeError) Unwrap() error { return ErrUnknownLegType }

// IndexError reports an edit addressing a waypoint outside [0, Len)
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("waypoint index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// ParseError reports a malformed line in the canonical text format
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
