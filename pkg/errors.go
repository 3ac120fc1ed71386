package roll

import (
	"errors"
	"fmt"
)

// Semantic evaluation failures. The messages are surfaced to the end
// user verbatim.
var (
	ErrInvalidExpression = errors.New("invalid expression")
	ErrInvalidCount      = errors.New("count must be at least 1")
	ErrInvalidSides      = errors.New("sides must be at least 2")
	ErrInvalidKeep       = errors.New("keep must be at least 1")
	ErrInvalidDrop       = errors.New("drop must be at least 1")
	ErrDivideByZero      = errors.New("cannot divide by zero")
)

// ParseError reports the first point in the input where no grammar
// alternative matched. Pos is a byte offset into the trimmed input.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
}
