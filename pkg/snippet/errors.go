package snippet

import (
	"errors"
	"fmt"
)

// ErrHighlightPattern matches every *HighlightPatternError.
var ErrHighlightPattern = errors.New("invalid highlight pattern")

// HighlightPatternError is returned when the search query cannot be used as
// a highlight pattern.
type HighlightPatternError struct {
	Pattern string
	Err     error
}

func (e *HighlightPatternError) Error() string {
	return fmt.Sprintf("highlight pattern %q: %v", e.Pattern, e.Err)
}

func (e *HighlightPatternError) Unwrap() error { return e.Err }

func (e *HighlightPatternError) Is(target error) bool { return target == ErrHighlightPattern }
