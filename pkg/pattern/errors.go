package pattern

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCharacter marks a byte the pattern language does not accept.
	ErrInvalidCharacter = errors.New("invalid character")
	// ErrInvalidPattern marks a malformed group, range or digit run.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrTooManyTemplates is returned once expansion would exceed the template cap.
	ErrTooManyTemplates = errors.New("too many templates")
	// ErrPatternTooLong is returned for patterns above the length cap.
	ErrPatternTooLong = errors.New("pattern too long")
)

// Error describes where and why a pattern failed to compile.
type Error struct {
	Pattern string
	Pos     int
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("pattern %q at offset %d: %v", e.Pattern, e.Pos, e.Err)
	}
	return fmt.Sprintf("pattern %q at offset %d: %v: %s", e.Pattern, e.Pos, e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}
