package codec

import (
	"errors"
	"fmt"
)

var (
	ErrFormat           = errors.New("format error")
	ErrUnregisteredType = errors.New("unregistered shape type")
	ErrKindMismatch     = errors.New("shape kind mismatch")

	errInvalidToken   = errors.New("invalid token")
	errNegativeCount  = errors.New("negative count")
	errExpectedQuoted = errors.New("expected quoted string")
	errTrailingData   = errors.New("trailing data after root record")
)

// FormatError reports malformed input: a bad token, a bad count or a premature end of stream.
// It matches ErrFormat with errors.Is and unwraps to the underlying cause.
type FormatError struct {
	Line  int
	Token string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("format error at line %d near %q: %v", e.Line, e.Token, e.Err)
	}
	return fmt.Sprintf("format error at line %d: %v", e.Line, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }
