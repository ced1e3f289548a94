package fractatoe

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the pipeline wraps exactly one of them,
// so callers classify failures with errors.Is.
var (
	// ErrConfig reports a malformed or semantically invalid configuration.
	// It is never retried.
	ErrConfig = errors.New("fractatoe: invalid configuration")

	// ErrIO reports a failure to read or write an artifact.
	ErrIO = errors.New("fractatoe: i/o failure")

	// ErrFormat reports a persisted histogram whose content contradicts its
	// own metadata.
	ErrFormat = errors.New("fractatoe: malformed histogram")
)

// Errorf returns an error of the given kind with a formatted message.
func Errorf(kind error, format string, a ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, a...))
}

// WrapIO marks err as an ErrIO failure of op, unless it already carries one of
// the error kinds.
func WrapIO(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConfig) || errors.Is(err, ErrIO) || errors.Is(err, ErrFormat) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
