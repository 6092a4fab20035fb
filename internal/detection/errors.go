package detection

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput is returned for nil, empty or zero-dimension images.
	ErrInvalidInput = errors.New("invalid input image")

	// ErrInvalidParams is returned when Params fail validation.
	ErrInvalidParams = errors.New("invalid detection parameters")

	// ErrPrimitive matches any failure reported by a vision primitive.
	ErrPrimitive = errors.New("vision primitive failed")
)

// PrimitiveError records which primitive failed and where in the scan.
// Channel and Level are -1 when the call was not tied to a scan pass.
type PrimitiveError struct {
	Op      string
	Channel int
	Level   int
	Err     error
}

func (e *PrimitiveError) Error() string {
	if e.Channel < 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s (channel %d, level %d): %v", e.Op, e.Channel, e.Level, e.Err)
}

func (e *PrimitiveError) Unwrap() error { return e.Err }

// Is makes every PrimitiveError match ErrPrimitive.
func (e *PrimitiveError) Is(target error) bool {
	return target == ErrPrimitive
}

// primitiveError wraps err with scan context and a stack trace.
func primitiveError(op string, channel, level int, err error) error {
	return errors.WithStack(&PrimitiveError{Op: op, Channel: channel, Level: level, Err: err})
}
