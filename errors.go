package retile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when buffer geometry, tile coordinates or
	// kernel selection do not satisfy an operation's preconditions.
	ErrInvalidArgument = errors.New("retile: invalid argument")

	// ErrResourceExhausted is returned when an operation would need more
	// scratch memory than the pool allows.
	ErrResourceExhausted = errors.New("retile: resource exhausted")

	// ErrAborted is returned when a context ends a pyramid build early.
	ErrAborted = errors.New("retile: aborted")

	// ErrTileNotFound is returned by TileSource when the server has no tile.
	ErrTileNotFound = errors.New("retile: tile not found")
)

// invalidf wraps ErrInvalidArgument with a formatted message.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
