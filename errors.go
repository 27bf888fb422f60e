package minerva

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrTurnInProgress indicates a send was rejected because the target
	// session already has a turn in flight.
	ErrTurnInProgress = errors.New("turn already in progress")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)
