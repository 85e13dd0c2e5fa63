package ingestion

import "errors"

var (
	// ErrEmptyDocument is returned when a loader produced zero raw
	// segments for a file.
	ErrEmptyDocument = errors.New("loaded document is empty")

	// ErrSequenceConsumed is returned when a chunk sequence is iterated
	// after exhaustion. Sequences are single-use.
	ErrSequenceConsumed = errors.New("chunk sequence already consumed")
)
