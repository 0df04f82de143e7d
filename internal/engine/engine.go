// Package engine defines the boundary with speech recognition engines.
// Engines produce raw results and hand them to consumers as shaped,
// immutable records.
package engine

import (
	"context"

	"speech-result-gateway/internal/result"
)

// Callback receives shaped records from a running engine session.
type Callback interface {
	// OnResult delivers a constructed record. Interim hypotheses carry
	// ReasonIntermediateResult; each utterance ends with exactly one
	// final record.
	OnResult(rec *result.Record)

	// OnError is called when the engine fails outside of a result. A
	// canceled record for the current utterance may precede the call.
	OnError(err error)
}

// Recognizer is a single recognition engine session (Google, Whisper,
// mock). Records delivered through the callback reference stores owned
// by the session; they are invalid after Close.
type Recognizer interface {
	// Start begins the session and registers the callback receiver.
	Start(ctx context.Context, cb Callback) error

	// SendAudio feeds audio bytes into the session.
	SendAudio(ctx context.Context, audio []byte) error

	// Close ends the session and releases engine resources.
	Close() error
}
