// Package result shapes raw recognition engine output into immutable
// records with typed property access.
package result

import (
	"errors"
	"fmt"
)

// Reason classifies the outcome of a recognition attempt.
type Reason int

const (
	// ReasonRecognized - final transcript produced successfully.
	ReasonRecognized Reason = iota
	// ReasonIntermediateResult - interim hypothesis, text may still change.
	ReasonIntermediateResult
	// ReasonNoMatch - audio contained no recognizable speech.
	ReasonNoMatch
	// ReasonInitialSilenceTimeout - no speech arrived before the silence deadline.
	ReasonInitialSilenceTimeout
	// ReasonInitialBabbleTimeout - only unintelligible audio before the deadline.
	ReasonInitialBabbleTimeout
	// ReasonCanceled - recognition aborted; the "error details" property carries the cause.
	ReasonCanceled

	// reasonCount bounds ReasonFromCode. Keep last.
	reasonCount
)

// ErrReasonOutOfRange is returned when an engine status code has no
// corresponding Reason.
var ErrReasonOutOfRange = errors.New("result: reason code out of range")

// ReasonFromCode maps a raw engine status code onto a Reason. Codes
// outside the known range are rejected instead of indexed blindly.
func ReasonFromCode(code int) (Reason, error) {
	if code < 0 || code >= int(reasonCount) {
		return 0, fmt.Errorf("%w: %d", ErrReasonOutOfRange, code)
	}
	return Reason(code), nil
}

// String returns the string representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonRecognized:
		return "Recognized"
	case ReasonIntermediateResult:
		return "IntermediateResult"
	case ReasonNoMatch:
		return "NoMatch"
	case ReasonInitialSilenceTimeout:
		return "InitialSilenceTimeout"
	case ReasonInitialBabbleTimeout:
		return "InitialBabbleTimeout"
	case ReasonCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(r))
	}
}

// IsFinal reports whether the reason marks a terminal outcome for the
// utterance. Everything except an interim hypothesis is final.
func (r Reason) IsFinal() bool { return r != ReasonIntermediateResult }

// IsError reports whether the reason indicates a failed recognition.
func (r Reason) IsError() bool { return r == ReasonCanceled }
