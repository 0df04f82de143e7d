package result

import (
	"errors"
	"fmt"

	"speech-result-gateway/internal/properties"
)

// Well-known property names populated by engines.
const (
	// PropErrorDetails carries a short error description. Engines set it
	// only when the reason is Canceled.
	PropErrorDetails = "error details"
	// PropJSON carries the raw service payload as received. The format is
	// owned by the engine; it is never parsed here.
	PropJSON = "json"
)

// Engines report timing in 100 ns ticks.
const ticksPerMillisecond = 10000

// Errors for contract violations at construction.
var (
	ErrNilRawResult  = errors.New("result: nil raw result")
	ErrEmptyResultID = errors.New("result: empty result id")
)

// RawResult is the opaque handle produced by a recognition engine.
// The engine owns the property store behind it and must keep it alive
// for at least as long as any record built from the handle.
type RawResult interface {
	ResultID() string
	Text() string
	// DurationTicks and OffsetTicks are in 100 ns units.
	DurationTicks() uint64
	OffsetTicks() uint64
	ReasonCode() int
	Properties() properties.Store
}

// Record is an immutable snapshot of a single recognition outcome.
// All accessors are pure reads; concurrent use needs no locking.
//
// The record references the engine's property store through a
// read-only bag and must not be retained past the engine's teardown.
type Record struct {
	id       string
	reason   Reason
	text     string
	duration int64 // milliseconds
	offset   int64 // milliseconds
	props    *properties.Bag
}

// NewRecord builds a record from a raw engine result. The handle must
// be non-nil and carry a non-empty id, an in-range reason code and a
// non-nil property store; any violation fails construction.
func NewRecord(raw RawResult) (*Record, error) {
	if raw == nil {
		return nil, ErrNilRawResult
	}

	reason, err := ReasonFromCode(raw.ReasonCode())
	if err != nil {
		return nil, err
	}
	bag, err := properties.NewBag(raw.Properties())
	if err != nil {
		return nil, err
	}

	r := &Record{
		id:       raw.ResultID(),
		reason:   reason,
		text:     raw.Text(),
		duration: int64(raw.DurationTicks() / ticksPerMillisecond),
		offset:   int64(raw.OffsetTicks() / ticksPerMillisecond),
		props:    bag,
	}

	// Engines have been seen returning a non-nil handle with an empty
	// id; re-check after extraction instead of trusting the handle.
	if r.id == "" {
		return nil, ErrEmptyResultID
	}
	return r, nil
}

// ID returns the identifier of this recognition outcome.
func (r *Record) ID() string { return r.id }

// Reason returns the outcome classification.
func (r *Record) Reason() Reason { return r.reason }

// Text returns the recognized transcription; may be empty.
func (r *Record) Text() string { return r.text }

// DurationMillis returns the duration of recognized speech in
// milliseconds, truncated from the engine's 100 ns ticks.
func (r *Record) DurationMillis() int64 { return r.duration }

// OffsetMillis returns the start offset within the source audio stream
// in milliseconds, truncated from the engine's 100 ns ticks.
func (r *Record) OffsetMillis() int64 { return r.offset }

// Properties returns the property bag attached to this record.
func (r *Record) Properties() *properties.Bag { return r.props }

// ErrorDetails returns a brief error description for failed
// recognitions, or "" when none was set.
func (r *Record) ErrorDetails() string { return r.props.GetString(PropErrorDetails) }

// JSON returns the raw service payload attached by the engine, or ""
// when none was set. The payload is opaque to this package.
func (r *Record) JSON() string { return r.props.GetString(PropJSON) }

// String returns a human-readable summary for logs and debugging. The
// format is not a contract.
func (r *Record) String() string {
	return fmt.Sprintf("ResultId:%s Status:%s Recognized text:<%s>.", r.id, r.reason, r.text)
}
