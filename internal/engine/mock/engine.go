// Package mock provides a mock recognition engine for running without
// cloud credentials. It simulates realistic engine behavior with
// progressive interim hypotheses and exactly one final record per
// utterance.
package mock

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"speech-result-gateway/internal/engine"
	"speech-result-gateway/internal/properties"
	"speech-result-gateway/internal/result"
)

// Each simulated audio frame advances the stream by 20 ms of speech,
// expressed in the engine tick unit (100 ns).
const frameTicks = 20 * 10000

// SimulatedUtterance describes one scripted utterance.
type SimulatedUtterance struct {
	Interims   []string // Progressive interim hypotheses
	Final      string   // Final transcript text
	Confidence float64  // Confidence reported in the raw payload
}

// DefaultUtterances provides sample utterances for simulation.
var DefaultUtterances = []SimulatedUtterance{
	{
		Interims:   []string{"I want", "I want to", "I want to cancel"},
		Final:      "I want to cancel my subscription",
		Confidence: 0.94,
	},
	{
		Interims:   []string{"Yes", "Yes please"},
		Final:      "Yes please go ahead",
		Confidence: 0.97,
	},
	{
		Interims:   []string{"Can you", "Can you help", "Can you help me with"},
		Final:      "Can you help me with my account",
		Confidence: 0.91,
	},
	{
		Interims:   []string{"Thank you"},
		Final:      "Thank you very much",
		Confidence: 0.98,
	},
}

// rawPayload mirrors the shape a speech service would return; it is
// stored opaquely under the "json" property.
type rawPayload struct {
	RecognitionStatus string  `json:"recognitionStatus"`
	DisplayText       string  `json:"displayText"`
	Confidence        float64 `json:"confidence,omitempty"`
	DurationTicks     uint64  `json:"duration"`
	OffsetTicks       uint64  `json:"offset"`
}

// Engine implements engine.Recognizer with scripted records. Records
// are delivered synchronously from SendAudio and Close, which keeps
// tests deterministic: one interim per audio frame, then a single
// final once the script is exhausted.
type Engine struct {
	mu           sync.Mutex
	cb           engine.Callback
	utterance    SimulatedUtterance
	interimIndex int
	frames       uint64
	finalSent    bool
	closed       bool
}

// utteranceCounter cycles through the default utterances.
var (
	utteranceCounter int
	counterMu        sync.Mutex
)

// New creates a mock engine scripted with the next default utterance.
func New() *Engine {
	counterMu.Lock()
	idx := utteranceCounter % len(DefaultUtterances)
	utteranceCounter++
	counterMu.Unlock()

	return NewWithUtterance(DefaultUtterances[idx])
}

// NewWithUtterance creates a mock engine scripted with a specific
// utterance.
func NewWithUtterance(u SimulatedUtterance) *Engine {
	return &Engine{utterance: u}
}

// Start registers the callback receiver.
func (e *Engine) Start(ctx context.Context, cb engine.Callback) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cb = cb
	return nil
}

// SendAudio consumes one simulated frame. While interims remain, each
// frame produces the next interim record; the frame after the last
// interim produces the final record.
func (e *Engine) SendAudio(ctx context.Context, audio []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.cb == nil {
		return nil
	}
	e.frames++

	if e.interimIndex < len(e.utterance.Interims) {
		text := e.utterance.Interims[e.interimIndex]
		e.interimIndex++
		e.emit(text, result.ReasonIntermediateResult)
		return nil
	}

	if !e.finalSent {
		e.finalSent = true
		e.emit(e.utterance.Final, result.ReasonRecognized)
	}
	return nil
}

// Close ends the session. If the script never reached its final (the
// stream ended early), the final record is emitted now.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	if !e.finalSent && e.cb != nil {
		e.finalSent = true
		e.emit(e.utterance.Final, result.ReasonRecognized)
	}
	return nil
}

// emit assembles a raw result and delivers the shaped record. Caller
// holds e.mu.
func (e *Engine) emit(text string, reason result.Reason) {
	duration := e.frames * frameTicks

	store := properties.NewMapStore()
	store.SetBool("interim", reason == result.ReasonIntermediateResult)
	store.SetInt("recognition latency ms", 50)

	payload := rawPayload{
		RecognitionStatus: reason.String(),
		DisplayText:       text,
		DurationTicks:     duration,
	}
	if reason == result.ReasonRecognized {
		payload.Confidence = e.utterance.Confidence
	}
	if data, err := json.Marshal(payload); err == nil {
		store.SetString(result.PropJSON, string(data))
	}

	raw := &engine.Raw{
		ID:         uuid.NewString(),
		Transcript: text,
		Duration:   duration,
		Offset:     0,
		Code:       int(reason),
		Store:      store,
	}

	rec, err := result.NewRecord(raw)
	if err != nil {
		e.cb.OnError(err)
		return
	}
	e.cb.OnResult(rec)
}
