package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"speech-result-gateway/internal/engine"
	"speech-result-gateway/internal/events"
	"speech-result-gateway/internal/models"
	"speech-result-gateway/internal/observability/logging"
	"speech-result-gateway/internal/observability/metrics"
	"speech-result-gateway/internal/result"
	"speech-result-gateway/internal/schema"
)

// Limits defines safety guardrails for session processing.
// These prevent unbounded resource usage and ensure backpressure.
type Limits struct {
	MaxInterims int           // Max interim records per session
	MaxDuration time.Duration // Max session duration
}

// DefaultLimits returns sensible default limits.
func DefaultLimits() Limits {
	return Limits{
		MaxInterims: 500,
		MaxDuration: 5 * time.Minute,
	}
}

// TransitionCallback is called when a final record closes a session and
// a new one begins. The callback receives the new sessionId.
type TransitionCallback func(newSessionId string)

// Handler manages a recognition session. It implements engine.Callback
// to receive shaped records and publish events. Uses an explicit
// session state machine to enforce lifecycle rules.
type Handler struct {
	recognizer    engine.Recognizer
	publisher     *events.Publisher
	validator     *schema.Validator
	gen           *Generator
	interactionId string
	tenantId      string
	logger        zerolog.Logger

	// Session lifecycle state machine
	lifecycle *Lifecycle

	// Backpressure limits
	limits Limits

	// Current session counters (reset on new session)
	sessionStartTime time.Time
	interimCount     int
	ended            bool

	// Session transition handling
	mu             sync.RWMutex
	onTransition   TransitionCallback
	utteranceCount int
}

// NewHandler creates a handler for a recognition session with default
// limits.
func NewHandler(
	recognizer engine.Recognizer,
	publisher *events.Publisher,
	gen *Generator,
	interactionId, tenantId, sessionId string,
) *Handler {
	return NewHandlerWithLimits(recognizer, publisher, gen, interactionId, tenantId, sessionId, DefaultLimits())
}

// NewHandlerWithLimits creates a handler with custom session limits.
func NewHandlerWithLimits(
	recognizer engine.Recognizer,
	publisher *events.Publisher,
	gen *Generator,
	interactionId, tenantId, sessionId string,
	limits Limits,
) *Handler {
	logger := logging.WithComponent("session").With().
		Str("interactionId", interactionId).
		Str("tenantId", tenantId).
		Logger()

	return &Handler{
		recognizer:       recognizer,
		publisher:        publisher,
		validator:        schema.New(),
		gen:              gen,
		interactionId:    interactionId,
		tenantId:         tenantId,
		logger:           logger,
		lifecycle:        NewLifecycle(sessionId),
		limits:           limits,
		sessionStartTime: time.Now(),
	}
}

// SetTransitionCallback sets a callback for session boundaries. This
// allows the caller to react when a new session opens after a final.
func (h *Handler) SetTransitionCallback(cb TransitionCallback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onTransition = cb
}

// Start begins the engine session with this handler as the callback
// receiver.
func (h *Handler) Start(ctx context.Context) error {
	return h.recognizer.Start(ctx, h)
}

// SendAudio forwards audio bytes to the engine.
// Returns error if session limits are exceeded (session is failed).
func (h *Handler) SendAudio(ctx context.Context, audio []byte) error {
	h.mu.RLock()
	startTime := h.sessionStartTime
	h.mu.RUnlock()

	if h.limits.MaxDuration > 0 && time.Since(startTime) > h.limits.MaxDuration {
		reason := fmt.Sprintf("max duration exceeded: %v > %v", time.Since(startTime), h.limits.MaxDuration)
		h.FailSession(reason)
		return fmt.Errorf("session limit exceeded: %s", reason)
	}

	return h.recognizer.SendAudio(ctx, audio)
}

// Close ends the engine session and closes the current session.
func (h *Handler) Close() error {
	err := h.recognizer.Close()
	failed := h.lifecycle.IsFailed()
	h.lifecycle.Close()
	h.endSession(failed)
	return err
}

// endSession records session-end metrics exactly once per session.
func (h *Handler) endSession(failed bool) {
	h.mu.Lock()
	if h.ended {
		h.mu.Unlock()
		return
	}
	h.ended = true
	duration := time.Since(h.sessionStartTime)
	h.mu.Unlock()
	metrics.DefaultMetrics.RecordSessionEnd(failed, duration.Seconds())
}

// SessionId returns the current session ID.
func (h *Handler) SessionId() string {
	return h.lifecycle.SessionId()
}

// SessionState returns the current session lifecycle state.
func (h *Handler) SessionState() State {
	return h.lifecycle.State()
}

// UtteranceCount returns the number of completed utterances.
func (h *Handler) UtteranceCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.utteranceCount
}

// --- engine.Callback implementation ---

// OnResult is called for every shaped record the engine delivers.
// Routes the record by reason: intermediate results flow as interim
// events, final reasons flow as final events and roll the session
// over, canceled records flow as canceled events and fail the session.
func (h *Handler) OnResult(rec *result.Record) {
	switch {
	case rec.Reason() == result.ReasonCanceled:
		h.handleCanceled(rec)
	case rec.Reason().IsFinal():
		h.handleFinal(rec)
	default:
		h.handleInterim(rec)
	}
}

// OnError is called when an engine error occurs without a record.
// The current session is FAILED - no final will be emitted.
// "Silence > bad data"
func (h *Handler) OnError(err error) {
	oldState := h.lifecycle.State()
	failed := h.lifecycle.Fail()
	if failed {
		h.endSession(true)
	}

	h.logger.Error().
		Err(err).
		Str("sessionId", h.lifecycle.SessionId()).
		Str("previousState", oldState.String()).
		Bool("failed", failed).
		Msg("engine error - session failed")
}

func (h *Handler) handleInterim(rec *result.Record) {
	if err := h.lifecycle.AcceptInterim(); err != nil {
		h.logger.Warn().
			Err(err).
			Str("sessionId", h.lifecycle.SessionId()).
			Str("state", h.lifecycle.State().String()).
			Msg("interim record ignored")
		return
	}

	h.mu.Lock()
	h.interimCount++
	count := h.interimCount
	h.mu.Unlock()

	if h.limits.MaxInterims > 0 && count > h.limits.MaxInterims {
		metrics.DefaultMetrics.InterimLimitDrops.Inc()
		h.FailSession(fmt.Sprintf("max interims exceeded: %d > %d", count, h.limits.MaxInterims))
		return
	}

	metrics.DefaultMetrics.RecordShaped(rec.Reason().String())
	h.publishResult(models.EventTypeInterim, rec)
}

func (h *Handler) handleFinal(rec *result.Record) {
	if err := h.lifecycle.AcceptFinal(); err != nil {
		h.logger.Warn().
			Err(err).
			Str("sessionId", h.lifecycle.SessionId()).
			Str("state", h.lifecycle.State().String()).
			Msg("final record ignored")
		return
	}

	metrics.DefaultMetrics.RecordShaped(rec.Reason().String())
	metrics.DefaultMetrics.RecordFinalDuration(rec.DurationMillis())
	h.publishResult(models.EventTypeFinal, rec)

	h.rollSession()
}

func (h *Handler) handleCanceled(rec *result.Record) {
	sessionId := h.lifecycle.SessionId()
	oldState := h.lifecycle.State()

	failed := h.lifecycle.Fail()
	if failed {
		h.endSession(true)
	}
	metrics.DefaultMetrics.RecordShaped(rec.Reason().String())

	h.logger.Error().
		Str("sessionId", sessionId).
		Str("previousState", oldState.String()).
		Str("errorDetails", rec.ErrorDetails()).
		Msg("recognition canceled - session failed")

	ev := models.CanceledEvent{
		EventType:     models.EventTypeCanceled,
		InteractionID: h.interactionId,
		TenantID:      h.tenantId,
		SessionID:     sessionId,
		ResultID:      rec.ID(),
		ErrorDetails:  rec.ErrorDetails(),
		Timestamp:     time.Now().UnixMilli(),
	}
	if err := h.validator.Validate(ev); err != nil {
		metrics.DefaultMetrics.RecordRejected("schema")
		h.logger.Error().Err(err).Msg("canceled event failed validation, not published")
		return
	}
	if err := h.publisher.PublishCanceled(context.Background(), h.interactionId, ev); err != nil {
		h.logger.Error().Err(err).Str("sessionId", sessionId).Msg("failed to publish canceled event")
	}
}

// rollSession closes the current session and opens a new one. Called
// after a final record completes an utterance.
func (h *Handler) rollSession() {
	oldSessionId := h.lifecycle.SessionId()

	h.lifecycle.Close()

	h.endSession(false)

	h.mu.Lock()
	h.utteranceCount++
	oldInterimCount := h.interimCount
	oldDuration := time.Since(h.sessionStartTime)

	h.interimCount = 0
	h.sessionStartTime = time.Now()
	h.ended = false

	var newSessionId string
	if h.gen != nil {
		newSessionId = h.gen.Next(h.interactionId)
	} else {
		newSessionId = oldSessionId + "-next"
	}
	cb := h.onTransition
	h.mu.Unlock()

	h.lifecycle.Reset(newSessionId)
	metrics.DefaultMetrics.RecordSessionStart()

	h.logger.Info().
		Str("oldSession", oldSessionId).
		Str("newSession", newSessionId).
		Int("utterance", h.utteranceCount).
		Int("interims", oldInterimCount).
		Dur("duration", oldDuration.Round(time.Millisecond)).
		Msg("session rolled over")

	if cb != nil {
		cb(newSessionId)
	}
}

// FailSession explicitly fails the current session without emitting a
// final. Use when the session should be abandoned due to external
// factors (client disconnect, timeout, limit breach).
//
// Returns true if the session was failed, false if already terminal.
func (h *Handler) FailSession(reason string) bool {
	sessionId := h.lifecycle.SessionId()
	oldState := h.lifecycle.State()

	failed := h.lifecycle.Fail()
	if failed {
		h.endSession(true)
	}

	h.logger.Warn().
		Str("sessionId", sessionId).
		Str("previousState", oldState.String()).
		Str("reason", reason).
		Msg("session failed")

	return failed
}

// IsSessionFailed returns true if the current session was failed.
func (h *Handler) IsSessionFailed() bool {
	return h.lifecycle.IsFailed()
}

// Counters holds current session usage counters.
type Counters struct {
	InterimCount int
	Duration     time.Duration
}

// SessionCounters returns current session counters for observability.
func (h *Handler) SessionCounters() Counters {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Counters{
		InterimCount: h.interimCount,
		Duration:     time.Since(h.sessionStartTime),
	}
}

func (h *Handler) publishResult(eventType string, rec *result.Record) {
	ev := models.ResultEvent{
		EventType:     eventType,
		InteractionID: h.interactionId,
		TenantID:      h.tenantId,
		SessionID:     h.lifecycle.SessionId(),
		ResultID:      rec.ID(),
		Reason:        rec.Reason().String(),
		Text:          rec.Text(),
		DurationMs:    rec.DurationMillis(),
		OffsetMs:      rec.OffsetMillis(),
		Timestamp:     time.Now().UnixMilli(),
	}
	if err := h.validator.Validate(ev); err != nil {
		metrics.DefaultMetrics.RecordRejected("schema")
		h.logger.Error().Err(err).Str("eventType", eventType).Msg("event failed validation, not published")
		return
	}
	if err := h.publisher.PublishResult(context.Background(), eventType, h.interactionId, ev); err != nil {
		h.logger.Error().Err(err).Str("resultId", rec.ID()).Msg("failed to publish result event")
	}
}
