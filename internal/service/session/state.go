// Package session manages recognition session lifecycle and the flow
// of shaped records out of the gateway.
package session

import (
	"errors"
	"fmt"
	"sync"
)

// State represents the lifecycle state of a recognition session.
type State int

const (
	// StateActive - session accepts interim and final records.
	StateActive State = iota
	// StateFinalEmitted - final record emitted, waiting to close.
	StateFinalEmitted
	// StateClosed - session torn down normally. Records referencing the
	// engine's property stores are invalid past this point.
	StateClosed
	// StateFailed - session aborted on engine error, no final emitted.
	// Terminal. "Silence > bad data"
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateActive:
		return "ACTIVE"
	case StateFinalEmitted:
		return "FINAL_EMITTED"
	case StateClosed:
		return "CLOSED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal returns true if the state is terminal (CLOSED or FAILED).
func (s State) IsTerminal() bool {
	return s == StateClosed || s == StateFailed
}

// Errors for invalid state transitions.
var (
	ErrSessionClosed       = errors.New("session is closed")
	ErrFinalAlreadyEmitted = errors.New("final already emitted for this session")
	ErrInterimAfterFinal   = errors.New("cannot accept interim after final")
)

// Lifecycle manages the state machine for a single session.
// Thread-safe for concurrent access.
//
// State transitions:
//
//	ACTIVE -> FINAL_EMITTED -> CLOSED
//	  |           |
//	  |           +-- AcceptFinal() only once
//	  |
//	  +-- AcceptInterim() multiple times
//
// Any non-terminal state can move to FAILED on engine error.
type Lifecycle struct {
	mu        sync.RWMutex
	sessionId string
	state     State
}

// NewLifecycle creates a new session lifecycle in ACTIVE state.
func NewLifecycle(sessionId string) *Lifecycle {
	return &Lifecycle{
		sessionId: sessionId,
		state:     StateActive,
	}
}

// SessionId returns the session ID.
func (l *Lifecycle) SessionId() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sessionId
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// IsClosed returns true if the session is in a terminal state.
func (l *Lifecycle) IsClosed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.IsTerminal()
}

// IsFailed returns true if the session was aborted on error.
func (l *Lifecycle) IsFailed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateFailed
}

// AcceptInterim validates that an interim record may flow.
// Returns nil if allowed, error if not.
func (l *Lifecycle) AcceptInterim() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateActive:
		return nil
	case StateFinalEmitted:
		return ErrInterimAfterFinal
	case StateClosed, StateFailed:
		return ErrSessionClosed
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// AcceptFinal validates that a final record may flow and transitions
// to FINAL_EMITTED. Returns nil if allowed (and transitions), error if
// not.
func (l *Lifecycle) AcceptFinal() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateActive:
		l.state = StateFinalEmitted
		return nil
	case StateFinalEmitted:
		return ErrFinalAlreadyEmitted
	case StateClosed, StateFailed:
		return ErrSessionClosed
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// Close transitions the session to CLOSED state.
// Can be called from any state. Idempotent.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = StateClosed
}

// Fail transitions the session to FAILED state. Use when an engine
// error aborts the session without a final record.
//
// Returns true if the session was failed, false if already terminal.
func (l *Lifecycle) Fail() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.IsTerminal() {
		return false
	}
	l.state = StateFailed
	return true
}

// Reset resets the lifecycle to ACTIVE with a new session ID. Used
// when a new utterance starts on the same stream.
func (l *Lifecycle) Reset(newSessionId string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sessionId = newSessionId
	l.state = StateActive
}
