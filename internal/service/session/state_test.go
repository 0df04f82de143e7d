package session

import (
	"testing"
)

func TestLifecycle_InitialState(t *testing.T) {
	lc := NewLifecycle("sess-1")

	if lc.State() != StateActive {
		t.Errorf("expected StateActive, got %v", lc.State())
	}
	if lc.SessionId() != "sess-1" {
		t.Errorf("expected sess-1, got %v", lc.SessionId())
	}
	if err := lc.AcceptInterim(); err != nil {
		t.Errorf("expected AcceptInterim to pass, got %v", err)
	}
	if lc.IsClosed() {
		t.Error("expected IsClosed to be false")
	}
}

func TestLifecycle_AcceptInterim_InActiveState(t *testing.T) {
	lc := NewLifecycle("sess-1")

	// Should allow multiple interims
	for i := 0; i < 5; i++ {
		if err := lc.AcceptInterim(); err != nil {
			t.Errorf("interim %d: unexpected error: %v", i, err)
		}
	}

	// State should still be ACTIVE
	if lc.State() != StateActive {
		t.Errorf("expected StateActive after interims, got %v", lc.State())
	}
}

func TestLifecycle_AcceptFinal_TransitionsToFinalEmitted(t *testing.T) {
	lc := NewLifecycle("sess-1")

	if err := lc.AcceptFinal(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if lc.State() != StateFinalEmitted {
		t.Errorf("expected StateFinalEmitted, got %v", lc.State())
	}
}

func TestLifecycle_AcceptFinal_OnlyOnce(t *testing.T) {
	lc := NewLifecycle("sess-1")

	// First final should succeed
	if err := lc.AcceptFinal(); err != nil {
		t.Errorf("first final: unexpected error: %v", err)
	}

	// Second final should fail
	if err := lc.AcceptFinal(); err != ErrFinalAlreadyEmitted {
		t.Errorf("second final: expected ErrFinalAlreadyEmitted, got %v", err)
	}
}

func TestLifecycle_AcceptInterim_FailsAfterFinal(t *testing.T) {
	lc := NewLifecycle("sess-1")

	if err := lc.AcceptFinal(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := lc.AcceptInterim(); err != ErrInterimAfterFinal {
		t.Errorf("expected ErrInterimAfterFinal, got %v", err)
	}
}

func TestLifecycle_Close_TransitionsToClosed(t *testing.T) {
	lc := NewLifecycle("sess-1")

	lc.Close()

	if lc.State() != StateClosed {
		t.Errorf("expected StateClosed, got %v", lc.State())
	}
	if !lc.IsClosed() {
		t.Error("expected IsClosed to be true")
	}
}

func TestLifecycle_Close_Idempotent(t *testing.T) {
	lc := NewLifecycle("sess-1")

	lc.Close()
	lc.Close()
	lc.Close()

	if lc.State() != StateClosed {
		t.Errorf("expected StateClosed, got %v", lc.State())
	}
}

func TestLifecycle_OperationsFailAfterClose(t *testing.T) {
	lc := NewLifecycle("sess-1")
	lc.Close()

	if err := lc.AcceptInterim(); err != ErrSessionClosed {
		t.Errorf("AcceptInterim: expected ErrSessionClosed, got %v", err)
	}

	if err := lc.AcceptFinal(); err != ErrSessionClosed {
		t.Errorf("AcceptFinal: expected ErrSessionClosed, got %v", err)
	}
}

func TestLifecycle_Reset(t *testing.T) {
	lc := NewLifecycle("sess-1")

	lc.AcceptFinal()
	lc.Close()

	lc.Reset("sess-2")

	if lc.SessionId() != "sess-2" {
		t.Errorf("expected sess-2, got %v", lc.SessionId())
	}
	if lc.State() != StateActive {
		t.Errorf("expected StateActive after reset, got %v", lc.State())
	}
	if err := lc.AcceptInterim(); err != nil {
		t.Errorf("expected AcceptInterim to pass after reset, got %v", err)
	}
}

func TestLifecycle_FullCycle(t *testing.T) {
	lc := NewLifecycle("sess-1")

	// Accept interims
	for i := 0; i < 3; i++ {
		if err := lc.AcceptInterim(); err != nil {
			t.Fatalf("interim %d failed: %v", i, err)
		}
	}

	// Accept final
	if err := lc.AcceptFinal(); err != nil {
		t.Fatalf("final failed: %v", err)
	}

	// Close
	lc.Close()

	// Verify final state
	if lc.State() != StateClosed {
		t.Errorf("expected StateClosed, got %v", lc.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateActive, "ACTIVE"},
		{StateFinalEmitted, "FINAL_EMITTED"},
		{StateClosed, "CLOSED"},
		{StateFailed, "FAILED"},
		{State(99), "UNKNOWN(99)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

// --- Tests for FAILED state (error handling) ---

func TestLifecycle_Fail_FromActiveState(t *testing.T) {
	lc := NewLifecycle("sess-1")

	// Fail should succeed from ACTIVE
	if !lc.Fail() {
		t.Error("expected Fail() to return true from ACTIVE state")
	}

	if lc.State() != StateFailed {
		t.Errorf("expected StateFailed, got %v", lc.State())
	}
	if !lc.IsClosed() {
		t.Error("expected IsClosed to be true for failed session")
	}
	if !lc.IsFailed() {
		t.Error("expected IsFailed to be true")
	}
}

func TestLifecycle_Fail_FromFinalEmittedState(t *testing.T) {
	lc := NewLifecycle("sess-1")
	lc.AcceptFinal()

	// Fail should succeed from FINAL_EMITTED
	if !lc.Fail() {
		t.Error("expected Fail() to return true from FINAL_EMITTED state")
	}

	if lc.State() != StateFailed {
		t.Errorf("expected StateFailed, got %v", lc.State())
	}
}

func TestLifecycle_Fail_Idempotent(t *testing.T) {
	lc := NewLifecycle("sess-1")

	// First fail succeeds
	if !lc.Fail() {
		t.Error("expected first Fail() to return true")
	}

	// Subsequent fails return false (already terminal)
	if lc.Fail() {
		t.Error("expected second Fail() to return false")
	}
	if lc.Fail() {
		t.Error("expected third Fail() to return false")
	}

	if lc.State() != StateFailed {
		t.Errorf("expected StateFailed, got %v", lc.State())
	}
}

func TestLifecycle_Fail_NoopAfterClose(t *testing.T) {
	lc := NewLifecycle("sess-1")
	lc.Close()

	// Fail should not override CLOSED (already terminal)
	if lc.Fail() {
		t.Error("expected Fail() to return false from CLOSED state")
	}

	if lc.State() != StateClosed {
		t.Errorf("expected StateClosed, got %v", lc.State())
	}
}

func TestLifecycle_OperationsFailAfterFail(t *testing.T) {
	lc := NewLifecycle("sess-1")
	lc.Fail()

	if err := lc.AcceptInterim(); err != ErrSessionClosed {
		t.Errorf("AcceptInterim: expected ErrSessionClosed, got %v", err)
	}

	if err := lc.AcceptFinal(); err != ErrSessionClosed {
		t.Errorf("AcceptFinal: expected ErrSessionClosed, got %v", err)
	}
}

func TestLifecycle_Fail_MidUtterance(t *testing.T) {
	// Interims are flowing, an engine error occurs, the session is
	// failed without a final.
	lc := NewLifecycle("sess-1")

	for i := 0; i < 3; i++ {
		if err := lc.AcceptInterim(); err != nil {
			t.Fatalf("interim %d failed: %v", i, err)
		}
	}

	if !lc.Fail() {
		t.Error("expected Fail() to succeed mid-utterance")
	}

	if err := lc.AcceptFinal(); err != ErrSessionClosed {
		t.Errorf("expected ErrSessionClosed after fail, got %v", err)
	}

	if lc.State() != StateFailed {
		t.Errorf("expected StateFailed, got %v", lc.State())
	}
	if !lc.IsFailed() {
		t.Error("expected IsFailed to be true")
	}
}

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state      State
		isTerminal bool
	}{
		{StateActive, false},
		{StateFinalEmitted, false},
		{StateClosed, true},
		{StateFailed, true},
	}

	for _, tt := range tests {
		if got := tt.state.IsTerminal(); got != tt.isTerminal {
			t.Errorf("State(%s).IsTerminal() = %v, want %v", tt.state, got, tt.isTerminal)
		}
	}
}
