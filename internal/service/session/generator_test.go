package session

import (
	"strings"
	"testing"
)

func TestGenerator_Next(t *testing.T) {
	gen := NewGenerator()

	id := gen.Next("int-1")
	if !strings.HasPrefix(id, "int-1-sess-") {
		t.Errorf("expected id prefixed with interaction, got %q", id)
	}

	if gen.Next("int-1") == id {
		t.Error("expected distinct ids from successive calls")
	}
}
