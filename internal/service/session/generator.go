package session

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces session IDs scoped to an interaction.
type Generator struct{}

// NewGenerator creates a session ID generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Next returns a new session ID for the interaction.
func (g *Generator) Next(interactionId string) string {
	return fmt.Sprintf("%s-sess-%s", interactionId, uuid.NewString())
}
