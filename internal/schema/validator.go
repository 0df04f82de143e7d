// Package schema validates outbound event payloads before publishing.
package schema

import (
	"errors"
	"fmt"

	"speech-result-gateway/internal/models"
)

// ErrUnknownEventType is returned for payloads the validator does not
// recognize.
var ErrUnknownEventType = errors.New("schema: unknown event type")

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Validate checks the required fields of an outbound event. Events
// failing validation must not be published.
func (v *Validator) Validate(event any) error {
	switch ev := event.(type) {
	case models.ResultEvent:
		if ev.EventType != models.EventTypeInterim && ev.EventType != models.EventTypeFinal {
			return fmt.Errorf("schema: invalid result event type %q", ev.EventType)
		}
		return requireFields(map[string]string{
			"interactionId": ev.InteractionID,
			"sessionId":     ev.SessionID,
			"resultId":      ev.ResultID,
			"reason":        ev.Reason,
		}, ev.Timestamp)
	case models.CanceledEvent:
		if ev.EventType != models.EventTypeCanceled {
			return fmt.Errorf("schema: invalid canceled event type %q", ev.EventType)
		}
		return requireFields(map[string]string{
			"interactionId": ev.InteractionID,
			"sessionId":     ev.SessionID,
			"resultId":      ev.ResultID,
		}, ev.Timestamp)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEventType, event)
	}
}

func requireFields(fields map[string]string, timestamp int64) error {
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("schema: missing required field %s", name)
		}
	}
	if timestamp <= 0 {
		return errors.New("schema: missing timestamp")
	}
	return nil
}
