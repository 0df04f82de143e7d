// Package models defines the data structures for recognition result
// events and batch transcription payloads.
package models

// Event type discriminators carried in outbound payloads.
const (
	EventTypeInterim  = "recognition.result.interim"
	EventTypeFinal    = "recognition.result.final"
	EventTypeCanceled = "recognition.result.canceled"
)

// ResultEvent represents a recognized result, interim or final.
type ResultEvent struct {
	EventType     string `json:"eventType"`
	InteractionID string `json:"interactionId"`
	TenantID      string `json:"tenantId"`
	SessionID     string `json:"sessionId"`
	ResultID      string `json:"resultId"`
	Reason        string `json:"reason"`
	Text          string `json:"text"`
	DurationMs    int64  `json:"durationMs"`
	OffsetMs      int64  `json:"offsetMs"`
	Timestamp     int64  `json:"timestamp"`
}

// CanceledEvent represents a recognition that ended in cancellation.
type CanceledEvent struct {
	EventType     string `json:"eventType"`
	InteractionID string `json:"interactionId"`
	TenantID      string `json:"tenantId"`
	SessionID     string `json:"sessionId"`
	ResultID      string `json:"resultId"`
	ErrorDetails  string `json:"errorDetails"`
	Timestamp     int64  `json:"timestamp"`
}
