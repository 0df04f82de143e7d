package models

// SubscriptionCredentials authenticates the batch transcription
// connector against a hosted speech service.
type SubscriptionCredentials struct {
	SubscriptionKey string `json:"subscriptionKey"`
	Region          string `json:"region"`
}

// EntityType enumerates entity categories returned by the text
// analytics service for finalized transcripts.
type EntityType string

const (
	EntityTypePerson       EntityType = "Person"
	EntityTypeLocation     EntityType = "Location"
	EntityTypeOrganization EntityType = "Organization"
	EntityTypeQuantity     EntityType = "Quantity"
	EntityTypeDateTime     EntityType = "DateTime"
	EntityTypeURL          EntityType = "URL"
	EntityTypeEmail        EntityType = "Email"
)

// Valid reports whether the entity type is a known category.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTypePerson, EntityTypeLocation, EntityTypeOrganization,
		EntityTypeQuantity, EntityTypeDateTime, EntityTypeURL, EntityTypeEmail:
		return true
	}
	return false
}

// SentimentSentence carries per-sentence sentiment scores for a span
// of a finalized transcript. Offset and Length are in characters.
type SentimentSentence struct {
	Offset   int     `json:"offset"`
	Length   int     `json:"length"`
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// Dominant returns the label of the highest sentiment score. Ties
// resolve in the order positive, neutral, negative.
func (s SentimentSentence) Dominant() string {
	switch {
	case s.Positive >= s.Neutral && s.Positive >= s.Negative:
		return "positive"
	case s.Neutral >= s.Negative:
		return "neutral"
	default:
		return "negative"
	}
}
