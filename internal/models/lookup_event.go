package models

import "time"

// Lookup outcomes recorded in the lookup log.
const (
	OutcomeLoading = "LOADING"
	OutcomeSuccess = "SUCCESS"
	OutcomeError   = "ERROR"
)

// LookupEvent is a single lookup log entry.
type LookupEvent struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	City       string    `json:"city"`
	Outcome    string    `json:"outcome"` // LOADING | SUCCESS | ERROR
	Message    string    `json:"message"` // human-readable
	Metadata   any       `json:"metadata,omitempty"`
}
