package model

import "time"

// Suggestion status values.
const (
	SuggestionSent   = "sent"
	SuggestionFailed = "failed"
)

// Suggestion represents a submitted contact-form entry and its delivery outcome.
type Suggestion struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Text      string    `json:"text"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
