package dto

// SuggestionRequest is the decoded body of POST /api/suggestions.
type SuggestionRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Suggestion string `json:"suggestion"`
}
