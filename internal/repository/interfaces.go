package repository

import (
	"context"

	"emotionserver/internal/model"
)

// DetectionRepository defines the interface for detection history operations.
type DetectionRepository interface {
	// Create operations
	Insert(ctx context.Context, det *model.Detection) (int64, error)

	// Read operations
	GetBySession(ctx context.Context, sessionID string, limit int) ([]model.Detection, error)
	CountByEmotion(ctx context.Context, sessionID string) (map[string]int, error)

	// Delete operations
	DeleteBySession(ctx context.Context, sessionID string) error
}

// SuggestionRepository defines the interface for suggestion records.
type SuggestionRepository interface {
	Insert(ctx context.Context, s *model.Suggestion) (int64, error)
	GetRecent(ctx context.Context, limit int) ([]model.Suggestion, error)
}
