package sqlite

import (
	"context"
	"fmt"
	"time"

	"emotionserver/internal/model"
)

// SuggestionRepository implements repository.SuggestionRepository for SQLite.
type SuggestionRepository struct {
	db *DB
}

// NewSuggestionRepository creates a new SQLite suggestion repository.
func NewSuggestionRepository(db *DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

// Insert stores a suggestion together with its delivery status.
func (r *SuggestionRepository) Insert(ctx context.Context, s *model.Suggestion) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	result, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO suggestions (session_id, name, email, phone, text, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.SessionID, s.Name, s.Email, s.Phone, s.Text, s.Status, s.Error, s.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert suggestion: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read suggestion id: %w", err)
	}
	s.ID = id
	return id, nil
}

// GetRecent returns the newest suggestions, newest first.
func (r *SuggestionRepository) GetRecent(ctx context.Context, limit int) ([]model.Suggestion, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT id, session_id, name, email, phone, text, status, error, created_at
		FROM suggestions ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []model.Suggestion
	for rows.Next() {
		var s model.Suggestion
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Name, &s.Email, &s.Phone, &s.Text, &s.Status, &s.Error, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}

	return suggestions, rows.Err()
}
