package sqlite

import (
	"context"
	"fmt"
	"time"

	"emotionserver/internal/model"
)

// DetectionRepository implements repository.DetectionRepository for SQLite.
type DetectionRepository struct {
	db *DB
}

// NewDetectionRepository creates a new SQLite detection repository.
func NewDetectionRepository(db *DB) *DetectionRepository {
	return &DetectionRepository{db: db}
}

// Insert adds a new detection record to the database.
func (r *DetectionRepository) Insert(ctx context.Context, det *model.Detection) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	if det.CreatedAt.IsZero() {
		det.CreatedAt = time.Now()
	}

	result, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO detections (session_id, source, emotion, x, y, width, height, confidence, quote_found, song_found, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, det.SessionID, det.Source, det.Emotion, det.X, det.Y, det.Width, det.Height, det.Confidence,
		det.QuoteFound, det.SongFound, det.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert detection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read detection id: %w", err)
	}
	det.ID = id
	return id, nil
}

// GetBySession retrieves the newest detections of a session, newest first.
func (r *DetectionRepository) GetBySession(ctx context.Context, sessionID string, limit int) ([]model.Detection, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT id, session_id, source, emotion, x, y, width, height, confidence, quote_found, song_found, created_at
		FROM detections WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query detections: %w", err)
	}
	defer rows.Close()

	var detections []model.Detection
	for rows.Next() {
		var det model.Detection
		if err := rows.Scan(&det.ID, &det.SessionID, &det.Source, &det.Emotion, &det.X, &det.Y, &det.Width, &det.Height,
			&det.Confidence, &det.QuoteFound, &det.SongFound, &det.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		detections = append(detections, det)
	}

	return detections, rows.Err()
}

// CountByEmotion returns how many times each emotion was detected in a session.
func (r *DetectionRepository) CountByEmotion(ctx context.Context, sessionID string) (map[string]int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT emotion, COUNT(*) FROM detections WHERE session_id = ? GROUP BY emotion
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count detections: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var emotion string
		var count int
		if err := rows.Scan(&emotion, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[emotion] = count
	}

	return counts, rows.Err()
}

// DeleteBySession removes all detections of a session.
func (r *DetectionRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().ExecContext(ctx, `DELETE FROM detections WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete detections: %w", err)
	}
	return nil
}
