package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"emotionserver/internal/model"
)

// ========================================
// Test Setup Helpers
// ========================================

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("Database file should exist")
	}
	return db
}

// ========================================
// Detection Repository Tests
// ========================================

func TestDetectionRepository_InsertAndGetBySession(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDetectionRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	records := []model.Detection{
		{SessionID: "s1", Source: "camera", Emotion: "Happy", X: 10, Y: 20, Width: 50, Height: 60, Confidence: 0.93, QuoteFound: true, SongFound: true, CreatedAt: base},
		{SessionID: "s1", Source: "upload", Emotion: "Sad", Confidence: 0.71, QuoteFound: true, CreatedAt: base.Add(time.Minute)},
		{SessionID: "s2", Source: "upload", Emotion: "Angry", CreatedAt: base},
	}
	for i := range records {
		id, err := repo.Insert(ctx, &records[i])
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if id == 0 || records[i].ID != id {
			t.Errorf("expected ID to be set, got %d (record %d)", id, records[i].ID)
		}
	}

	got, err := repo.GetBySession(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("GetBySession failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 detections, got %d", len(got))
	}
	if got[0].Emotion != "Sad" || got[1].Emotion != "Happy" {
		t.Errorf("expected newest first, got %s then %s", got[0].Emotion, got[1].Emotion)
	}
	happy := got[1]
	if happy.X != 10 || happy.Y != 20 || happy.Width != 50 || happy.Height != 60 {
		t.Errorf("box not round-tripped: %+v", happy)
	}
	if !happy.QuoteFound || !happy.SongFound || got[0].SongFound {
		t.Errorf("found flags not round-tripped: %+v / %+v", happy, got[0])
	}
}

func TestDetectionRepository_Limit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDetectionRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := repo.Insert(ctx, &model.Detection{SessionID: "s1", Emotion: "Neutral"}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := repo.GetBySession(ctx, "s1", 3)
	if err != nil {
		t.Fatalf("GetBySession failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 detections, got %d", len(got))
	}
}

func TestDetectionRepository_CountAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDetectionRepository(db)
	ctx := context.Background()

	for _, emotion := range []string{"Happy", "Happy", "Sad"} {
		if _, err := repo.Insert(ctx, &model.Detection{SessionID: "s1", Emotion: emotion}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	counts, err := repo.CountByEmotion(ctx, "s1")
	if err != nil {
		t.Fatalf("CountByEmotion failed: %v", err)
	}
	if counts["Happy"] != 2 || counts["Sad"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}

	if err := repo.DeleteBySession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteBySession failed: %v", err)
	}
	got, err := repo.GetBySession(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("GetBySession failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no detections after delete, got %d", len(got))
	}
}

// ========================================
// Suggestion Repository Tests
// ========================================

func TestSuggestionRepository_InsertAndGetRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSuggestionRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	sent := &model.Suggestion{Name: "Asha", Email: "asha@example.com", Phone: "12345", Text: "More songs", Status: model.SuggestionSent, CreatedAt: base}
	failed := &model.Suggestion{Name: "Ravi", Email: "ravi@example.com", Phone: "67890", Text: "Dark mode", Status: model.SuggestionFailed, Error: "auth failed", CreatedAt: base.Add(time.Hour)}

	for _, s := range []*model.Suggestion{sent, failed} {
		if _, err := repo.Insert(ctx, s); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := repo.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
	if got[0].Name != "Ravi" || got[0].Status != model.SuggestionFailed || got[0].Error != "auth failed" {
		t.Errorf("unexpected newest suggestion: %+v", got[0])
	}
	if got[1].Text != "More songs" {
		t.Errorf("expected text to round-trip, got %q", got[1].Text)
	}
}
