package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"emotionserver/internal/dto"
	"emotionserver/internal/logger"
	"emotionserver/internal/model"
	"emotionserver/internal/repository"
	"emotionserver/internal/service/content"
	"emotionserver/internal/service/mail"
	"emotionserver/internal/service/session"

	"github.com/disintegration/imaging"
)

var (
	// ErrUnsupportedImage is returned for files that are not jpg, jpeg or png.
	ErrUnsupportedImage = errors.New("unsupported image: upload a jpg, jpeg or png file")
	// ErrDetection wraps every failure of the analysis call.
	ErrDetection = errors.New("error during detection")
	// ErrSuperseded is returned when a newer image replaced this one mid-analysis.
	ErrSuperseded = errors.New("a newer image was submitted")
)

// Analyzer classifies the dominant emotion of the face in an image file.
type Analyzer interface {
	Analyze(ctx context.Context, imagePath string) (dto.DetectionResult, error)
}

// Annotator draws the face box on an image file and returns JPEG bytes.
type Annotator interface {
	DrawFace(path string, box dto.FaceBox) ([]byte, error)
}

// ContentLibrary looks up mood-matched quotes and songs.
type ContentLibrary interface {
	Quote(emotion string) string
	Song(emotion string) string
	Emotions() []string
}

// Broadcaster pushes updates to a session's open tabs.
type Broadcaster interface {
	Broadcast(session string, data []byte)
}

// Mailer sends validated suggestions.
type Mailer interface {
	Submit(ctx context.Context, sg mail.Suggestion) error
}

// Deps bundles the Manager's collaborators. Repositories and Hub are optional.
type Deps struct {
	Analyzer       Analyzer
	Annotator      Annotator
	Library        ContentLibrary
	Mailer         Mailer
	Sessions       *session.Store
	DetectionRepo  repository.DetectionRepository
	SuggestionRepo repository.SuggestionRepository
	Hub            Broadcaster
	Logger         *logger.Logger
	TempDir        string
}

// Manager runs one detection or suggestion cycle per request.
type Manager struct {
	analyzer       Analyzer
	annotator      Annotator
	library        ContentLibrary
	mailer         Mailer
	sessions       *session.Store
	detectionRepo  repository.DetectionRepository
	suggestionRepo repository.SuggestionRepository
	hub            Broadcaster
	logger         *logger.Logger
	tempDir        string
}

// NewManager creates a Manager; a nil Sessions gets a fresh store.
func NewManager(d Deps) *Manager {
	if d.Sessions == nil {
		d.Sessions = session.NewStore()
	}
	return &Manager{
		analyzer:       d.Analyzer,
		annotator:      d.Annotator,
		library:        d.Library,
		mailer:         d.Mailer,
		sessions:       d.Sessions,
		detectionRepo:  d.DetectionRepo,
		suggestionRepo: d.SuggestionRepo,
		hub:            d.Hub,
		logger:         d.Logger,
		tempDir:        d.TempDir,
	}
}

// HandleImage analyzes one submitted image for a session. The session's
// previous emotion, quote and song are cleared first and replaced only
// when the whole cycle succeeds.
func (m *Manager) HandleImage(ctx context.Context, sessionID, source, filename string, data []byte) (dto.DetectionResponse, error) {
	if !supportedImage(filename, data) {
		return dto.DetectionResponse{}, ErrUnsupportedImage
	}

	gen := m.sessions.Begin(sessionID)

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return dto.DetectionResponse{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	tmp, err := os.CreateTemp(m.tempDir, "emotion-*.jpg")
	if err != nil {
		return dto.DetectionResponse{}, fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tmp.Name()
	defer func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			m.logger.Warning("Failed to remove temp file %s: %v", tempPath, err)
		}
	}()

	if err := imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		tmp.Close()
		return dto.DetectionResponse{}, fmt.Errorf("write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return dto.DetectionResponse{}, fmt.Errorf("write temp image: %w", err)
	}

	result, err := m.analyzer.Analyze(ctx, tempPath)
	if err != nil {
		m.logger.Error("Emotion analysis failed for session %s: %v", session.Tag(sessionID), err)
		return dto.DetectionResponse{}, fmt.Errorf("%w: %v", ErrDetection, err)
	}

	bounds := img.Bounds()
	box := result.Box.Clamp(bounds.Dx(), bounds.Dy())

	preview, err := m.annotator.DrawFace(tempPath, box)
	if err != nil {
		m.logger.Warning("Could not draw face box, returning plain image: %v", err)
		if preview, err = os.ReadFile(tempPath); err != nil {
			return dto.DetectionResponse{}, fmt.Errorf("read temp image: %w", err)
		}
	}

	quote := m.library.Quote(result.Emotion)
	if quote == content.QuoteNotFound {
		m.logger.Warning("No shayari found for %s", result.Emotion)
	}
	song := m.library.Song(result.Emotion)
	if song == "" {
		m.logger.Warning("No song found for %s", result.Emotion)
	}

	state := dto.SessionState{
		Emotion:  result.Emotion,
		Quote:    quote,
		SongPath: song,
		Box:      box,
		Preview:  preview,
	}
	if !m.sessions.Commit(sessionID, gen, state) {
		m.logger.Info("Discarding stale detection for session %s", session.Tag(sessionID))
		return dto.DetectionResponse{}, ErrSuperseded
	}
	state.Generation = gen

	m.logger.Info("Detected %s for session %s (%s)", result.Emotion, session.Tag(sessionID), source)
	m.recordDetection(ctx, sessionID, source, result, box, quote, song)
	m.broadcast(sessionID, state)

	return dto.DetectionResponse{
		Emotion: result.Emotion,
		Box:     box,
		Scores:  result.Scores,
		Image:   base64.StdEncoding.EncodeToString(preview),
		HasSong: song != "",
	}, nil
}

// Session returns the current state of a session.
func (m *Manager) Session(sessionID string) dto.SessionState {
	return m.sessions.Get(sessionID)
}

// Emotions lists the emotions the content library has folders for.
func (m *Manager) Emotions() []string {
	return m.library.Emotions()
}

// SubmitSuggestion validates and emails a suggestion, then records the outcome.
// Invalid suggestions are neither sent nor recorded.
func (m *Manager) SubmitSuggestion(ctx context.Context, sessionID string, sg mail.Suggestion) error {
	if err := sg.Validate(); err != nil {
		return err
	}

	sendErr := m.mailer.Submit(ctx, sg)

	record := &model.Suggestion{
		SessionID: sessionID,
		Name:      strings.TrimSpace(sg.Name),
		Email:     strings.TrimSpace(sg.Email),
		Phone:     strings.TrimSpace(sg.Phone),
		Text:      sg.Text,
		Status:    model.SuggestionSent,
	}
	if sendErr != nil {
		record.Status = model.SuggestionFailed
		record.Error = sendErr.Error()
		m.logger.Error("Failed to send suggestion from %s: %v", record.Name, sendErr)
	} else {
		m.logger.Info("Suggestion from %s sent", record.Name)
	}

	if m.suggestionRepo != nil {
		if _, err := m.suggestionRepo.Insert(ctx, record); err != nil {
			m.logger.Error("Error saving suggestion to database: %v", err)
		}
	}

	return sendErr
}

// History returns a session's recent detections and per-emotion counts.
func (m *Manager) History(ctx context.Context, sessionID string, limit int) (dto.HistoryData, error) {
	data := dto.HistoryData{Detections: []model.Detection{}, Counts: map[string]int{}, Limit: limit}
	if m.detectionRepo == nil {
		return data, nil
	}

	detections, err := m.detectionRepo.GetBySession(ctx, sessionID, limit)
	if err != nil {
		return data, err
	}
	if detections != nil {
		data.Detections = detections
	}

	counts, err := m.detectionRepo.CountByEmotion(ctx, sessionID)
	if err != nil {
		return data, err
	}
	data.Counts = counts
	return data, nil
}

// ClearHistory deletes a session's stored detections and forgets its
// current state.
func (m *Manager) ClearHistory(ctx context.Context, sessionID string) error {
	m.sessions.Delete(sessionID)
	if m.detectionRepo == nil {
		return nil
	}
	if err := m.detectionRepo.DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	m.logger.Info("Cleared history for session %s", session.Tag(sessionID))
	return nil
}

// RecentSuggestions returns the newest recorded suggestions, sent or failed.
func (m *Manager) RecentSuggestions(ctx context.Context, limit int) ([]model.Suggestion, error) {
	if m.suggestionRepo == nil {
		return []model.Suggestion{}, nil
	}
	suggestions, err := m.suggestionRepo.GetRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []model.Suggestion{}
	}
	return suggestions, nil
}

// ExpireSessions forgets sessions idle for longer than ttl.
func (m *Manager) ExpireSessions(ttl time.Duration) int {
	removed := m.sessions.Sweep(ttl)
	if removed > 0 {
		m.logger.Info("Expired %d idle sessions, %d active", removed, m.sessions.Len())
	}
	return removed
}

func (m *Manager) recordDetection(ctx context.Context, sessionID, source string, result dto.DetectionResult, box dto.FaceBox, quote, song string) {
	if m.detectionRepo == nil {
		return
	}
	det := &model.Detection{
		SessionID:  sessionID,
		Source:     source,
		Emotion:    result.Emotion,
		X:          box.X,
		Y:          box.Y,
		Width:      box.Width,
		Height:     box.Height,
		Confidence: result.FaceConfidence,
		QuoteFound: quote != content.QuoteNotFound,
		SongFound:  song != "",
	}
	if _, err := m.detectionRepo.Insert(ctx, det); err != nil {
		m.logger.Error("Error saving detection to database: %v", err)
	}
}

func (m *Manager) broadcast(sessionID string, state dto.SessionState) {
	if m.hub == nil {
		return
	}
	msg, err := json.Marshal(dto.NewSessionInfo(state))
	if err != nil {
		m.logger.Error("Error encoding session update: %v", err)
		return
	}
	m.hub.Broadcast(sessionID, msg)
}

// supportedImage accepts jpg, jpeg and png by extension, or by content
// when the browser sent no file name.
func supportedImage(filename string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	case "":
		ct := http.DetectContentType(data)
		return ct == "image/jpeg" || ct == "image/png"
	default:
		return false
	}
}
