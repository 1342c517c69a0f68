// Package ai talks to an external face-analysis service that exposes the
// DeepFace REST API (POST /analyze).
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"emotionserver/internal/config"
	"emotionserver/internal/dto"
)

const defaultBaseURL = "http://localhost:5000"

// ErrNoFace is returned when the analyzer answers without any result.
var ErrNoFace = errors.New("no face found in image")

// Client sends images to the analysis service.
type Client struct {
	baseURL    string
	backend    string
	httpClient *http.Client
}

type analyzeRequest struct {
	Img              string   `json:"img"`
	Actions          []string `json:"actions"`
	EnforceDetection bool     `json:"enforce_detection"`
	DetectorBackend  string   `json:"detector_backend,omitempty"`
}

type analyzeRegion struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type analyzeResult struct {
	DominantEmotion string             `json:"dominant_emotion"`
	Emotion         map[string]float64 `json:"emotion"`
	Region          analyzeRegion      `json:"region"`
	FaceConfidence  float64            `json:"face_confidence"`
}

type analyzeResponse struct {
	Results []analyzeResult `json:"results"`
	Error   string          `json:"error,omitempty"`
}

// NewClient creates an analyzer client from the config.
func NewClient(cfg *config.Config) *Client {
	baseURL := strings.TrimRight(cfg.AnalyzerURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.AnalyzerTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		backend: cfg.DetectorBackend,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Analyze classifies the dominant emotion of the primary face in the image
// at imagePath. Detection is lenient: the service falls back to the whole
// frame when no face is found.
func (c *Client) Analyze(ctx context.Context, imagePath string) (dto.DetectionResult, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return dto.DetectionResult{}, fmt.Errorf("read image: %w", err)
	}

	payload := analyzeRequest{
		Img:              "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data),
		Actions:          []string{"emotion"},
		EnforceDetection: false,
		DetectorBackend:  c.backend,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return dto.DetectionResult{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return dto.DetectionResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dto.DetectionResult{}, fmt.Errorf("call analyzer: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return dto.DetectionResult{}, fmt.Errorf("read response: %w", err)
	}

	var decoded analyzeResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && decoded.Error != "" {
			return dto.DetectionResult{}, fmt.Errorf("analyzer status %d: %s", resp.StatusCode, decoded.Error)
		}
		return dto.DetectionResult{}, fmt.Errorf("analyzer status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if decodeErr != nil {
		return dto.DetectionResult{}, fmt.Errorf("decode response: %w", decodeErr)
	}
	if decoded.Error != "" {
		return dto.DetectionResult{}, fmt.Errorf("analyzer: %s", decoded.Error)
	}
	if len(decoded.Results) == 0 || decoded.Results[0].DominantEmotion == "" {
		return dto.DetectionResult{}, ErrNoFace
	}

	first := decoded.Results[0]
	return dto.DetectionResult{
		Emotion: dto.EmotionName(first.DominantEmotion),
		Box: dto.FaceBox{
			X:      first.Region.X,
			Y:      first.Region.Y,
			Width:  first.Region.W,
			Height: first.Region.H,
		},
		Scores:         first.Emotion,
		FaceConfidence: first.FaceConfidence,
	}, nil
}
