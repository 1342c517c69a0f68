package dto

import "emotionserver/internal/model"

// HistoryData is the response payload for GET /api/history.
type HistoryData struct {
	Detections []model.Detection `json:"detections"`
	Counts     map[string]int    `json:"counts"`
	Limit      int               `json:"limit"`
}
