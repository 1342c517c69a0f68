package dto

// DetectionResponse is returned by POST /api/detect.
type DetectionResponse struct {
	Emotion string             `json:"emotion"`
	Box     FaceBox            `json:"box"`
	Scores  map[string]float64 `json:"scores,omitempty"`
	Image   string             `json:"image"` // base64 JPEG with the face box drawn
	HasSong bool               `json:"hasSong"`
}

// ErrorResponse is the payload of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a user-facing status message.
type MessageResponse struct {
	Message string `json:"message"`
}
