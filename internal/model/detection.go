package model

import "time"

// Detection represents one stored emotion analysis.
type Detection struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"sessionId"`
	Source     string    `json:"source"` // camera or upload
	Emotion    string    `json:"emotion"`
	X          int       `json:"x"`
	Y          int       `json:"y"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Confidence float64   `json:"confidence"`
	QuoteFound bool      `json:"quoteFound"`
	SongFound  bool      `json:"songFound"`
	CreatedAt  time.Time `json:"createdAt"`
}
