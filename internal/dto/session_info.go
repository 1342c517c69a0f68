package dto

// SessionInfo is the response payload for GET /api/session.
type SessionInfo struct {
	Active     bool    `json:"active"`
	Emotion    string  `json:"emotion,omitempty"`
	Box        FaceBox `json:"box"`
	HasSong    bool    `json:"hasSong"`
	Generation uint64  `json:"generation"`
}

// NewSessionInfo builds the public view of a session state.
func NewSessionInfo(s SessionState) SessionInfo {
	return SessionInfo{
		Active:     s.Active(),
		Emotion:    s.Emotion,
		Box:        s.Box,
		HasSong:    s.HasSong(),
		Generation: s.Generation,
	}
}
