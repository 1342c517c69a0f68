package dto

// SessionState is the active emotion/quote/song triple of one browser session,
// plus the face box and annotated preview of the image that produced it.
type SessionState struct {
	Emotion    string
	Quote      string
	SongPath   string
	Box        FaceBox
	Preview    []byte
	Generation uint64
}

// Active reports whether a detection is currently held.
func (s SessionState) Active() bool {
	return s.Emotion != ""
}

// HasSong reports whether a song was found for the current emotion.
func (s SessionState) HasSong() bool {
	return s.SongPath != ""
}
