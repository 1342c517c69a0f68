package dto

// DetectionResult is the outcome of one emotion analysis call.
type DetectionResult struct {
	Emotion        string // capitalized dominant emotion, e.g. "Happy"
	Box            FaceBox
	Scores         map[string]float64
	FaceConfidence float64
}
