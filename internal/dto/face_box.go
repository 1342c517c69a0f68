package dto

import "image"

// FaceBox is a face bounding box in image pixels.
type FaceBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Rect converts the box to an image.Rectangle.
func (b FaceBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Empty reports whether the box has no area.
func (b FaceBox) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Clamp intersects the box with a width x height image. A box entirely
// outside the image becomes empty.
func (b FaceBox) Clamp(width, height int) FaceBox {
	r := b.Rect().Canon().Intersect(image.Rect(0, 0, width, height))
	return FaceBox{
		X:      r.Min.X,
		Y:      r.Min.Y,
		Width:  r.Dx(),
		Height: r.Dy(),
	}
}
