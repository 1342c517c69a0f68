package vision

import (
	"fmt"
	"image/color"

	"emotionserver/internal/dto"
	"emotionserver/internal/logger"

	"gocv.io/x/gocv"
)

// BoxThickness is the line width of the face rectangle in pixels.
const BoxThickness = 2

var green = color.RGBA{R: 0, G: 255, B: 0, A: 0}

// Annotator draws detection overlays on images with OpenCV.
type Annotator struct {
	logger *logger.Logger
}

// NewAnnotator creates an Annotator.
func NewAnnotator(logger *logger.Logger) *Annotator {
	return &Annotator{logger: logger}
}

// DrawFace reads the image at path, draws the face box (clamped to the
// image bounds) in green and returns the re-encoded JPEG.
func (a *Annotator) DrawFace(path string, box dto.FaceBox) ([]byte, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return nil, fmt.Errorf("failed to read image: %s", path)
	}
	defer mat.Close()

	box = box.Clamp(mat.Cols(), mat.Rows())
	if !box.Empty() {
		if err := gocv.Rectangle(&mat, box.Rect(), green, BoxThickness); err != nil {
			return nil, fmt.Errorf("failed to draw rectangle: %v", err)
		}
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		a.logger.Error("Failed to encode image: %v", err)
		return nil, err
	}
	defer buf.Close()
	finalImage := make([]byte, len(buf.GetBytes()))
	copy(finalImage, buf.GetBytes())

	return finalImage, nil
}
