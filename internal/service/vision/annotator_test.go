package vision

import (
	"path/filepath"
	"testing"

	"emotionserver/internal/config"
	"emotionserver/internal/dto"
	"emotionserver/internal/logger"

	"gocv.io/x/gocv"
)

func TestAnnotator_DrawFace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blank.jpg")

	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 120, 160, gocv.MatTypeCV8UC3)
	defer mat.Close()
	if ok := gocv.IMWrite(path, mat); !ok {
		t.Fatalf("Failed to write test image")
	}

	a := NewAnnotator(logger.NewLogger(&config.Config{LogDirectory: filepath.Join(dir, "logs")}))
	// The box overflows the right edge and is clamped to x=100..159.
	data, err := a.DrawFace(path, dto.FaceBox{X: 100, Y: 20, Width: 100, Height: 50})
	if err != nil {
		t.Fatalf("DrawFace failed: %v", err)
	}

	out, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		t.Fatalf("annotated output is not a valid image: %v", err)
	}
	defer out.Close()
	if out.Cols() != 160 || out.Rows() != 120 {
		t.Errorf("annotated size = %dx%d, expected 160x120", out.Cols(), out.Rows())
	}

	// Top edge of the rectangle should be green.
	pixel := out.GetVecbAt(20, 130)
	if pixel[1] < 100 || pixel[1] <= pixel[0] || pixel[1] <= pixel[2] {
		t.Errorf("expected green pixel on box edge, got BGR %v", pixel)
	}
}

func TestAnnotator_DrawFaceMissingFile(t *testing.T) {
	dir := t.TempDir()
	a := NewAnnotator(logger.NewLogger(&config.Config{LogDirectory: dir}))
	if _, err := a.DrawFace(filepath.Join(dir, "missing.jpg"), dto.FaceBox{Width: 1, Height: 1}); err == nil {
		t.Error("expected error for missing image")
	}
}
