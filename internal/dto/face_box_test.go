package dto

import "testing"

func TestFaceBox_Clamp(t *testing.T) {
	tests := []struct {
		name     string
		box      FaceBox
		expected FaceBox
	}{
		{"inside", FaceBox{X: 10, Y: 10, Width: 50, Height: 40}, FaceBox{X: 10, Y: 10, Width: 50, Height: 40}},
		{"overflows right and bottom", FaceBox{X: 80, Y: 70, Width: 50, Height: 50}, FaceBox{X: 80, Y: 70, Width: 20, Height: 30}},
		{"negative origin", FaceBox{X: -10, Y: -5, Width: 30, Height: 30}, FaceBox{X: 0, Y: 0, Width: 20, Height: 25}},
		{"whole frame", FaceBox{X: 0, Y: 0, Width: 100, Height: 100}, FaceBox{X: 0, Y: 0, Width: 100, Height: 100}},
		{"outside", FaceBox{X: 200, Y: 200, Width: 10, Height: 10}, FaceBox{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.box.Clamp(100, 100)
			if got != tt.expected {
				t.Errorf("Clamp(%+v) = %+v, expected %+v", tt.box, got, tt.expected)
			}
			if got.X < 0 || got.Y < 0 || got.X+got.Width > 100 || got.Y+got.Height > 100 {
				t.Errorf("box %+v escapes the image", got)
			}
		})
	}
}

func TestFaceBox_Empty(t *testing.T) {
	if !(FaceBox{}).Empty() {
		t.Error("zero box should be empty")
	}
	if (FaceBox{Width: 1, Height: 1}).Empty() {
		t.Error("1x1 box should not be empty")
	}
}
