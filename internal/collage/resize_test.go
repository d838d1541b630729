package collage

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestResize_Presets(t *testing.T) {
	img := createInMemoryImage(40, 20, color.RGBA{10, 200, 30, 255})

	for _, factor := range Presets {
		out, err := Resize(img, factor, nil, nil)
		if err != nil {
			t.Fatalf("Resize(%v) failed: %v", factor, err)
		}
		wantW, wantH := int(40*factor), int(20*factor)
		if out.Bounds().Dx() != wantW || out.Bounds().Dy() != wantH {
			t.Errorf("Resize(%v): got %dx%d, want %dx%d",
				factor, out.Bounds().Dx(), out.Bounds().Dy(), wantW, wantH)
		}
	}
}

func TestResize_ArbitraryFactor(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)

	out, err := Resize(img, 0.3, nil, nil)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if out.Bounds().Size() != image.Pt(30, 30) {
		t.Errorf("size: got %v, want (30,30)", out.Bounds().Size())
	}
}

func TestResize_FlattensOntoBackground(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 6))

	out, err := Resize(img, 1.0, color.NRGBA{0, 0, 0, 255}, nil)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	assertRegion(t, out, out.Bounds(), color.Black)
}

func TestResize_InvalidFactor(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	if _, err := Resize(img, 0, nil, nil); !errors.Is(err, ErrInvalidScaleFactor) {
		t.Errorf("Resize(0): got %v, want ErrInvalidScaleFactor", err)
	}
	if _, err := Resize(img, 1e15, nil, nil); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Resize(1e15): got %v, want ErrTooLarge", err)
	}
}

func TestIsPreset(t *testing.T) {
	tests := []struct {
		factor float64
		want   bool
	}{
		{0.25, true},
		{0.5, true},
		{1, true},
		{2, true},
		{4, true},
		{0.45, false},
		{3, false},
	}

	for _, tt := range tests {
		if got := IsPreset(tt.factor); got != tt.want {
			t.Errorf("IsPreset(%v): got %v, want %v", tt.factor, got, tt.want)
		}
	}
}
