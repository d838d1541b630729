package collage

import (
	"image"
	"image/color"
)

// Presets are the discrete single-image scale factors offered to users.
var Presets = []float64{0.25, 0.5, 1.0, 2.0, 4.0}

// IsPreset reports whether factor is one of Presets.
func IsPreset(factor float64) bool {
	for _, p := range Presets {
		if p == factor {
			return true
		}
	}
	return false
}

// Resize normalizes img onto bg and scales it by factor. Any positive finite
// factor is accepted, not just Presets. A nil bg means White and a nil r
// means DefaultResampler.
func Resize(img image.Image, factor float64, bg color.Color, r Resampler) (*image.NRGBA, error) {
	if !ValidFactor(factor) {
		return nil, ErrInvalidScaleFactor
	}
	if bg == nil {
		bg = White
	}
	return ScaleByFactor(Normalize(img, bg), factor, r)
}
