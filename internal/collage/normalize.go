package collage

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ColorMode classifies how an image stores its pixels.
type ColorMode int

const (
	// ModeRGB images are fully opaque color images that can be copied as-is.
	ModeRGB ColorMode = iota

	// ModeAlpha images carry an alpha channel with at least one
	// non-opaque pixel.
	ModeAlpha

	// ModeIndexed images use a color palette.
	ModeIndexed

	// ModeOther covers everything that must be converted to RGB first:
	// grayscale, YCbCr (JPEG) and CMYK images.
	ModeOther
)

func (m ColorMode) String() string {
	switch m {
	case ModeRGB:
		return "rgb"
	case ModeAlpha:
		return "alpha"
	case ModeIndexed:
		return "indexed"
	default:
		return "other"
	}
}

// opaquer is implemented by the standard library image types that can report
// whether every pixel is fully opaque.
type opaquer interface {
	Opaque() bool
}

// ColorModeOf reports the color mode of img.
func ColorModeOf(img image.Image) ColorMode {
	switch m := img.(type) {
	case *image.Paletted:
		return ModeIndexed
	case *image.NRGBA, *image.RGBA, *image.NRGBA64, *image.RGBA64,
		*image.Alpha, *image.Alpha16, *image.NYCbCrA:
		if m.(opaquer).Opaque() {
			return ModeRGB
		}
		return ModeAlpha
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return ModeOther
	}

	// Unknown implementations: inspect the color model.
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return ModeOther
	}
	if o, ok := img.(opaquer); ok && o.Opaque() {
		return ModeRGB
	}
	return ModeAlpha
}

// Normalize converts img into an opaque 8-bit RGB image of the same size.
//
// Images with transparency or a palette are composited over a solid bg
// canvas using their own alpha, so fully transparent pixels come out as bg.
// Grayscale, YCbCr and CMYK images are converted to RGB. Opaque RGB images
// are copied. The result always starts at (0,0) and img is never modified.
func Normalize(img image.Image, bg color.Color) *image.NRGBA {
	switch ColorModeOf(img) {
	case ModeAlpha, ModeIndexed:
		return flatten(img, bg)
	default:
		return imaging.Clone(img)
	}
}

// flatten composites img over a canvas of bg.
func flatten(img image.Image, bg color.Color) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), opaque(bg))
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}
