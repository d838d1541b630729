package collage

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ScaleMode selects how every image is resized before it is placed in a cell.
//
// The zero value selects nothing; build one with ByFactor or ToFixedBox.
type ScaleMode struct {
	kind   scaleKind
	factor float64
	box    image.Point
}

type scaleKind int

const (
	scaleUnset scaleKind = iota
	scaleFactor
	scaleBox
)

// ByFactor scales width and height by the same factor.
func ByFactor(factor float64) ScaleMode {
	return ScaleMode{kind: scaleFactor, factor: factor}
}

// ToFixedBox fits every image inside a width x height box and centers it on a
// background canvas of exactly that size.
func ToFixedBox(width, height int) ScaleMode {
	return ScaleMode{kind: scaleBox, box: image.Pt(width, height)}
}

// IsZero reports whether the mode was never set.
func (m ScaleMode) IsZero() bool {
	return m.kind == scaleUnset
}

// Factor returns the scale factor and whether the mode scales by factor.
func (m ScaleMode) Factor() (float64, bool) {
	return m.factor, m.kind == scaleFactor
}

// Box returns the box size and whether the mode fits into a fixed box.
func (m ScaleMode) Box() (image.Point, bool) {
	return m.box, m.kind == scaleBox
}

func (m ScaleMode) String() string {
	switch m.kind {
	case scaleFactor:
		return fmt.Sprintf("factor %g", m.factor)
	case scaleBox:
		return fmt.Sprintf("box %dx%d", m.box.X, m.box.Y)
	}
	return "unset"
}

// Validate checks the factor or box without touching any image. An unset
// mode reports ErrInvalidScaleFactor.
func (m ScaleMode) Validate() error {
	switch m.kind {
	case scaleFactor:
		if !ValidFactor(m.factor) {
			return fmt.Errorf("scale by %v: %w", m.factor, ErrInvalidScaleFactor)
		}
		return nil
	case scaleBox:
		if m.box.X <= 0 || m.box.Y <= 0 {
			return fmt.Errorf("fit into %dx%d: %w", m.box.X, m.box.Y, ErrInvalidBox)
		}
		return checkPixels(float64(m.box.X), float64(m.box.Y))
	}
	return fmt.Errorf("scale mode not set: %w", ErrInvalidScaleFactor)
}

// Apply resizes img according to the mode. bg is only used by box mode to
// fill the margin around the fitted image.
func (m ScaleMode) Apply(img image.Image, bg color.Color, r Resampler) (*image.NRGBA, error) {
	switch m.kind {
	case scaleFactor:
		return ScaleByFactor(img, m.factor, r)
	case scaleBox:
		return ScaleToFit(img, m.box, bg, r)
	}
	return nil, m.Validate()
}

// MaxPixels bounds the area of any image the package allocates.
const MaxPixels = 1 << 28

// checkPixels fails when a w x h image would exceed MaxPixels. Sizes are
// floats so that oversized products cannot wrap around.
func checkPixels(w, h float64) error {
	if w*h > MaxPixels {
		return fmt.Errorf("%.0fx%.0f pixels exceeds %d: %w", w, h, MaxPixels, ErrTooLarge)
	}
	return nil
}

// ValidFactor reports whether factor is a usable scale factor.
func ValidFactor(factor float64) bool {
	return factor > 0 && !math.IsInf(factor, 0) && !math.IsNaN(factor)
}

// ScaleByFactor resizes img by factor, preserving the aspect ratio.
//
// The new size is floor(width*factor) x floor(height*factor); each side is
// kept at one pixel or more. Results larger than MaxPixels fail with
// ErrTooLarge. A factor of exactly 1 returns an unfiltered copy.
// A nil r selects DefaultResampler.
func ScaleByFactor(img image.Image, factor float64, r Resampler) (*image.NRGBA, error) {
	if !ValidFactor(factor) {
		return nil, fmt.Errorf("scale by %v: %w", factor, ErrInvalidScaleFactor)
	}
	if factor == 1 {
		return imaging.Clone(img), nil
	}
	if r == nil {
		r = DefaultResampler
	}

	b := img.Bounds()
	fw := math.Max(1, math.Floor(float64(b.Dx())*factor))
	fh := math.Max(1, math.Floor(float64(b.Dy())*factor))
	if err := checkPixels(fw, fh); err != nil {
		return nil, fmt.Errorf("scale by %v: %w", factor, err)
	}
	return r.Resample(img, int(fw), int(fh)), nil
}

// ScaleToFit shrinks or enlarges img to fit entirely inside box, keeping its
// aspect ratio, then centers it on a bg canvas of exactly box size. The
// margin appears only along the shorter axis.
func ScaleToFit(img image.Image, box image.Point, bg color.Color, r Resampler) (*image.NRGBA, error) {
	if box.X <= 0 || box.Y <= 0 {
		return nil, fmt.Errorf("fit into %dx%d: %w", box.X, box.Y, ErrInvalidBox)
	}
	if err := checkPixels(float64(box.X), float64(box.Y)); err != nil {
		return nil, fmt.Errorf("fit into %dx%d: %w", box.X, box.Y, err)
	}
	if r == nil {
		r = DefaultResampler
	}

	size := fitSize(img.Bounds().Size(), box)
	var fitted *image.NRGBA
	if size == img.Bounds().Size() {
		fitted = imaging.Clone(img)
	} else {
		fitted = r.Resample(img, size.X, size.Y)
	}

	canvas := imaging.New(box.X, box.Y, opaque(bg))
	return imaging.PasteCenter(canvas, fitted), nil
}

// fitSize returns the largest size with src's aspect ratio that fits in box.
func fitSize(src, box image.Point) image.Point {
	if src.X <= 0 || src.Y <= 0 {
		return image.Point{}
	}
	ratio := math.Min(float64(box.X)/float64(src.X), float64(box.Y)/float64(src.Y))
	w := atLeastOne(int(math.Round(float64(src.X) * ratio)))
	h := atLeastOne(int(math.Round(float64(src.Y) * ratio)))
	if w > box.X {
		w = box.X
	}
	if h > box.Y {
		h = box.Y
	}
	return image.Pt(w, h)
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
