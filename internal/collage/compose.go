package collage

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Alignment controls where an image sits inside a cell larger than itself.
type Alignment int

const (
	// AlignTopLeft places images flush at the cell's top-left corner.
	AlignTopLeft Alignment = iota

	// AlignCenter centers images inside their cell.
	AlignCenter
)

func (a Alignment) String() string {
	if a == AlignCenter {
		return "center"
	}
	return "top-left"
}

// ParseAlignment maps "top-left" (or "") and "center" to an Alignment.
func ParseAlignment(s string) (Alignment, error) {
	switch s {
	case "", "top-left":
		return AlignTopLeft, nil
	case "center":
		return AlignCenter, nil
	}
	return AlignTopLeft, fmt.Errorf("unknown alignment %q (want top-left or center)", s)
}

// Options configures a Composer.
type Options struct {
	// Scale resizes every normalized image. Defaults to ByFactor(1).
	Scale ScaleMode

	// Columns fixes the number of columns. Values <= 0 pick the grid
	// automatically (see Plan).
	Columns int

	// Background fills the canvas and flattens transparency. Nil means White.
	Background color.Color

	// FillUnused paints cells past the last image with Placeholder instead of
	// leaving the canvas background.
	FillUnused bool

	// Placeholder is the color of unused cells when FillUnused is set.
	// Nil means Background.
	Placeholder color.Color

	// Align places images inside cells larger than themselves.
	Align Alignment

	// Resampler performs the resizing. Nil means DefaultResampler.
	Resampler Resampler
}

// Result is a finished collage.
type Result struct {
	// Image is the composed canvas, fully opaque.
	Image *image.NRGBA

	// Grid is the layout that was used.
	Grid GridSpec

	// Cell is the shared cell size in pixels.
	Cell image.Point

	// Count is the number of images placed.
	Count int
}

// Composer builds collages with a fixed set of options. A Composer holds no
// mutable state and is safe for concurrent use.
type Composer struct {
	opts Options
}

// NewComposer returns a Composer for opts with defaults filled in.
func NewComposer(opts Options) *Composer {
	if opts.Scale.IsZero() {
		opts.Scale = ByFactor(1)
	}
	if opts.Background == nil {
		opts.Background = White
	}
	if opts.Placeholder == nil {
		opts.Placeholder = opts.Background
	}
	if opts.Resampler == nil {
		opts.Resampler = DefaultResampler
	}
	return &Composer{opts: opts}
}

// Options returns the effective options.
func (c *Composer) Options() Options {
	return c.opts
}

// Compose places images into one grid canvas, in order, row by row.
//
// Every image is normalized onto the background and resized by the scale
// mode. The cell size is the largest scaled width and the largest scaled
// height, shared by all cells. The canvas is cols*cellWidth wide and
// rows*cellHeight tall with no padding between cells.
//
// An empty slice returns ErrEmptyInput and no image. An invalid scale mode
// fails before any image is resized.
func (c *Composer) Compose(images []image.Image) (*Result, error) {
	if len(images) == 0 {
		return nil, ErrEmptyInput
	}
	if err := c.opts.Scale.Validate(); err != nil {
		return nil, err
	}

	scaled := make([]*image.NRGBA, len(images))
	var cell image.Point
	for i, img := range images {
		if img == nil {
			return nil, fmt.Errorf("image %d is nil", i)
		}
		s, err := c.opts.Scale.Apply(Normalize(img, c.opts.Background), c.opts.Background, c.opts.Resampler)
		if err != nil {
			return nil, fmt.Errorf("failed to scale image %d: %w", i, err)
		}
		scaled[i] = s
		size := s.Bounds().Size()
		cell.X = max(cell.X, size.X)
		cell.Y = max(cell.Y, size.Y)
	}

	grid := Plan(len(scaled), c.opts.Columns)
	if err := checkPixels(float64(grid.Cols)*float64(cell.X), float64(grid.Rows)*float64(cell.Y)); err != nil {
		return nil, fmt.Errorf("canvas for %s grid: %w", grid, err)
	}
	canvas := imaging.New(grid.Cols*cell.X, grid.Rows*cell.Y, opaque(c.opts.Background))

	for i, s := range scaled {
		origin := c.cellOrigin(grid, cell, i)
		size := s.Bounds().Size()
		if c.opts.Align == AlignCenter {
			origin = origin.Add(cell.Sub(size).Div(2))
		}
		draw.Draw(canvas, image.Rectangle{Min: origin, Max: origin.Add(size)}, s, s.Bounds().Min, draw.Src)
	}

	if c.opts.FillUnused {
		fill := image.NewUniform(opaque(c.opts.Placeholder))
		for i := len(scaled); i < grid.Cells(); i++ {
			origin := c.cellOrigin(grid, cell, i)
			draw.Draw(canvas, image.Rectangle{Min: origin, Max: origin.Add(cell)}, fill, image.Point{}, draw.Src)
		}
	}

	return &Result{
		Image: canvas,
		Grid:  grid,
		Cell:  cell,
		Count: len(scaled),
	}, nil
}

func (c *Composer) cellOrigin(grid GridSpec, cell image.Point, i int) image.Point {
	row, col := grid.Position(i)
	return image.Pt(col*cell.X, row*cell.Y)
}

// Compose builds a collage by uniform scale factor with flush top-left cells
// on a white background. colsPerRow <= 0 picks the grid automatically.
func Compose(images []image.Image, scaleFactor float64, colsPerRow int) (*image.NRGBA, error) {
	if len(images) == 0 {
		return nil, ErrEmptyInput
	}
	if !ValidFactor(scaleFactor) {
		return nil, fmt.Errorf("compose: %w", ErrInvalidScaleFactor)
	}
	res, err := NewComposer(Options{
		Scale:   ByFactor(scaleFactor),
		Columns: colsPerRow,
	}).Compose(images)
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}
