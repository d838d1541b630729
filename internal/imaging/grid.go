package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-collage-mcp/internal/collage"
)

// DefaultGridColor is the outline color used when none is given.
var DefaultGridColor = color.NRGBA{R: 255, G: 0, B: 0, A: 255}

// maxPreviewPixels bounds the canvas LayoutPreview will allocate.
const maxPreviewPixels = 16 << 20

// DrawCellGrid outlines every cell of grid on dst and labels the first count
// cells with their 1-based placement index. Cells are cell.X by cell.Y
// pixels starting at dst's origin. dst is modified in place.
func DrawCellGrid(dst *image.NRGBA, grid collage.GridSpec, cell image.Point, count int, lineColor color.Color) {
	if grid.Cells() == 0 || cell.X <= 0 || cell.Y <= 0 {
		return
	}
	if lineColor == nil {
		lineColor = DefaultGridColor
	}
	line := image.NewUniform(lineColor)
	origin := dst.Bounds().Min

	// Interior boundaries plus the outer frame.
	for col := 0; col <= grid.Cols; col++ {
		x := origin.X + min(col*cell.X, grid.Cols*cell.X-1)
		draw.Draw(dst, image.Rect(x, origin.Y, x+1, origin.Y+grid.Rows*cell.Y), line, image.Point{}, draw.Src)
	}
	for row := 0; row <= grid.Rows; row++ {
		y := origin.Y + min(row*cell.Y, grid.Rows*cell.Y-1)
		draw.Draw(dst, image.Rect(origin.X, y, origin.X+grid.Cols*cell.X, y+1), line, image.Point{}, draw.Src)
	}

	fg := color.NRGBA{255, 255, 255, 255}
	bg := color.NRGBA{0, 0, 0, 255}
	for i := 0; i < count && i < grid.Cells(); i++ {
		row, col := grid.Position(i)
		drawLabel(dst, origin.X+col*cell.X+3, origin.Y+row*cell.Y+3, strconv.Itoa(i+1), fg, bg)
	}
}

// LayoutPreview renders the grid a collage of count images would use, with
// every cell cell.X by cell.Y pixels. Used cells are filled with bg and
// numbered; unused cells are filled with placeholder.
func LayoutPreview(count, colsPerRow int, cell image.Point, bg, placeholder, lineColor color.Color) (*image.NRGBA, collage.GridSpec, error) {
	if count <= 0 {
		return nil, collage.GridSpec{}, collage.ErrEmptyInput
	}
	if cell.X <= 0 || cell.Y <= 0 {
		return nil, collage.GridSpec{}, fmt.Errorf("preview cell %dx%d: %w", cell.X, cell.Y, collage.ErrInvalidBox)
	}

	if bg == nil {
		bg = collage.White
	}
	if placeholder == nil {
		placeholder = bg
	}

	grid := collage.Plan(count, colsPerRow)
	fw := float64(grid.Cols) * float64(cell.X)
	fh := float64(grid.Rows) * float64(cell.Y)
	if fw*fh > maxPreviewPixels {
		return nil, grid, fmt.Errorf("preview of %.0fx%.0f pixels: %w", fw, fh, collage.ErrTooLarge)
	}

	canvas := imaging.New(int(fw), int(fh), bg)
	fill := image.NewUniform(placeholder)
	for i := count; i < grid.Cells(); i++ {
		row, col := grid.Position(i)
		r := image.Rect(col*cell.X, row*cell.Y, (col+1)*cell.X, (row+1)*cell.Y)
		draw.Draw(canvas, r, fill, image.Point{}, draw.Src)
	}

	DrawCellGrid(canvas, grid, cell, count, lineColor)
	return canvas, grid, nil
}

// drawLabel draws text in a 3x5 pixel digit font on a filled box, clipped to
// img's bounds. Characters other than digits leave a gap.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	set := func(px, py int, c color.NRGBA) {
		if image.Pt(px, py).In(bounds) {
			img.SetNRGBA(px, py, c)
		}
	}

	for dy := -1; dy < labelHeight-1; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' {
					set(cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
