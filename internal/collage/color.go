package collage

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// White is the default background used to flatten transparency and to fill
// unused canvas area.
var White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// ParseColor parses a "#RRGGBB" or "#RGB" hex string into an opaque color.
// The leading '#' is optional. An empty string yields White.
func ParseColor(hex string) (color.NRGBA, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return White, nil
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if n := len(hex) - 1; n != 3 && n != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #RGB or #RRGGBB", hex)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// HexString formats a color as "#RRGGBB", dropping alpha.
func HexString(c color.Color) string {
	cf, _ := colorful.MakeColor(opaque(c))
	return strings.ToUpper(cf.Hex())
}

// opaque returns c with full alpha, keeping its straight RGB components.
func opaque(c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 255
	return n
}
