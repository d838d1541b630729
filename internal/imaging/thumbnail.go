package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-collage-mcp/internal/collage"
)

// DefaultThumbnailSize is the bounding box side used for upload previews.
const DefaultThumbnailSize = 150

// ThumbnailResult is a preview image plus the size of its source.
type ThumbnailResult struct {
	collage.EncodedImage
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`
}

// Thumbnail fits img inside a size x size box, keeping its aspect ratio, and
// returns it as base64 PNG. Images already inside the box are not enlarged.
// Transparency is flattened onto bg so previews match the collage output.
func Thumbnail(img image.Image, size int, bg color.Color) (*ThumbnailResult, error) {
	if size <= 0 {
		return nil, fmt.Errorf("thumbnail size must be positive, got %d", size)
	}
	if bg == nil {
		bg = collage.White
	}

	thumb := imaging.Fit(collage.Normalize(img, bg), size, size, imaging.Lanczos)

	encoded, err := collage.Encode(thumb)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	bounds := img.Bounds()
	return &ThumbnailResult{
		EncodedImage: *encoded,
		SourceWidth:  bounds.Dx(),
		SourceHeight: bounds.Dy(),
	}, nil
}
