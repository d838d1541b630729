package collage

import "errors"

var (
	// ErrEmptyInput is returned by Compose when there are no images to place.
	ErrEmptyInput = errors.New("no images to compose")

	// ErrInvalidScaleFactor is returned for scale factors that are zero,
	// negative, NaN or infinite.
	ErrInvalidScaleFactor = errors.New("scale factor must be a positive finite number")

	// ErrInvalidBox is returned when a fixed box has a non-positive side.
	ErrInvalidBox = errors.New("box width and height must be positive")

	// ErrTooLarge is returned when a resized image or canvas would exceed
	// MaxPixels.
	ErrTooLarge = errors.New("image too large")
)
