// Package collage implements the grid-layout and compositing engine.
//
// The package turns an ordered sequence of decoded images into one collage
// image, and resizes single images by a uniform factor. Every operation is a
// pure function of its arguments: nothing is cached between calls and caller
// images are never modified.
//
// # Pipeline
//
// A collage is built in four steps:
//
//  1. Normalize: every input is flattened onto the background color and
//     converted to opaque 8-bit RGB (see Normalize).
//  2. Scale: every normalized image is resized by a ScaleMode, either a
//     uniform factor or a fixed bounding box.
//  3. Plan: Plan picks the number of rows and columns for the image count.
//  4. Composite: all scaled images are pasted row-major into one
//     background-filled canvas. Cells share one size, the maximum scaled
//     width and height, so the grid is perfectly rectangular.
//
// # Layout
//
// Image i lands in row i/cols, column i%cols. Images smaller than the cell
// are placed flush at the cell's top-left corner unless AlignCenter is
// requested. Cells beyond the image count show the canvas background, or the
// placeholder color when Options.FillUnused is set.
//
// # Color
//
// Output images are *image.NRGBA values whose alpha is 255 everywhere, so a
// PNG encoder writes them as 8-bit truecolor without an alpha channel.
//
// # Errors
//
// The package reports three sentinel errors: ErrEmptyInput when Compose gets
// no images, ErrInvalidScaleFactor for factors that are not finite and
// positive, and ErrInvalidBox for empty fixed boxes. Check them with
// errors.Is.
package collage
