// Package imaging loads source images for the collage server.
//
// It owns the on-disk side of the pipeline: decoding files into image.Image
// values, caching them between tool calls, reporting metadata, and producing
// preview thumbnails. Everything that transforms pixels lives in package
// collage.
//
// # Paths
//
// Paths may be absolute or relative to the server's working directory. A
// leading "~" is expanded to the user's home directory before the file is
// opened, and the expanded path is used as the cache key.
//
// # Supported Formats
//
// PNG, JPEG and GIF decoders are registered. Only the first frame of an
// animated GIF is used.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Cached images are shared
// between callers and must be treated as read-only; collage.Normalize copies
// every image before it is modified.
//
// # Memory Management
//
// Decoded images are held until Evict() or Clear() is called. Large photos
// decode to width*height*4 bytes or more, so long-running servers should
// evict sources once a collage has been produced.
package imaging
