// Package vision provides the low-level raster primitives used by part detection.
//
// The detection core never touches pixels directly. Every blur, threshold,
// edge pass and contour trace goes through the Primitives interface, so the
// same scan can run on the pure-Go implementation (Native) or, when built
// with the "gocv" tag, on OpenCV through gocv (OpenCV).
//
// # Masks and Channels
//
// Channels and masks are *image.Gray values anchored at the origin:
//   - Channel: one 8-bit colour component of the source image
//   - Mask: 0 for background, 255 for foreground
//
// SplitChannels returns components in blue, green, red order. This matches
// the storage order of the decoder the scan order was first tuned against,
// and the scan order decides which of two overlapping detections survives.
//
// # Contours
//
// ExtractContours follows every border in a mask (outer borders and hole
// borders, no hierarchy) using Suzuki-Abe border following with 8-connected
// foreground. Runs of collinear chain steps are compressed to their end
// points. Pixels on the outermost image row and column are treated as
// background, so a fully white mask yields a single border inset by one
// pixel.
//
// Contours are returned in raster order of their starting pixel: top to
// bottom, then left to right. This is the canonical order the detection
// scan relies on.
//
// # Geometry
//
// Perimeter, SimplifyPolygon, PolygonArea, IsConvex and BoundingBox are
// plain functions over Contour values and are shared by both backends.
// BoundingBox follows the inclusive pixel convention: a polygon spanning
// x=10..19 has width 10.
package vision
