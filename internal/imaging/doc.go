// Package imaging loads photographs and renders detection output.
//
// This package sits on both sides of part detection: ImageCache decodes
// and caches the input photograph, and the remaining functions turn a list
// of detection.Rect values back into pictures and numbers: outlined copies
// (Annotate), per-part crops (CropPart, CropParts) and mean part colours
// (PartColors).
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// Images are decoded with EXIF orientation applied, so coordinates refer to
// the upright picture.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Rendering functions never
// modify their input and can be called concurrently.
//
// # Color Representation
//
// Colours are reported as "#rrggbb" hex strings and HSL triples. Hex input
// (outline colours) accepts "#RRGGBB" and "#RGB".
package imaging
