package detection

import (
	"fmt"
	"image"
)

// Rect is an axis-aligned part bounding box in pixel coordinates.
type Rect struct {
	X      int `json:"x"`      // Left edge (inclusive)
	Y      int `json:"y"`      // Top edge (inclusive)
	Width  int `json:"width"`  // Horizontal extent in pixels
	Height int `json:"height"` // Vertical extent in pixels
}

// RectFromRectangle converts an image.Rectangle (exclusive max) to a Rect.
func RectFromRectangle(b image.Rectangle) Rect {
	b = b.Canon()
	return Rect{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()}
}

// Area returns Width × Height.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Rectangle returns r as an image.Rectangle with an exclusive max corner.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Add returns r translated by p.
func (r Rect) Add(p image.Point) Rect {
	r.X += p.X
	r.Y += p.Y
	return r
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.Rectangle().In(r.Rectangle())
}

// Slice returns r as [x, y, w, h], the layout used by JSON reports.
func (r Rect) Slice() [4]int {
	return [4]int{r.X, r.Y, r.Width, r.Height}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
