package vision

import (
	"fmt"
	"image"
	"sort"
)

// Contour is an ordered, closed sequence of integer points.
//
// A simplified contour (a polygon) uses the same type; the closing edge from
// the last point back to the first is implied.
type Contour []image.Point

// Primitives is the raster toolkit the detection scan is built on.
//
// Implementations must be safe for concurrent use: the scan may run several
// (channel, threshold) passes at once.
type Primitives interface {
	// Blur smooths img with a Gaussian of the given odd kernel size.
	Blur(img image.Image, kernelSize int) (image.Image, error)

	// SplitChannels returns the blue, green and red components of img.
	SplitChannels(img image.Image) ([]*image.Gray, error)

	// Threshold marks pixels strictly brighter than level as foreground.
	Threshold(ch *image.Gray, level uint8) (*image.Gray, error)

	// EdgeDetect runs Canny edge detection with hysteresis thresholds
	// low/high and a Sobel aperture of 3, 5 or 7.
	EdgeDetect(ch *image.Gray, low, high float64, aperture int) (*image.Gray, error)

	// Dilate grows foreground by one pass of a 3x3 structuring element.
	Dilate(mask *image.Gray) (*image.Gray, error)

	// ExtractContours returns every border in mask, outer and hole alike.
	ExtractContours(mask *image.Gray) ([]Contour, error)

	Perimeter(c Contour, closed bool) float64
	SimplifyPolygon(c Contour, epsilon float64, closed bool) Contour
	PolygonArea(p Contour) float64
	IsConvex(p Contour) bool
	BoundingBox(p Contour) image.Rectangle
}

// geometry implements the measurement half of Primitives. Both backends
// embed it so polygon tests behave identically whichever raster code ran.
type geometry struct{}

func (geometry) Perimeter(c Contour, closed bool) float64 { return Perimeter(c, closed) }

func (geometry) SimplifyPolygon(c Contour, epsilon float64, closed bool) Contour {
	return SimplifyPolygon(c, epsilon, closed)
}

func (geometry) PolygonArea(p Contour) float64 { return PolygonArea(p) }

func (geometry) IsConvex(p Contour) bool { return IsConvex(p) }

func (geometry) BoundingBox(p Contour) image.Rectangle { return BoundingBox(p) }

// originGray returns g re-anchored at (0,0) with a tight stride. Images that
// already satisfy that are returned unchanged.
func originGray(g *image.Gray) *image.Gray {
	b := g.Bounds()
	if b.Min == (image.Point{}) && g.Stride == b.Dx() {
		return g
	}
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], src[:b.Dx()])
	}
	return out
}

var backends = map[string]func() Primitives{
	"native": func() Primitives { return NewNative() },
}

// Backends lists the primitive implementations compiled into this binary.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the named primitive implementation. An empty name selects
// the pure-Go backend.
func New(name string) (Primitives, error) {
	if name == "" {
		name = "native"
	}
	mk, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown vision backend %q (available: %v)", name, Backends())
	}
	return mk(), nil
}
