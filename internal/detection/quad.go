package detection

import (
	"image"
	"math"

	"github.com/ironsheep/part-finder/internal/vision"
	"gonum.org/v1/gonum/spatial/r2"
)

// Classifier turns a mask into candidate part rectangles.
type Classifier struct {
	prims  vision.Primitives
	params Params
}

// NewClassifier returns a classifier using prims for contour extraction
// and polygon measurement.
func NewClassifier(prims vision.Primitives, params Params) *Classifier {
	return &Classifier{prims: prims, params: params}
}

// Classify returns the bounding box of every contour in mask that passes
// the quadrilateral tests, in contour order. The second result is the
// number of contours examined.
func (c *Classifier) Classify(mask *image.Gray, p Pass) ([]Rect, int, error) {
	contours, err := c.prims.ExtractContours(mask)
	if err != nil {
		return nil, 0, primitiveError("extract contours", p.Channel, p.Level, err)
	}

	var rects []Rect
	for _, contour := range contours {
		if r, ok := c.Accept(contour); ok {
			rects = append(rects, r)
		}
	}
	return rects, len(contours), nil
}

// Accept simplifies contour and reports its bounding box when the result
// is a convex, near right-angled quadrilateral of acceptable area.
func (c *Classifier) Accept(contour vision.Contour) (Rect, bool) {
	eps := 0.02 * c.prims.Perimeter(contour, true)
	poly := c.prims.SimplifyPolygon(contour, eps, true)
	if len(poly) != 4 {
		return Rect{}, false
	}

	area := c.prims.PolygonArea(poly)
	if area <= c.params.MinArea || area > c.params.MaxArea {
		return Rect{}, false
	}
	if !c.prims.IsConvex(poly) {
		return Rect{}, false
	}
	if MaxCornerCosine(poly) >= c.params.MaxCosine {
		return Rect{}, false
	}

	return RectFromRectangle(c.prims.BoundingBox(poly)), true
}

// MaxCornerCosine returns the largest |cos| of the corner angles of a
// closed polygon. A right angle scores 0; degenerate corners score 1.
func MaxCornerCosine(poly vision.Contour) float64 {
	n := len(poly)
	if n < 3 {
		return 1
	}
	worst := 0.0
	for i := 0; i < n; i++ {
		cos := cornerCosine(poly[i], poly[(i+1)%n], poly[(i+2)%n])
		if cos > worst {
			worst = cos
		}
	}
	return worst
}

// cornerCosine is |cos| of the angle p0-p1-p2 at p1.
func cornerCosine(p0, p1, p2 image.Point) float64 {
	mid := vec(p1)
	d1 := r2.Sub(vec(p0), mid)
	d2 := r2.Sub(vec(p2), mid)

	denom := math.Sqrt(r2.Norm2(d1) * r2.Norm2(d2))
	if denom == 0 {
		return 1
	}
	return math.Abs(r2.Dot(d1, d2)) / denom
}

func vec(p image.Point) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}
