package vision

import (
	"image"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// lineString converts c to orb coordinates, optionally repeating the first
// point at the end.
func lineString(c Contour, closed bool) orb.LineString {
	ls := make(orb.LineString, 0, len(c)+1)
	for _, p := range c {
		ls = append(ls, orb.Point{float64(p.X), float64(p.Y)})
	}
	if closed && len(c) > 0 {
		ls = append(ls, ls[0])
	}
	return ls
}

func contourOf(ls orb.LineString) Contour {
	out := make(Contour, len(ls))
	for i, p := range ls {
		out[i] = image.Pt(int(math.Round(p.X())), int(math.Round(p.Y())))
	}
	return out
}

// Perimeter returns the length of the polyline through c. When closed is
// true the segment from the last point back to the first is included.
func Perimeter(c Contour, closed bool) float64 {
	if len(c) < 2 {
		return 0
	}
	return planar.Length(lineString(c, closed))
}

// SimplifyPolygon reduces c with the Ramer-Douglas-Peucker algorithm so that
// no dropped point lies further than epsilon from the kept outline.
//
// For closed curves the split points are chosen the way OpenCV's
// approxPolyDP does: starting from the first point, the farthest point is
// located three times in succession and the final pair splits the ring into
// two chains. The result keeps ring order, starting at the first split point.
func SimplifyPolygon(c Contour, epsilon float64, closed bool) Contour {
	n := len(c)
	if n < 3 {
		return append(Contour(nil), c...)
	}
	dp := simplify.DouglasPeucker(epsilon)

	if !closed {
		return contourOf(dp.LineString(lineString(c, false)))
	}

	start, end := 0, 0
	for i := 0; i < 3; i++ {
		far, d := farthestFrom(c, start)
		if d <= epsilon {
			return Contour{c[start]}
		}
		end, start = start, far
	}

	// Rotate so the ring begins at start, then close it.
	ring := make(Contour, 0, n)
	ring = append(ring, c[start:]...)
	ring = append(ring, c[:start]...)
	closedRing := lineString(ring, true)
	split := (end - start + n) % n

	first := dp.LineString(closedRing[:split+1].Clone())
	second := dp.LineString(closedRing[split:].Clone())

	out := contourOf(first)
	// Both chains share the split point; the second also ends on the start.
	return append(out, contourOf(second[1:len(second)-1])...)
}

func farthestFrom(c Contour, from int) (int, float64) {
	origin := orb.Point{float64(c[from].X), float64(c[from].Y)}
	best, bestDist := from, 0.0
	for i, p := range c {
		if d := planar.Distance(origin, orb.Point{float64(p.X), float64(p.Y)}); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// PolygonArea returns the absolute area enclosed by p.
func PolygonArea(p Contour) float64 {
	if len(p) < 3 {
		return 0
	}
	return math.Abs(planar.Area(orb.Ring(lineString(p, true))))
}

// IsConvex reports whether every turn along p bends the same way.
// Collinear vertices do not break convexity; polygons with fewer than three
// vertices are never convex.
func IsConvex(p Contour) bool {
	n := len(p)
	if n < 3 {
		return false
	}
	var pos, neg bool
	for i := 0; i < n; i++ {
		a, b, c := p[i], p[(i+1)%n], p[(i+2)%n]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		switch {
		case cross > 0:
			pos = true
		case cross < 0:
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return pos || neg
}

// BoundingBox returns the smallest rectangle containing every pixel of p.
// The result is empty for an empty contour.
func BoundingBox(p Contour) image.Rectangle {
	if len(p) == 0 {
		return image.Rectangle{}
	}
	b := orb.Ring(lineString(p, false)).Bound()
	return image.Rect(
		int(b.Min.X()), int(b.Min.Y()),
		int(b.Max.X())+1, int(b.Max.Y())+1,
	)
}
