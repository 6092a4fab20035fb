package vision

import (
	"image"
	"math"
	"testing"
)

func square(x, y, size int) Contour {
	return Contour{
		{x, y},
		{x, y + size},
		{x + size, y + size},
		{x + size, y},
	}
}

func TestPerimeter(t *testing.T) {
	sq := square(0, 0, 10)

	if got := Perimeter(sq, true); got != 40 {
		t.Errorf("closed perimeter: got %v, want 40", got)
	}
	if got := Perimeter(sq, false); got != 30 {
		t.Errorf("open perimeter: got %v, want 30", got)
	}
	if got := Perimeter(Contour{{3, 4}}, true); got != 0 {
		t.Errorf("single point perimeter: got %v, want 0", got)
	}
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name string
		poly Contour
		want float64
	}{
		{"square ccw", square(0, 0, 10), 100},
		{"square cw", Contour{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, 100},
		{"triangle", Contour{{0, 0}, {4, 0}, {0, 3}}, 6},
		{"degenerate", Contour{{0, 0}, {5, 5}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonArea(tt.poly); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsConvex(t *testing.T) {
	tests := []struct {
		name string
		poly Contour
		want bool
	}{
		{"square", square(0, 0, 10), true},
		{"reversed square", Contour{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, true},
		{"dart", Contour{{0, 0}, {10, 5}, {0, 10}, {3, 5}}, false},
		{"bow tie", Contour{{0, 0}, {10, 10}, {10, 0}, {0, 10}}, false},
		{"line", Contour{{0, 0}, {5, 0}, {10, 0}}, false},
		{"two points", Contour{{0, 0}, {5, 5}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConvex(tt.poly); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundingBox(t *testing.T) {
	got := BoundingBox(Contour{{12, 5}, {10, 9}, {19, 7}, {15, 14}})
	want := image.Rect(10, 5, 20, 15)
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	if !BoundingBox(nil).Empty() {
		t.Error("bounding box of an empty contour should be empty")
	}
}

func TestSimplifyPolygon_DenseSquare(t *testing.T) {
	// Walk every pixel of a 50x50 square outline.
	var dense Contour
	for x := 0; x < 50; x++ {
		dense = append(dense, image.Pt(x, 0))
	}
	for y := 0; y < 50; y++ {
		dense = append(dense, image.Pt(50, y))
	}
	for x := 50; x > 0; x-- {
		dense = append(dense, image.Pt(x, 50))
	}
	for y := 50; y > 0; y-- {
		dense = append(dense, image.Pt(0, y))
	}

	eps := 0.02 * Perimeter(dense, true)
	got := SimplifyPolygon(dense, eps, true)

	if len(got) != 4 {
		t.Fatalf("vertex count: got %d (%v), want 4", len(got), got)
	}
	corners := map[image.Point]bool{{0, 0}: true, {50, 0}: true, {50, 50}: true, {0, 50}: true}
	for _, p := range got {
		if !corners[p] {
			t.Errorf("unexpected vertex %v", p)
		}
	}
	if !IsConvex(got) {
		t.Error("simplified square should be convex")
	}
}

func TestSimplifyPolygon_RoundedCorners(t *testing.T) {
	// Octagon with short diagonal corner cuts, like a traced hole border.
	poly := Contour{
		{51, 49}, {148, 49}, {150, 51}, {150, 148},
		{148, 150}, {51, 150}, {49, 148}, {49, 51},
	}
	got := SimplifyPolygon(poly, 0.02*Perimeter(poly, true), true)
	if len(got) != 4 {
		t.Fatalf("vertex count: got %d (%v), want 4", len(got), got)
	}
	want := map[image.Point]bool{{148, 150}: true, {49, 148}: true, {51, 49}: true, {150, 51}: true}
	for _, p := range got {
		if !want[p] {
			t.Errorf("unexpected vertex %v in %v", p, got)
		}
	}
	area := PolygonArea(got)
	if math.Abs(area-99*99) > 600 {
		t.Errorf("area: got %v, want close to %v", area, 99*99)
	}
}

func TestSimplifyPolygon_DenseSquareMidEdgeStart(t *testing.T) {
	// Same outline as above, traced from the middle of the top edge.
	var dense Contour
	for x := 25; x < 50; x++ {
		dense = append(dense, image.Pt(x, 0))
	}
	for y := 0; y < 50; y++ {
		dense = append(dense, image.Pt(50, y))
	}
	for x := 50; x > 0; x-- {
		dense = append(dense, image.Pt(x, 50))
	}
	for y := 50; y > 0; y-- {
		dense = append(dense, image.Pt(0, y))
	}
	for x := 0; x < 25; x++ {
		dense = append(dense, image.Pt(x, 0))
	}

	got := SimplifyPolygon(dense, 0.02*Perimeter(dense, true), true)
	want := []image.Point{{50, 50}, {0, 50}, {0, 0}, {50, 0}}
	if len(got) != len(want) {
		t.Fatalf("vertex count: got %d (%v), want 4", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("vertex %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSimplifyPolygon_OpenSegmentDistance(t *testing.T) {
	// (20,0) is on the line through the endpoints but 10px past the segment.
	line := Contour{{0, 0}, {20, 0}, {10, 0}}
	got := SimplifyPolygon(line, 5, false)
	if len(got) != 3 {
		t.Errorf("point beyond the segment should be kept, got %v", got)
	}
}

func TestSimplifyPolygon_Open(t *testing.T) {
	line := Contour{{0, 0}, {1, 0}, {2, 1}, {3, 0}, {4, 0}}
	got := SimplifyPolygon(line, 2, false)
	want := Contour{{0, 0}, {4, 0}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSimplifyPolygon_TinyRing(t *testing.T) {
	ring := Contour{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	got := SimplifyPolygon(ring, 5, true)
	if len(got) != 1 {
		t.Errorf("ring within epsilon should collapse to one point, got %v", got)
	}
}
