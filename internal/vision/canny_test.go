package vision

import (
	"image"
	"testing"
)

func countForeground(m *image.Gray) int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

func TestCanny_UniformImage(t *testing.T) {
	ch := image.NewGray(image.Rect(0, 0, 50, 50))
	for i := range ch.Pix {
		ch.Pix[i] = 128
	}

	edges, err := Canny(ch, 0, 50, 5)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	if n := countForeground(edges); n != 0 {
		t.Errorf("uniform image should have no edges, got %d edge pixels", n)
	}
}

func TestCanny_VerticalStep(t *testing.T) {
	ch := image.NewGray(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 20; x < 40; x++ {
			ch.Pix[y*ch.Stride+x] = 255
		}
	}

	edges, err := Canny(ch, 0, 50, 5)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}

	// Every interior row should carry exactly one edge pixel at the step.
	for y := 1; y < 29; y++ {
		var xs []int
		for x := 0; x < 40; x++ {
			if edges.GrayAt(x, y).Y == 255 {
				xs = append(xs, x)
			}
		}
		if len(xs) != 1 {
			t.Fatalf("row %d: got edges at %v, want exactly one", y, xs)
		}
		if xs[0] != 19 && xs[0] != 20 {
			t.Errorf("row %d: edge at x=%d, want 19 or 20", y, xs[0])
		}
	}
}

func TestCanny_HighThresholdSuppresses(t *testing.T) {
	ch := image.NewGray(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 20; x < 40; x++ {
			ch.Pix[y*ch.Stride+x] = 10
		}
	}

	// A step of 10 yields a magnitude far below 1e6.
	edges, err := Canny(ch, 1e5, 1e6, 5)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	if n := countForeground(edges); n != 0 {
		t.Errorf("got %d edge pixels, want 0", n)
	}
}

func TestCanny_BadAperture(t *testing.T) {
	ch := image.NewGray(image.Rect(0, 0, 10, 10))
	for _, aperture := range []int{0, 1, 4, 9} {
		if _, err := Canny(ch, 0, 50, aperture); err == nil {
			t.Errorf("aperture %d should be rejected", aperture)
		}
	}
}

func TestReflect(t *testing.T) {
	tests := []struct{ i, n, want int }{
		{-1, 5, 1},
		{-2, 5, 2},
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 3},
		{6, 5, 2},
		{-3, 1, 0},
	}
	for _, tt := range tests {
		if got := reflect(tt.i, tt.n); got != tt.want {
			t.Errorf("reflect(%d, %d): got %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
