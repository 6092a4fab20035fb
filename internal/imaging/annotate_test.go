package imaging

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/ironsheep/part-finder/internal/detection"
)

func nrgbaAt(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func TestAnnotate_Outline(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)
	r := detection.Rect{X: 20, Y: 30, Width: 40, Height: 20}

	out, err := Annotate(img, []detection.Rect{r}, DefaultAnnotateOptions())
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	blue := color.NRGBA{0, 0, 255, 255}
	white := color.NRGBA{255, 255, 255, 255}

	// Thickness 4 straddles each edge: two pixels out, two in.
	for _, p := range [][2]int{{18, 28}, {21, 31}, {40, 30}, {60, 40}, {61, 51}, {20, 45}} {
		if got := nrgbaAt(out.At(p[0], p[1])); got != blue {
			t.Errorf("pixel %v: got %v, want blue", p, got)
		}
	}
	for _, p := range [][2]int{{40, 40}, {17, 30}, {62, 40}, {5, 5}} {
		if got := nrgbaAt(out.At(p[0], p[1])); got != white {
			t.Errorf("pixel %v: got %v, want white", p, got)
		}
	}

	// The source is untouched.
	if got := nrgbaAt(img.At(20, 30)); got != white {
		t.Error("Annotate modified its input")
	}
}

func TestAnnotate_ClipsAtEdges(t *testing.T) {
	img := createInMemoryImage(50, 50, color.White)
	_, err := Annotate(img, []detection.Rect{{X: 0, Y: 0, Width: 50, Height: 50}}, AnnotateOptions{Thickness: 6})
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
}

func TestAnnotate_PaletteAndLabels(t *testing.T) {
	img := createInMemoryImage(200, 100, color.White)
	rects := []detection.Rect{
		{X: 10, Y: 10, Width: 60, Height: 60},
		{X: 110, Y: 10, Width: 60, Height: 60},
	}

	out, err := Annotate(img, rects, AnnotateOptions{Thickness: 2, Palette: true, Labels: true})
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	c0 := nrgbaAt(out.At(10, 40))
	c1 := nrgbaAt(out.At(110, 40))
	if c0 == c1 {
		t.Errorf("palette outlines should differ, both %v", c0)
	}

	// The label backing darkens the corner inside the part.
	if got := nrgbaAt(out.At(14, 14)); got.R == 255 && got.G == 255 && got.B == 255 {
		t.Error("expected a label near the part corner")
	}
}

func TestAnnotate_BadColor(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)
	if _, err := Annotate(img, nil, AnnotateOptions{Color: "blue"}); err == nil {
		t.Error("expected error for non-hex color")
	}
}

func TestPalette(t *testing.T) {
	p := Palette(6)
	if len(p) != 6 {
		t.Fatalf("got %d colors, want 6", len(p))
	}
	seen := map[color.NRGBA]bool{}
	for _, c := range p {
		seen[nrgbaAt(c)] = true
	}
	if len(seen) != 6 {
		t.Errorf("palette colors should be distinct, got %d unique", len(seen))
	}
	if len(Palette(0)) != 0 {
		t.Error("Palette(0) should be empty")
	}
}

func TestSave(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)
	path := filepath.Join(t.TempDir(), "out.png")
	if err := Save(img, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	dims, err := GetDimensions(NewImageCache(), path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if dims.Width != 10 || dims.Height != 10 {
		t.Errorf("got %dx%d", dims.Width, dims.Height)
	}

	if err := Save(img, filepath.Join(t.TempDir(), "out.unknown")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
