package ocr

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/ironsheep/part-finder/internal/detection"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawText draws text on an image using basicfont
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// createLabelledParts draws one white part per label on a gray tray, each
// with its label printed inside, and returns the image and part rects.
func createLabelledParts(labels []string) (*image.RGBA, []detection.Rect) {
	img := image.NewRGBA(image.Rect(0, 0, 140*len(labels)+20, 100))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{Y: 90}), image.Point{}, draw.Src)

	rects := make([]detection.Rect, len(labels))
	for i, label := range labels {
		r := detection.Rect{X: 20 + i*140, Y: 20, Width: 120, Height: 60}
		draw.Draw(img, r.Rectangle(), image.White, image.Point{}, draw.Src)
		drawText(img, r.X+20, r.Y+35, label, color.Black)
		rects[i] = r
	}
	return img, rects
}

func skipIfNoTesseract(t *testing.T, err error) {
	t.Helper()
	if err != nil && (strings.Contains(err.Error(), "tesseract") ||
		strings.Contains(err.Error(), "language") ||
		strings.Contains(err.Error(), "library")) {
		t.Skip("Tesseract not available")
	}
}

func TestReadLabels(t *testing.T) {
	img, rects := createLabelledParts([]string{"A12", "B34"})

	labels, err := ReadLabels(img, rects, Options{Inset: 4})
	skipIfNoTesseract(t, err)
	if err != nil {
		t.Fatalf("ReadLabels failed: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("got %d labels, want 2", len(labels))
	}
	for i, l := range labels {
		if l.Index != i || l.Rect != rects[i] {
			t.Errorf("label %d: index/rect mismatch: %+v", i, l)
		}
		if l.Confidence < 0 || l.Confidence > 1 {
			t.Errorf("label %d: confidence %v outside [0, 1]", i, l.Confidence)
		}
	}
}

func TestReadLabels_Whitelist(t *testing.T) {
	img, rects := createLabelledParts([]string{"42"})

	labels, err := ReadLabels(img, rects, Options{Whitelist: "0123456789"})
	skipIfNoTesseract(t, err)
	if err != nil {
		t.Fatalf("ReadLabels failed: %v", err)
	}
	for _, r := range labels[0].Text {
		if !strings.ContainsRune("0123456789 \n", r) {
			t.Errorf("text %q contains non-whitelisted rune %q", labels[0].Text, r)
		}
	}
}

func TestReadLabels_NoParts(t *testing.T) {
	img, _ := createLabelledParts(nil)
	labels, err := ReadLabels(img, nil, Options{})
	if err != nil {
		t.Fatalf("ReadLabels failed: %v", err)
	}
	if labels == nil || len(labels) != 0 {
		t.Errorf("got %v, want empty non-nil slice", labels)
	}
}

func TestReadLabels_OutOfBounds(t *testing.T) {
	img, _ := createLabelledParts([]string{"X"})
	_, err := ReadLabels(img, []detection.Rect{{X: 1000, Y: 1000, Width: 10, Height: 10}}, Options{})
	if err == nil || !strings.Contains(err.Error(), "outside image bounds") {
		t.Errorf("got %v, want bounds error", err)
	}
}

func TestPreparePart_Upscales(t *testing.T) {
	img, rects := createLabelledParts([]string{"7"})
	data, err := preparePart(img, rects[0].Rectangle())
	if err != nil {
		t.Fatalf("preparePart failed: %v", err)
	}
	cfg, format, err := image.DecodeConfig(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("prepared part does not decode: %v", err)
	}
	if format != "png" || cfg.Height != minLabelHeight || cfg.Width != 192 {
		t.Errorf("got %s %dx%d, want png 192x%d", format, cfg.Width, cfg.Height, minLabelHeight)
	}
}
