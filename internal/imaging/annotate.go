package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/part-finder/internal/detection"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// AnnotateOptions controls how detected parts are drawn.
type AnnotateOptions struct {
	// Thickness is the outline width in pixels. Defaults to 4.
	Thickness int

	// Color is the outline colour as "#RRGGBB". Defaults to blue.
	Color string

	// Palette gives each part its own hue instead of Color.
	Palette bool

	// Labels draws the part index inside the top-left corner.
	Labels bool
}

// DefaultAnnotateOptions returns a 4 pixel blue outline with no labels.
func DefaultAnnotateOptions() AnnotateOptions {
	return AnnotateOptions{Thickness: 4, Color: "#0000FF"}
}

// Annotate draws the outline of every part onto a copy of img.
//
// Each outline runs from (X, Y) to (X+Width, Y+Height) and is centred on
// those edges, so half of a thick outline lies outside the part. The source
// image is never modified.
func Annotate(img image.Image, rects []detection.Rect, opts AnnotateOptions) (*image.NRGBA, error) {
	if opts.Thickness < 1 {
		opts.Thickness = 4
	}
	if opts.Color == "" {
		opts.Color = "#0000FF"
	}
	base, err := parseHexColor(opts.Color)
	if err != nil {
		return nil, fmt.Errorf("invalid outline color %q: %w", opts.Color, err)
	}

	out := imaging.Clone(img)
	palette := Palette(len(rects))
	for i, r := range rects {
		c := base
		if opts.Palette {
			c = palette[i]
		}
		drawOutline(out, r, opts.Thickness, c)
		if opts.Labels {
			drawLabel(out, r, strconv.Itoa(i), c)
		}
	}
	return out, nil
}

// Palette returns n evenly spaced, saturated hues.
func Palette(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		h := float64(i) * 360 / float64(max(n, 1))
		out[i] = colorful.Hsv(h, 0.9, 0.95)
	}
	return out
}

func drawOutline(dst *image.NRGBA, r detection.Rect, thickness int, c color.Color) {
	src := image.NewUniform(c)
	lo := thickness / 2
	hi := thickness - lo
	x1, y1 := r.X, r.Y
	x2, y2 := r.X+r.Width, r.Y+r.Height

	bands := []image.Rectangle{
		image.Rect(x1-lo, y1-lo, x2+hi, y1+hi), // top
		image.Rect(x1-lo, y2-lo, x2+hi, y2+hi), // bottom
		image.Rect(x1-lo, y1-lo, x1+hi, y2+hi), // left
		image.Rect(x2-lo, y1-lo, x2+hi, y2+hi), // right
	}
	for _, b := range bands {
		draw.Draw(dst, b.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

// drawLabel writes text on a dark backing just inside the part's corner.
func drawLabel(dst *image.NRGBA, r detection.Rect, text string, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}

	w := d.MeasureString(text).Ceil()
	h := face.Metrics().Height.Ceil()
	x, y := r.X+4, r.Y+4
	backing := image.Rect(x-1, y-1, x+w+1, y+h+1).Intersect(dst.Bounds())
	draw.Draw(dst, backing, image.NewUniform(color.NRGBA{0, 0, 0, 180}), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y+face.Metrics().Ascent.Ceil())
	d.DrawString(text)
}

// parseHexColor parses "#RRGGBB" or "#RGB".
func parseHexColor(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes img to path; the format follows the file extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
