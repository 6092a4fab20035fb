package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/part-finder/internal/detection"
	"github.com/lucasb-eyer/go-colorful"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// PartColor is the average colour inside one detected part.
type PartColor struct {
	Index int            `json:"index"`
	Rect  detection.Rect `json:"rect"`
	Hex   string         `json:"hex"` // "#rrggbb"
	HSL   HSLColor       `json:"hsl"`
}

// PartColors samples the mean colour of every part.
//
// Parameters:
//   - img: The photograph the parts were detected in.
//   - rects: Detected parts, in output order.
//   - inset: Pixels ignored on each side of a part so the outline and
//     background bleed do not tint the result. Parts too small for the
//     inset are sampled whole.
//
// Returns:
//   - []PartColor: One entry per part, in the order of rects.
//   - error: Non-nil when a part lies outside the image.
//
// Averaging is done in linear RGB, which matches how light from a
// uniformly coloured part mixes across pixels.
func PartColors(img image.Image, rects []detection.Rect, inset int) ([]PartColor, error) {
	bounds := img.Bounds()
	out := make([]PartColor, 0, len(rects))

	for i, r := range rects {
		region := r.Rectangle().Intersect(bounds)
		if region.Empty() {
			return nil, fmt.Errorf("part %d %v lies outside image bounds %v", i, r, bounds)
		}
		if inner := region.Inset(inset); !inner.Empty() && inset > 0 {
			region = inner
		}

		mean := meanColor(img, region)
		h, s, l := mean.Hsl()
		out = append(out, PartColor{
			Index: i,
			Rect:  r,
			Hex:   mean.Clamped().Hex(),
			HSL: HSLColor{
				H: int(math.Round(h)) % 360,
				S: int(math.Round(s * 100)),
				L: int(math.Round(l * 100)),
			},
		})
	}
	return out, nil
}

func meanColor(img image.Image, region image.Rectangle) colorful.Color {
	var r, g, b float64
	n := 0
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue // fully transparent
			}
			lr, lg, lb := c.LinearRgb()
			r += lr
			g += lg
			b += lb
			n++
		}
	}
	if n == 0 {
		return colorful.Color{}
	}
	return colorful.LinearRgb(r/float64(n), g/float64(n), b/float64(n))
}
