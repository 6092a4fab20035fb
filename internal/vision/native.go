package vision

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/channel"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Native implements Primitives in pure Go on top of disintegration/imaging
// and bild. It holds no state and is safe for concurrent use.
type Native struct {
	geometry
}

// NewNative returns the pure-Go primitives.
func NewNative() *Native {
	return &Native{}
}

var _ Primitives = (*Native)(nil)

// Blur applies a Gaussian blur. The sigma is derived from the kernel size
// the same way OpenCV does when sigma is left at zero:
// 0.3*((k-1)*0.5 - 1) + 0.8, which gives 1.1 for a 5x5 kernel.
func (n *Native) Blur(img image.Image, kernelSize int) (image.Image, error) {
	if kernelSize < 1 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("blur kernel size must be odd and positive, got %d", kernelSize)
	}
	if kernelSize == 1 {
		return imaging.Clone(img), nil
	}
	sigma := 0.3*(float64(kernelSize-1)*0.5-1) + 0.8
	return imaging.Blur(img, sigma), nil
}

// SplitChannels extracts the blue, green and red components of img.
func (n *Native) SplitChannels(img image.Image) ([]*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("cannot split channels of an empty image")
	}
	order := []channel.Channel{channel.Blue, channel.Green, channel.Red}
	out := make([]*image.Gray, len(order))
	for i, c := range order {
		out[i] = originGray(channel.Extract(img, c))
	}
	return out, nil
}

// Threshold marks every pixel strictly greater than level with 255.
func (n *Native) Threshold(ch *image.Gray, level uint8) (*image.Gray, error) {
	if ch == nil {
		return nil, fmt.Errorf("threshold: nil channel")
	}
	ch = originGray(ch)
	mask := image.NewGray(ch.Rect)
	for i, v := range ch.Pix {
		if v > level {
			mask.Pix[i] = 255
		}
	}
	return mask, nil
}

// EdgeDetect runs Canny on ch. See Canny for the threshold scale.
func (n *Native) EdgeDetect(ch *image.Gray, low, high float64, aperture int) (*image.Gray, error) {
	if ch == nil {
		return nil, fmt.Errorf("edge detect: nil channel")
	}
	return Canny(ch, low, high, aperture)
}

// Dilate grows the foreground of mask by one pixel in every direction.
func (n *Native) Dilate(mask *image.Gray) (*image.Gray, error) {
	if mask == nil {
		return nil, fmt.Errorf("dilate: nil mask")
	}
	mask = originGray(mask)
	grown := effect.Dilate(mask, 1)

	b := grown.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if grown.Pix[grown.PixOffset(b.Min.X+x, b.Min.Y+y)] != 0 {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out, nil
}

// ExtractContours traces every border in mask. See TraceContours.
func (n *Native) ExtractContours(mask *image.Gray) ([]Contour, error) {
	if mask == nil {
		return nil, fmt.Errorf("extract contours: nil mask")
	}
	return TraceContours(mask), nil
}
