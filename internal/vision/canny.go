package vision

import (
	"fmt"
	"image"
	"math"
)

// Canny performs Canny edge detection on a single channel.
//
// Parameters:
//   - ch: Source channel.
//   - low: Hysteresis low threshold. Pixels at or below it are never edges.
//   - high: Hysteresis high threshold. Pixels above it are strong edges.
//   - aperture: Sobel kernel size, one of 3, 5 or 7.
//
// Returns:
//   - *image.Gray: Mask with edges at 255 and everything else at 0.
//   - error: Non-nil if aperture is not supported.
//
// # Algorithm
//
//  1. Gradient computation: separable Sobel derivatives of the given
//     aperture, magnitude = |Gx| + |Gy| (L1 norm)
//
//  2. Non-maximum suppression: keep pixels that are local maxima along the
//     gradient direction, quantised to 0°, 45°, 90° and 135°
//
//  3. Hysteresis: pixels above high seed edges; pixels above low join an
//     edge when 8-connected to a seed, transitively
//
// The channel is not blurred here. Callers smooth the source image once
// before splitting channels.
//
// # Threshold Scale
//
// Magnitudes are not normalised, so thresholds scale with the aperture. A
// clean 0→255 step yields a magnitude near 255*48 with aperture 5.
func Canny(ch *image.Gray, low, high float64, aperture int) (*image.Gray, error) {
	smooth, deriv, ok := sobelKernels(aperture)
	if !ok {
		return nil, fmt.Errorf("unsupported sobel aperture %d", aperture)
	}
	if low > high {
		low, high = high, low
	}

	ch = originGray(ch)
	width, height := ch.Rect.Dx(), ch.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return out, nil
	}

	gx := separable(ch, deriv, smooth, width, height)
	gy := separable(ch, smooth, deriv, width, height)

	magnitude := make([]float64, width*height)
	for i := range magnitude {
		magnitude[i] = math.Abs(gx[i]) + math.Abs(gy[i])
	}

	// Non-maximum suppression. Border pixels never survive.
	const (
		tan22 = 0.4142135623730951
		tan67 = 2.414213562373095
	)
	candidate := make([]uint8, width*height) // 0 none, 1 weak, 2 strong
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag <= low {
				continue
			}

			ax, ay := math.Abs(gx[i]), math.Abs(gy[i])
			var n1, n2 float64
			switch {
			case ay <= ax*tan22:
				n1, n2 = magnitude[i-1], magnitude[i+1]
			case ay >= ax*tan67:
				n1, n2 = magnitude[i-width], magnitude[i+width]
			case (gx[i] > 0) == (gy[i] > 0):
				n1, n2 = magnitude[i-width-1], magnitude[i+width+1]
			default:
				n1, n2 = magnitude[i-width+1], magnitude[i+width-1]
			}

			// Ties resolve towards the earlier pixel so plateaus stay thin.
			if mag > n1 && mag >= n2 {
				if mag > high {
					candidate[i] = 2
				} else {
					candidate[i] = 1
				}
			}
		}
	}

	// Hysteresis: grow strong edges through connected weak pixels.
	stack := make([]int, 0, 256)
	for i, c := range candidate {
		if c == 2 {
			out.Pix[i] = 255
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for _, d := range chain {
			nx, ny := x+d.X, y+d.Y
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			j := ny*width + nx
			if candidate[j] == 1 && out.Pix[j] == 0 {
				out.Pix[j] = 255
				stack = append(stack, j)
			}
		}
	}

	return out, nil
}

// sobelKernels returns the smoothing and derivative halves of a separable
// Sobel operator.
func sobelKernels(aperture int) (smooth, deriv []float64, ok bool) {
	switch aperture {
	case 3:
		return []float64{1, 2, 1}, []float64{-1, 0, 1}, true
	case 5:
		return []float64{1, 4, 6, 4, 1}, []float64{-1, -2, 0, 2, 1}, true
	case 7:
		return []float64{1, 6, 15, 20, 15, 6, 1}, []float64{-1, -4, -5, 0, 5, 4, 1}, true
	}
	return nil, nil, false
}

// separable convolves ch with kx along rows and ky along columns. Borders
// are handled by reflecting about the edge pixel.
func separable(ch *image.Gray, kx, ky []float64, width, height int) []float64 {
	r := len(kx) / 2
	rows := make([]float64, width*height)
	for y := 0; y < height; y++ {
		line := ch.Pix[y*ch.Stride:]
		for x := 0; x < width; x++ {
			var sum float64
			for k, w := range kx {
				sum += w * float64(line[reflect(x+k-r, width)])
			}
			rows[y*width+x] = sum
		}
	}

	out := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for k, w := range ky {
				sum += w * rows[reflect(y+k-r, height)*width+x]
			}
			out[y*width+x] = sum
		}
	}
	return out
}

// reflect maps an out-of-range index back inside [0, n) mirroring about the
// edge pixel (…, 2, 1, 0, 1, 2, …).
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}
