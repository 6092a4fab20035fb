//go:build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// OpenCV implements Primitives with gocv. Build with -tags gocv; OpenCV 4
// must be installed. Contour order is whatever cv::findContours returns,
// which differs from the raster order of Native.
type OpenCV struct {
	geometry
}

// NewOpenCV returns the OpenCV-backed primitives.
func NewOpenCV() *OpenCV {
	return &OpenCV{}
}

var _ Primitives = (*OpenCV)(nil)

func init() {
	backends["opencv"] = func() Primitives { return NewOpenCV() }
}

// Blur applies a Gaussian blur with a kernelSize x kernelSize kernel.
func (o *OpenCV) Blur(img image.Image, kernelSize int) (image.Image, error) {
	if kernelSize < 1 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("blur kernel size must be odd and positive, got %d", kernelSize)
	}
	src, err := bgrMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.GaussianBlur(src, &dst, image.Point{kernelSize, kernelSize}, 0, 0, gocv.BorderDefault)

	return bgrImage(dst)
}

// SplitChannels returns the blue, green and red planes, in that order.
func (o *OpenCV) SplitChannels(img image.Image) ([]*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("cannot split channels of an empty image")
	}
	src, err := bgrMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	planes := gocv.Split(src)
	out := make([]*image.Gray, 0, len(planes))
	for _, p := range planes {
		g, err := grayImage(p)
		p.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// Threshold sets pixels above level to 255 and the rest to 0.
func (o *OpenCV) Threshold(ch *image.Gray, level uint8) (*image.Gray, error) {
	src, err := grayMat(ch)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Threshold(src, &dst, float32(level), 255, gocv.ThresholdBinary)
	return grayImage(dst)
}

// EdgeDetect runs cv::Canny. gocv v0.31 does not expose the aperture
// parameter, so apertures other than 3 fall back to the pure-Go Canny.
func (o *OpenCV) EdgeDetect(ch *image.Gray, low, high float64, aperture int) (*image.Gray, error) {
	if aperture != 3 {
		return Canny(ch, low, high, aperture)
	}
	src, err := grayMat(ch)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Canny(src, &dst, float32(low), float32(high))
	return grayImage(dst)
}

// Dilate grows mask with a 3x3 rectangular kernel.
func (o *OpenCV) Dilate(mask *image.Gray) (*image.Gray, error) {
	src, err := grayMat(mask)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{3, 3})
	defer kernel.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Dilate(src, &dst, kernel)
	return grayImage(dst)
}

// ExtractContours traces the outer and hole borders of mask.
func (o *OpenCV) ExtractContours(mask *image.Gray) ([]Contour, error) {
	src, err := grayMat(mask)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	contours := gocv.FindContours(src, gocv.RetrievalList, gocv.ChainApproxSimple)
	defer contours.Close()

	out := make([]Contour, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		out = append(out, Contour(contours.At(i).ToPoints()))
	}
	return out, nil
}

func grayMat(g *image.Gray) (gocv.Mat, error) {
	if g == nil {
		return gocv.Mat{}, fmt.Errorf("nil channel")
	}
	g = originGray(g)
	return gocv.NewMatFromBytes(g.Rect.Dy(), g.Rect.Dx(), gocv.MatTypeCV8UC1, g.Pix)
}

func grayImage(m gocv.Mat) (*image.Gray, error) {
	if m.Empty() {
		return nil, fmt.Errorf("empty mat")
	}
	img, err := m.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert mat: %w", err)
	}
	g, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("expected single-channel mat, got %T", img)
	}
	return g, nil
}

// bgrMat copies img into a 3-channel BGR mat.
func bgrMat(img image.Image) (gocv.Mat, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*w + x) * 3
			pix[i], pix[i+1], pix[i+2] = uint8(bl>>8), uint8(g>>8), uint8(r>>8)
		}
	}
	return gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC3, pix)
}

func bgrImage(m gocv.Mat) (image.Image, error) {
	img, err := m.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert mat: %w", err)
	}
	return img, nil
}
