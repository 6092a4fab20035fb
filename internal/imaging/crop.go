package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/part-finder/internal/detection"
)

// EncodedImage is a PNG ready to hand back over JSON.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	b := img.Bounds()
	return &EncodedImage{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// CropPart cuts one detected part out of img.
//
// Parameters:
//   - img: The photograph the part was detected in.
//   - r: The part rectangle.
//   - padding: Extra pixels kept on every side, clipped to the image.
//   - scale: Resize factor applied after cropping; 1 or <= 0 keeps size.
//
// Returns:
//   - *image.NRGBA: The cropped (and possibly resized) part.
//   - error: Non-nil when r does not intersect the image.
func CropPart(img image.Image, r detection.Rect, padding int, scale float64) (*image.NRGBA, error) {
	bounds := img.Bounds()
	region := r.Rectangle().Inset(-max(padding, 0)).Intersect(bounds)
	if region.Empty() {
		return nil, fmt.Errorf("part %v lies outside image bounds %v", r, bounds)
	}

	cropped := imaging.Crop(img, region)

	if scale > 0 && scale != 1.0 {
		w := max(1, int(float64(cropped.Bounds().Dx())*scale))
		h := max(1, int(float64(cropped.Bounds().Dy())*scale))
		cropped = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}
	return cropped, nil
}

// CropParts crops every part in rects, in order, and encodes each as PNG.
func CropParts(img image.Image, rects []detection.Rect, padding int, scale float64) ([]*EncodedImage, error) {
	out := make([]*EncodedImage, 0, len(rects))
	for i, r := range rects {
		part, err := CropPart(img, r, padding, scale)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		enc, err := EncodePNG(part)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		out = append(out, enc)
	}
	return out, nil
}
