package ocr

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/part-finder/internal/detection"
	"github.com/otiai10/gosseract/v2"
)

// minLabelHeight is the crop height below which parts are upscaled before
// recognition. Tesseract does poorly on glyphs under ~20px.
const minLabelHeight = 96

// PartLabel is the text read from inside one detected part.
type PartLabel struct {
	// Index is the part's position in the detection output.
	Index int `json:"index"`

	// Rect is the part the text was read from.
	Rect detection.Rect `json:"rect"`

	// Text is the recognised text with surrounding whitespace trimmed.
	// Empty when the part carries no legible text.
	Text string `json:"text"`

	// Confidence is the mean word confidence (0.0 to 1.0), or 0 when no
	// words were found.
	Confidence float64 `json:"confidence"`
}

// Options tunes label recognition.
type Options struct {
	// Language is a Tesseract language code. Defaults to "eng".
	Language string

	// Inset is trimmed from every side of a part before recognition so the
	// part's own border is not read as a glyph.
	Inset int

	// Whitelist restricts recognised characters, e.g. "0123456789".
	// Empty allows everything.
	Whitelist string
}

// ReadLabels runs OCR inside every part rectangle.
//
// Parameters:
//   - img: The photograph the parts were detected in.
//   - rects: Detected parts, in output order.
//   - opts: Language, inset and character whitelist.
//
// Returns:
//   - []PartLabel: One entry per part, in the order of rects.
//   - error: Non-nil if a part lies outside the image or Tesseract fails.
//
// # Preprocessing
//
// Each part is cropped, converted to grayscale and, when shorter than
// minLabelHeight, upscaled with Lanczos resampling before it is handed to
// Tesseract in single-block mode. One client is reused for every part, so
// the call is not concurrent internally.
func ReadLabels(img image.Image, rects []detection.Rect, opts Options) ([]PartLabel, error) {
	if opts.Language == "" {
		opts.Language = "eng"
	}

	bounds := img.Bounds()
	regions := make([]image.Rectangle, len(rects))
	for i, r := range rects {
		region := r.Rectangle().Intersect(bounds)
		if region.Empty() {
			return nil, fmt.Errorf("part %d %v lies outside image bounds %v", i, r, bounds)
		}
		if inner := region.Inset(opts.Inset); opts.Inset > 0 && !inner.Empty() {
			region = inner
		}
		regions[i] = region
	}

	labels := make([]PartLabel, 0, len(rects))
	if len(rects) == 0 {
		return labels, nil
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(opts.Language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if opts.Whitelist != "" {
		if err := client.SetWhitelist(opts.Whitelist); err != nil {
			return nil, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}

	for i, region := range regions {
		data, err := preparePart(img, region)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		if err := client.SetImageFromBytes(data); err != nil {
			return nil, fmt.Errorf("part %d: failed to set image: %w", i, err)
		}

		text, err := client.Text()
		if err != nil {
			return nil, fmt.Errorf("part %d: OCR failed: %w", i, err)
		}

		labels = append(labels, PartLabel{
			Index:      i,
			Rect:       rects[i],
			Text:       strings.TrimSpace(text),
			Confidence: wordConfidence(client),
		})
	}
	return labels, nil
}

// preparePart crops, grays and upscales one part and encodes it as PNG.
func preparePart(img image.Image, region image.Rectangle) ([]byte, error) {
	part := imaging.Grayscale(imaging.Crop(img, region))
	if h := part.Bounds().Dy(); h < minLabelHeight {
		part = imaging.Resize(part, 0, minLabelHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, part, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode part: %w", err)
	}
	return buf.Bytes(), nil
}

// wordConfidence averages word confidences of the current image. Bounding
// box failures are not fatal; the text is still usable.
func wordConfidence(client *gosseract.Client) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return 0
	}
	var sum float64
	n := 0
	for _, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		sum += box.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) / 100.0
}
