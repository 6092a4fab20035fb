package detection

import (
	"image"

	"github.com/ironsheep/part-finder/internal/vision"
	"github.com/pkg/errors"
)

// Pass identifies one mask of the scan: a channel index into the split
// output and a threshold level (0 means edge mode).
type Pass struct {
	Channel int
	Level   int
}

// ThresholdScanner turns channels into masks, one per Pass.
type ThresholdScanner struct {
	prims  vision.Primitives
	params Params
}

// NewThresholdScanner returns a scanner using prims for the mask primitives.
func NewThresholdScanner(prims vision.Primitives, params Params) *ThresholdScanner {
	return &ThresholdScanner{prims: prims, params: params}
}

// Passes lists every pass over an image with n channels, in canonical
// order: channel order first, then level ascending.
func (s *ThresholdScanner) Passes(n int) ([]Pass, error) {
	channels := s.params.Channels
	if channels == nil {
		channels = make([]int, n)
		for i := range channels {
			channels[i] = i
		}
	}

	levels := s.params.Levels()
	passes := make([]Pass, 0, len(channels)*len(levels))
	for _, c := range channels {
		if c >= n {
			return nil, errors.Wrapf(ErrInvalidParams, "channel %d requested but image has %d", c, n)
		}
		for _, t := range levels {
			passes = append(passes, Pass{Channel: c, Level: t})
		}
	}
	return passes, nil
}

// Mask builds the binary mask for one pass over ch.
func (s *ThresholdScanner) Mask(ch *image.Gray, p Pass) (*image.Gray, error) {
	if p.Level == 0 {
		edges, err := s.prims.EdgeDetect(ch, s.params.CannyLow, s.params.CannyHigh, s.params.CannyAperture)
		if err != nil {
			return nil, primitiveError("edge detect", p.Channel, p.Level, err)
		}
		mask, err := s.prims.Dilate(edges)
		if err != nil {
			return nil, primitiveError("dilate", p.Channel, p.Level, err)
		}
		return mask, nil
	}

	mask, err := s.prims.Threshold(ch, uint8(p.Level))
	if err != nil {
		return nil, primitiveError("threshold", p.Channel, p.Level, err)
	}
	return mask, nil
}
