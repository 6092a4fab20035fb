package detection

import (
	"github.com/pkg/errors"
)

// Params holds every numeric policy of the detection pipeline.
type Params struct {
	// BlurKernel is the odd Gaussian kernel size applied before scanning.
	BlurKernel int

	// ThresholdStep and ThresholdMax define the scan levels 0, step, …, max.
	// Level 0 is always edge mode.
	ThresholdStep int
	ThresholdMax  int

	// Canny settings for the edge-mode mask.
	CannyLow      float64
	CannyHigh     float64
	CannyAperture int

	// Accepted polygon area is (MinArea, MaxArea].
	MinArea float64
	MaxArea float64

	// MaxCosine is the exclusive limit on |cos| of any corner angle.
	MaxCosine float64

	// MaxOverlap is the IoU above which a candidate is rejected.
	MaxOverlap float64

	// OutlierFactor: parts with area >= OutlierFactor × mean are removed.
	OutlierFactor float64

	// Channels selects which split channels to scan, in scan order.
	// Indices refer to the backend's blue, green, red output. Nil scans all.
	Channels []int

	// Workers > 1 builds candidates for several passes concurrently.
	Workers int

	// LegacyOverlap reproduces an intersection that uses the candidate's
	// width for both right edges. Non-commutative; for parity checks only.
	LegacyOverlap bool
}

// DefaultParams returns the standard part-finding policy.
func DefaultParams() Params {
	return Params{
		BlurKernel:    5,
		ThresholdStep: 10,
		ThresholdMax:  250,
		CannyLow:      0,
		CannyHigh:     50,
		CannyAperture: 5,
		MinArea:       1000,
		MaxArea:       40000,
		MaxCosine:     0.1,
		MaxOverlap:    0.5,
		OutlierFactor: 2,
		Workers:       1,
	}
}

// Levels returns the scan levels in ascending order.
func (p Params) Levels() []int {
	if p.ThresholdStep <= 0 {
		return []int{0}
	}
	levels := make([]int, 0, p.ThresholdMax/p.ThresholdStep+1)
	for t := 0; t <= p.ThresholdMax; t += p.ThresholdStep {
		levels = append(levels, t)
	}
	return levels
}

// Validate reports the first out-of-range field.
func (p Params) Validate() error {
	switch {
	case p.BlurKernel < 1 || p.BlurKernel%2 == 0:
		return errors.Wrapf(ErrInvalidParams, "blur kernel %d must be odd and positive", p.BlurKernel)
	case p.ThresholdStep <= 0:
		return errors.Wrapf(ErrInvalidParams, "threshold step %d must be positive", p.ThresholdStep)
	case p.ThresholdMax < 0 || p.ThresholdMax > 255:
		return errors.Wrapf(ErrInvalidParams, "threshold max %d outside 0..255", p.ThresholdMax)
	case p.CannyAperture != 3 && p.CannyAperture != 5 && p.CannyAperture != 7:
		return errors.Wrapf(ErrInvalidParams, "canny aperture %d must be 3, 5 or 7", p.CannyAperture)
	case p.MinArea < 0 || p.MaxArea <= p.MinArea:
		return errors.Wrapf(ErrInvalidParams, "area bounds (%v, %v] are empty", p.MinArea, p.MaxArea)
	case p.MaxCosine <= 0 || p.MaxCosine > 1:
		return errors.Wrapf(ErrInvalidParams, "max cosine %v outside (0, 1]", p.MaxCosine)
	case p.MaxOverlap < 0 || p.MaxOverlap > 1:
		return errors.Wrapf(ErrInvalidParams, "max overlap %v outside [0, 1]", p.MaxOverlap)
	case p.OutlierFactor <= 0:
		return errors.Wrapf(ErrInvalidParams, "outlier factor %v must be positive", p.OutlierFactor)
	case p.Workers < 0:
		return errors.Wrapf(ErrInvalidParams, "workers %d must not be negative", p.Workers)
	}

	seen := make(map[int]bool, len(p.Channels))
	for _, c := range p.Channels {
		if c < 0 || seen[c] {
			return errors.Wrapf(ErrInvalidParams, "channel list %v has a negative or repeated index", p.Channels)
		}
		seen[c] = true
	}
	return nil
}
