package detection

import (
	"context"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/ironsheep/part-finder/internal/vision"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Stats summarises one scan.
type Stats struct {
	Passes     int           `json:"passes"`     // Masks built
	Contours   int           `json:"contours"`   // Contours examined
	Candidates int           `json:"candidates"` // Quadrilaterals that passed classification
	Accepted   int           `json:"accepted"`   // Survivors of deduplication
	Kept       int           `json:"kept"`       // Survivors of the outlier filter
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// Result is the outcome of Detector.Detect.
type Result struct {
	// Rects are the detected parts in scan order.
	Rects []Rect `json:"rects"`

	// Accepted is the deduplicated set before outlier filtering.
	Accepted []Rect `json:"accepted"`

	// MeanArea is the mean area of Accepted, or 0 when it is empty.
	MeanArea float64 `json:"mean_area"`

	Stats Stats `json:"stats"`
}

// Detector runs the part-finding pipeline with one set of Params.
// It is safe for concurrent use when its Primitives are.
type Detector struct {
	prims      vision.Primitives
	params     Params
	scanner    *ThresholdScanner
	classifier *Classifier
	log        *slog.Logger
}

// New returns a Detector. A nil logger discards debug output.
func New(prims vision.Primitives, params Params, logger *slog.Logger) (*Detector, error) {
	if prims == nil {
		return nil, errors.Wrap(ErrInvalidParams, "nil vision primitives")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Detector{
		prims:      prims,
		params:     params,
		scanner:    NewThresholdScanner(prims, params),
		classifier: NewClassifier(prims, params),
		log:        logger,
	}, nil
}

// Params returns the policy the detector was built with.
func (d *Detector) Params() Params {
	return d.params
}

// Detect finds parts in img.
//
// Parameters:
//   - ctx: Checked between passes; cancellation aborts with ctx.Err().
//   - img: Source image. Must be non-nil with a non-empty bounds.
//
// Returns:
//   - *Result: Parts in scan order plus the pre-filter set and stats.
//   - error: ErrInvalidInput, an ErrPrimitive match, or a context error.
//     No partial result is returned alongside an error.
//
// Results are a pure function of the image pixels and Params: repeated
// calls, sequential or parallel, return identical rectangles in identical
// order.
func (d *Detector) Detect(ctx context.Context, img image.Image) (*Result, error) {
	if img == nil {
		return nil, errors.Wrap(ErrInvalidInput, "nil image")
	}
	if b := img.Bounds(); b.Empty() {
		return nil, errors.Wrapf(ErrInvalidInput, "image bounds %v are empty", b)
	}
	start := time.Now()

	blurred, err := d.prims.Blur(img, d.params.BlurKernel)
	if err != nil {
		return nil, primitiveError("blur", -1, -1, err)
	}
	channels, err := d.prims.SplitChannels(blurred)
	if err != nil {
		return nil, primitiveError("split channels", -1, -1, err)
	}
	passes, err := d.scanner.Passes(len(channels))
	if err != nil {
		return nil, err
	}

	var found [][]Rect
	var contours int
	if d.params.Workers > 1 {
		found, contours, err = d.scanParallel(ctx, channels, passes)
	} else {
		found, contours, err = d.scanSequential(ctx, channels, passes)
	}
	if err != nil {
		return nil, err
	}

	// Merge in canonical order; this is the only place the accepted set
	// is mutated.
	dedup := NewDeduplicator(d.params.MaxOverlap, d.params.LegacyOverlap)
	candidates := 0
	for _, rects := range found {
		for _, r := range rects {
			candidates++
			dedup.Offer(r)
		}
	}

	accepted := dedup.Accepted()
	kept, mean := FilterOutliers(accepted, d.params.OutlierFactor)

	// Channels start at (0,0); report parts in img's own coordinates.
	if off := img.Bounds().Min; off != (image.Point{}) {
		translate(accepted, off)
		translate(kept, off)
	}

	res := &Result{
		Rects:    kept,
		Accepted: accepted,
		MeanArea: mean,
		Stats: Stats{
			Passes:     len(passes),
			Contours:   contours,
			Candidates: candidates,
			Accepted:   len(accepted),
			Kept:       len(kept),
			Elapsed:    time.Since(start),
		},
	}
	d.log.Debug("scan complete",
		"passes", res.Stats.Passes,
		"contours", res.Stats.Contours,
		"candidates", res.Stats.Candidates,
		"accepted", res.Stats.Accepted,
		"kept", res.Stats.Kept,
		"mean_area", mean,
		"elapsed", res.Stats.Elapsed,
	)
	return res, nil
}

func translate(rects []Rect, off image.Point) {
	for i := range rects {
		rects[i] = rects[i].Add(off)
	}
}

func (d *Detector) scanSequential(ctx context.Context, channels []*image.Gray, passes []Pass) ([][]Rect, int, error) {
	found := make([][]Rect, len(passes))
	total := 0
	for i, p := range passes {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		rects, n, err := d.runPass(channels[p.Channel], p)
		if err != nil {
			return nil, 0, err
		}
		found[i] = rects
		total += n
	}
	return found, total, nil
}

// scanParallel builds each pass's candidates concurrently. Slots are
// indexed by pass so the merge order does not depend on scheduling.
func (d *Detector) scanParallel(ctx context.Context, channels []*image.Gray, passes []Pass) ([][]Rect, int, error) {
	found := make([][]Rect, len(passes))
	counts := make([]int, len(passes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.params.Workers)
	for i, p := range passes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rects, n, err := d.runPass(channels[p.Channel], p)
			if err != nil {
				return err
			}
			found[i], counts[i] = rects, n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return found, total, nil
}

func (d *Detector) runPass(ch *image.Gray, p Pass) ([]Rect, int, error) {
	mask, err := d.scanner.Mask(ch, p)
	if err != nil {
		return nil, 0, err
	}
	rects, n, err := d.classifier.Classify(mask, p)
	if err != nil {
		return nil, 0, err
	}
	d.log.Debug("pass", "channel", p.Channel, "level", p.Level, "contours", n, "candidates", len(rects))
	return rects, n, nil
}

// FindSquares runs the default pipeline with the pure-Go backend and
// returns the detected parts.
func FindSquares(img image.Image) ([]Rect, error) {
	d, err := New(vision.NewNative(), DefaultParams(), nil)
	if err != nil {
		return nil, err
	}
	res, err := d.Detect(context.Background(), img)
	if err != nil {
		return nil, err
	}
	return res.Rects, nil
}
