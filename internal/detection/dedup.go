package detection

// Deduplicator owns the accepted set of one scan. Candidates are offered in
// scan order; the first of two heavily overlapping rectangles wins.
//
// A Deduplicator is not safe for concurrent use.
type Deduplicator struct {
	maxOverlap float64
	legacy     bool
	accepted   []Rect
}

// NewDeduplicator returns an empty accepted set that rejects candidates
// whose overlap ratio with an accepted rectangle exceeds maxOverlap.
func NewDeduplicator(maxOverlap float64, legacy bool) *Deduplicator {
	return &Deduplicator{maxOverlap: maxOverlap, legacy: legacy}
}

// Offer appends r unless it overlaps an accepted rectangle by more than
// the limit. It reports whether r was accepted.
func (d *Deduplicator) Offer(r Rect) bool {
	for _, a := range d.accepted {
		var ratio float64
		if d.legacy {
			ratio = legacyOverlapRatio(r, a)
		} else {
			ratio = OverlapRatio(r, a)
		}
		if ratio > d.maxOverlap {
			return false
		}
	}
	d.accepted = append(d.accepted, r)
	return true
}

// Accepted returns a copy of the accepted set in insertion order.
func (d *Deduplicator) Accepted() []Rect {
	out := make([]Rect, len(d.accepted))
	copy(out, d.accepted)
	return out
}

// Len is the size of the accepted set.
func (d *Deduplicator) Len() int {
	return len(d.accepted)
}

// Intersection returns the overlapping region of a and b, and false when
// they do not overlap.
func Intersection(a, b Rect) (Rect, bool) {
	return intersect(a, b, b.Width)
}

// OverlapRatio is the intersection-over-union of a and b, or 0 when they
// do not overlap.
func OverlapRatio(a, b Rect) float64 {
	return ratio(a, b, b.Width)
}

// legacyOverlapRatio computes the right bound of b with a's width.
func legacyOverlapRatio(a, b Rect) float64 {
	return ratio(a, b, a.Width)
}

func ratio(a, b Rect, bWidth int) float64 {
	in, ok := intersect(a, b, bWidth)
	if !ok {
		return 0
	}
	inter := float64(in.Area())
	union := float64(a.Area()) + float64(b.Area()) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func intersect(a, b Rect, bWidth int) (Rect, bool) {
	left := max(a.X, b.X)
	right := min(a.X+a.Width, b.X+bWidth)
	top := max(a.Y, b.Y)
	bottom := min(a.Y+a.Height, b.Y+b.Height)
	if left < right && bottom > top {
		return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}, true
	}
	return Rect{}, false
}
