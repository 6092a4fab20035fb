package detection

import (
	"math"
	"testing"
)

func TestIntersection(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
		ok   bool
	}{
		{"partial", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, Rect{5, 5, 5, 5}, true},
		{"contained", Rect{0, 0, 100, 100}, Rect{10, 20, 30, 40}, Rect{10, 20, 30, 40}, true},
		{"touching edges", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, Rect{}, false},
		{"disjoint", Rect{0, 0, 10, 10}, Rect{50, 50, 10, 10}, Rect{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Intersection(tt.a, tt.b)
			if ok != tt.ok || got != tt.want {
				t.Errorf("got %v,%v want %v,%v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestOverlapRatio(t *testing.T) {
	a := Rect{100, 100, 100, 100}
	b := Rect{100, 100, 100, 60}

	if got := OverlapRatio(a, b); math.Abs(got-0.6) > 1e-12 {
		t.Errorf("got %v, want 0.6", got)
	}
	if OverlapRatio(a, b) != OverlapRatio(b, a) {
		t.Error("overlap ratio should be commutative")
	}
	if got := OverlapRatio(a, a); got != 1 {
		t.Errorf("self overlap: got %v, want 1", got)
	}
	if got := OverlapRatio(a, Rect{0, 0, 10, 10}); got != 0 {
		t.Errorf("disjoint overlap: got %v, want 0", got)
	}
}

func TestLegacyOverlapRatio(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, 0, 20, 10}

	if got := legacyOverlapRatio(a, b); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("legacy(a, b): got %v, want 0.2", got)
	}
	// With b as the candidate its own width is used for both edges.
	if got := legacyOverlapRatio(b, a); math.Abs(got-1) > 1e-12 {
		t.Errorf("legacy(b, a): got %v, want 1", got)
	}
}

func TestDeduplicator_FirstWins(t *testing.T) {
	d := NewDeduplicator(0.5, false)

	first := Rect{100, 100, 100, 100}
	second := Rect{100, 100, 100, 60} // IoU 0.6 with first
	third := Rect{300, 300, 60, 60}

	if !d.Offer(first) {
		t.Fatal("first candidate should be accepted")
	}
	if d.Offer(second) {
		t.Error("candidate with IoU 0.6 should be rejected")
	}
	if !d.Offer(third) {
		t.Error("disjoint candidate should be accepted")
	}

	got := d.Accepted()
	if len(got) != 2 || got[0] != first || got[1] != third {
		t.Errorf("accepted set: got %v", got)
	}
	if d.Len() != 2 {
		t.Errorf("Len: got %d, want 2", d.Len())
	}
}

func TestDeduplicator_ExactlyAtLimit(t *testing.T) {
	d := NewDeduplicator(0.5, false)
	d.Offer(Rect{0, 0, 100, 100})

	// IoU = 5000 / 10000 = 0.5, which is not above the limit.
	if !d.Offer(Rect{0, 0, 100, 50}) {
		t.Error("candidate at exactly the limit should be accepted")
	}
}

func TestDeduplicator_Legacy(t *testing.T) {
	accepted := Rect{0, 0, 10, 10}
	candidate := Rect{5, 0, 20, 10}

	modern := NewDeduplicator(0.5, false)
	modern.Offer(accepted)
	if !modern.Offer(candidate) {
		t.Error("commutative overlap is 0.2; candidate should be accepted")
	}

	legacy := NewDeduplicator(0.5, true)
	legacy.Offer(accepted)
	if legacy.Offer(candidate) {
		t.Error("legacy overlap is 1.0; candidate should be rejected")
	}
}

func TestDeduplicator_AcceptedIsCopy(t *testing.T) {
	d := NewDeduplicator(0.5, false)
	d.Offer(Rect{0, 0, 10, 10})

	got := d.Accepted()
	got[0].X = 99
	if d.Accepted()[0].X != 0 {
		t.Error("Accepted should return a copy")
	}
}
