package detection

import (
	"gonum.org/v1/gonum/stat"
)

// FilterOutliers drops rectangles whose area is not below factor times the
// mean area of rects. The mean is computed once over the full input. An
// empty input yields an empty output and a zero mean.
func FilterOutliers(rects []Rect, factor float64) ([]Rect, float64) {
	if len(rects) == 0 {
		return []Rect{}, 0
	}

	areas := make([]float64, len(rects))
	for i, r := range rects {
		areas[i] = float64(r.Area())
	}
	mean := stat.Mean(areas, nil)

	kept := make([]Rect, 0, len(rects))
	for i, r := range rects {
		if areas[i] < factor*mean {
			kept = append(kept, r)
		}
	}
	return kept, mean
}
