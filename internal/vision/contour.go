package vision

import (
	"image"
)

// chain lists the 8 neighbour offsets counter-clockwise on screen, starting
// with the pixel to the right. Index arithmetic mod 8 walks around a pixel.
var chain = [8]image.Point{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1},
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

// chainIndex maps an offset (dx+1, dy+1) back to its position in chain.
var chainIndex = [3][3]int{
	{3, 4, 5}, // dx = -1: dy = -1, 0, 1
	{2, -1, 6},
	{1, 0, 7},
}

func direction(from, to image.Point) int {
	return chainIndex[to.X-from.X+1][to.Y-from.Y+1]
}

// TraceContours follows every outer and hole border of the foreground in
// mask and returns them in raster order of their starting pixel.
//
// Any non-zero pixel is foreground. The outermost row and column of the
// mask are treated as background.
func TraceContours(mask *image.Gray) []Contour {
	mask = originGray(mask)
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	if w < 3 || h < 3 {
		return nil
	}

	// Label grid with a one-pixel background frame around the copied
	// interior. Values: 0 background, 1 unvisited foreground, ±n border n.
	pw := w + 2
	labels := make([]int32, pw*(h+2))
	for y := 1; y < h-1; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x := 1; x < w-1; x++ {
			if row[x] != 0 {
				labels[(y+1)*pw+x+1] = 1
			}
		}
	}

	t := &tracer{labels: labels, stride: pw}
	var contours []Contour
	nbd := int32(1)
	for y := 1; y <= h; y++ {
		for x := 1; x <= w; x++ {
			i := y*pw + x
			v := labels[i]
			if v == 0 {
				continue
			}
			var from int
			switch {
			case v == 1 && labels[i-1] == 0:
				from = 4 // outer border, background on the left
			case v >= 1 && labels[i+1] == 0:
				from = 0 // hole border, background on the right
			default:
				continue
			}
			nbd++
			contours = append(contours, compressChain(t.follow(image.Pt(x, y), from, nbd)))
		}
	}
	return contours
}

type tracer struct {
	labels []int32
	stride int
}

func (t *tracer) at(p image.Point) int32 { return t.labels[p.Y*t.stride+p.X] }

func (t *tracer) set(p image.Point, v int32) { t.labels[p.Y*t.stride+p.X] = v }

// follow traces one border starting at start, whose background neighbour
// lies in direction from. Points are returned in unpadded coordinates.
func (t *tracer) follow(start image.Point, from int, nbd int32) Contour {
	offset := image.Pt(1, 1)

	// Clockwise search for the first foreground neighbour.
	last := -1
	for k := 0; k < 8; k++ {
		d := (from - k + 8) % 8
		if t.at(start.Add(chain[d])) != 0 {
			last = d
			break
		}
	}
	if last < 0 {
		t.set(start, -nbd)
		return Contour{start.Sub(offset)}
	}

	p1 := start.Add(chain[last])
	prev, cur := p1, start
	pts := Contour{start.Sub(offset)}
	for {
		// Counter-clockwise search around cur, beginning just after prev.
		d0 := direction(cur, prev)
		rightClear := false
		var next image.Point
		for k := 1; k <= 8; k++ {
			d := (d0 + k) % 8
			n := cur.Add(chain[d])
			if t.at(n) != 0 {
				next = n
				break
			}
			if d == 0 {
				rightClear = true
			}
		}

		switch {
		case rightClear:
			t.set(cur, -nbd)
		case t.at(cur) == 1:
			t.set(cur, nbd)
		}

		if next == start && cur == p1 {
			return pts
		}
		prev, cur = cur, next
		pts = append(pts, cur.Sub(offset))
	}
}

// compressChain drops points that sit in the middle of a straight run of
// identical chain steps, keeping only the ends of each run.
func compressChain(c Contour) Contour {
	n := len(c)
	if n < 3 {
		return c
	}
	out := make(Contour, 0, n/4+4)
	for i, cur := range c {
		prev, next := c[(i-1+n)%n], c[(i+1)%n]
		if cur.Sub(prev) != next.Sub(cur) {
			out = append(out, cur)
		}
	}
	if len(out) == 0 {
		return Contour{c[0]}
	}
	return out
}
