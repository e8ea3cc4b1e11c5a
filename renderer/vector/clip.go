package vector

import "github.com/ByLCY/vellum/geom"

// clipSegment 用 Liang–Barsky 算法把线段裁剪到 r 内，完全在外时返回 false。
func clipSegment(from, to geom.Point, r geom.Rect) (geom.Point, geom.Point, bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, from.X - r.X},
		{dx, r.Right() - from.X},
		{-dy, from.Y - r.Y},
		{dy, r.Bottom() - from.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return from, to, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return from, to, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return from, to, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return geom.Point{X: from.X + t0*dx, Y: from.Y + t0*dy},
		geom.Point{X: from.X + t1*dx, Y: from.Y + t1*dy}, true
}
