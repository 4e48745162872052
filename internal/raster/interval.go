package raster

import (
	"slices"

	"scanline-renderer/internal/geom"
)

// IntervalScanLine renders polygons without reading or writing the depth
// buffer. All polygons share one edge table; on each scanline the active
// edges cut the row into intervals and every interval is filled with the
// polygon nearest at its midpoint.
//
// Which polygons cover an interval is tracked by toggling polygon ids as
// their edges are crossed from left to right. That only holds for simple
// polygons, whose outlines cross every scanline an even number of times.
// Depth is compared at one point per interval, so polygons must not
// interpenetrate. Intervals covered by no polygon are left untouched.
func IntervalScanLine(c *Canvas, s *Scratch, vertices []geom.Vertex, polygons []geom.Polygon) Stats {
	var st Stats
	if c.Width <= 0 || c.Height <= 0 {
		return st
	}
	if s.apt == nil {
		s.apt = make(map[int]struct{})
	}

	s.planes = slices.Grow(s.planes[:0], len(polygons))[:len(polygons)]
	s.edges = s.edges[:0]
	for pid := range polygons {
		p := &polygons[pid]
		pl, _, _, ok := s.prepare(c, vertices, p)
		if !ok {
			continue
		}
		s.planes[pid] = pl
		s.loadPoints(vertices, p)
		s.edges = appendEdges(s.edges, s.pts, pid, c.Height)
		st.Rasterized++
	}
	// Sentinels at both canvas borders keep at least one interval alive on
	// every scanline. They never enter the polygon set.
	s.edges = append(s.edges,
		Edge{YMax: c.Height, X: 0, D: 1, E: -0.5, PID: sentinelPID},
		Edge{YMax: c.Height, X: c.Width - 1, D: 1, E: -0.5, PID: sentinelPID},
	)
	sortEdgeTable(s.edges)

	s.sweep(s.edges, func(y int, active []Edge) {
		s.fillIntervals(c, polygons, y, active)
	})
	return st
}

// fillIntervals resolves one scanline. Neighbouring intervals share their
// boundary pixel; the later interval takes it only when its winner is
// strictly nearer there than the earlier interval's winner.
func (s *Scratch) fillIntervals(c *Canvas, polygons []geom.Polygon, y int, active []Edge) {
	clear(s.apt)
	bg := c.Depth.Background
	fy := float64(y)
	prevX, prevPID := -1, sentinelPID

	for i := 0; i+1 < len(active); i++ {
		s.toggle(active[i].PID)
		l, r := active[i].X, active[i+1].X
		if l == r {
			continue
		}
		l, r = max(l, 0), min(r, c.Width-1)
		if l > r {
			continue
		}

		pid := s.nearest((float64(l)+float64(r))/2, fy, bg)
		if pid == sentinelPID {
			prevX, prevPID = r, sentinelPID
			continue
		}
		pl := &s.planes[pid]
		from := l
		if l == prevX {
			prevZ := bg
			if prevPID != sentinelPID {
				prevZ = s.planes[prevPID].At(float64(l), fy)
			}
			if !(pl.At(float64(l), fy) < prevZ) {
				from++
			}
		}
		if from <= r {
			c.span(from, r, y, MapColor(polygons[pid].Color))
		}
		prevX, prevPID = r, pid
	}
}

// nearest returns the polygon of the active set with the smallest depth at
// (x, y), or sentinelPID if none is nearer than bg. Ties go to the lower id.
func (s *Scratch) nearest(x, y, bg float64) int {
	best, bestZ := sentinelPID, bg
	for pid := range s.apt {
		z := s.planes[pid].At(x, y)
		if z < bestZ || (z == bestZ && best != sentinelPID && pid < best) {
			best, bestZ = pid, z
		}
	}
	return best
}
