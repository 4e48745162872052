package raster

import (
	"cmp"
	"math"
	"slices"
)

// Edge is one non-horizontal polygon side as the sweep sees it. YMin is the
// scanline the edge is on now and X its pixel column there; YMax is the
// first scanline it no longer covers. D is the x step direction, M the
// absolute x change per scanline and E the stepper's accumulated error.
type Edge struct {
	YMin, YMax int
	X, D       int
	M, E       float64
	PID        int
}

func (e *Edge) slope() float64 {
	return float64(e.D) * e.M
}

// step moves the edge down n scanlines. For n == 1 this is the incremental
// rule E += M; while E > 0 { X += D; E-- }.
func (e *Edge) step(n int) {
	e.YMin += n
	e.E += float64(n) * e.M
	if e.E > 0 {
		s := math.Ceil(e.E)
		e.X += e.D * int(s)
		e.E -= s
	}
}

type point struct{ x, y int }

// appendEdges appends one edge per non-horizontal side of the closed
// outline pts, clipped to scanlines [0, height).
//
// A vertex shared by two sides that both continue downward belongs to the
// lower side only, so the upper one stops a scanline early. At a local
// bottom vertex both sides keep the vertex's scanline. Every scanline
// through a simple polygon therefore crosses an even number of edges.
func appendEdges(dst []Edge, pts []point, pid, height int) []Edge {
	n := len(pts)
	for a := range pts {
		b := (a + 1) % n
		if pts[a].y == pts[b].y {
			continue
		}
		top, bot, dir := a, b, 1
		if pts[top].y > pts[bot].y {
			top, bot, dir = b, a, -1
		}
		dx := pts[bot].x - pts[top].x
		dy := pts[bot].y - pts[top].y
		e := Edge{
			YMin: pts[top].y,
			YMax: pts[bot].y,
			X:    pts[top].x,
			D:    1,
			M:    math.Abs(float64(dx)) / float64(dy),
			E:    -0.5,
			PID:  pid,
		}
		if dx < 0 {
			e.D = -1
		}
		if isBottom(pts, bot, dir) {
			e.YMax++
		}
		if e.YMin < 0 {
			e.step(-e.YMin)
		}
		e.YMax = min(e.YMax, height)
		if e.YMin >= e.YMax {
			continue
		}
		dst = append(dst, e)
	}
	return dst
}

// isBottom reports whether vertex v is a local maximum in y, looking past
// horizontal sides in direction dir to the next vertex at another height.
func isBottom(pts []point, v, dir int) bool {
	n := len(pts)
	for w := (v + dir + n) % n; w != v; w = (w + dir + n) % n {
		if pts[w].y != pts[v].y {
			return pts[w].y < pts[v].y
		}
	}
	return false
}

// sortEdgeTable orders edges by (YMin, X, slope) so edges starting at the
// same pixel enter the active list left to right.
func sortEdgeTable(edges []Edge) {
	slices.SortFunc(edges, func(a, b Edge) int {
		if c := cmp.Compare(a.YMin, b.YMin); c != 0 {
			return c
		}
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.slope(), b.slope())
	})
}

func activeLess(a, b *Edge) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.slope() < b.slope()
}

// insertActive adds e to the x-ordered active list.
func insertActive(active []Edge, e Edge) []Edge {
	active = append(active, e)
	for i := len(active) - 1; i > 0 && activeLess(&active[i], &active[i-1]); i-- {
		active[i], active[i-1] = active[i-1], active[i]
	}
	return active
}

// advanceActive steps every active edge to the next scanline, retires the
// finished ones and restores x order. Edges may cross between scanlines,
// so the list is re-sorted every time.
func advanceActive(active []Edge) []Edge {
	kept := active[:0]
	for _, e := range active {
		e.step(1)
		switch {
		case e.YMin == e.YMax:
			continue
		case e.YMin > e.YMax:
			panic("raster: active edge past its last scanline")
		}
		kept = append(kept, e)
	}
	for i := 1; i < len(kept); i++ {
		for j := i; j > 0 && activeLess(&kept[j], &kept[j-1]); j-- {
			kept[j], kept[j-1] = kept[j-1], kept[j]
		}
	}
	return kept
}
