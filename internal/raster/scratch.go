package raster

import (
	"scanline-renderer/internal/geom"
)

const sentinelPID = -1

// Scratch holds the working storage of the rasterisers so repeated calls
// do not allocate. The zero value is ready to use. A Scratch must not be
// shared between goroutines; give each renderer its own.
type Scratch struct {
	pts    []point
	edges  []Edge
	active []Edge
	planes []Plane
	apt    map[int]struct{}
}

// loadPoints rounds the polygon's vertices into s.pts.
func (s *Scratch) loadPoints(vertices []geom.Vertex, p *geom.Polygon) {
	s.pts = s.pts[:0]
	for _, vi := range p.Vertices {
		x, y := vertices[vi].RoundXY()
		s.pts = append(s.pts, point{x, y})
	}
}

// sweep runs the scanline loop over a sorted edge table and calls row once
// for every scanline that has active edges.
func (s *Scratch) sweep(edges []Edge, row func(y int, active []Edge)) {
	active := s.active[:0]
	next := 0
	for next < len(edges) || len(active) > 0 {
		y := 0
		if len(active) == 0 {
			y = edges[next].YMin
		} else {
			y = active[0].YMin
		}
		for next < len(edges) && edges[next].YMin == y {
			active = insertActive(active, edges[next])
			next++
		}
		row(y, active)
		active = advanceActive(active)
	}
	s.active = active[:0]
}

func (s *Scratch) toggle(pid int) {
	if pid == sentinelPID {
		return
	}
	if _, ok := s.apt[pid]; ok {
		delete(s.apt, pid)
		return
	}
	s.apt[pid] = struct{}{}
}
