package raster

import (
	"scanline-renderer/internal/bvh"
	"scanline-renderer/internal/geom"
	"scanline-renderer/internal/hzb"
)

// Stats counts what one rasterisation call did.
type Stats struct {
	Rasterized int `json:"rasterized"` // polygons scan converted
	Rejected   int `json:"rejected"`   // occlusion tests that discarded a polygon or a subtree
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Rasterized += o.Rasterized
	s.Rejected += o.Rejected
}

// prepare returns what scanning p needs. It reports false for lines,
// edge-on polygons and polygons entirely off the canvas.
func (s *Scratch) prepare(c *Canvas, vertices []geom.Vertex, p *geom.Polygon) (Plane, geom.AABB, hzb.Rect, bool) {
	if !p.IsArea() {
		return Plane{}, geom.AABB{}, hzb.Rect{}, false
	}
	pl := PlaneOf(vertices, p)
	if !pl.OK {
		return Plane{}, geom.AABB{}, hzb.Rect{}, false
	}
	box := geom.AABBOf(vertices, p)
	r, ok := c.Clamp(box)
	return pl, box, r, ok
}

// scan fills polygon pid into the canvas with a per-pixel depth test.
// Spans run between active edge pairs (0,1), (2,3), ... inclusive and are
// clipped to r.
func (s *Scratch) scan(c *Canvas, vertices []geom.Vertex, pid int, p *geom.Polygon, pl *Plane, r hzb.Rect) {
	s.loadPoints(vertices, p)
	s.edges = appendEdges(s.edges[:0], s.pts, pid, c.Height)
	sortEdgeTable(s.edges)

	col := MapColor(p.Color)
	depth := c.Depth
	s.sweep(s.edges, func(y int, active []Edge) {
		fy := float64(y)
		for i := 0; i+1 < len(active); i += 2 {
			x0, x1 := active[i].X, active[i+1].X
			if x0 == x1 {
				continue
			}
			x0, x1 = max(x0, r.XMin), min(x1, r.XMax)
			for x := x0; x <= x1; x++ {
				z := pl.At(float64(x), fy)
				if depth.At(x, y) > z {
					depth.Set(x, y, z)
					c.set(x, y, col)
				}
			}
		}
	})
}

// ScanConvertZBuffer draws every area polygon with a per-pixel depth test,
// writing the depth buffer and the polygon's flat colour wherever the
// polygon is strictly nearer than what is stored.
func ScanConvertZBuffer(c *Canvas, s *Scratch, vertices []geom.Vertex, polygons []geom.Polygon) Stats {
	var st Stats
	for pid := range polygons {
		p := &polygons[pid]
		pl, _, r, ok := s.prepare(c, vertices, p)
		if !ok {
			continue
		}
		s.scan(c, vertices, pid, p, &pl, r)
		st.Rasterized++
	}
	return st
}

// ScanConvertHZBuffer is ScanConvertZBuffer with a coarse occlusion test:
// a polygon whose nearest depth is not nearer than the farthest depth
// already stored under its bounding rectangle is skipped whole. The
// hierarchical structure is updated after every polygon drawn.
func ScanConvertHZBuffer(c *Canvas, s *Scratch, vertices []geom.Vertex, polygons []geom.Polygon) Stats {
	hz := c.mustHZ()
	var st Stats
	for pid := range polygons {
		p := &polygons[pid]
		pl, box, r, ok := s.prepare(c, vertices, p)
		if !ok {
			continue
		}
		if hz.Query(r) <= box.Min[2] {
			st.Rejected++
			continue
		}
		s.scan(c, vertices, pid, p, &pl, r)
		hz.Update(r)
		st.Rasterized++
	}
	return st
}

// ScanConvertHierarchy walks a bounding-volume tree built over the same
// polygons and prunes every subtree whose box is hidden according to the
// hierarchical depth structure. Leaves are drawn as in ScanConvertHZBuffer.
func ScanConvertHierarchy(c *Canvas, s *Scratch, vertices []geom.Vertex, polygons []geom.Polygon, tree *bvh.Tree) Stats {
	hz := c.mustHZ()
	var st Stats
	tree.Walk(func(_ int, n *bvh.Node) bool {
		r, ok := c.Clamp(n.Box)
		if !ok {
			return false
		}
		if hz.Query(r) <= n.Box.Min[2] {
			st.Rejected++
			return false
		}
		if !n.IsLeaf() {
			return true
		}
		p := &polygons[n.PID]
		pl, _, r, ok := s.prepare(c, vertices, p)
		if !ok {
			return false
		}
		s.scan(c, vertices, n.PID, p, &pl, r)
		hz.Update(r)
		st.Rasterized++
		return false
	})
	return st
}
