package raster

import (
	"math"

	"scanline-renderer/internal/geom"
)

// Plane gives a polygon's depth as an affine function of the pixel
// position: z = A*x + B*y + C. OK is false for polygons seen edge-on or
// with no three non-collinear vertices.
type Plane struct {
	A, B, C float64
	OK      bool
}

// PlaneOf derives the depth plane from the first non-degenerate pair of
// consecutive edges.
func PlaneOf(vertices []geom.Vertex, p *geom.Polygon) Plane {
	if !p.IsArea() {
		return Plane{}
	}
	v0 := vertices[p.Vertices[0]]
	for i := 1; i+1 < len(p.Vertices); i++ {
		v1, v2 := vertices[p.Vertices[i]], vertices[p.Vertices[i+1]]
		n := v0.Sub(v1).Cross(v1.Sub(v2))
		if n.Len() < 1e-12 {
			continue
		}
		n = n.Normalize()
		if math.Abs(n[2]) < 1e-9 {
			return Plane{}
		}
		return Plane{
			A:  -n[0] / n[2],
			B:  -n[1] / n[2],
			C:  n.Dot(v0) / n[2],
			OK: true,
		}
	}
	return Plane{}
}

// At evaluates the plane at (x, y).
func (p *Plane) At(x, y float64) float64 {
	return p.A*x + p.B*y + p.C
}
