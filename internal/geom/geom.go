// Package geom holds the primitives shared by every rendering stage:
// vertices, polygons as ordered vertex-index lists, and axis-aligned boxes.
package geom

import (
	"math"

	"scanline-renderer/internal/mathutil"
)

// Vertex is a position in whatever space the current stage works in.
type Vertex = mathutil.Vec3

// Color is a linear RGB triple; channels are clamped when written to pixels.
type Color = mathutil.Vec3

// Polygon is an ordered list of indices into a vertex array plus one flat colour.
// Polygons with fewer than three vertices are lines.
type Polygon struct {
	Vertices []uint32
	Color    Color
}

// IsArea reports whether the polygon can cover pixels.
func (p *Polygon) IsArea() bool {
	return len(p.Vertices) >= 3
}

// Center returns the average of the polygon's vertices.
func (p *Polygon) Center(vertices []Vertex) Vertex {
	var c Vertex
	if len(p.Vertices) == 0 {
		return c
	}
	for _, vi := range p.Vertices {
		c = c.Add(vertices[vi])
	}
	return c.Scale(1 / float64(len(p.Vertices)))
}

// Normal returns the unit normal from the first two edges, or the zero
// vector for lines.
func (p *Polygon) Normal(vertices []Vertex) mathutil.Vec3 {
	if !p.IsArea() {
		return mathutil.Vec3{}
	}
	v0 := vertices[p.Vertices[0]].Sub(vertices[p.Vertices[1]])
	v1 := vertices[p.Vertices[1]].Sub(vertices[p.Vertices[2]])
	return v0.Cross(v1).Normalize()
}

// AABB is an axis-aligned box. The empty box has Min=+Inf and Max=-Inf.
type AABB struct {
	Min, Max Vertex
}

// EmptyAABB returns the box that contains nothing.
func EmptyAABB() AABB {
	return AABB{Min: mathutil.Splat(math.Inf(1)), Max: mathutil.Splat(math.Inf(-1))}
}

// AABBOf returns the bounds of a polygon's vertices.
func AABBOf(vertices []Vertex, p *Polygon) AABB {
	b := EmptyAABB()
	for _, vi := range p.Vertices {
		b = b.Extend(vertices[vi])
	}
	return b
}

// IsEmpty reports whether the box contains no point.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend returns the box grown to include v.
func (b AABB) Extend(v Vertex) AABB {
	return AABB{Min: b.Min.Min(v), Max: b.Max.Max(v)}
}

// Union returns the smallest box containing both boxes.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Overlaps reports whether two closed boxes share at least one point.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min[0] <= o.Max[0] && o.Min[0] <= b.Max[0] &&
		b.Min[1] <= o.Max[1] && o.Min[1] <= b.Max[1] &&
		b.Min[2] <= o.Max[2] && o.Min[2] <= b.Max[2]
}

// Contains reports whether o lies entirely inside b. The empty box is
// contained in every box.
func (b AABB) Contains(o AABB) bool {
	if o.IsEmpty() {
		return true
	}
	return b.Min[0] <= o.Min[0] && o.Max[0] <= b.Max[0] &&
		b.Min[1] <= o.Min[1] && o.Max[1] <= b.Max[1] &&
		b.Min[2] <= o.Min[2] && o.Max[2] <= b.Max[2]
}

// Center returns the midpoint of b.
func (b AABB) Center() Vertex {
	return b.Min.Add(b.Max).Scale(0.5)
}
