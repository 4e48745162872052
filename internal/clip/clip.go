// Package clip discards primitives that cannot reach the view volume. It is
// an accept/reject test on bounding boxes: a polygon that straddles the
// clip box is kept whole, never cut.
package clip

import (
	"scanline-renderer/internal/geom"
	"scanline-renderer/internal/mathutil"
)

// Canonical returns the normalised device coordinate cube [-1,1]^3.
func Canonical() geom.AABB {
	return geom.AABB{Min: mathutil.Splat(-1), Max: mathutil.Splat(1)}
}

// Partition reorders polygons in place so that every polygon whose box
// overlaps box comes first, and returns that prefix. The order inside
// either group is not preserved.
func Partition(vertices []geom.Vertex, polygons []geom.Polygon, box geom.AABB) []geom.Polygon {
	keep := func(k int) bool {
		return geom.AABBOf(vertices, &polygons[k]).Overlaps(box)
	}
	i, j := 0, len(polygons)-1
	for i <= j {
		switch {
		case keep(i):
			i++
		case !keep(j):
			j--
		default:
			polygons[i], polygons[j] = polygons[j], polygons[i]
			i++
			j--
		}
	}
	return polygons[:i]
}
