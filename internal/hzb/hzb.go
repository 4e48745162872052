// Package hzb implements a hierarchical depth structure: a 4-ary tree over
// the depth buffer in which every node caches the farthest depth found in its
// pixel rectangle. A polygon whose nearest depth is not nearer than the cached
// value of its screen rectangle cannot be visible there.
//
// Nodes live in one arena slice and refer to their children by index, so
// dropping the tree is dropping the slice.
package hzb

import (
	"math"

	"scanline-renderer/internal/buffer"
)

const noChild int32 = -1

// Rect is an inclusive integer pixel rectangle [XMin,XMax]×[YMin,YMax].
type Rect struct {
	XMin, XMax, YMin, YMax int
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return r.XMin <= o.XMin && o.XMax <= r.XMax && r.YMin <= o.YMin && o.YMax <= r.YMax
}

// Intersects reports whether r and o share at least one pixel.
func (r Rect) Intersects(o Rect) bool {
	return r.XMin <= o.XMax && o.XMin <= r.XMax && r.YMin <= o.YMax && o.YMin <= r.YMax
}

type node struct {
	rect  Rect
	zmax  float64
	child [4]int32
}

// Tree is the hierarchical depth structure for one depth buffer.
type Tree struct {
	nodes []node
	depth *buffer.DepthBuffer
}

// Build constructs the tree for the whole depth buffer and seeds it with the
// buffer's current contents. Call it again when the canvas is resized.
func Build(depth *buffer.DepthBuffer) *Tree {
	t := &Tree{depth: depth}
	if depth.Width <= 0 || depth.Height <= 0 {
		return t
	}
	t.nodes = make([]node, 0, 2*depth.Width*depth.Height)
	t.build(0, depth.Width-1, 0, depth.Height-1)
	return t
}

func (t *Tree) build(xmin, xmax, ymin, ymax int) int32 {
	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{
		rect:  Rect{XMin: xmin, XMax: xmax, YMin: ymin, YMax: ymax},
		child: [4]int32{noChild, noChild, noChild, noChild},
	})

	xmid, ymid := (xmin+xmax)>>1, (ymin+ymax)>>1
	var kids [4]int32
	switch {
	case xmin == xmax && ymin == ymax:
		t.nodes[idx].zmax = t.depth.At(xmin, ymin)
		return idx
	case ymin == ymax:
		kids = [4]int32{
			t.build(xmin, xmid, ymin, ymax),
			t.build(xmid+1, xmax, ymin, ymax),
			noChild, noChild,
		}
	case xmin == xmax:
		kids = [4]int32{
			t.build(xmin, xmax, ymin, ymid),
			t.build(xmin, xmax, ymid+1, ymax),
			noChild, noChild,
		}
	default:
		kids = [4]int32{
			t.build(xmin, xmid, ymin, ymid),
			t.build(xmid+1, xmax, ymin, ymid),
			t.build(xmin, xmid, ymid+1, ymax),
			t.build(xmid+1, xmax, ymid+1, ymax),
		}
	}
	t.nodes[idx].child = kids
	t.nodes[idx].zmax = t.childMax(idx)
	return idx
}

func (t *Tree) childMax(idx int32) float64 {
	z := math.Inf(-1)
	for _, c := range t.nodes[idx].child {
		if c != noChild {
			z = math.Max(z, t.nodes[c].zmax)
		}
	}
	return z
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Bounds returns the rectangle covered by the root.
func (t *Tree) Bounds() Rect {
	t.mustBeBuilt()
	return t.nodes[0].rect
}

// Clear resets every cached depth to the background constant.
func (t *Tree) Clear() {
	for i := range t.nodes {
		t.nodes[i].zmax = t.depth.Background
	}
}

// Query returns the farthest depth recorded anywhere inside r. The region
// must overlap the tree.
func (t *Tree) Query(r Rect) float64 {
	t.mustBeBuilt()
	return t.query(0, r)
}

func (t *Tree) query(idx int32, r Rect) float64 {
	n := &t.nodes[idx]
	if r.Contains(n.rect) {
		return n.zmax
	}
	z := math.Inf(-1)
	found := false
	for _, c := range n.child {
		if c == noChild || !t.nodes[c].rect.Intersects(r) {
			continue
		}
		z = math.Max(z, t.query(c, r))
		found = true
	}
	if !found {
		panic("hzb: query region has no covering leaf")
	}
	return z
}

// Update re-reads the depth buffer for every leaf inside r and recomputes
// the cached maxima bottom-up. Regions outside the tree are ignored.
func (t *Tree) Update(r Rect) {
	t.mustBeBuilt()
	if !t.nodes[0].rect.Intersects(r) {
		return
	}
	t.update(0, r)
}

func (t *Tree) update(idx int32, r Rect) {
	n := &t.nodes[idx]
	if n.child[0] == noChild {
		n.zmax = t.depth.At(n.rect.XMin, n.rect.YMin)
		return
	}
	for _, c := range n.child {
		if c != noChild && t.nodes[c].rect.Intersects(r) {
			t.update(c, r)
		}
	}
	n.zmax = t.childMax(idx)
}

func (t *Tree) mustBeBuilt() {
	if len(t.nodes) == 0 {
		panic("hzb: tree is empty")
	}
}
