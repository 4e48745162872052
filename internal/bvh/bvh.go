// Package bvh builds a bounding-volume hierarchy over polygons as an
// implicit binary tree stored in a flat array.
//
// For n polygons the array has 2n entries. Index 0 is unused, index 1 is the
// root and [n, 2n) are the leaves, one per polygon, ordered by the x
// coordinate of their box centres. Every node i in [1, n) has children
// Left(i) and Right(i). Pairing follows the sorted order rather than a
// spatial median, so the tree is balanced but not optimal.
package bvh

import (
	"slices"

	"scanline-renderer/internal/geom"
)

const (
	// NoChild marks a missing child link.
	NoChild = -1
	// NoPolygon marks an internal node.
	NoPolygon = -1
	// Root is the index of the root node.
	Root = 1
)

// Parent returns the parent index of node i.
func Parent(i int) int { return i >> 1 }

// Left returns the left child index of node i.
func Left(i int) int { return i << 1 }

// Right returns the right child index of node i.
func Right(i int) int { return i<<1 | 1 }

// Node is one entry of the implicit tree.
type Node struct {
	Box   geom.AABB
	Left  int
	Right int
	PID   int
}

// IsLeaf reports whether the node resolves to a polygon.
func (n *Node) IsLeaf() bool {
	return n.PID != NoPolygon
}

// Tree is a built hierarchy. It is not updated incrementally; rebuild it
// whenever the polygon list changes.
type Tree struct {
	Nodes []Node
	leaf  []int // pid -> node index
}

// Build constructs the hierarchy for the given polygons.
func Build(vertices []geom.Vertex, polygons []geom.Polygon) *Tree {
	return BuildInto(&Tree{}, vertices, polygons)
}

// BuildInto rebuilds t in place, reusing its storage.
func BuildInto(t *Tree, vertices []geom.Vertex, polygons []geom.Polygon) *Tree {
	n := len(polygons)
	t.Nodes = slices.Grow(t.Nodes[:0], 2*n)[:2*n]
	t.leaf = slices.Grow(t.leaf[:0], n)[:n]
	if n == 0 {
		return t
	}

	t.Nodes[0] = Node{Box: geom.EmptyAABB(), Left: NoChild, Right: NoChild, PID: NoPolygon}
	leaves := t.Nodes[n:]
	for pid := range polygons {
		leaves[pid] = Node{
			Box:   geom.AABBOf(vertices, &polygons[pid]),
			Left:  NoChild,
			Right: NoChild,
			PID:   pid,
		}
	}
	slices.SortStableFunc(leaves, func(a, b Node) int {
		ca, cb := a.Box.Center()[0], b.Box.Center()[0]
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		}
		return 0
	})
	for i, l := range leaves {
		t.leaf[l.PID] = n + i
	}

	for i := range t.Nodes[1:n] {
		t.Nodes[i+1] = Node{Box: geom.EmptyAABB(), Left: NoChild, Right: NoChild, PID: NoPolygon}
	}
	for i := 2*n - 1; i >= 2; i-- {
		p := &t.Nodes[Parent(i)]
		if i == Right(Parent(i)) {
			p.Right = i
			continue
		}
		p.Left = i
		if p.Right == NoChild {
			p.Box = t.Nodes[i].Box
		} else {
			p.Box = t.Nodes[i].Box.Union(t.Nodes[p.Right].Box)
		}
	}
	return t
}

// Len returns the number of polygons in the tree.
func (t *Tree) Len() int {
	return len(t.leaf)
}

// Leaf returns the node index holding polygon pid.
func (t *Tree) Leaf(pid int) int {
	return t.leaf[pid]
}

// Enclosing returns the box of the nearest ancestor of pid's leaf, which
// groups the polygon with its neighbours in sorted order. A single-polygon
// tree returns the polygon's own box.
func (t *Tree) Enclosing(pid int) geom.AABB {
	i := t.leaf[pid]
	if i == Root {
		return t.Nodes[i].Box
	}
	return t.Nodes[Parent(i)].Box
}

// Walk visits nodes depth-first from the root. visit returns false to skip
// the subtree below the node.
func (t *Tree) Walk(visit func(i int, n *Node) bool) {
	if len(t.leaf) == 0 {
		return
	}
	t.walk(Root, visit)
}

func (t *Tree) walk(i int, visit func(int, *Node) bool) {
	n := &t.Nodes[i]
	if !visit(i, n) || n.IsLeaf() {
		return
	}
	if n.Left != NoChild {
		t.walk(n.Left, visit)
	}
	if n.Right != NoChild {
		t.walk(n.Right, visit)
	}
}
