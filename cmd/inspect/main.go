package main

import (
	"fmt"
	"math"
	"os"

	"scanline-renderer/internal/bvh"
	"scanline-renderer/internal/geom"
	"scanline-renderer/internal/obj"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: inspect <model.obj>")
		os.Exit(1)
	}
	path := os.Args[1]
	m, err := obj.Load(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	polygons := make([]geom.Polygon, 0, len(m.Sides))
	sides := map[int]int{}
	for f := range m.Faces() {
		polygons = append(polygons, geom.Polygon{Vertices: f})
		sides[len(f)]++
	}
	fmt.Printf("Model: %s\n", m.Name)
	fmt.Printf("  Vertices: %d, Faces: %d\n", len(m.Vertices), len(polygons))
	for n := 1; n <= 8; n++ {
		if sides[n] > 0 {
			fmt.Printf("    %d-gons: %d\n", n, sides[n])
		}
	}
	big := 0
	for n, c := range sides {
		if n > 8 {
			big += c
		}
	}
	if big > 0 {
		fmt.Printf("    larger: %d\n", big)
	}

	box := geom.EmptyAABB()
	for _, v := range m.Vertices {
		box = box.Extend(v)
	}
	size := box.Max.Sub(box.Min)
	fmt.Printf("  BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n",
		box.Min[0], box.Max[0], box.Min[1], box.Max[1], box.Min[2], box.Max[2])
	fmt.Printf("  Size: %.3f x %.3f x %.3f\n", size[0], size[1], size[2])

	// Area by dominant normal axis
	areaByDir := map[string]float64{}
	var totalArea float64
	lines := 0
	for i := range polygons {
		p := &polygons[i]
		if !p.IsArea() {
			lines++
			continue
		}
		n := p.Normal(m.Vertices)
		area := polygonArea(m.Vertices, p)
		totalArea += area
		areaByDir[dominant(n)] += area
	}
	fmt.Printf("  Surface area: %.3f (%d lines or points)\n", totalArea, lines)
	for _, d := range []string{"+X", "-X", "+Y", "-Y", "+Z", "-Z", "degenerate"} {
		if a := areaByDir[d]; a > 0 {
			fmt.Printf("    %-10s %6.1f%%\n", d, 100*a/totalArea)
		}
	}

	// Bounding volume tree over object space
	if len(polygons) == 0 {
		return
	}
	tree := bvh.Build(m.Vertices, polygons)
	leaves, depth := 0, 0
	tree.Walk(func(i int, n *bvh.Node) bool {
		if n.IsLeaf() {
			leaves++
			if d := int(math.Log2(float64(i))); d > depth {
				depth = d
			}
		}
		return true
	})
	root := tree.Nodes[bvh.Root].Box
	fmt.Printf("  BVH: %d polygons, %d nodes, %d leaves, depth %d\n", tree.Len(), len(tree.Nodes)-1, leaves, depth)
	fmt.Printf("    Root: [%.3f %.3f %.3f] - [%.3f %.3f %.3f]\n",
		root.Min[0], root.Min[1], root.Min[2], root.Max[0], root.Max[1], root.Max[2])
}

// polygonArea returns the area of a planar polygon by fanning from its
// first vertex.
func polygonArea(vertices []geom.Vertex, p *geom.Polygon) float64 {
	v0 := vertices[p.Vertices[0]]
	var sum geom.Vertex
	for i := 1; i+1 < len(p.Vertices); i++ {
		a := vertices[p.Vertices[i]].Sub(v0)
		b := vertices[p.Vertices[i+1]].Sub(v0)
		sum = sum.Add(a.Cross(b))
	}
	return 0.5 * sum.Len()
}

func dominant(n geom.Vertex) string {
	ax, ay, az := math.Abs(n[0]), math.Abs(n[1]), math.Abs(n[2])
	switch {
	case ax == 0 && ay == 0 && az == 0:
		return "degenerate"
	case ax >= ay && ax >= az:
		if n[0] > 0 {
			return "+X"
		}
		return "-X"
	case ay >= az:
		if n[1] > 0 {
			return "+Y"
		}
		return "-Y"
	default:
		if n[2] > 0 {
			return "+Z"
		}
		return "-Z"
	}
}
