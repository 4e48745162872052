package geom

import (
	"testing"

	"scanline-renderer/internal/mathutil"
)

func TestAABBOf(t *testing.T) {
	vs := []Vertex{{1, 5, 0}, {-2, 3, 1}, {4, -1, 0.5}}
	p := Polygon{Vertices: []uint32{0, 1, 2}}
	b := AABBOf(vs, &p)
	if b.Min != (Vertex{-2, -1, 0}) || b.Max != (Vertex{4, 5, 1}) {
		t.Errorf("AABBOf = %+v", b)
	}
}

func TestEmptyAABB(t *testing.T) {
	e := EmptyAABB()
	if !e.IsEmpty() {
		t.Fatal("EmptyAABB not empty")
	}
	one := AABB{Min: Vertex{0, 0, 0}, Max: Vertex{1, 1, 1}}
	if e.Overlaps(one) || one.Overlaps(e) {
		t.Error("empty box overlaps")
	}
	if got := e.Union(one); got != one {
		t.Errorf("empty ∪ b = %+v, want %+v", got, one)
	}
	if !one.Contains(e) {
		t.Error("box does not contain the empty box")
	}
}

func TestOverlaps(t *testing.T) {
	unit := AABB{Min: mathutil.Splat(-1), Max: mathutil.Splat(1)}
	tests := []struct {
		name string
		b    AABB
		want bool
	}{
		{"inside", AABB{Min: mathutil.Splat(-0.5), Max: mathutil.Splat(0.5)}, true},
		{"straddling", AABB{Min: Vertex{0.5, 0.5, 0.5}, Max: Vertex{3, 3, 3}}, true},
		{"touching face", AABB{Min: Vertex{1, 0, 0}, Max: Vertex{2, 0, 0}}, true},
		{"beyond x", AABB{Min: Vertex{1.1, 0, 0}, Max: Vertex{2, 0, 0}}, false},
		{"beyond z only", AABB{Min: Vertex{0, 0, -3}, Max: Vertex{0, 0, -2}}, false},
		{"enclosing", AABB{Min: mathutil.Splat(-5), Max: mathutil.Splat(5)}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := unit.Overlaps(tc.b); got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPolygonNormalAndCenter(t *testing.T) {
	vs := []Vertex{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	p := Polygon{Vertices: []uint32{0, 1, 2, 3}}
	if c := p.Center(vs); c != (Vertex{0.5, 0.5, 0}) {
		t.Errorf("Center = %v", c)
	}
	n := p.Normal(vs)
	if n[2] == 0 || n[0] != 0 || n[1] != 0 {
		t.Errorf("Normal = %v, want ±Z", n)
	}
	line := Polygon{Vertices: []uint32{0, 1}}
	if n := line.Normal(vs); n != (mathutil.Vec3{}) {
		t.Errorf("line normal = %v, want zero", n)
	}
}
