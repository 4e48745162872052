package clip

import (
	"math/rand/v2"
	"testing"

	"scanline-renderer/internal/geom"
)

func TestPartition(t *testing.T) {
	vs := []geom.Vertex{
		// inside
		{0, 0, 0}, {0.5, 0, 0}, {0, 0.5, 0},
		// outside
		{3, 3, 3}, {4, 3, 3}, {3, 4, 3},
		// straddling
		{0.5, 0.5, 0}, {2, 0.5, 0}, {0.5, 2, 0},
		// outside
		{-5, 0, 0}, {-4, 0, 0}, {-4.5, 1, 0},
	}
	tri := func(b uint32) geom.Polygon { return geom.Polygon{Vertices: []uint32{b, b + 1, b + 2}} }

	tests := []struct {
		name  string
		polys []geom.Polygon
		want  int
	}{
		{"empty", nil, 0},
		{"all kept", []geom.Polygon{tri(0), tri(6)}, 2},
		{"all dropped", []geom.Polygon{tri(3), tri(9)}, 0},
		{"mixed", []geom.Polygon{tri(3), tri(0), tri(9), tri(6)}, 2},
		{"single line", []geom.Polygon{{Vertices: []uint32{0, 1}}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(vs, tt.polys, Canonical())
			if len(got) != tt.want {
				t.Fatalf("kept %d, want %d", len(got), tt.want)
			}
			for i := range got {
				if !geom.AABBOf(vs, &got[i]).Overlaps(Canonical()) {
					t.Errorf("kept polygon %v does not overlap", got[i].Vertices)
				}
			}
		})
	}
}

func TestPartitionIdempotent(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	var vs []geom.Vertex
	var ps []geom.Polygon
	for i := 0; i < 200; i++ {
		base := uint32(len(vs))
		for k := 0; k < 3; k++ {
			vs = append(vs, geom.Vertex{rng.Float64()*6 - 3, rng.Float64()*6 - 3, rng.Float64()*6 - 3})
		}
		ps = append(ps, geom.Polygon{Vertices: []uint32{base, base + 1, base + 2}})
	}

	kept := Partition(vs, ps, Canonical())
	n := len(kept)
	if n == 0 || n == len(ps) {
		t.Fatalf("degenerate sample: kept %d of %d", n, len(ps))
	}
	for i := range ps[n:] {
		if geom.AABBOf(vs, &ps[n+i]).Overlaps(Canonical()) {
			t.Errorf("dropped polygon %d overlaps the clip box", n+i)
		}
	}
	if again := Partition(vs, kept, Canonical()); len(again) != n {
		t.Errorf("second pass kept %d, want %d", len(again), n)
	}
}
