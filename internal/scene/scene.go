// Package scene holds what a frame is rendered from: models with their
// placement, the lights and the camera.
package scene

import (
	"iter"

	"scanline-renderer/internal/geom"
	"scanline-renderer/internal/mathutil"
	"scanline-renderer/internal/shade"
)

// Model is a polygon mesh in its own object space. Faces are stored
// flattened: Sides[k] consecutive entries of Indices form face k.
type Model struct {
	Name     string
	Vertices []geom.Vertex
	Indices  []uint32
	Sides    []uint32

	// Placement, applied as scale, then rotation around X, Y, Z (radians),
	// then translation.
	Scale     mathutil.Vec3
	Rotate    mathutil.Vec3
	Translate mathutil.Vec3

	// Albedo tints the shaded colour of every face.
	Albedo geom.Color
}

// NewModel returns an empty model with identity placement and a white albedo.
func NewModel(name string) *Model {
	return &Model{
		Name:   name,
		Scale:  mathutil.Splat(1),
		Albedo: mathutil.Splat(1),
	}
}

// AddFace appends one face.
func (m *Model) AddFace(indices ...uint32) {
	m.Indices = append(m.Indices, indices...)
	m.Sides = append(m.Sides, uint32(len(indices)))
}

// Faces yields the vertex indices of every face. The slices alias
// m.Indices.
func (m *Model) Faces() iter.Seq[[]uint32] {
	return func(yield func([]uint32) bool) {
		off := uint32(0)
		for _, n := range m.Sides {
			if !yield(m.Indices[off : off+n]) {
				return
			}
			off += n
		}
	}
}

// Transform returns the object-to-world matrix.
func (m *Model) Transform() mathutil.Mat4 {
	rot := mathutil.Mat4Mul(mathutil.RotZ(m.Rotate[2]),
		mathutil.Mat4Mul(mathutil.RotY(m.Rotate[1]), mathutil.RotX(m.Rotate[0])))
	return mathutil.Mat4Mul(mathutil.Translate(m.Translate),
		mathutil.Mat4Mul(rot, mathutil.Scale(m.Scale)))
}

// Bounds returns the object-space box of all vertices.
func (m *Model) Bounds() geom.AABB {
	b := geom.EmptyAABB()
	for _, v := range m.Vertices {
		b = b.Extend(v)
	}
	return b
}

// Scene is everything that is drawn in one frame.
type Scene struct {
	Models         []*Model
	ParallelLights []shade.ParallelLight
	PointLights    []shade.PointLight
}
