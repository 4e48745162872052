// Package shade evaluates the flat colour of a polygon with the Blinn-Phong
// reflection model. Positions and directions are in camera space, with the
// camera at the origin.
package shade

import (
	"math"

	"scanline-renderer/internal/geom"
	"scanline-renderer/internal/mathutil"
)

// Config holds the Blinn-Phong coefficients.
type Config struct {
	Ka float64 `json:"ka"` // ambient
	Kd float64 `json:"kd"` // diffuse
	Ks float64 `json:"ks"` // specular
	Ps float64 `json:"ps"` // specular exponent
}

// DefaultConfig returns the coefficients used when nothing is configured.
func DefaultConfig() Config {
	return Config{Ka: 0.1, Kd: 0.5, Ks: 0.4, Ps: 2.5}
}

// ParallelLight shines along Direction from infinitely far away.
type ParallelLight struct {
	Direction mathutil.Vec3
	Color     geom.Color
}

// PointLight shines from Position in every direction.
type PointLight struct {
	Position mathutil.Vec3
	Color    geom.Color
}

// BlinnPhong returns the light reflected towards the camera from a surface
// point with the given normal. Diffuse and specular terms are averaged over
// all lights. Faces pointing away from the camera are lit as if flipped.
func BlinnPhong(parallel []ParallelLight, point []PointLight, position, normal mathutil.Vec3, cfg Config) geom.Color {
	col := mathutil.Splat(cfg.Ka)
	n := len(parallel) + len(point)
	if n == 0 {
		return col
	}

	view := position.Scale(-1).Normalize()
	normal = normal.Normalize()
	if normal.Dot(view) < 0 {
		normal = normal.Scale(-1)
	}
	specNorm := (cfg.Ps + 8) / (8 * math.Pi)

	var diffuse, specular geom.Color
	add := func(in mathutil.Vec3, light geom.Color) {
		half := in.Add(view).Normalize()
		diffuse = diffuse.Add(light.Scale(cfg.Kd * math.Max(0, normal.Dot(in))))
		specular = specular.Add(light.Scale(specNorm * cfg.Ks * math.Pow(math.Max(0, normal.Dot(half)), cfg.Ps)))
	}
	for _, l := range parallel {
		add(l.Direction.Scale(-1).Normalize(), l.Color)
	}
	for _, l := range point {
		add(l.Position.Sub(position).Normalize(), l.Color)
	}
	return col.Add(diffuse.Add(specular).Scale(1 / float64(n)))
}
