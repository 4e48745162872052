package mathutil

import "math"

// Mat4 is a 4×4 matrix stored row-major and applied to column vectors.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a 3D point (w=1) and applies the perspective divide.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	x := m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3]
	y := m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7]
	z := m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11]
	w := m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]
	if w == 1 || w == 0 {
		return Vec3{x, y, z}
	}
	return Vec3{x / w, y / w, z / w}
}

// MulDir transforms a direction (w=0); translation is ignored.
func (m Mat4) MulDir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2],
	}
}

// Translate returns a translation matrix.
func Translate(t Vec3) Mat4 {
	return Mat4{
		1, 0, 0, t[0],
		0, 1, 0, t[1],
		0, 0, 1, t[2],
		0, 0, 0, 1,
	}
}

// Scale returns a non-uniform scale matrix.
func Scale(s Vec3) Mat4 {
	return Mat4{
		s[0], 0, 0, 0,
		0, s[1], 0, 0,
		0, 0, s[2], 0,
		0, 0, 0, 1,
	}
}

// LookAt builds a right-handed view matrix (camera looks down -Z).
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	return Mat4{
		s[0], s[1], s[2], -s.Dot(eye),
		u[0], u[1], u[2], -u.Dot(eye),
		-f[0], -f[1], -f[2], f.Dot(eye),
		0, 0, 0, 1,
	}
}

// Perspective builds a right-handed projection with NDC depth in [-1, 1].
// fovy is the vertical field of view in radians.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / (near - far), 2 * far * near / (near - far),
		0, 0, -1, 0,
	}
}

// Viewport maps NDC x/y in [-1, 1] onto pixel centres of a w×h canvas,
// flipping y so that row 0 is the top. Depth passes through unchanged.
func Viewport(w, h int) Mat4 {
	hw, hh := float64(w)/2, float64(h)/2
	return Mat4{
		hw, 0, 0, hw - 0.5,
		0, -hh, 0, hh - 0.5,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
