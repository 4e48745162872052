package scene

import (
	"math"

	"scanline-renderer/internal/mathutil"
)

var worldUp = mathutil.Vec3{0, 1, 0}

// Camera is a first-person camera. Angles are in degrees. Yaw 0 looks
// down +Z and yaw 180 down -Z; positive pitch looks up.
type Camera struct {
	Position mathutil.Vec3
	Yaw      float64
	Pitch    float64
	FOV      float64 // vertical
	Aspect   float64
	Near     float64
	Far      float64
}

// DefaultCamera sits on +Z looking back at the origin.
func DefaultCamera() Camera {
	return Camera{
		Position: mathutil.Vec3{0, 0, 2},
		Yaw:      180,
		FOV:      75,
		Aspect:   4.0 / 3.0,
		Near:     1,
		Far:      10,
	}
}

// Direction returns the unit view direction.
func (c *Camera) Direction() mathutil.Vec3 {
	y, p := mathutil.Deg2Rad(c.Yaw), mathutil.Deg2Rad(c.Pitch)
	return mathutil.Vec3{
		math.Cos(p) * math.Sin(y),
		math.Sin(p),
		math.Cos(p) * math.Cos(y),
	}
}

// Right returns the unit vector to the camera's right.
func (c *Camera) Right() mathutil.Vec3 {
	return c.Direction().Cross(worldUp).Normalize()
}

// Up returns the camera's unit up vector.
func (c *Camera) Up() mathutil.Vec3 {
	return c.Right().Cross(c.Direction()).Normalize()
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mathutil.Mat4 {
	return mathutil.LookAt(c.Position, c.Position.Add(c.Direction()), c.Up())
}

// Projection returns the camera-to-clip matrix.
func (c *Camera) Projection() mathutil.Mat4 {
	return mathutil.Perspective(mathutil.Deg2Rad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Orbit moves the camera on a horizontal circle of the given radius
// around target, keeping its height, and turns it to face target. angle is
// in degrees.
func (c *Camera) Orbit(target mathutil.Vec3, radius, angle float64) {
	a := mathutil.Deg2Rad(angle)
	dy := c.Position[1] - target[1]
	c.Position = target.Add(mathutil.Vec3{radius * math.Sin(a), dy, radius * math.Cos(a)})
	c.Yaw = angle + 180
	c.Pitch = mathutil.Rad2Deg(math.Atan2(-dy, radius))
}
