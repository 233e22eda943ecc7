package render

import (
	"math"

	"github.com/semspace/semspace/pkg/space"
)

// Camera orbits the scene origin at a fixed radius. Yaw and pitch are
// radians, Distance is world units from the look-at target.
type Camera struct {
	Target   space.Vec3
	Yaw      float64
	Pitch    float64
	Distance float64

	fov    float64
	width  float64
	height float64
}

const (
	minPitch    = -1.45
	maxPitch    = 1.45
	minDistance = 80.0
	maxDistance = 3200.0
)

func NewCamera(width, height int) *Camera {
	return &Camera{
		Yaw:      0.6,
		Pitch:    0.35,
		Distance: 1100,
		fov:      math.Pi / 3,
		width:    float64(width),
		height:   float64(height),
	}
}

// Position returns the camera eye point in world space.
func (c *Camera) Position() space.Vec3 {
	cp := math.Cos(c.Pitch)
	return space.Vec3{
		X: c.Target.X + c.Distance*cp*math.Sin(c.Yaw),
		Y: c.Target.Y + c.Distance*math.Sin(c.Pitch),
		Z: c.Target.Z + c.Distance*cp*math.Cos(c.Yaw),
	}
}

// Orbit rotates the camera around the target by the given deltas.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = clamp(c.Pitch+dPitch, minPitch, maxPitch)
}

// Zoom moves the eye toward or away from the target.
func (c *Camera) Zoom(delta float64) {
	c.Distance = clamp(c.Distance*math.Pow(1.1, -delta), minDistance, maxDistance)
}

func (c *Camera) Resize(width, height int) {
	c.width = float64(width)
	c.height = float64(height)
}

// basis returns the right, up and forward unit vectors of the view frame.
func (c *Camera) basis() (right, up, forward space.Vec3) {
	eye := c.Position()
	forward = c.Target.Sub(eye).Normalize()
	worldUp := space.Vec3{Y: 1}
	right = forward.Cross(worldUp).Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

// Project maps a world point to screen coordinates. The returned depth
// is the distance along the view axis; ok is false for points behind
// the eye plane.
func (c *Camera) Project(p space.Vec3) (sx, sy, depth float64, ok bool) {
	eye := c.Position()
	right, up, forward := c.basis()

	rel := p.Sub(eye)
	z := rel.Dot(forward)
	if z <= 1e-6 {
		return 0, 0, 0, false
	}
	x := rel.Dot(right)
	y := rel.Dot(up)

	f := (c.height / 2) / math.Tan(c.fov/2)
	sx = c.width/2 + x*f/z
	sy = c.height/2 - y*f/z
	return sx, sy, z, true
}

// ScreenScale returns the on-screen size multiplier for a unit of world
// length at the given depth.
func (c *Camera) ScreenScale(depth float64) float64 {
	if depth <= 1e-6 {
		return 0
	}
	f := (c.height / 2) / math.Tan(c.fov/2)
	return f / depth
}

// PickRay builds a world-space ray through the given screen pixel, used
// to test the cursor against node hit spheres.
func (c *Camera) PickRay(sx, sy float64) space.Ray {
	eye := c.Position()
	right, up, forward := c.basis()

	f := (c.height / 2) / math.Tan(c.fov/2)
	dx := (sx - c.width/2) / f
	dy := (c.height/2 - sy) / f

	dir := forward.Add(right.Scale(dx)).Add(up.Scale(dy)).Normalize()
	return space.Ray{Origin: eye, Dir: dir}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
