package space

import "math"

// Ray is a half-line cast from the viewpoint through the pointer.
type Ray struct {
	Origin Vec3
	Dir    Vec3 // unit length
}

// NewRay builds a ray from origin toward target.
func NewRay(origin, target Vec3) Ray {
	return Ray{Origin: origin, Dir: target.Sub(origin).Normalize()}
}

// IntersectSphere returns the distance along the ray to the nearest
// intersection with the sphere, or ok=false when the ray misses it or the
// sphere lies behind the origin.
func (r Ray) IntersectSphere(center Vec3, radius float64) (t float64, ok bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sq := math.Sqrt(disc)
	t = -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
