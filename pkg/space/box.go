package space

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min Vec3
	Max Vec3
}

// BoundingBox computes the axis-aligned bounding box of the given points.
// ok is false for an empty input.
func BoundingBox(points []Vec3) (box Box, ok bool) {
	if len(points) == 0 {
		return Box{}, false
	}

	box = Box{
		Min: Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for _, p := range points {
		box.Min.X = math.Min(box.Min.X, p.X)
		box.Min.Y = math.Min(box.Min.Y, p.Y)
		box.Min.Z = math.Min(box.Min.Z, p.Z)
		box.Max.X = math.Max(box.Max.X, p.X)
		box.Max.Y = math.Max(box.Max.Y, p.Y)
		box.Max.Z = math.Max(box.Max.Z, p.Z)
	}
	return box, true
}

// Center returns the midpoint of the box.
func (b Box) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// MaxSpan returns the largest of the three axis ranges. The span is a single
// uniform value so scaling by it preserves shape on all axes.
func (b Box) MaxSpan() float64 {
	span := b.Max.X - b.Min.X
	if d := b.Max.Y - b.Min.Y; d > span {
		span = d
	}
	if d := b.Max.Z - b.Min.Z; d > span {
		span = d
	}
	return span
}
