package space

import "errors"

// DefaultTargetExtent is the edge length of the origin-centered display volume
// that raw dataset coordinates are mapped into.
const DefaultTargetExtent = 500.0

// ErrDegenerateExtent reports a zero-extent bounding box: every input point
// shares one position, so no uniform scale exists.
var ErrDegenerateExtent = errors.New("space: degenerate zero-extent bounding box")

// Normalize maps raw positions into an origin-centered cube whose largest axis
// span equals targetExtent. The scale is uniform across all three axes so the
// shape of the point cloud is preserved.
//
// Normalize is a one-shot transform: running it again on already-normalized
// positions scales them again. Callers invoke it exactly once per load.
func Normalize(points []Vec3, targetExtent float64) ([]Vec3, error) {
	box, ok := BoundingBox(points)
	if !ok {
		return nil, errors.New("space: no points to normalize")
	}

	span := box.MaxSpan()
	if span == 0 {
		return nil, ErrDegenerateExtent
	}

	center := box.Center()
	scale := targetExtent / span

	out := make([]Vec3, len(points))
	for i, p := range points {
		out[i] = p.Sub(center).Scale(scale)
	}
	return out, nil
}
