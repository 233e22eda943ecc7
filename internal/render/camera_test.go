package render

import (
	"math"
	"testing"

	"github.com/semspace/semspace/pkg/space"
)

func TestProject_TargetMapsToScreenCenter(t *testing.T) {
	cam := NewCamera(800, 600)

	sx, sy, depth, ok := cam.Project(cam.Target)
	if !ok {
		t.Fatalf("target not visible")
	}
	if math.Abs(sx-400) > 1e-6 || math.Abs(sy-300) > 1e-6 {
		t.Fatalf("target projected to (%f, %f), want screen center", sx, sy)
	}
	if math.Abs(depth-cam.Distance) > 1e-6 {
		t.Fatalf("depth = %f, want camera distance %f", depth, cam.Distance)
	}
}

func TestProject_BehindEyeNotVisible(t *testing.T) {
	cam := NewCamera(800, 600)
	eye := cam.Position()
	behind := eye.Add(eye.Sub(cam.Target).Normalize().Scale(100))

	if _, _, _, ok := cam.Project(behind); ok {
		t.Fatalf("point behind the eye reported visible")
	}
}

func TestPickRay_RoundTripsThroughProjection(t *testing.T) {
	cam := NewCamera(800, 600)
	p := space.Vec3{X: 80, Y: -40, Z: 120}

	sx, sy, _, ok := cam.Project(p)
	if !ok {
		t.Fatalf("sample point not visible")
	}

	ray := cam.PickRay(sx, sy)
	// The ray must pass through p: distance from p to the ray stays tiny.
	toP := p.Sub(ray.Origin)
	along := toP.Dot(ray.Dir)
	closest := ray.Origin.Add(ray.Dir.Scale(along))
	if d := closest.DistanceTo(p); d > 1e-6 {
		t.Fatalf("pick ray misses projected point by %f", d)
	}
}

func TestScreenScale_ShrinksWithDepth(t *testing.T) {
	cam := NewCamera(800, 600)
	near := cam.ScreenScale(100)
	far := cam.ScreenScale(1000)
	if near <= far {
		t.Fatalf("screen scale near=%f far=%f, want near > far", near, far)
	}
	if cam.ScreenScale(0) != 0 {
		t.Fatalf("zero depth must yield zero scale")
	}
}

func TestOrbit_ClampsPitchAndDistance(t *testing.T) {
	cam := NewCamera(800, 600)

	cam.Orbit(0, 10)
	if cam.Pitch > maxPitch {
		t.Fatalf("pitch %f above clamp", cam.Pitch)
	}
	cam.Orbit(0, -20)
	if cam.Pitch < minPitch {
		t.Fatalf("pitch %f below clamp", cam.Pitch)
	}

	for i := 0; i < 200; i++ {
		cam.Zoom(1)
	}
	if cam.Distance < minDistance {
		t.Fatalf("distance %f below clamp", cam.Distance)
	}
	for i := 0; i < 200; i++ {
		cam.Zoom(-1)
	}
	if cam.Distance > maxDistance {
		t.Fatalf("distance %f above clamp", cam.Distance)
	}
}
