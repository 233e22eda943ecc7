// Package scenery holds decorative background elements. Nothing here touches
// graph state; the starfield owns its own renderables and animates them
// independently of the concept scene.
package scenery

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

type star struct {
	x, y    float64
	radius  float64
	phase   float64
	twinkle float64
}

// Starfield is a fixed set of twinkling background points.
type Starfield struct {
	width  int
	height int
	stars  []star
	t      float64
}

const defaultStarCount = 220

// NewStarfield seeds count stars over the given viewport. A count of zero
// uses the default density.
func NewStarfield(width, height, count int) *Starfield {
	if count <= 0 {
		count = defaultStarCount
	}
	rng := rand.New(rand.NewSource(int64(width)*31 + int64(height)))

	stars := make([]star, count)
	for i := range stars {
		stars[i] = star{
			x:       rng.Float64() * float64(width),
			y:       rng.Float64() * float64(height),
			radius:  0.5 + rng.Float64()*1.3,
			phase:   rng.Float64() * 2 * math.Pi,
			twinkle: 0.4 + rng.Float64()*1.2,
		}
	}
	return &Starfield{width: width, height: height, stars: stars}
}

func (f *Starfield) Advance(elapsed float64) {
	f.t += elapsed
}

func (f *Starfield) Draw(dst *ebiten.Image) {
	for i := range f.stars {
		s := &f.stars[i]
		a := 0.35 + 0.3*math.Sin(f.t*s.twinkle+s.phase)
		c := color.RGBA{R: 200, G: 210, B: 235, A: uint8(a * 255)}
		vector.DrawFilledCircle(dst, float32(s.x), float32(s.y), float32(s.radius), c, false)
	}
}
