package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/semspace/semspace/pkg/scene"
	"github.com/semspace/semspace/pkg/space"
)

// Renderer draws one Scene frame. Offscreen targets are allocated once and
// reused; Draw never allocates renderables.
type Renderer struct {
	width  int
	height int

	glowImage  *ebiten.Image
	frame      *ebiten.Image
	bloomSmall *ebiten.Image
	bloomBlur  *ebiten.Image
	fontSource *text.GoTextFaceSource

	drawOrder []drawItem
}

type drawKind int

const (
	kindNode drawKind = iota
	kindSignal
	kindSpark
)

type drawItem struct {
	kind  drawKind
	index int
	depth float64
}

const (
	glowSize       = 64
	bloomDownscale = 4
	labelFontSize  = 13.0
)

var (
	nodeColor   = [3]float64{0.45, 0.78, 1.0}
	hotColor    = [3]float64{1.0, 0.85, 0.35}
	signalColor = [3]float64{0.55, 1.0, 0.75}
	sparkColor  = [3]float64{1.0, 0.55, 0.3}
	edgeColor   = color.RGBA{R: 90, G: 150, B: 220, A: 255}
)

func NewRenderer(width, height int) (*Renderer, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load label font: %w", err)
	}

	r := &Renderer{
		width:      width,
		height:     height,
		frame:      ebiten.NewImage(width, height),
		bloomSmall: ebiten.NewImage(width/bloomDownscale, height/bloomDownscale),
		bloomBlur:  ebiten.NewImage(width/bloomDownscale, height/bloomDownscale),
		fontSource: src,
	}
	r.initGlowTexture()
	return r, nil
}

// initGlowTexture pre-renders the radial falloff sprite used for every
// point-like renderable.
func (r *Renderer) initGlowTexture() {
	size := glowSize
	r.glowImage = ebiten.NewImage(size, size)
	pixels := make([]byte, size*size*4)
	center := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-center, float64(y)-center
			dist := math.Sqrt(dx*dx+dy*dy) / center
			if dist >= 1 {
				continue
			}
			// Bright core with a soft squared falloff toward the rim.
			val := math.Pow(1-dist, 2)
			if dist < 0.18 {
				val = 1
			}
			i := (y*size + x) * 4
			a := uint8(val * 255)
			pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = a, a, a, a
		}
	}
	r.glowImage.WritePixels(pixels)
}

// Draw renders the scene through the camera onto screen, edges first, then
// depth-sorted point renderables, labels, and finally the bloom composite.
func (r *Renderer) Draw(screen *ebiten.Image, s *scene.Scene, cam *Camera, hovered *scene.NodeSprite) {
	r.frame.Fill(color.RGBA{R: 4, G: 6, B: 12, A: 255})

	r.drawEdges(r.frame, s, cam)
	r.collectDrawOrder(s, cam)
	r.drawPoints(r.frame, s, cam, hovered)
	r.drawLabels(r.frame, s, cam)

	r.applyBloom(screen)
}

func (r *Renderer) drawEdges(dst *ebiten.Image, s *scene.Scene, cam *Camera) {
	for _, e := range s.Edges {
		x1, y1, _, ok1 := cam.Project(e.From)
		x2, y2, _, ok2 := cam.Project(e.To)
		if !ok1 || !ok2 {
			continue
		}
		c := edgeColor
		if e.Overloaded {
			c = color.RGBA{R: 255, G: 214, B: 120, A: 255}
		}
		c.A = uint8(clamp(e.Opacity, 0, 1) * 255)
		width := float32(1)
		if e.Overloaded {
			width = 2
		}
		vector.StrokeLine(dst, float32(x1), float32(y1), float32(x2), float32(y2), width, c, true)
	}
}

// collectDrawOrder gathers visible point renderables and sorts them far to
// near so closer glows composite over farther ones.
func (r *Renderer) collectDrawOrder(s *scene.Scene, cam *Camera) {
	r.drawOrder = r.drawOrder[:0]

	for i, n := range s.Nodes {
		if _, _, depth, ok := cam.Project(n.Position()); ok {
			r.drawOrder = append(r.drawOrder, drawItem{kind: kindNode, index: i, depth: depth})
		}
	}
	for i, sg := range s.Signals {
		if _, _, depth, ok := cam.Project(sg.Pos); ok {
			r.drawOrder = append(r.drawOrder, drawItem{kind: kindSignal, index: i, depth: depth})
		}
	}
	for i, sp := range s.Sparks {
		if !sp.Active {
			continue
		}
		if _, _, depth, ok := cam.Project(sp.Pos); ok {
			r.drawOrder = append(r.drawOrder, drawItem{kind: kindSpark, index: i, depth: depth})
		}
	}

	sort.Slice(r.drawOrder, func(a, b int) bool {
		return r.drawOrder[a].depth > r.drawOrder[b].depth
	})
}

func (r *Renderer) drawPoints(dst *ebiten.Image, s *scene.Scene, cam *Camera, hovered *scene.NodeSprite) {
	op := &ebiten.DrawImageOptions{}
	op.Blend = ebiten.BlendLighter

	for _, item := range r.drawOrder {
		switch item.kind {
		case kindNode:
			n := s.Nodes[item.index]
			col := nodeColor
			if n == hovered {
				col = hotColor
			}
			r.drawGlow(dst, op, n.Position(), cam, scene.PickRadius*n.Scale, n.Opacity, col)
		case kindSignal:
			sg := s.Signals[item.index]
			r.drawGlow(dst, op, sg.Pos, cam, 2.2, 0.85, signalColor)
		case kindSpark:
			sp := s.Sparks[item.index]
			r.drawGlow(dst, op, sp.Pos, cam, 3.4, 1, sparkColor)
		}
	}
}

func (r *Renderer) drawGlow(dst *ebiten.Image, op *ebiten.DrawImageOptions, pos space.Vec3, cam *Camera, worldRadius, alpha float64, col [3]float64) {
	sx, sy, depth, ok := cam.Project(pos)
	if !ok {
		return
	}
	px := worldRadius * cam.ScreenScale(depth)
	if px < 0.6 {
		px = 0.6
	}
	// The glow sprite reads about twice the solid radius.
	scalePx := px * 2 * 2 / glowSize

	op.GeoM.Reset()
	op.GeoM.Translate(-glowSize/2, -glowSize/2)
	op.GeoM.Scale(scalePx, scalePx)
	op.GeoM.Translate(sx, sy)
	op.ColorScale.Reset()
	op.ColorScale.Scale(float32(col[0]*alpha), float32(col[1]*alpha), float32(col[2]*alpha), float32(alpha))
	dst.DrawImage(r.glowImage, op)
}

func (r *Renderer) drawLabels(dst *ebiten.Image, s *scene.Scene, cam *Camera) {
	for _, n := range s.Nodes {
		if !n.Label.Visible || n.Label.Opacity <= 0 {
			continue
		}
		sx, sy, depth, ok := cam.Project(n.Position())
		if !ok {
			continue
		}
		// Labels for far nodes shrink below readability, skip them.
		size := labelFontSize * n.Label.Scale * clamp(cam.ScreenScale(depth)*3, 0.35, 1.4)
		if size < 5 {
			continue
		}
		face := &text.GoTextFace{Source: r.fontSource, Size: size}
		w, _ := text.Measure(n.Label.Text, face, 0)

		top := &text.DrawOptions{}
		top.GeoM.Translate(sx-w/2, sy+scene.PickRadius*n.Scale*cam.ScreenScale(depth)+3)
		top.ColorScale.Scale(0.85, 0.9, 1, float32(n.Label.Opacity))
		text.Draw(dst, n.Label.Text, face, top)
	}
}

// applyBloom downsamples the frame, smears it with a four-tap offset pass and
// composites it additively over the sharp frame.
func (r *Renderer) applyBloom(screen *ebiten.Image) {
	down := &ebiten.DrawImageOptions{}
	down.GeoM.Scale(1.0/bloomDownscale, 1.0/bloomDownscale)
	down.Filter = ebiten.FilterLinear
	r.bloomSmall.Clear()
	r.bloomSmall.DrawImage(r.frame, down)

	r.bloomBlur.Clear()
	blur := &ebiten.DrawImageOptions{}
	blur.Blend = ebiten.BlendLighter
	blur.Filter = ebiten.FilterLinear
	for _, off := range [][2]float64{{-1.5, 0}, {1.5, 0}, {0, -1.5}, {0, 1.5}} {
		blur.GeoM.Reset()
		blur.GeoM.Translate(off[0], off[1])
		blur.ColorScale.Reset()
		blur.ColorScale.Scale(0.3, 0.3, 0.3, 0.3)
		r.bloomBlur.DrawImage(r.bloomSmall, blur)
	}

	screen.DrawImage(r.frame, nil)

	up := &ebiten.DrawImageOptions{}
	up.GeoM.Scale(bloomDownscale, bloomDownscale)
	up.Filter = ebiten.FilterLinear
	up.Blend = ebiten.BlendLighter
	screen.DrawImage(r.bloomBlur, up)
}
