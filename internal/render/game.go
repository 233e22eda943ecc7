package render

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/semspace/semspace/internal/scenery"
	"github.com/semspace/semspace/pkg/anim"
	"github.com/semspace/semspace/pkg/interact"
	"github.com/semspace/semspace/pkg/scene"
	"github.com/semspace/semspace/pkg/space"
)

// Stats is the per-frame summary published to observers.
type Stats struct {
	Frame   uint64 `json:"frame"`
	Mode    string `json:"mode"`
	Hovered string `json:"hovered,omitempty"`
	Query   string `json:"query,omitempty"`
	Matched int    `json:"matched"`
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
}

// StatsFunc receives the frame summary. Implementations must not block.
type StatsFunc func(Stats)

// Game wires the animation loop, interaction engine and renderer into the
// ebiten run loop. Update owns all state mutation; Draw only reads.
type Game struct {
	scene    *scene.Scene
	engine   *interact.Engine
	loop     *anim.Loop
	camera   *Camera
	renderer *Renderer
	stars    *scenery.Starfield

	width  int
	height int

	query      []rune
	lastUpdate time.Time

	dragging   bool
	lastMouseX int
	lastMouseY int

	onStats StatsFunc
}

type GameOptions struct {
	Width   int
	Height  int
	Anim    anim.Config
	OnStats StatsFunc
}

func NewGame(s *scene.Scene, e *interact.Engine, opts GameOptions) (*Game, error) {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}

	r, err := NewRenderer(opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	g := &Game{
		scene:    s,
		engine:   e,
		camera:   NewCamera(opts.Width, opts.Height),
		renderer: r,
		stars:    scenery.NewStarfield(opts.Width, opts.Height, 0),
		width:    opts.Width,
		height:   opts.Height,
		onStats:  opts.OnStats,
	}
	// The loop reads the pointer through the camera so hover picking sees the
	// current orbit state; submission publishes the frame stats.
	g.loop = anim.NewLoop(s, e, opts.Anim, g.pointerRay, g.submitFrame)
	return g, nil
}

// Loop exposes the animation loop for lifecycle control.
func (g *Game) Loop() *anim.Loop {
	return g.loop
}

func (g *Game) pointerRay() (space.Ray, bool) {
	if g.dragging {
		return space.Ray{}, false
	}
	mx, my := ebiten.CursorPosition()
	if mx < 0 || my < 0 || mx >= g.width || my >= g.height {
		return space.Ray{}, false
	}
	return g.camera.PickRay(float64(mx), float64(my)), true
}

func (g *Game) submitFrame() error {
	if g.onStats == nil {
		return nil
	}
	g.onStats(Stats{
		Frame:   g.loop.Frame(),
		Mode:    g.engine.Mode().String(),
		Hovered: g.engine.Hovered(),
		Query:   g.engine.Query(),
		Matched: g.engine.MatchedCount(),
		Nodes:   len(g.scene.Nodes),
		Edges:   len(g.scene.Edges),
	})
	return nil
}

func (g *Game) Update() error {
	now := time.Now()
	elapsed := 1.0 / 60.0
	if !g.lastUpdate.IsZero() {
		elapsed = now.Sub(g.lastUpdate).Seconds()
		if elapsed > 0.25 {
			elapsed = 0.25
		}
	}
	g.lastUpdate = now

	g.handleCamera()
	g.handleTyping()
	g.stars.Advance(elapsed)

	if err := g.loop.Step(elapsed); err != nil {
		if errors.Is(err, anim.ErrLoopStopped) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *Game) handleCamera() {
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		mx, my := ebiten.CursorPosition()
		if g.dragging {
			g.camera.Orbit(float64(mx-g.lastMouseX)*0.008, float64(my-g.lastMouseY)*0.008)
		}
		g.dragging = true
		g.lastMouseX, g.lastMouseY = mx, my
	} else {
		g.dragging = false
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.camera.Zoom(wy)
	}
}

// handleTyping maintains the search query from keyboard input. Escape clears,
// backspace trims; anything printable appends.
func (g *Game) handleTyping() {
	changed := false

	for _, r := range ebiten.AppendInputChars(nil) {
		if r >= ' ' {
			g.query = append(g.query, r)
			changed = true
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(g.query) > 0 {
		g.query = g.query[:len(g.query)-1]
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && len(g.query) > 0 {
		g.query = g.query[:0]
		changed = true
	}

	if changed {
		g.engine.SetQuery(string(g.query))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.stars.Draw(screen)

	var hovered *scene.NodeSprite
	if word := g.engine.Hovered(); word != "" {
		if n, ok := g.scene.NodeByWord(word); ok {
			hovered = n
		}
	}
	g.renderer.Draw(screen, g.scene, g.camera, hovered)
	g.drawHUD(screen)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	face := &text.GoTextFace{Source: g.renderer.fontSource, Size: 14}

	line := fmt.Sprintf("%d nodes  %d edges", len(g.scene.Nodes), len(g.scene.Edges))
	switch g.engine.Mode() {
	case interact.ModeHover:
		line += "  |  " + g.engine.Hovered()
	case interact.ModeSearch:
		line += fmt.Sprintf("  |  /%s  (%d matched)", g.engine.Query(), g.engine.MatchedCount())
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(12, float64(g.height)-24)
	op.ColorScale.ScaleWithColor(color.RGBA{R: 160, G: 180, B: 210, A: 255})
	text.Draw(screen, line, face, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
