package anim

import (
	"errors"
	"fmt"
	"math"

	"github.com/semspace/semspace/pkg/interact"
	"github.com/semspace/semspace/pkg/logger"
	"github.com/semspace/semspace/pkg/scene"
	"github.com/semspace/semspace/pkg/space"
)

// FrameError reports a failure inside one animation-loop iteration. It is
// contained: the loop logs it and continues with the next frame.
type FrameError struct {
	Frame uint64
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("anim: frame %d: %v", e.Frame, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// ErrLoopStopped is returned by Step after Stop or after the loop escalated a
// run of consecutive frame failures into a terminal error.
var ErrLoopStopped = errors.New("anim: loop stopped")

// Config tunes the per-frame animation behavior. Zero values select defaults.
type Config struct {
	// SignalSpeed is the per-frame progress increment of edge signals.
	SignalSpeed float64
	// SparkSpeed is the per-frame progress increment of hover sparks.
	SparkSpeed float64
	// BreathePeriod is the period in seconds of the shared edge opacity pulse.
	BreathePeriod float64
	// FloatAmplitude is the vertical jitter amplitude in display units.
	FloatAmplitude float64
	// FloatPeriod is the period in seconds of the node floating motion.
	FloatPeriod float64
	// MaxConsecutiveFailures is the number of consecutive frame errors that
	// escalate to a terminal reported error instead of silent looping.
	MaxConsecutiveFailures int
}

func (c Config) withDefaults() Config {
	if c.SignalSpeed == 0 {
		c.SignalSpeed = 0.004
	}
	if c.SparkSpeed == 0 {
		c.SparkSpeed = 0.02
	}
	if c.BreathePeriod == 0 {
		c.BreathePeriod = 4
	}
	if c.FloatAmplitude == 0 {
		c.FloatAmplitude = 2.5
	}
	if c.FloatPeriod == 0 {
		c.FloatPeriod = 6
	}
	if c.MaxConsecutiveFailures == 0 {
		c.MaxConsecutiveFailures = 3
	}
	return c
}

// PointerFunc supplies the current pointer ray. ok is false while the pointer
// is outside the viewport.
type PointerFunc func() (ray space.Ray, ok bool)

// SubmitFunc hands the finished frame to the render pipeline.
type SubmitFunc func() error

// Loop advances the scene one iteration per display frame. It is cooperative
// and single-writer: every state transition runs on the host's frame callback.
type Loop struct {
	scene  *scene.Scene
	engine *interact.Engine
	cfg    Config

	pointer PointerFunc
	submit  SubmitFunc

	frame       uint64
	clock       float64
	consecutive int
	terminalErr error
	stopped     bool
}

// NewLoop creates the animation loop. pointer and submit may be nil; the
// corresponding steps are then skipped.
func NewLoop(s *scene.Scene, e *interact.Engine, cfg Config, pointer PointerFunc, submit SubmitFunc) *Loop {
	return &Loop{
		scene:   s,
		engine:  e,
		cfg:     cfg.withDefaults(),
		pointer: pointer,
		submit:  submit,
	}
}

// Frame returns the number of completed iterations.
func (l *Loop) Frame() uint64 {
	return l.frame
}

// Err returns the terminal error after escalation, nil while healthy.
func (l *Loop) Err() error {
	return l.terminalErr
}

// Stop halts the loop. Subsequent Step calls are no-ops returning
// ErrLoopStopped and no further frames are submitted.
func (l *Loop) Stop() {
	l.stopped = true
}

// Step runs one iteration, advancing the loop clock by delta seconds. A
// failing frame is contained and logged; the loop keeps running unless the
// configured number of consecutive failures is reached, which escalates to a
// terminal error state.
func (l *Loop) Step(delta float64) error {
	if l.stopped {
		return ErrLoopStopped
	}

	l.clock += delta
	err := l.runFrame()
	l.frame++

	if err == nil {
		l.consecutive = 0
		return nil
	}

	frameErr := &FrameError{Frame: l.frame - 1, Err: err}
	l.consecutive++
	logger.Error("[Anim] Frame failed", "frame", frameErr.Frame, "err", err, "consecutive", l.consecutive)

	if l.consecutive >= l.cfg.MaxConsecutiveFailures {
		l.terminalErr = fmt.Errorf("anim: %d consecutive frame failures: %w", l.consecutive, err)
		l.stopped = true
		return l.terminalErr
	}
	return nil
}

func (l *Loop) runFrame() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	l.breathe()
	l.float()
	l.advanceSignals()
	l.hoverPass()

	if l.submit != nil {
		if submitErr := l.submit(); submitErr != nil {
			return fmt.Errorf("frame submit: %w", submitErr)
		}
	}
	return nil
}

// breathe writes the shared periodic opacity onto every edge not currently
// overridden by an active highlight.
func (l *Loop) breathe() {
	mid := (scene.BreathingMinOpacity + scene.BreathingMaxOpacity) / 2
	amp := (scene.BreathingMaxOpacity - scene.BreathingMinOpacity) / 2
	opacity := mid + amp*math.Sin(2*math.Pi*l.clock/l.cfg.BreathePeriod)

	for _, e := range l.scene.Edges {
		if e.Overridden {
			continue
		}
		e.Opacity = opacity
	}
}

// float applies the idle vertical jitter. Base positions and edge geometry are
// untouched; only the displayed offset moves.
func (l *Loop) float() {
	for _, n := range l.scene.Nodes {
		n.FloatOffset = l.cfg.FloatAmplitude * math.Sin(2*math.Pi*l.clock/l.cfg.FloatPeriod+n.Phase)
	}
}

// advanceSignals moves every signal by one increment, wrapping at 1, and
// interpolates its position along the edge. Active sparks travel the same way
// at their own speed.
func (l *Loop) advanceSignals() {
	for _, sig := range l.scene.Signals {
		sig.Progress += l.cfg.SignalSpeed
		if sig.Progress >= 1 {
			sig.Progress -= 1
		}
		edge := l.scene.Edges[sig.EdgeIndex]
		sig.Pos = edge.From.Lerp(edge.To, sig.Progress)
	}

	for _, sp := range l.scene.Sparks {
		if !sp.Active {
			continue
		}
		sp.Progress += l.cfg.SparkSpeed
		if sp.Progress >= 1 {
			sp.Progress -= 1
		}
		edge := l.scene.Edges[sp.EdgeIndex]
		sp.Pos = edge.From.Lerp(edge.To, sp.Progress)
	}
}

func (l *Loop) hoverPass() {
	if l.pointer == nil {
		return
	}
	ray, ok := l.pointer()
	if !ok {
		return
	}
	l.engine.UpdateHover(ray)
}
