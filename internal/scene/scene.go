// Package scene owns one background effect: its bodies, edges, clock and
// renderer, driven one logical step per tick.
package scene

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pion/logging"
	"github.com/pkg/errors"

	"github.com/olivierh59500/particle-backdrop/internal/body"
	"github.com/olivierh59500/particle-backdrop/internal/config"
	"github.com/olivierh59500/particle-backdrop/internal/graph"
	"github.com/olivierh59500/particle-backdrop/internal/render"
)

// TimeStep is the clock increment per step, in milliseconds.
const TimeStep = 16

// Kind identifies which effect a scene runs.
type Kind uint8

const (
	Network Kind = iota
	Cloud
)

func (k Kind) String() string {
	if k == Cloud {
		return "cloud"
	}
	return "network"
}

// Options are the collaborators a scene is built with.
type Options struct {
	Backend render.Backend // nil when no GPU context is available
	Rand    *rand.Rand
	Logger  logging.LoggerFactory
}

func (o Options) withDefaults() Options {
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Logger == nil {
		o.Logger = logging.NewDefaultLoggerFactory()
	}
	return o
}

// Scene is one independent instance of a background effect.
type Scene struct {
	ID   uuid.UUID
	kind Kind

	sim      *body.Simulator
	renderer render.Renderer
	bodies   []body.Body
	edges    []graph.Edge
	time     float64

	mu       sync.Mutex
	viewport body.Viewport

	canvas *ebiten.Image
	log    logging.LeveledLogger
}

// NewNetwork builds the node and particle scene, including its proximity graph.
func NewNetwork(cfg config.Network, vp body.Viewport, opts Options) (*Scene, error) {
	opts = opts.withDefaults()
	nodes, particles, err := cfg.Specs()
	if err != nil {
		return nil, errors.Wrap(err, "network scene")
	}
	edgeColor, err := config.Color(cfg.EdgeColor)
	if err != nil {
		return nil, errors.Wrap(err, "network scene")
	}
	style := render.Style{
		NodeAlpha:  cfg.NodeAlpha,
		EdgeColor:  edgeColor,
		EdgeAlpha:  cfg.EdgeAlpha,
		EdgeWidth:  cfg.EdgeWidth,
		TrailAlpha: cfg.TrailAlpha,
	}

	s := newScene(Network, vp, opts)
	s.renderer = s.selectRenderer(opts.Backend, render.NetworkMotion(), style)
	s.sim = body.NewSimulator(body.NetworkRules(nodes, particles), opts.Rand)

	s.bodies = body.SpawnNodes(nodes, vp, opts.Rand)
	s.edges = graph.Build(graph.Positions(s.bodies, nodes.Count), cfg.Threshold)
	s.bodies = append(s.bodies, body.SpawnParticles(particles, vp, opts.Rand)...)

	s.log.Infof("scene %s: %d nodes, %d edges, %d particles, %s renderer",
		s.ID, nodes.Count, len(s.edges), particles.Count, s.renderer.Name())
	return s, nil
}

// NewCloud builds the drifting cloud scene.
func NewCloud(cfg config.Cloud, vp body.Viewport, opts Options) (*Scene, error) {
	opts = opts.withDefaults()
	spec, err := cfg.Spec()
	if err != nil {
		return nil, errors.Wrap(err, "cloud scene")
	}
	style := render.Style{CloudAlpha: cfg.AlphaScale}

	s := newScene(Cloud, vp, opts)
	s.renderer = s.selectRenderer(opts.Backend, render.CloudMotion(), style)
	s.sim = body.NewSimulator(body.CloudRules(spec), opts.Rand)
	s.bodies = body.SpawnClouds(spec, vp, opts.Rand)

	s.log.Infof("scene %s: %d clouds, %s renderer", s.ID, spec.Count, s.renderer.Name())
	return s, nil
}

func newScene(kind Kind, vp body.Viewport, opts Options) *Scene {
	return &Scene{
		ID:       uuid.New(),
		kind:     kind,
		viewport: vp,
		log:      opts.Logger.NewLogger("scene/" + kind.String()),
	}
}

// selectRenderer tries the GPU path once. Any failure is permanent for the
// life of the scene.
func (s *Scene) selectRenderer(b render.Backend, m render.Motion, st render.Style) render.Renderer {
	r, err := render.NewShaderRenderer(b, m, st)
	if err != nil {
		s.log.Warnf("scene %s: GPU path unavailable, using fallback: %v", s.ID, err)
		return render.NewFallback(st)
	}
	return r
}

func (s *Scene) Kind() Kind                { return s.kind }
func (s *Scene) Renderer() render.Renderer { return s.renderer }
func (s *Scene) Bodies() []body.Body       { return s.bodies }
func (s *Scene) Edges() []graph.Edge       { return s.edges }
func (s *Scene) Time() float64             { return s.time }

// Resize stores new viewport bounds. It is safe to call while a frame is
// being drawn; the next step or draw picks the new size up.
func (s *Scene) Resize(width, height int) {
	vp := body.Viewport{Width: float64(width), Height: float64(height)}
	s.mu.Lock()
	changed := vp != s.viewport
	s.viewport = vp
	s.mu.Unlock()
	if changed {
		s.log.Debugf("scene %s: viewport %dx%d", s.ID, width, height)
	}
}

// Viewport returns the latest stored bounds.
func (s *Scene) Viewport() body.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// Update advances the simulation by one fixed step and the clock by TimeStep.
func (s *Scene) Update() error {
	s.sim.Step(s.bodies, s.Viewport())
	s.time += TimeStep
	return nil
}

// Frame snapshots what the renderer needs for a draw.
func (s *Scene) Frame() render.Frame {
	return render.Frame{
		Bodies:   s.bodies,
		Edges:    s.edges,
		Viewport: s.Viewport(),
		Time:     s.time,
	}
}

// Draw renders onto the scene's own canvas and composites it onto screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	f := s.Frame()
	w, h := int(f.Viewport.Width), int(f.Viewport.Height)
	if w <= 0 || h <= 0 {
		return
	}
	if s.canvas == nil || s.canvas.Bounds().Dx() != w || s.canvas.Bounds().Dy() != h {
		if s.canvas != nil {
			s.canvas.Deallocate()
		}
		s.canvas = ebiten.NewImage(w, h)
	}
	s.renderer.Draw(s.canvas, f)
	screen.DrawImage(s.canvas, nil)
}

// Paint draws the current frame on c when the active renderer supports
// arbitrary canvases. It reports whether anything was painted.
func (s *Scene) Paint(c render.Canvas) bool {
	p, ok := s.renderer.(render.Painter)
	if !ok {
		return false
	}
	p.Paint(c, s.Frame())
	return true
}
