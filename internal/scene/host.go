package scene

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/olivierh59500/particle-backdrop/internal/render"
)

// Host runs independent scenes as stacked layers of one ebiten game. The
// first layer is drawn at the bottom.
type Host struct {
	layers     []*Scene
	background color.Color
	overlay    bool
	paused     bool
}

// NewHost composes layers over a solid background.
func NewHost(background color.Color, overlay bool, layers ...*Scene) *Host {
	return &Host{layers: layers, background: background, overlay: overlay}
}

func (h *Host) Layers() []*Scene { return h.layers }

// Paused reports whether stepping is suspended.
func (h *Host) Paused() bool { return h.paused }

// TogglePause suspends or resumes stepping. Drawing continues while paused,
// so the last frame stays on screen.
func (h *Host) TogglePause() { h.paused = !h.paused }

// Update is called each tick by ebiten and steps every layer once.
func (h *Host) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		h.overlay = !h.overlay
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		h.TogglePause()
	}
	return h.tick()
}

func (h *Host) tick() error {
	if h.paused {
		return nil
	}
	return h.Step()
}

// Step advances every layer by one logical frame.
func (h *Host) Step() error {
	for _, l := range h.layers {
		if err := l.Update(); err != nil {
			return err
		}
	}
	return nil
}

// Draw is called each frame by ebiten.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(h.background)
	for _, l := range h.layers {
		l.Draw(screen)
	}
	if h.overlay {
		ebitenutil.DebugPrintAt(screen, h.status(), 8, 8)
	}
}

func (h *Host) status() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TPS %.0f  FPS %.0f\n", ebiten.ActualTPS(), ebiten.ActualFPS())
	if h.paused {
		b.WriteString("paused (space)\n")
	}
	for _, l := range h.layers {
		vp := l.Viewport()
		fmt.Fprintf(&b, "%s: %d bodies, %d edges, %s, %.0fx%.0f\n",
			l.Kind(), len(l.Bodies()), len(l.Edges()), l.Renderer().Name(), vp.Width, vp.Height)
	}
	return b.String()
}

// Layout follows the window so the background always fills it.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	for _, l := range h.layers {
		l.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Advance runs n steps without a display, painting every layer that can
// target a canvas onto c after each step.
func (h *Host) Advance(n int, c render.Canvas) error {
	for i := 0; i < n; i++ {
		if err := h.Step(); err != nil {
			return err
		}
		if c == nil {
			continue
		}
		for _, l := range h.layers {
			l.Paint(c)
		}
	}
	return nil
}
