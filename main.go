package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pion/logging"
	"github.com/pkg/errors"

	"github.com/olivierh59500/particle-backdrop/internal/body"
	"github.com/olivierh59500/particle-backdrop/internal/config"
	"github.com/olivierh59500/particle-backdrop/internal/render"
	"github.com/olivierh59500/particle-backdrop/internal/scene"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	renderer := flag.String("renderer", "", "override renderer: auto or fallback")
	headless := flag.Bool("headless", false, "run without a window and report primitive counts")
	frames := flag.Int("frames", 600, "steps to run in headless mode")
	dumpConfig := flag.Bool("dump-config", false, "print the effective configuration and exit")
	flag.Parse()

	if err := run(*configPath, *renderer, *headless, *frames, *dumpConfig); err != nil {
		fmt.Fprintf(os.Stderr, "backdrop: %+v\n", err)
		os.Exit(1)
	}
}

func run(configPath, renderer string, headless bool, frames int, dumpConfig bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if renderer != "" {
		cfg.Renderer = renderer
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if dumpConfig {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	loggers := logging.NewDefaultLoggerFactory()
	loggers.DefaultLogLevel = config.LogLevels[cfg.LogLevel]
	if cfg.Debug {
		loggers.DefaultLogLevel = logging.LogLevelDebug
	}
	log := loggers.NewLogger("backdrop")
	if cfg.Debug {
		log.Debugf("configuration:\n%s", spew.Sdump(cfg))
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Infof("seed %d", seed)

	// The GPU path is only attempted when there is a window to own its context.
	var backend render.Backend
	if cfg.Renderer != config.RendererFallback && !headless {
		backend = render.GPU{}
	}

	background, err := config.Color(cfg.Background)
	if err != nil {
		return err
	}
	vp := body.Viewport{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)}

	var layers []*scene.Scene
	if cfg.Cloud.Enabled {
		s, err := scene.NewCloud(cfg.Cloud, vp, scene.Options{
			Backend: backend,
			Rand:    rand.New(rand.NewSource(seed)),
			Logger:  loggers,
		})
		if err != nil {
			return err
		}
		layers = append(layers, s)
	}
	if cfg.Network.Enabled {
		s, err := scene.NewNetwork(cfg.Network, vp, scene.Options{
			Backend: backend,
			Rand:    rand.New(rand.NewSource(seed + 1)),
			Logger:  loggers,
		})
		if err != nil {
			return err
		}
		layers = append(layers, s)
	}
	host := scene.NewHost(background, cfg.Debug, layers...)

	if headless {
		return runHeadless(host, frames, log)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Window.TPS)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	if err := ebiten.RunGame(host); err != nil && !errors.Is(err, ebiten.Termination) {
		return errors.Wrap(err, "run game")
	}
	return nil
}

func runHeadless(host *scene.Host, frames int, log logging.LeveledLogger) error {
	var tally render.Tally
	start := time.Now()
	if err := host.Advance(frames, &tally); err != nil {
		return err
	}
	log.Infof("%d steps in %s: %d clears, %d circles, %d lines",
		frames, time.Since(start).Round(time.Millisecond), tally.Clears, tally.Circles, tally.Lines)

	for _, l := range host.Layers() {
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, b := range l.Bodies() {
			minX, maxX = math.Min(minX, b.X), math.Max(maxX, b.X)
			minY, maxY = math.Min(minY, b.Y), math.Max(maxY, b.Y)
		}
		log.Infof("%s %s: %d bodies within x [%.1f, %.1f] y [%.1f, %.1f] at t=%.0fms",
			l.Kind(), l.ID, len(l.Bodies()), minX, maxX, minY, maxY, l.Time())
	}
	return nil
}
