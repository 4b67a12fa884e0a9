// Package config loads the scene configuration. Values are resolved into
// immutable body specs when a scene is built.
package config

import (
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/olivierh59500/particle-backdrop/internal/body"
)

// Renderer modes.
const (
	RendererAuto     = "auto"
	RendererFallback = "fallback"
)

type Config struct {
	Window     Window  `yaml:"window"`
	Renderer   string  `yaml:"renderer"`
	Background string  `yaml:"background"`
	LogLevel   string  `yaml:"log_level"`
	Debug      bool    `yaml:"debug"`
	Seed       int64   `yaml:"seed"` // 0 seeds from the clock
	Network    Network `yaml:"network"`
	Cloud      Cloud   `yaml:"cloud"`
}

type Window struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	TPS       int    `yaml:"tps"`
	Resizable bool   `yaml:"resizable"`
}

// Class is a weighted node or particle category. Colors are hex strings and
// each channel is sampled between From and To.
type Class struct {
	Name   string     `yaml:"name"`
	Weight float64    `yaml:"weight"`
	From   string     `yaml:"from"`
	To     string     `yaml:"to"`
	Size   body.Range `yaml:"size,omitempty"`
	Speed  body.Range `yaml:"speed,omitempty"`
}

type Nodes struct {
	Count      int        `yaml:"count"`
	Speed      float64    `yaml:"speed"`
	PhaseSpeed body.Range `yaml:"phase_speed"`
	Pulse      float64    `yaml:"pulse"`
	Damping    body.Range `yaml:"damping"`
	Jitter     float64    `yaml:"jitter"`
	Classes    []Class    `yaml:"classes"`
}

type Particles struct {
	Count      int        `yaml:"count"`
	Size       body.Range `yaml:"size"`
	Trail      body.Range `yaml:"trail"`
	LifeStep   float64    `yaml:"life_step"`
	CenterPull float64    `yaml:"center_pull"`
	Classes    []Class    `yaml:"classes"`
}

type Network struct {
	Enabled    bool      `yaml:"enabled"`
	Threshold  float64   `yaml:"threshold"`
	EdgeColor  string    `yaml:"edge_color"`
	EdgeAlpha  float64   `yaml:"edge_alpha"`
	EdgeWidth  float64   `yaml:"edge_width"`
	NodeAlpha  float64   `yaml:"node_alpha"`
	TrailAlpha float64   `yaml:"trail_alpha"`
	Nodes      Nodes     `yaml:"nodes"`
	Particles  Particles `yaml:"particles"`
}

type Cloud struct {
	Enabled    bool       `yaml:"enabled"`
	Count      int        `yaml:"count"`
	Size       body.Range `yaml:"size"`
	Alpha      body.Range `yaml:"alpha"`
	DriftX     float64    `yaml:"drift_x"`
	DriftY     float64    `yaml:"drift_y"`
	Margin     float64    `yaml:"margin"`
	Tint       string     `yaml:"tint"`
	AlphaScale float64    `yaml:"alpha_scale"`
	Noise      bool       `yaml:"noise"`
	NoiseScale float64    `yaml:"noise_scale"`
}

// Default returns the stock background: 80 nodes, 150 particles and 60 clouds.
func Default() Config {
	return Config{
		Window: Window{
			Width:     1280,
			Height:    720,
			Title:     "Particle Backdrop",
			TPS:       60,
			Resizable: true,
		},
		Renderer:   RendererAuto,
		Background: "#0a0f1e",
		LogLevel:   "info",
		Network: Network{
			Enabled:    true,
			Threshold:  150,
			EdgeColor:  "#00ff80",
			EdgeAlpha:  0.3,
			EdgeWidth:  1,
			NodeAlpha:  0.8,
			TrailAlpha: 0.35,
			Nodes: Nodes{
				Count:      80,
				Speed:      0.8,
				PhaseSpeed: body.Range{Min: 0.02, Max: 0.05},
				Pulse:      2,
				Damping:    body.Range{Min: 0.8, Max: 1.0},
				Jitter:     0.05,
				Classes: []Class{
					{Name: "primary", Weight: 0.4, From: "#00ff80", To: "#00ffff", Size: body.Range{Min: 4, Max: 14}},
					{Name: "data", Weight: 0.3, From: "#00ccff", To: "#00ffff", Size: body.Range{Min: 2, Max: 8}},
					{Name: "processing", Weight: 0.2, From: "#ff0080", To: "#ff00ff", Size: body.Range{Min: 3, Max: 11}},
					{Name: "neural", Weight: 0.1, From: "#8000ff", To: "#ff00ff", Size: body.Range{Min: 5, Max: 17}},
				},
			},
			Particles: Particles{
				Count:      150,
				Size:       body.Range{Min: 0.5, Max: 3},
				Trail:      body.Range{Min: 5, Max: 15},
				LifeStep:   0.008,
				CenterPull: 0.001,
				Classes: []Class{
					{Name: "data", Weight: 0.5, From: "#00cc99", To: "#00ffff", Speed: body.Range{Min: 1, Max: 3}},
					{Name: "signal", Weight: 0.3, From: "#00e6ff", To: "#00ffff", Speed: body.Range{Min: 0.5, Max: 2}},
					{Name: "energy", Weight: 0.2, From: "#ff00b3", To: "#ff00ff", Speed: body.Range{Min: 1.5, Max: 4}},
				},
			},
		},
		Cloud: Cloud{
			Enabled:    true,
			Count:      60,
			Size:       body.Range{Min: 20, Max: 100},
			Alpha:      body.Range{Min: 0.2, Max: 0.8},
			DriftX:     0.3,
			DriftY:     0.2,
			Margin:     100,
			Tint:       "#cce6ff",
			AlphaScale: 0.4,
			NoiseScale: 0.004,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	return data, errors.Wrap(err, "encode config")
}

// Color parses a hex color such as "#00ff80".
func Color(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return c, errors.Wrapf(err, "color %q", hex)
	}
	return c, nil
}
