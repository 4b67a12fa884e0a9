package config

import (
	"github.com/pion/logging"
	"github.com/pkg/errors"

	"github.com/olivierh59500/particle-backdrop/internal/body"
)

// LogLevels maps the accepted log_level names onto logger levels.
var LogLevels = map[string]logging.LogLevel{
	"disabled": logging.LogLevelDisabled,
	"error":    logging.LogLevelError,
	"warn":     logging.LogLevelWarn,
	"info":     logging.LogLevelInfo,
	"debug":    logging.LogLevelDebug,
	"trace":    logging.LogLevelTrace,
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return errors.Errorf("window tps %d must be positive", c.Window.TPS)
	}
	switch c.Renderer {
	case RendererAuto, RendererFallback:
	default:
		return errors.Errorf("unknown renderer %q", c.Renderer)
	}
	if _, ok := LogLevels[c.LogLevel]; !ok {
		return errors.Errorf("unknown log level %q", c.LogLevel)
	}
	if _, err := Color(c.Background); err != nil {
		return errors.Wrap(err, "background")
	}
	if _, _, err := c.Network.Specs(); err != nil {
		return errors.Wrap(err, "network")
	}
	if _, err := c.Cloud.Spec(); err != nil {
		return errors.Wrap(err, "cloud")
	}
	return nil
}

func checkRange(name string, r body.Range) error {
	if r.Min > r.Max {
		return errors.Errorf("%s range [%g, %g] is inverted", name, r.Min, r.Max)
	}
	return nil
}

func classes(in []Class, count int) ([]body.Class, error) {
	if count < 0 {
		return nil, errors.Errorf("count %d is negative", count)
	}
	if count > 0 && len(in) == 0 {
		return nil, errors.New("no classes configured")
	}
	var total float64
	out := make([]body.Class, 0, len(in))
	for _, c := range in {
		if c.Weight < 0 {
			return nil, errors.Errorf("class %q has negative weight", c.Name)
		}
		from, err := Color(c.From)
		if err != nil {
			return nil, errors.Wrapf(err, "class %q", c.Name)
		}
		to, err := Color(c.To)
		if err != nil {
			return nil, errors.Wrapf(err, "class %q", c.Name)
		}
		if err := checkRange(c.Name+" size", c.Size); err != nil {
			return nil, err
		}
		if err := checkRange(c.Name+" speed", c.Speed); err != nil {
			return nil, err
		}
		total += c.Weight
		out = append(out, body.Class{Name: c.Name, Weight: c.Weight, From: from, To: to, Size: c.Size, Speed: c.Speed})
	}
	if count > 0 && total <= 0 {
		return nil, errors.New("class weights sum to zero")
	}
	return out, nil
}

// Specs resolves the node and particle specs.
func (n Network) Specs() (body.NodeSpec, body.ParticleSpec, error) {
	var ns body.NodeSpec
	var ps body.ParticleSpec
	if n.Threshold < 0 {
		return ns, ps, errors.Errorf("threshold %g is negative", n.Threshold)
	}
	if _, err := Color(n.EdgeColor); err != nil {
		return ns, ps, errors.Wrap(err, "edge color")
	}
	for name, r := range map[string]body.Range{
		"phase speed":   n.Nodes.PhaseSpeed,
		"damping":       n.Nodes.Damping,
		"particle size": n.Particles.Size,
		"trail":         n.Particles.Trail,
	} {
		if err := checkRange(name, r); err != nil {
			return ns, ps, err
		}
	}
	if n.Particles.Trail.Min < 0 {
		return ns, ps, errors.New("trail length is negative")
	}
	if n.Particles.LifeStep <= 0 {
		return ns, ps, errors.Errorf("particle life step %g must be positive", n.Particles.LifeStep)
	}
	// Bounces lose some speed but never all of it.
	if n.Nodes.Damping.Min <= 0 || n.Nodes.Damping.Max > 1 {
		return ns, ps, errors.Errorf("damping range [%g, %g] must lie in (0, 1]", n.Nodes.Damping.Min, n.Nodes.Damping.Max)
	}

	nodeClasses, err := classes(n.Nodes.Classes, n.Nodes.Count)
	if err != nil {
		return ns, ps, errors.Wrap(err, "nodes")
	}
	particleClasses, err := classes(n.Particles.Classes, n.Particles.Count)
	if err != nil {
		return ns, ps, errors.Wrap(err, "particles")
	}

	ns = body.NodeSpec{
		Count:      n.Nodes.Count,
		Speed:      n.Nodes.Speed,
		PhaseSpeed: n.Nodes.PhaseSpeed,
		Pulse:      n.Nodes.Pulse,
		Damping:    n.Nodes.Damping,
		Jitter:     n.Nodes.Jitter,
		Classes:    nodeClasses,
	}
	ps = body.ParticleSpec{
		Count:      n.Particles.Count,
		Size:       n.Particles.Size,
		Trail:      n.Particles.Trail,
		LifeStep:   n.Particles.LifeStep,
		CenterPull: n.Particles.CenterPull,
		Classes:    particleClasses,
	}
	return ns, ps, nil
}

// Spec resolves the cloud spec.
func (c Cloud) Spec() (body.CloudSpec, error) {
	var cs body.CloudSpec
	if c.Count < 0 {
		return cs, errors.Errorf("count %d is negative", c.Count)
	}
	if err := checkRange("size", c.Size); err != nil {
		return cs, err
	}
	if err := checkRange("alpha", c.Alpha); err != nil {
		return cs, err
	}
	if c.Margin < 0 {
		return cs, errors.Errorf("margin %g is negative", c.Margin)
	}
	tint, err := Color(c.Tint)
	if err != nil {
		return cs, errors.Wrap(err, "tint")
	}
	return body.CloudSpec{
		Count:      c.Count,
		Size:       c.Size,
		Alpha:      c.Alpha,
		DriftX:     c.DriftX,
		DriftY:     c.DriftY,
		Margin:     c.Margin,
		Tint:       tint,
		Noise:      c.Noise,
		NoiseScale: c.NoiseScale,
	}, nil
}
