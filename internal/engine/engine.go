package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivlev/pathcam/internal/config"
	"github.com/ivlev/pathcam/internal/events"
	"github.com/ivlev/pathcam/internal/motion"
	"github.com/ivlev/pathcam/internal/source"
	"github.com/ivlev/pathcam/internal/spline"
	"github.com/ivlev/pathcam/internal/tween"
)

// ErrNoData is returned by Start when there is nothing to play.
var ErrNoData = errors.New("no waypoint data")

// State of a Player.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Player drives a transform along a waypoint path. It owns the playback
// state: at most one chain is active, and every callback of a chain is
// tagged with the generation it was launched in so that a stopped or
// restarted run can never notify late.
//
// A Player is not safe for concurrent use; call Start, Stop and Tick from
// the same goroutine (the frame loop).
type Player struct {
	Config *config.Config
	Target motion.Transform
	Bus    *events.Bus
	Loader *source.Loader
	Log    *zap.Logger

	seq       *motion.Sequencer
	registry  BehaviorRegistry
	behaviors []Behavior
	suspended []Behavior

	state      State
	chain      *tween.Chain
	generation uint64
	dataset    *source.Dataset
	plan       motion.Plan
	runID      uuid.UUID
	pass       int
	elapsed    float64
}

// Option customizes a Player.
type Option func(*Player)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Player) { p.Log = log }
}

// WithBus sets the bus notifications are published on.
func WithBus(bus *events.Bus) Option {
	return func(p *Player) { p.Bus = bus }
}

// WithLoader sets the loader used by Load.
func WithLoader(l *source.Loader) Option {
	return func(p *Player) { p.Loader = l }
}

// WithBehaviors sets the registry the configured behavior names are
// resolved against.
func WithBehaviors(registry BehaviorRegistry) Option {
	return func(p *Player) { p.registry = registry }
}

// NewPlayer validates cfg and creates an idle Player for target.
func NewPlayer(cfg *config.Config, target motion.Transform, opts ...Option) (*Player, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if target == nil {
		return nil, errors.New("player needs a target transform")
	}

	seqOpts, err := SequencerOptions(cfg)
	if err != nil {
		return nil, err
	}

	p := &Player{Config: cfg, Target: target}
	for _, opt := range opts {
		opt(p)
	}
	if p.Log == nil {
		p.Log = zap.NewNop()
	}
	if p.Bus == nil {
		p.Bus = events.NewBus()
	}
	if p.Loader == nil {
		p.Loader = source.NewLoader(cfg.FetchTimeout, p.Log)
	}
	p.seq = motion.NewSequencer(seqOpts, p.Log.Named("sequencer"))
	p.resolveBehaviors()

	return p, nil
}

// resolveBehaviors looks every configured name up once. Unknown names are
// logged and ignored.
func (p *Player) resolveBehaviors() {
	if p.registry == nil {
		if len(p.Config.SuspendBehaviors) > 0 {
			p.Log.Warn("behaviors configured without a registry", zap.Strings("behaviors", p.Config.SuspendBehaviors))
		}
		return
	}
	for _, name := range p.Config.SuspendBehaviors {
		b, ok := p.registry.Behavior(name)
		if !ok {
			p.Log.Warn("behavior not found", zap.String("behavior", name))
			continue
		}
		p.behaviors = append(p.behaviors, b)
	}
}

// SequencerOptions converts configuration into plan building options.
func SequencerOptions(cfg *config.Config) (motion.Options, error) {
	mode, err := motion.ParseMode(cfg.Mode)
	if err != nil {
		return motion.Options{}, err
	}
	ease, err := tween.ByName(cfg.Easing)
	if err != nil {
		return motion.Options{}, err
	}
	return motion.Options{
		Mode:             mode,
		DurationPerUnit:  cfg.DurationPerUnit,
		MinDuration:      cfg.MinDuration,
		Ease:             ease,
		TrackOrientation: cfg.TrackOrientation,
		Sampler: spline.Sampler{
			Alpha:          cfg.Alpha,
			MinSamples:     cfg.MinSamples,
			SamplesPerUnit: cfg.SamplesPerUnit,
		},
	}, nil
}

// Sequencer returns the plan builder the player uses.
func (p *Player) Sequencer() *motion.Sequencer {
	return p.seq
}

// State returns the current playback state.
func (p *Player) State() State {
	return p.state
}

// Running reports whether a path is playing.
func (p *Player) Running() bool {
	return p.state == Running
}

// Dataset returns the retained waypoint data.
func (p *Player) Dataset() *source.Dataset {
	return p.dataset
}

// Plan returns the plan of the current pass.
func (p *Player) Plan() motion.Plan {
	return p.plan
}

// Elapsed returns playback seconds since the last Start.
func (p *Player) Elapsed() float64 {
	return p.elapsed
}

// Load fetches and parses location and retains the result. With auto start
// enabled it starts playback. Failures are logged and returned; nothing is
// retried.
func (p *Player) Load(ctx context.Context, location string) (*source.Dataset, error) {
	ds, err := p.Loader.Load(ctx, location, source.Options{
		Delimiter: p.Config.CSVDelimiter,
		Logger:    p.Log,
	})
	if err != nil {
		return nil, err
	}

	p.dataset = ds
	p.Log.Info("waypoints loaded", zap.String("location", location), zap.Int("waypoints", ds.Len()))

	if p.Config.AutoStart {
		if err := p.Start(ds); err != nil {
			return ds, err
		}
	}
	return ds, nil
}

// Start plays ds from the beginning. A running path is cancelled first
// without restoring behaviors, since they are suspended again right away.
// A dataset without waypoints is not played: Start returns ErrNoData and
// nothing is published.
func (p *Player) Start(ds *source.Dataset) error {
	if ds.Len() == 0 {
		p.logger().Warn("nothing to play")
		return ErrNoData
	}

	if p.state == Running {
		p.cancel()
	}

	p.dataset = ds
	p.state = Running
	p.runID = uuid.New()
	p.pass = 0
	p.elapsed = 0

	p.suspend()
	p.publish(events.Event{Type: events.PlaybackStarted})
	p.launch()
	return nil
}

// Stop cancels playback. No notification of the cancelled run fires after
// Stop returns. Behaviors are re-enabled when restore is set. Stopping an
// idle player does nothing.
func (p *Player) Stop(restore bool) {
	if p.state != Running {
		return
	}

	p.cancel()
	p.state = Idle
	if restore {
		p.restore()
	}
	p.publish(events.Event{Type: events.PlaybackStopped})
}

// Tick advances playback by dt seconds.
func (p *Player) Tick(dt float64) {
	if p.state != Running || p.chain == nil {
		return
	}
	p.elapsed += dt
	p.chain.Tick(dt)
}

// launch builds a plan from the retained dataset and starts its chain.
func (p *Player) launch() {
	p.generation++
	gen := p.generation

	p.plan = p.seq.Build(p.dataset, p.Target, func(index int, pos mgl64.Vec3, rot mgl64.Quat) {
		if gen != p.generation {
			return
		}
		p.publish(events.Event{
			Type:     events.WaypointReached,
			Index:    index,
			Position: pos,
			Rotation: rot,
		})
	})

	chain := tween.NewChain(p.plan.Tasks...)
	chain.OnFinish = func() {
		if gen != p.generation {
			return
		}
		p.finish()
	}
	p.chain = chain

	p.logger().Debug("pass launched",
		zap.Int("pass", p.pass),
		zap.Int("tasks", len(p.plan.Tasks)),
		zap.Float64("duration", p.plan.Duration),
	)
	chain.Start()
}

// finish handles the natural end of a pass.
func (p *Player) finish() {
	if p.Config.Loop && !p.plan.Empty() && p.plan.Duration > 0 {
		p.pass++
		p.publish(events.Event{Type: events.PathLooped})
		p.launch()
		return
	}

	p.generation++
	p.chain = nil
	p.state = Idle
	p.restore()
	p.publish(events.Event{Type: events.PathComplete})
}

func (p *Player) cancel() {
	p.generation++
	if p.chain != nil {
		p.chain.Cancel()
		p.chain = nil
	}
}

func (p *Player) suspend() {
	for _, b := range p.behaviors {
		if !b.Enabled() {
			continue
		}
		b.Disable()
		p.suspended = append(p.suspended, b)
	}
}

// restore re-enables only the behaviors this player disabled.
func (p *Player) restore() {
	for _, b := range p.suspended {
		b.Enable()
	}
	p.suspended = nil
}

func (p *Player) publish(e events.Event) {
	e.RunID = p.runID
	e.Pass = p.pass
	e.Elapsed = p.elapsed
	if p.dataset != nil {
		e.Source = p.dataset.Location
	}
	if err := p.Bus.Publish(e); err != nil {
		p.logger().Warn("event handler failed", zap.String("event", string(e.Type)), zap.Error(err))
	}
}

func (p *Player) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

// String describes the player for log lines.
func (p *Player) String() string {
	return fmt.Sprintf("player[%s pass=%d t=%.2fs]", p.state, p.pass, p.elapsed)
}
