package motion

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/ivlev/pathcam/internal/director"
	"github.com/ivlev/pathcam/internal/geom"
	"github.com/ivlev/pathcam/internal/source"
	"github.com/ivlev/pathcam/internal/tween"
)

// StepKind tells motion steps from holds.
type StepKind int

const (
	StepMove StepKind = iota
	StepWait
)

func (k StepKind) String() string {
	if k == StepWait {
		return "wait"
	}
	return "move"
}

// Step describes one task of a plan. For a move, Points is the sampled
// curve (curve mode) or the from/to pair (linear mode).
type Step struct {
	Kind     StepKind
	Start    int
	End      int
	Points   []mgl64.Vec3
	From     mgl64.Quat
	To       mgl64.Quat
	Duration float64
}

// Plan is the built task list, ready to chain.
type Plan struct {
	Tasks    []*tween.Task
	Steps    []Step
	Duration float64
}

// Moves returns the number of motion steps, which is also the number of
// waypoint-reached notifications a full run fires.
func (p Plan) Moves() int {
	n := 0
	for _, s := range p.Steps {
		if s.Kind == StepMove {
			n++
		}
	}
	return n
}

// Empty reports whether the plan has nothing to play.
func (p Plan) Empty() bool {
	return len(p.Tasks) == 0
}

// Sequencer builds plans from datasets.
type Sequencer struct {
	Options
	Log *zap.Logger
}

// NewSequencer creates a Sequencer.
func NewSequencer(opts Options, log *zap.Logger) *Sequencer {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Ease == nil {
		opts.Ease = tween.Linear
	}
	return &Sequencer{Options: opts, Log: log}
}

// Build creates the plan for ds in the configured mode. The returned tasks
// write to target and report arrivals to onReached, which may be nil.
func (s *Sequencer) Build(ds *source.Dataset, target Transform, onReached ReachedFunc) Plan {
	if s.Mode == ModeLinear {
		return s.BuildLinear(ds, target, onReached)
	}
	return s.BuildCurve(ds, target, onReached)
}

// BuildCurve creates one spline move per segment between stops, each followed
// by a hold when its end waypoint pauses.
func (s *Sequencer) BuildCurve(ds *source.Dataset, target Transform, onReached ReachedFunc) Plan {
	var plan Plan
	if ds.Len() < 2 {
		return plan
	}

	carry := s.startRotation(ds, target)
	for _, seg := range director.Split(ds.Positions, ds.Pauses) {
		from := carry
		to := s.resolve(ds, seg.End, carry)
		carry = to

		points := seg.Points(ds.Positions)
		if len(points) < 2 {
			s.Log.Debug("segment skipped", zap.Int("start", seg.Start), zap.Int("end", seg.End))
			continue
		}

		curve := s.Sampler.Sample(points, seg.Prev, seg.Next)
		if len(curve) < 2 {
			s.Log.Debug("segment skipped", zap.Int("start", seg.Start), zap.Int("end", seg.End))
			continue
		}

		step := Step{
			Kind:     StepMove,
			Start:    seg.Start,
			End:      seg.End,
			Points:   curve,
			From:     from,
			To:       to,
			Duration: SegmentDuration(geom.ArcLength(curve), s.DurationPerUnit, s.MinDuration),
		}
		s.add(&plan, step, target, onReached)
		s.addWait(&plan, ds, seg.End)

		s.Log.Debug("segment built",
			zap.Int("start", seg.Start),
			zap.Int("end", seg.End),
			zap.Int("samples", len(curve)),
			zap.Float64("duration", step.Duration),
		)
	}
	return plan
}

// BuildLinear creates one straight move per consecutive waypoint pair, each
// followed by a hold when its target waypoint pauses.
func (s *Sequencer) BuildLinear(ds *source.Dataset, target Transform, onReached ReachedFunc) Plan {
	var plan Plan
	if ds.Len() < 2 {
		return plan
	}

	carry := s.startRotation(ds, target)
	for i := 0; i+1 < ds.Len(); i++ {
		from := carry
		to := s.resolve(ds, i+1, carry)
		carry = to

		a, b := ds.Positions[i], ds.Positions[i+1]
		step := Step{
			Kind:     StepMove,
			Start:    i,
			End:      i + 1,
			Points:   []mgl64.Vec3{a, b},
			From:     from,
			To:       to,
			Duration: SegmentDuration(geom.Distance(a, b), s.DurationPerUnit, s.MinDuration),
		}
		s.add(&plan, step, target, onReached)
		s.addWait(&plan, ds, i+1)
	}
	return plan
}

// Paths returns the polylines a plan for ds would follow, one per move.
func (s *Sequencer) Paths(ds *source.Dataset) [][]mgl64.Vec3 {
	plan := s.Build(ds, staticTransform{}, nil)
	paths := make([][]mgl64.Vec3, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		if step.Kind == StepMove {
			paths = append(paths, step.Points)
		}
	}
	return paths
}

func (s *Sequencer) add(plan *Plan, step Step, target Transform, onReached ReachedFunc) {
	plan.Steps = append(plan.Steps, step)
	plan.Tasks = append(plan.Tasks, s.moveTask(step, target, onReached))
	plan.Duration += step.Duration
}

func (s *Sequencer) addWait(plan *Plan, ds *source.Dataset, index int) {
	pause := ds.Pause(index)
	if pause <= 0 {
		return
	}
	step := Step{Kind: StepWait, Start: index, End: index, Duration: pause}
	plan.Steps = append(plan.Steps, step)
	plan.Tasks = append(plan.Tasks, &tween.Task{
		Name:     fmt.Sprintf("wait %d", index),
		Duration: pause,
		Ease:     tween.Linear,
	})
	plan.Duration += pause
}

func (s *Sequencer) moveTask(step Step, target Transform, onReached ReachedFunc) *tween.Task {
	curve := step.Points
	end := curve[len(curve)-1]
	track := s.TrackOrientation

	return &tween.Task{
		Name:     fmt.Sprintf("move %d-%d", step.Start, step.End),
		Duration: step.Duration,
		Ease:     s.Ease,
		OnUpdate: func(t float64) {
			target.SetPosition(PointAt(curve, t))
			if track {
				target.SetRotation(geom.Slerp(step.From, step.To, t))
			}
		},
		OnComplete: func() {
			target.SetPosition(end)
			if track {
				target.SetRotation(step.To)
			}
			if onReached != nil {
				onReached(step.End, end, step.To)
			}
		},
	}
}

// startRotation is the explicit orientation of the first waypoint when
// tracking, otherwise whatever the target currently has.
func (s *Sequencer) startRotation(ds *source.Dataset, target Transform) mgl64.Quat {
	if s.TrackOrientation {
		if q, ok := ds.Rotation(0); ok {
			return q
		}
	}
	return target.Rotation()
}

func (s *Sequencer) resolve(ds *source.Dataset, index int, carry mgl64.Quat) mgl64.Quat {
	if !s.TrackOrientation {
		return carry
	}
	if q, ok := ds.Rotation(index); ok {
		return q
	}
	return carry
}

// staticTransform is a sink used when only the geometry of a plan matters.
type staticTransform struct{}

func (staticTransform) Position() mgl64.Vec3   { return mgl64.Vec3{} }
func (staticTransform) Rotation() mgl64.Quat   { return mgl64.QuatIdent() }
func (staticTransform) SetPosition(mgl64.Vec3) {}
func (staticTransform) SetRotation(mgl64.Quat) {}
