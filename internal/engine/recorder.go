package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/pathcam/internal/director"
	"github.com/ivlev/pathcam/internal/events"
)

// Recorder is a Transform that just remembers what was written to it.
type Recorder struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat

	Writes int
}

// NewRecorder starts at the origin with identity orientation.
func NewRecorder() *Recorder {
	return &Recorder{Rot: mgl64.QuatIdent()}
}

func (r *Recorder) Position() mgl64.Vec3 { return r.Pos }
func (r *Recorder) Rotation() mgl64.Quat { return r.Rot }

func (r *Recorder) SetPosition(p mgl64.Vec3) {
	r.Pos = p
	r.Writes++
}

func (r *Recorder) SetRotation(q mgl64.Quat) {
	r.Rot = q
	r.Writes++
}

// SimulateOptions bound a headless run.
type SimulateOptions struct {
	FPS int
	// MaxDuration caps the run in seconds; looping paths never end on
	// their own. Zero means one pass plus a second of margin.
	MaxDuration float64
	// Passes stops a looping run after this many completed passes.
	Passes int
}

// Simulate plays p at a fixed frame rate until it goes idle, the pass limit
// is hit or the time cap is reached, sampling rec every frame. The player
// must already be running. Markers are recorded for every notification.
func Simulate(p *Player, rec *Recorder, opts SimulateOptions) *director.Timeline {
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	dt := 1 / float64(fps)

	limit := opts.MaxDuration
	if limit <= 0 {
		limit = p.Plan().Duration + 1
	}

	timeline := &director.Timeline{
		Version: director.TimelineVersion,
		Mode:    p.Config.Mode,
		FPS:     fps,
	}
	if ds := p.Dataset(); ds != nil {
		timeline.Source = ds.Location
	}

	sub := p.Bus.SubscribeAll(func(e events.Event) error {
		timeline.Markers = append(timeline.Markers, director.Marker{
			Time:  e.Elapsed,
			Event: string(e.Type),
			Index: e.Index,
		})
		return nil
	})
	defer p.Bus.Unsubscribe(sub)

	passes := 0
	loops := p.Bus.Subscribe(events.PathLooped, func(events.Event) error {
		passes++
		return nil
	})
	defer p.Bus.Unsubscribe(loops)

	frames := int(math.Ceil(limit * float64(fps)))
	timeline.Frames = append(timeline.Frames, frame(0, rec))
	for i := 1; i <= frames && p.Running(); i++ {
		p.Tick(dt)
		timeline.Frames = append(timeline.Frames, frame(float64(i)*dt, rec))
		if opts.Passes > 0 && passes >= opts.Passes {
			p.Stop(true)
		}
	}

	timeline.Duration = float64(len(timeline.Frames)-1) * dt
	return timeline
}

func frame(t float64, rec *Recorder) director.Frame {
	return director.Frame{
		Time:     t,
		Position: []float64{rec.Pos.X(), rec.Pos.Y(), rec.Pos.Z()},
		Rotation: []float64{rec.Rot.V.X(), rec.Rot.V.Y(), rec.Rot.V.Z(), rec.Rot.W},
	}
}
