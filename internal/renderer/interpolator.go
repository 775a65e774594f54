package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/pathcam/internal/director"
	"github.com/ivlev/pathcam/internal/geom"
)

// CameraState is the camera transform at a specific moment
type CameraState struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// InterpolateFrames calculates the camera state at a given time from recorded
// timeline frames. Frames must be sorted by time.
func InterpolateFrames(frames []director.Frame, currentTime float64) CameraState {
	if len(frames) == 0 {
		return CameraState{Rotation: mgl64.QuatIdent()}
	}

	// Before the first frame, hold it
	if currentTime <= frames[0].Time {
		return stateOf(frames[0])
	}

	// After the last frame, hold it
	last := frames[len(frames)-1]
	if currentTime >= last.Time {
		return stateOf(last)
	}

	// Find the surrounding frames
	i := sort.Search(len(frames), func(i int) bool { return frames[i].Time > currentTime })
	prev, next := frames[i-1], frames[i]

	timeDelta := next.Time - prev.Time
	if timeDelta <= 0 {
		return stateOf(next)
	}
	t := (currentTime - prev.Time) / timeDelta

	a, b := stateOf(prev), stateOf(next)
	return CameraState{
		Position: geom.Lerp(a.Position, b.Position, t),
		Rotation: geom.Slerp(a.Rotation, b.Rotation, t),
	}
}

// SampleTimeline returns camera positions every step seconds over the whole
// timeline, end included.
func SampleTimeline(timeline *director.Timeline, step float64) []mgl64.Vec3 {
	if timeline == nil || len(timeline.Frames) == 0 || step <= 0 {
		return nil
	}

	end := timeline.Frames[len(timeline.Frames)-1].Time
	var out []mgl64.Vec3
	for t := 0.0; t < end; t += step {
		out = append(out, InterpolateFrames(timeline.Frames, t).Position)
	}
	return append(out, InterpolateFrames(timeline.Frames, end).Position)
}

func stateOf(f director.Frame) CameraState {
	s := CameraState{Rotation: mgl64.QuatIdent()}
	if len(f.Position) >= 3 {
		s.Position = mgl64.Vec3{f.Position[0], f.Position[1], f.Position[2]}
	}
	if len(f.Rotation) >= 4 {
		s.Rotation = geom.FromComponents(f.Rotation[0], f.Rotation[1], f.Rotation[2], f.Rotation[3])
	}
	return s
}
