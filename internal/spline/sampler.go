package spline

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/pathcam/internal/geom"
)

// Default sampler parameters.
const (
	DefaultAlpha          = 0.7
	DefaultMinSamples     = 24
	DefaultSamplesPerUnit = 6.0

	// minSteps is the fewest samples any interior span gets.
	minSteps = 4
)

// Sampler turns a waypoint chain into a dense polyline. The zero value is a
// uniform (alpha 0) sampler with no minimum budget; use NewSampler for the
// defaults.
type Sampler struct {
	Alpha          float64
	MinSamples     int
	SamplesPerUnit float64
}

// NewSampler returns a Sampler with the default parameters.
func NewSampler() Sampler {
	return Sampler{
		Alpha:          DefaultAlpha,
		MinSamples:     DefaultMinSamples,
		SamplesPerUnit: DefaultSamplesPerUnit,
	}
}

// Budget returns the total number of samples allotted to a chain of the
// given arc length.
func (s Sampler) Budget(length float64) int {
	n := int(math.Ceil(length * s.SamplesPerUnit))
	if n < s.MinSamples {
		n = s.MinSamples
	}
	return n
}

// Steps returns how many samples each interior span of points receives.
// Spans get a share of the budget proportional to their length, never fewer
// than four.
func (s Sampler) Steps(points []mgl64.Vec3) []int {
	if len(points) < 2 {
		return nil
	}

	lengths := make([]float64, len(points)-1)
	total := 0.0
	for i := range lengths {
		lengths[i] = geom.Distance(points[i], points[i+1])
		total += lengths[i]
	}

	budget := float64(s.Budget(total))
	steps := make([]int, len(lengths))
	for i, l := range lengths {
		steps[i] = minSteps
		if total > 0 {
			if n := int(math.Round(budget * l / total)); n > minSteps {
				steps[i] = n
			}
		}
	}
	return steps
}

// Sample returns the sampled curve through points. prev and next are the
// waypoints outside the chain, if any. The first and last samples are
// exactly the first and last points.
func (s Sampler) Sample(points []mgl64.Vec3, prev, next *mgl64.Vec3) []mgl64.Vec3 {
	switch len(points) {
	case 0:
		return nil
	case 1:
		return []mgl64.Vec3{points[0]}
	}

	ext := Extend(points, prev, next)
	steps := s.Steps(points)

	total := 1
	for _, n := range steps {
		total += n
	}
	out := make([]mgl64.Vec3, 0, total)

	for i, n := range steps {
		p0, p1, p2, p3 := ext[i], ext[i+1], ext[i+2], ext[i+3]
		for j := 0; j < n; j++ {
			if j == 0 {
				// the span start is a real waypoint
				out = append(out, points[i])
				continue
			}
			out = append(out, CatmullRom(p0, p1, p2, p3, s.Alpha, float64(j)/float64(n)))
		}
	}

	return append(out, points[len(points)-1])
}
