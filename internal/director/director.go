package director

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Segment is a contiguous waypoint index range [Start, End] between two stops.
// Prev and Next are the waypoints just outside the range, used for spline
// tangents at the segment boundaries; nil when the range touches an end.
type Segment struct {
	Start int
	End   int
	Prev  *mgl64.Vec3
	Next  *mgl64.Vec3
}

// Len returns the number of waypoints in the segment.
func (s Segment) Len() int {
	return s.End - s.Start + 1
}

// Points returns the slice of positions the segment covers.
func (s Segment) Points(positions []mgl64.Vec3) []mgl64.Vec3 {
	if s.Start < 0 || s.End >= len(positions) || s.End < s.Start {
		return nil
	}
	return positions[s.Start : s.End+1]
}

// Split cuts the waypoint range into segments at the first and last index and
// at every index with a positive pause. A pauses slice shorter than positions
// is treated as zero-padded. Fewer than two positions yields no segments.
func Split(positions []mgl64.Vec3, pauses []float64) []Segment {
	n := len(positions)
	if n < 2 {
		return nil
	}

	stops := Stops(n, pauses)

	segments := make([]Segment, 0, len(stops)-1)
	for i := 0; i+1 < len(stops); i++ {
		start, end := stops[i], stops[i+1]
		if end <= start {
			continue
		}

		seg := Segment{Start: start, End: end}
		if start > 0 {
			p := positions[start-1]
			seg.Prev = &p
		}
		if end < n-1 {
			p := positions[end+1]
			seg.Next = &p
		}
		segments = append(segments, seg)
	}

	return segments
}

// Stops returns the sorted, deduplicated stop indices for n waypoints.
func Stops(n int, pauses []float64) []int {
	if n <= 0 {
		return nil
	}

	seen := map[int]bool{0: true, n - 1: true}
	for i := 0; i < n && i < len(pauses); i++ {
		if pauses[i] > 0 {
			seen[i] = true
		}
	}

	stops := make([]int, 0, len(seen))
	for i := range seen {
		stops = append(stops, i)
	}
	sort.Ints(stops)

	return stops
}
