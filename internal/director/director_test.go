package director

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func line(n int) []mgl64.Vec3 {
	points := make([]mgl64.Vec3, n)
	for i := range points {
		points[i] = mgl64.Vec3{float64(i), 0, 0}
	}
	return points
}

func TestSplitNoPauses(t *testing.T) {
	for n := 2; n <= 6; n++ {
		segments := Split(line(n), make([]float64, n))
		if len(segments) != 1 {
			t.Fatalf("n=%d: expected 1 segment, got %d", n, len(segments))
		}

		seg := segments[0]
		if seg.Start != 0 || seg.End != n-1 {
			t.Errorf("n=%d: expected [0,%d], got [%d,%d]", n, n-1, seg.Start, seg.End)
		}
		if seg.Prev != nil || seg.Next != nil {
			t.Errorf("n=%d: full-range segment should have no outside neighbours", n)
		}
	}
}

func TestSplitAtPauses(t *testing.T) {
	positions := line(7)
	pauses := []float64{0, 0, 1.5, 0, 2, 0, 0}

	segments := Split(positions, pauses)
	if len(segments) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segments))
	}

	want := [][2]int{{0, 2}, {2, 4}, {4, 6}}
	for i, seg := range segments {
		if seg.Start != want[i][0] || seg.End != want[i][1] {
			t.Errorf("Segment %d: expected %v, got [%d,%d]", i, want[i], seg.Start, seg.End)
		}
	}

	// consecutive segments share the pause index
	for i := 1; i < len(segments); i++ {
		if segments[i].Start != segments[i-1].End {
			t.Errorf("Gap between segment %d and %d", i-1, i)
		}
	}

	if segments[0].Prev != nil {
		t.Errorf("First segment should have no prev point")
	}
	if segments[0].Next == nil || *segments[0].Next != positions[3] {
		t.Errorf("First segment next should be waypoint 3, got %v", segments[0].Next)
	}
	if segments[1].Prev == nil || *segments[1].Prev != positions[1] {
		t.Errorf("Middle segment prev should be waypoint 1, got %v", segments[1].Prev)
	}
	if segments[2].Next != nil {
		t.Errorf("Last segment should have no next point")
	}
}

func TestSplitPauseAtEnds(t *testing.T) {
	// pauses at 0 and L-1 coincide with the boundary stops
	segments := Split(line(4), []float64{3, 0, 0, 3})
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
}

func TestSplitAdjacentPauses(t *testing.T) {
	segments := Split(line(4), []float64{0, 1, 1, 0})
	if len(segments) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segments))
	}
	for _, seg := range segments {
		if seg.Len() != 2 {
			t.Errorf("Expected 2-point segment, got [%d,%d]", seg.Start, seg.End)
		}
	}
}

func TestSplitDegenerate(t *testing.T) {
	if got := Split(nil, nil); len(got) != 0 {
		t.Errorf("Expected no segments for empty input, got %d", len(got))
	}
	if got := Split(line(1), []float64{5}); len(got) != 0 {
		t.Errorf("Expected no segments for single waypoint, got %d", len(got))
	}
	// short pauses are zero-padded
	if got := Split(line(3), nil); len(got) != 1 {
		t.Errorf("Expected 1 segment with missing pauses, got %d", len(got))
	}
}

func TestSegmentPoints(t *testing.T) {
	positions := line(5)
	seg := Segment{Start: 1, End: 3}
	points := seg.Points(positions)
	if len(points) != 3 || points[0] != positions[1] || points[2] != positions[3] {
		t.Errorf("Unexpected points %v", points)
	}

	if got := (Segment{Start: 3, End: 9}).Points(positions); got != nil {
		t.Errorf("Out-of-range segment should yield nil, got %v", got)
	}
}

func TestTimelineWriteRead(t *testing.T) {
	timeline := &Timeline{
		Source:   "paths/demo.csv",
		Mode:     "curve",
		FPS:      30,
		Duration: 2.0,
		Frames: []Frame{
			{Time: 0, Position: []float64{0, 0, 0}, Rotation: []float64{0, 0, 0, 1}},
			{Time: 1.0 / 30, Position: []float64{0.1, 0, 0}, Rotation: []float64{0, 0, 0, 1}},
		},
		Markers: []Marker{{Time: 2.0, Event: "waypoint.reached", Index: 1}},
	}

	path := filepath.Join(t.TempDir(), "timeline.yaml")
	if err := WriteTimeline(timeline, path); err != nil {
		t.Fatalf("WriteTimeline failed: %v", err)
	}

	read, err := ReadTimeline(path)
	if err != nil {
		t.Fatalf("ReadTimeline failed: %v", err)
	}

	if read.Version != TimelineVersion {
		t.Errorf("Version mismatch: expected %s, got %s", TimelineVersion, read.Version)
	}
	if len(read.Frames) != len(timeline.Frames) {
		t.Errorf("Frame count mismatch: expected %d, got %d", len(timeline.Frames), len(read.Frames))
	}
	if len(read.Markers) != 1 || read.Markers[0].Index != 1 {
		t.Errorf("Markers not preserved: %+v", read.Markers)
	}
}
