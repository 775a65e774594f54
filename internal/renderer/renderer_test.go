package renderer

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/pathcam/internal/director"
	"github.com/ivlev/pathcam/internal/geom"
	"github.com/ivlev/pathcam/internal/source"
	"github.com/ivlev/pathcam/internal/system"
)

func TestInterpolateFrames(t *testing.T) {
	frames := []director.Frame{
		{Time: 0.0, Position: []float64{0, 0, 0}, Rotation: []float64{0, 0, 0, 1}},
		{Time: 2.0, Position: []float64{10, 0, 0}, Rotation: []float64{0, 0, 0, 1}},
		{Time: 4.0, Position: []float64{10, 0, 10}, Rotation: []float64{0, 0, 0, 1}},
	}

	tests := []struct {
		time     float64
		expected mgl64.Vec3
	}{
		{-1.0, mgl64.Vec3{0, 0, 0}},  // Before first frame
		{0.0, mgl64.Vec3{0, 0, 0}},   // First frame
		{1.0, mgl64.Vec3{5, 0, 0}},   // Midpoint between first and second
		{2.0, mgl64.Vec3{10, 0, 0}},  // Second frame
		{3.0, mgl64.Vec3{10, 0, 5}},  // Midpoint between second and third
		{4.0, mgl64.Vec3{10, 0, 10}}, // Third frame
		{5.0, mgl64.Vec3{10, 0, 10}}, // After last frame
	}

	for _, tt := range tests {
		state := InterpolateFrames(frames, tt.time)
		if state.Position.Sub(tt.expected).Len() > 1e-9 {
			t.Errorf("At time %.1f: expected %v, got %v", tt.time, tt.expected, state.Position)
		}
	}
}

func TestInterpolateFramesRotation(t *testing.T) {
	yaw := geom.FromEuler(0, 90, 0)
	frames := []director.Frame{
		{Time: 0, Position: []float64{0, 0, 0}, Rotation: []float64{0, 0, 0, 1}},
		{Time: 1, Position: []float64{0, 0, 0}, Rotation: []float64{yaw.V[0], yaw.V[1], yaw.V[2], yaw.W}},
	}

	state := InterpolateFrames(frames, 0.5)
	if !state.Rotation.OrientationEqualThreshold(geom.FromEuler(0, 45, 0), 1e-9) {
		t.Errorf("Expected half-way yaw, got %v", state.Rotation)
	}

	empty := InterpolateFrames(nil, 1)
	if empty.Rotation != mgl64.QuatIdent() {
		t.Errorf("Expected identity for empty frames, got %v", empty.Rotation)
	}
}

func TestSampleTimeline(t *testing.T) {
	timeline := &director.Timeline{Frames: []director.Frame{
		{Time: 0, Position: []float64{0, 0, 0}},
		{Time: 1, Position: []float64{4, 0, 0}},
	}}

	points := SampleTimeline(timeline, 0.25)
	if len(points) != 5 {
		t.Fatalf("Expected 5 samples, got %d", len(points))
	}
	if points[4] != (mgl64.Vec3{4, 0, 0}) {
		t.Errorf("Last sample should be the final frame, got %v", points[4])
	}
	if SampleTimeline(nil, 1) != nil {
		t.Errorf("Expected no samples for nil timeline")
	}
}

func TestRenderPreview(t *testing.T) {
	ds := &source.Dataset{
		Positions: []mgl64.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 0, 10}},
		Pauses:    []float64{0, 1, 0},
	}
	paths := [][]mgl64.Vec3{ds.Positions}

	opts := DefaultPreviewOptions()
	opts.Width, opts.Height = 320, 200
	opts.QR = "https://example.com/paths/demo.csv"
	opts.QRSize = 64
	opts.Cameras = []mgl64.Vec3{{5, 0, 0}}

	img, err := RenderPreview(paths, ds, opts)
	if err != nil {
		t.Fatalf("RenderPreview failed: %v", err)
	}
	defer system.PutImage(img)

	if img.Bounds() != image.Rect(0, 0, 320, 200) {
		t.Fatalf("Unexpected bounds %v", img.Bounds())
	}

	// the first waypoint maps to the bottom-left of the drawable area
	proj := newProjection(ds.Positions, opts)
	x, y := proj.point(ds.Positions[0])
	if got := img.RGBAAt(int(x), int(y)); got == opts.Background {
		t.Errorf("Expected waypoint marker at (%.0f, %.0f)", x, y)
	}

	// corners outside the margin stay background
	if got := img.RGBAAt(1, 1); got != opts.Background {
		t.Errorf("Expected background in corner, got %v", got)
	}

	path := filepath.Join(t.TempDir(), "preview.png")
	if err := WritePNG(path, img); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("Expected a non-empty png, err=%v", err)
	}
}

func TestRenderPreviewErrors(t *testing.T) {
	opts := DefaultPreviewOptions()
	if _, err := RenderPreview(nil, nil, opts); err == nil {
		t.Errorf("Expected error for empty preview")
	}

	opts.Width = 50
	if _, err := RenderPreview([][]mgl64.Vec3{{{0, 0, 0}}}, nil, opts); err == nil {
		t.Errorf("Expected error for tiny preview")
	}
}
