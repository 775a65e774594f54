package director

// Timeline is a recorded playback run: the transform sampled at a fixed frame
// rate plus the notifications that fired along the way.
type Timeline struct {
	Version  string   `yaml:"version"`
	Source   string   `yaml:"source"`
	Mode     string   `yaml:"mode"`
	FPS      int      `yaml:"fps"`
	Duration float64  `yaml:"duration"` // Total duration in seconds
	Frames   []Frame  `yaml:"frames"`
	Markers  []Marker `yaml:"markers,omitempty"`
}

// Frame is the transform at a specific moment
type Frame struct {
	Time     float64   `yaml:"time"` // Time offset in seconds
	Position []float64 `yaml:"position,flow"`
	Rotation []float64 `yaml:"rotation,flow"` // x, y, z, w
}

// Marker is a notification recorded during playback
type Marker struct {
	Time  float64 `yaml:"time"`
	Event string  `yaml:"event"`
	Index int     `yaml:"index"`
}
