package director

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TimelineVersion is written into every exported timeline.
const TimelineVersion = "1.0"

// WriteTimeline writes a timeline to a YAML file
func WriteTimeline(timeline *Timeline, path string) error {
	if timeline.Version == "" {
		timeline.Version = TimelineVersion
	}

	data, err := yaml.Marshal(timeline)
	if err != nil {
		return fmt.Errorf("marshal timeline: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ReadTimeline reads a timeline from a YAML file
func ReadTimeline(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var timeline Timeline
	if err := yaml.Unmarshal(data, &timeline); err != nil {
		return nil, fmt.Errorf("decode timeline %s: %w", path, err)
	}

	return &timeline, nil
}
