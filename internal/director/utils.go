package director

import (
	"fmt"
	"path/filepath"
	"time"
)

// DefaultTimelineDir is where exported timelines go when no output is given.
var DefaultTimelineDir = "output"

// GenerateTimelinePath creates a timestamped timeline filename in dir
func GenerateTimelinePath(dir string) string {
	return GenerateOutputPath(dir, "timeline", ".yaml")
}

// GenerateOutputPath creates <dir>/<stem>_<timestamp><ext>, dir defaulting
// to DefaultTimelineDir.
func GenerateOutputPath(dir, stem, ext string) string {
	if dir == "" {
		dir = DefaultTimelineDir
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, timestamp, ext))
}
