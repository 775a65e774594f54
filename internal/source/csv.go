package source

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/ivlev/pathcam/internal/geom"
)

// minCSVFields is x,y,z,rotX,rotY,rotZ; an optional 7th field is the pause.
const minCSVFields = 6

// parseCSV reads one waypoint per line. Blank lines and lines starting with
// '#' are skipped; short or non-numeric lines are dropped with a warning.
func parseCSV(ds *Dataset, text, delimiter string, log *zap.Logger) error {
	if delimiter == "" {
		delimiter = ","
	}

	dropped := 0
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pos, rot, pause, ok := parseCSVLine(line, delimiter)
		if !ok {
			dropped++
			log.Debug("dropped csv line", zap.Int("line", n+1), zap.String("text", line))
			continue
		}
		ds.append(pos, &rot, pause)
	}

	if dropped > 0 {
		log.Warn("csv lines dropped", zap.Int("dropped", dropped), zap.Int("kept", ds.Len()))
	}
	return nil
}

func parseCSVLine(line, delimiter string) (mgl64.Vec3, mgl64.Quat, float64, bool) {
	fields := strings.Split(line, delimiter)
	if len(fields) < minCSVFields {
		return mgl64.Vec3{}, mgl64.Quat{}, 0, false
	}

	limit := minCSVFields
	if len(fields) > minCSVFields {
		limit = minCSVFields + 1
	}

	values := make([]float64, limit)
	for i := 0; i < limit; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return mgl64.Vec3{}, mgl64.Quat{}, 0, false
		}
		values[i] = v
	}

	pos := mgl64.Vec3{values[0], values[1], values[2]}
	angles := mgl64.Vec3{values[3], values[4], values[5]}
	pause := 0.0
	if limit > minCSVFields {
		pause = values[6]
	}
	if !geom.Finite(pos) || !geom.Finite(angles) || !validPause(pause) {
		return mgl64.Vec3{}, mgl64.Quat{}, 0, false
	}
	return pos, geom.FromEuler(angles[0], angles[1], angles[2]), pause, true
}

func validPause(p float64) bool {
	return p >= 0 && !math.IsInf(p, 0)
}
