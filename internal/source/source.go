package source

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"path"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/ivlev/pathcam/internal/geom"
)

var (
	// ErrNoWaypoints is returned when a payload parses but yields no usable rows.
	ErrNoWaypoints = errors.New("no waypoints in source")
	// ErrUnknownFormat is returned for payloads whose format cannot be inferred.
	ErrUnknownFormat = errors.New("unknown waypoint format")
)

// Dataset is the normalized waypoint list: three parallel sequences indexed
// by waypoint. Rotations may be shorter than Positions; missing and nil
// entries mean "keep the previous orientation".
type Dataset struct {
	Location  string
	Positions []mgl64.Vec3
	Rotations []*mgl64.Quat
	Pauses    []float64
}

// Len returns the number of waypoints.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Positions)
}

// Rotation returns the explicit orientation at index i, if any.
func (d *Dataset) Rotation(i int) (mgl64.Quat, bool) {
	if d == nil || i < 0 || i >= len(d.Rotations) || d.Rotations[i] == nil {
		return mgl64.Quat{}, false
	}
	return *d.Rotations[i], true
}

// Pause returns the hold duration at index i in seconds.
func (d *Dataset) Pause(i int) float64 {
	if d == nil || i < 0 || i >= len(d.Pauses) {
		return 0
	}
	return d.Pauses[i]
}

// Validate checks the parallel-array invariants.
func (d *Dataset) Validate() error {
	if d == nil {
		return ErrNoWaypoints
	}
	if len(d.Positions) != len(d.Pauses) {
		return fmt.Errorf("positions (%d) and pauses (%d) differ in length", len(d.Positions), len(d.Pauses))
	}
	if len(d.Rotations) > len(d.Positions) {
		return fmt.Errorf("rotations (%d) exceed positions (%d)", len(d.Rotations), len(d.Positions))
	}
	for i, p := range d.Positions {
		if !geom.Finite(p) {
			return fmt.Errorf("waypoint %d: position is not finite", i)
		}
		if d.Pauses[i] < 0 || math.IsNaN(d.Pauses[i]) || math.IsInf(d.Pauses[i], 0) {
			return fmt.Errorf("waypoint %d: invalid pause %v", i, d.Pauses[i])
		}
	}
	return nil
}

// append adds one waypoint, keeping the three sequences aligned.
func (d *Dataset) append(pos mgl64.Vec3, rot *mgl64.Quat, pause float64) {
	d.Positions = append(d.Positions, pos)
	d.Rotations = append(d.Rotations, rot)
	d.Pauses = append(d.Pauses, pause)
}

// Payload is what a waypoint source delivers: either raw text (a fetched
// file or response body) or an already decoded structured value (an asset).
type Payload struct {
	Data  []byte
	Value any
}

// Format identifies how a payload is decoded.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatJSON
	FormatYAML
	FormatStructured
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// DetectFormat picks the decoder from the location suffix, falling back to
// the payload shape: raw bytes are CSV, decoded values are structured rows.
func DetectFormat(location string, p Payload) Format {
	switch strings.ToLower(path.Ext(locationPath(location))) {
	case ".csv", ".txt":
		return FormatCSV
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}

	switch {
	case p.Value != nil:
		if s, ok := p.Value.(string); ok && s != "" {
			return FormatCSV
		}
		if b, ok := p.Value.([]byte); ok && len(b) > 0 {
			return FormatCSV
		}
		return FormatStructured
	case p.Data != nil:
		return FormatCSV
	default:
		return FormatUnknown
	}
}

// locationPath strips query and fragment parts from URL-like locations.
func locationPath(location string) string {
	if u, err := url.Parse(location); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Path
	}
	return location
}

// Options tune parsing.
type Options struct {
	Delimiter string
	Logger    *zap.Logger
}

// Parse normalizes a payload into a Dataset. Malformed rows are dropped and
// logged; an empty result is ErrNoWaypoints.
func Parse(location string, p Payload, opts Options) (*Dataset, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("location", location))

	ds := &Dataset{Location: location}
	var err error

	switch format := DetectFormat(location, p); format {
	case FormatCSV:
		err = parseCSV(ds, textOf(p), opts.Delimiter, log)
	case FormatJSON:
		err = parseEncoded(ds, p, log, parseJSON)
	case FormatYAML:
		err = parseEncoded(ds, p, log, parseYAML)
	case FormatStructured:
		err = parseRows(ds, p.Value, log)
	default:
		err = ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", location, err)
	}

	if ds.Len() == 0 {
		return nil, fmt.Errorf("parse %s: %w", location, ErrNoWaypoints)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", location, err)
	}
	return ds, nil
}

// parseEncoded decodes a JSON or YAML payload. Named assets may carry their
// text or an already decoded value instead of raw bytes.
func parseEncoded(ds *Dataset, p Payload, log *zap.Logger, decode func(*Dataset, []byte, *zap.Logger) error) error {
	if len(p.Data) == 0 && p.Value != nil {
		switch p.Value.(type) {
		case string, []byte:
			return decode(ds, []byte(textOf(p)), log)
		}
		return parseRows(ds, p.Value, log)
	}
	return decode(ds, p.Data, log)
}

func textOf(p Payload) string {
	switch v := p.Value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return string(p.Data)
}
