package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/pathcam/internal/geom"
)

// Field aliases accepted in row objects.
var (
	positionKeys = []string{"position", "pos", "p"}
	rotationKeys = []string{"rotation", "rot", "r"}
	pauseKeys    = []string{"pause", "wait", "delay"}
	listKeys     = []string{"waypoints", "points", "path"}
)

func parseJSON(ds *Dataset, data []byte, log *zap.Logger) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return parseRows(ds, v, log)
}

func parseYAML(ds *Dataset, data []byte, log *zap.Logger) error {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return parseRows(ds, v, log)
}

// parseRows is the single normalization point for structured payloads:
// whatever shape a row arrives in, it leaves as Vec3/Quat/pause.
func parseRows(ds *Dataset, v any, log *zap.Logger) error {
	rows, ok := rowsOf(v)
	if !ok {
		return fmt.Errorf("%w: expected a list of rows, got %T", ErrUnknownFormat, v)
	}

	dropped := 0
	for i, row := range rows {
		pos, rot, pause, ok := parseRow(row)
		if !ok {
			dropped++
			log.Debug("dropped row", zap.Int("row", i))
			continue
		}
		ds.append(pos, rot, pause)
	}

	if dropped > 0 {
		log.Warn("rows dropped", zap.Int("dropped", dropped), zap.Int("kept", ds.Len()))
	}
	return nil
}

func rowsOf(v any) ([]any, bool) {
	if list, ok := asList(v); ok {
		return list, true
	}
	if m, ok := asMap(v); ok {
		if inner, found := lookup(m, listKeys...); found {
			return asList(inner)
		}
	}
	return nil, false
}

func parseRow(row any) (mgl64.Vec3, *mgl64.Quat, float64, bool) {
	if m, ok := asMap(row); ok {
		return parseObjectRow(m)
	}
	if list, ok := asList(row); ok {
		return parseListRow(list)
	}
	return mgl64.Vec3{}, nil, 0, false
}

func parseObjectRow(m map[string]any) (mgl64.Vec3, *mgl64.Quat, float64, bool) {
	var (
		pos mgl64.Vec3
		ok  bool
	)
	if raw, found := lookup(m, positionKeys...); found {
		pos, ok = vectorOf(raw)
	} else {
		// a bare {x, y, z} object is its own position
		pos, ok = vectorOf(m)
	}
	if !ok {
		return mgl64.Vec3{}, nil, 0, false
	}

	var rot *mgl64.Quat
	if raw, found := lookup(m, rotationKeys...); found {
		if rot, ok = rotationOf(raw); !ok {
			return mgl64.Vec3{}, nil, 0, false
		}
	}

	pause := 0.0
	if raw, found := lookup(m, pauseKeys...); found && raw != nil {
		if pause, ok = numberOf(raw); !ok || !validPause(pause) {
			return mgl64.Vec3{}, nil, 0, false
		}
	}
	return pos, rot, pause, true
}

// parseListRow accepts [pos, rot, pause] as well as a flat numeric row laid
// out like a CSV line.
func parseListRow(list []any) (mgl64.Vec3, *mgl64.Quat, float64, bool) {
	if len(list) == 0 {
		return mgl64.Vec3{}, nil, 0, false
	}
	if _, numeric := numberOf(list[0]); numeric {
		return parseFlatRow(list)
	}

	pos, ok := vectorOf(list[0])
	if !ok {
		return mgl64.Vec3{}, nil, 0, false
	}

	var rot *mgl64.Quat
	if len(list) > 1 {
		if rot, ok = rotationOf(list[1]); !ok {
			return mgl64.Vec3{}, nil, 0, false
		}
	}

	pause := 0.0
	if len(list) > 2 && list[2] != nil {
		if pause, ok = numberOf(list[2]); !ok || !validPause(pause) {
			return mgl64.Vec3{}, nil, 0, false
		}
	}
	return pos, rot, pause, true
}

func parseFlatRow(list []any) (mgl64.Vec3, *mgl64.Quat, float64, bool) {
	values, ok := numbersOf(list)
	if !ok || len(values) < 3 {
		return mgl64.Vec3{}, nil, 0, false
	}

	pos := mgl64.Vec3{values[0], values[1], values[2]}
	if !geom.Finite(pos) {
		return mgl64.Vec3{}, nil, 0, false
	}

	var rot *mgl64.Quat
	if len(values) >= 6 {
		q := geom.FromEuler(values[3], values[4], values[5])
		rot = &q
	}

	pause := 0.0
	if len(values) >= 7 {
		pause = values[6]
		if !validPause(pause) {
			return mgl64.Vec3{}, nil, 0, false
		}
	}
	return pos, rot, pause, true
}

func vectorOf(v any) (mgl64.Vec3, bool) {
	if list, ok := asList(v); ok {
		values, ok := numbersOf(list)
		if !ok || len(values) < 3 {
			return mgl64.Vec3{}, false
		}
		out := mgl64.Vec3{values[0], values[1], values[2]}
		return out, geom.Finite(out)
	}

	if m, ok := asMap(v); ok {
		var out mgl64.Vec3
		for i, key := range []string{"x", "y", "z"} {
			raw, found := lookup(m, key)
			if !found {
				return mgl64.Vec3{}, false
			}
			n, ok := numberOf(raw)
			if !ok {
				return mgl64.Vec3{}, false
			}
			out[i] = n
		}
		return out, geom.Finite(out)
	}
	return mgl64.Vec3{}, false
}

// rotationOf reads Euler degrees (3 values) or a quaternion (4 values or an
// object with w). A nil value is an absent rotation, not an error.
func rotationOf(v any) (*mgl64.Quat, bool) {
	if v == nil {
		return nil, true
	}

	if list, ok := asList(v); ok {
		values, ok := numbersOf(list)
		if !ok {
			return nil, false
		}
		switch {
		case len(values) >= 4:
			q := geom.FromComponents(values[0], values[1], values[2], values[3])
			return &q, finiteQuat(q)
		case len(values) == 3:
			q := geom.FromEuler(values[0], values[1], values[2])
			return &q, finiteQuat(q)
		default:
			return nil, false
		}
	}

	if m, ok := asMap(v); ok {
		angles, ok := vectorOf(m)
		if !ok {
			return nil, false
		}
		if raw, found := lookup(m, "w"); found {
			w, ok := numberOf(raw)
			if !ok {
				return nil, false
			}
			q := geom.FromComponents(angles[0], angles[1], angles[2], w)
			return &q, finiteQuat(q)
		}
		q := geom.FromEuler(angles[0], angles[1], angles[2])
		return &q, finiteQuat(q)
	}
	return nil, false
}

func finiteQuat(q mgl64.Quat) bool {
	return geom.Finite(q.V) && geom.Finite(mgl64.Vec3{q.W})
}

func numbersOf(list []any) ([]float64, bool) {
	out := make([]float64, len(list))
	for i, raw := range list {
		n, ok := numberOf(raw)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	// second pass tolerates "Position", "X" and similar
	for k, v := range m {
		for _, want := range keys {
			if strings.EqualFold(k, want) {
				return v, true
			}
		}
	}
	return nil, false
}

// asList accepts []any as well as typed slices handed over by Go callers.
func asList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		// []byte is text, not a list
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asMap accepts map[string]any and any other map, stringifying keys.
func asMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, true
}
