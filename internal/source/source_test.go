package source

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ivlev/pathcam/internal/geom"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		location string
		payload  Payload
		want     Format
	}{
		{"csv suffix", "paths/a.csv", Payload{Data: []byte("x")}, FormatCSV},
		{"txt suffix", "a.TXT", Payload{Data: []byte("x")}, FormatCSV},
		{"json suffix", "a.json", Payload{Data: []byte("[]")}, FormatJSON},
		{"yaml suffix", "a.yml", Payload{Data: []byte("[]")}, FormatYAML},
		{"url with query", "https://cdn.example.com/p.json?v=3", Payload{Data: []byte("[]")}, FormatJSON},
		{"unknown suffix bytes", "asset-42", Payload{Data: []byte("1,2,3,0,0,0")}, FormatCSV},
		{"unknown suffix string value", "asset-42", Payload{Value: "1,2,3,0,0,0"}, FormatCSV},
		{"structured value", "asset-42", Payload{Value: []any{}}, FormatStructured},
		{"nothing", "asset-42", Payload{}, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.location, tt.payload))
		})
	}
}

func TestParseCSVRowWithPause(t *testing.T) {
	ds, err := Parse("row.csv", Payload{Data: []byte("1,2,3,0,0,0,0.5")}, Options{Delimiter: ","})
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())

	assert.Equal(t, mgl64.Vec3{1, 2, 3}, ds.Positions[0])
	rot, ok := ds.Rotation(0)
	require.True(t, ok)
	assert.True(t, rot.OrientationEqualThreshold(mgl64.QuatIdent(), 1e-9))
	assert.Equal(t, 0.5, ds.Pause(0))
}

func TestParseCSVDropsBadLines(t *testing.T) {
	text := "x,y,z,rx,ry,rz,pause\n" +
		"0,0,0,0,0,0\n" +
		"\n" +
		"# comment\n" +
		"1,2,3\n" +
		"4,5,6,0,90,0,1\n" +
		"7,8,nine,0,0,0\n" +
		"1,1,1,0,0,0,oops\n"

	ds, err := Parse("path.csv", Payload{Data: []byte(text)}, Options{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	assert.Equal(t, mgl64.Vec3{0, 0, 0}, ds.Positions[0])
	assert.Equal(t, mgl64.Vec3{4, 5, 6}, ds.Positions[1])
	assert.Equal(t, []float64{0, 1}, ds.Pauses)

	rot, ok := ds.Rotation(1)
	require.True(t, ok)
	assert.True(t, rot.OrientationEqualThreshold(geom.FromEuler(0, 90, 0), 1e-9))
}

func TestParseCSVCustomDelimiter(t *testing.T) {
	ds, err := Parse("path.txt", Payload{Data: []byte("1;2;3;0;0;0\n4;5;6;0;0;0;2\n")}, Options{Delimiter: ";"})
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, 2.0, ds.Pause(1))
}

func TestParseCSVNegativePauseDropped(t *testing.T) {
	ds, err := Parse("path.csv", Payload{Data: []byte("0,0,0,0,0,0\n1,0,0,0,0,0,-1\n")}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestParseEmptyIsNoWaypoints(t *testing.T) {
	_, err := Parse("path.csv", Payload{Data: []byte("1,2,3\n")}, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoWaypoints))
}

func TestParseJSONShapes(t *testing.T) {
	text := `[
		{"position": [0, 0, 0], "rotation": [0, 0, 0], "pause": 0},
		{"pos": {"x": 10, "y": 0, "z": 0}, "wait": 1.5},
		{"p": [10, 0, 10], "r": {"x": 0, "y": 0, "z": 0, "w": 1}, "delay": "0.25"},
		[[20, 0, 10], [0, 90, 0], 2],
		[30, 0, 10, 0, 0, 0, 0.5],
		{"x": 40, "y": 1, "z": 2},
		{"rotation": [0, 0, 0]},
		{"position": [1, 2]},
		{"position": [0, 0, 0], "pause": "soon"}
	]`

	ds, err := Parse("path.json", Payload{Data: []byte(text)}, Options{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	require.Equal(t, 6, ds.Len())

	assert.Equal(t, mgl64.Vec3{10, 0, 0}, ds.Positions[1])
	assert.Equal(t, 1.5, ds.Pause(1))
	_, ok := ds.Rotation(1)
	assert.False(t, ok, "rotation omitted in row 1")

	assert.Equal(t, 0.25, ds.Pause(2))
	rot, ok := ds.Rotation(2)
	require.True(t, ok)
	assert.True(t, rot.OrientationEqualThreshold(mgl64.QuatIdent(), 1e-9))

	assert.Equal(t, mgl64.Vec3{20, 0, 10}, ds.Positions[3])
	assert.Equal(t, 2.0, ds.Pause(3))
	rot, ok = ds.Rotation(3)
	require.True(t, ok)
	assert.True(t, rot.OrientationEqualThreshold(geom.FromEuler(0, 90, 0), 1e-9))

	assert.Equal(t, mgl64.Vec3{30, 0, 10}, ds.Positions[4])
	assert.Equal(t, 0.5, ds.Pause(4))

	assert.Equal(t, mgl64.Vec3{40, 1, 2}, ds.Positions[5])
}

func TestParseJSONWrappedList(t *testing.T) {
	text := `{"waypoints": [{"position": [0,0,0]}, {"position": [1,0,0]}]}`
	ds, err := Parse("path.json", Payload{Data: []byte(text)}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestParseJSONMalformed(t *testing.T) {
	_, err := Parse("path.json", Payload{Data: []byte(`[{"position": [0,0,0]`)}, Options{})
	require.Error(t, err)

	_, err = Parse("path.json", Payload{Data: []byte(`"just a string"`)}, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestParseYAML(t *testing.T) {
	text := `
waypoints:
  - position: [0, 0, 0]
  - position: {x: 5, y: 0, z: 0}
    rotation: [0, 45, 0]
    pause: 3
`
	ds, err := Parse("path.yaml", Payload{Data: []byte(text)}, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, mgl64.Vec3{5, 0, 0}, ds.Positions[1])
	assert.Equal(t, 3.0, ds.Pause(1))
}

func TestParseStructuredAsset(t *testing.T) {
	asset := []map[string]any{
		{"position": []float64{0, 0, 0}},
		{"position": []float64{0, 0, 5}, "pause": 1},
	}
	ds, err := Parse("asset", Payload{Value: asset}, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, mgl64.Vec3{0, 0, 5}, ds.Positions[1])
	assert.Equal(t, 1.0, ds.Pause(1))
}

func TestParseStructuredAssetWithSuffix(t *testing.T) {
	rows := []any{
		map[string]any{"position": []any{0, 0, 0}},
		map[string]any{"position": []any{10, 0, 0}, "pause": 2},
	}

	tests := []struct {
		name     string
		location string
		payload  Payload
	}{
		{"json decoded value", "path.json", Payload{Value: rows}},
		{"yaml decoded value", "path.yaml", Payload{Value: rows}},
		{"json text value", "path.json", Payload{Value: `[{"position":[0,0,0]},{"position":[10,0,0],"pause":2}]`}},
		{"yaml bytes value", "path.yml", Payload{Value: []byte("- position: [0, 0, 0]\n- position: [10, 0, 0]\n  pause: 2\n")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Parse(tt.location, tt.payload, Options{Logger: zaptest.NewLogger(t)})
			require.NoError(t, err)
			require.Equal(t, 2, ds.Len())
			assert.Equal(t, mgl64.Vec3{10, 0, 0}, ds.Positions[1])
			assert.Equal(t, 2.0, ds.Pause(1))
		})
	}
}

func TestDatasetAccessorsTolerateShortRotations(t *testing.T) {
	q := geom.FromEuler(0, 10, 0)
	ds := &Dataset{
		Positions: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		Rotations: []*mgl64.Quat{nil, &q},
		Pauses:    []float64{0, 0, 0},
	}
	require.NoError(t, ds.Validate())

	_, ok := ds.Rotation(0)
	assert.False(t, ok)
	_, ok = ds.Rotation(1)
	assert.True(t, ok)
	_, ok = ds.Rotation(2)
	assert.False(t, ok)
	assert.Equal(t, 0.0, ds.Pause(7))
}

func TestDatasetValidate(t *testing.T) {
	ds := &Dataset{
		Positions: []mgl64.Vec3{{0, 0, 0}},
		Pauses:    []float64{0, 1},
	}
	assert.Error(t, ds.Validate())

	ds = &Dataset{
		Positions: []mgl64.Vec3{{0, 0, 0}},
		Pauses:    []float64{-1},
	}
	assert.Error(t, ds.Validate())

	var nilDS *Dataset
	assert.ErrorIs(t, nilDS.Validate(), ErrNoWaypoints)
}
