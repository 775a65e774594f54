// Package tween is the per-frame interpolation primitive: easing curves,
// time-bounded tasks with an explicit lifecycle, and sequential chains.
package tween

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrUnknownEasing is returned by ByName for names outside the registry.
var ErrUnknownEasing = errors.New("unknown easing")

// Func maps linear progress t in [0,1] to eased progress.
type Func func(t float64) float64

// Linear is uniform motion.
func Linear(t float64) float64 {
	return t
}

// SineInOut accelerates and decelerates along a cosine.
func SineInOut(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// QuadInOut: 2t² then 1 - (-2t+2)²/2
func QuadInOut(t float64) float64 {
	return inOut(t, 2)
}

// CubicInOut: 4t³ then 1 - (-2t+2)³/2
func CubicInOut(t float64) float64 {
	return inOut(t, 3)
}

// QuartInOut: 8t⁴ then 1 - (-2t+2)⁴/2
func QuartInOut(t float64) float64 {
	return inOut(t, 4)
}

// QuintInOut: 16t⁵ then 1 - (-2t+2)⁵/2
func QuintInOut(t float64) float64 {
	return inOut(t, 5)
}

// inOut is the polynomial in-out family of the given degree.
func inOut(t float64, degree float64) float64 {
	if t < 0.5 {
		return math.Pow(2, degree-1) * math.Pow(t, degree)
	}
	return 1 - math.Pow(-2*t+2, degree)/2
}

var registry = map[string]Func{
	"linear": Linear,
	"sine":   SineInOut,
	"quad":   QuadInOut,
	"cubic":  CubicInOut,
	"quart":  QuartInOut,
	"quint":  QuintInOut,
}

// ByName resolves an easing by name. Matching ignores case and accepts
// "sineInOut", "easeInOutSine", "sine_in_out" and "sine" alike. The empty
// name is linear.
func ByName(name string) (Func, error) {
	key := normalize(name)
	if key == "" {
		return Linear, nil
	}
	if f, ok := registry[key]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w %q (valid: %s)", ErrUnknownEasing, name, strings.Join(Names(), ", "))
}

// Names lists the canonical easing names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		if k == "linear" {
			names = append(names, k)
			continue
		}
		names = append(names, k+"InOut")
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	key = strings.TrimPrefix(key, "ease")
	key = strings.ReplaceAll(key, "inout", "")
	switch key {
	case "quadratic":
		return "quad"
	case "quartic":
		return "quart"
	case "quintic":
		return "quint"
	}
	return key
}
