package utils

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agamjotsodhi/curated/internal/model"
)

// ErrInvalidColor is returned when a submitted color payload cannot be
// parsed into HSL components.
var ErrInvalidColor = errors.New("invalid color payload")

// upstreamColor matches the color object the catalog API attaches to an
// artwork. Values arrive as floats; percentage and population are ignored.
type upstreamColor struct {
	H *float64 `json:"h"`
	S *float64 `json:"s"`
	L *float64 `json:"l"`
}

// DecomposeColor interprets the raw color value of a catalog record. It
// returns the canonical string form to persist plus the decomposed HSL
// channels when the value is a structured color object.
//
// Three upstream shapes are handled:
//   - an object with h/s/l -> canonical `{"h":H,"s":S,"l":L}` + channels
//   - a plain string       -> passed through unchanged, no channels
//   - absent/null          -> nil, nil
func DecomposeColor(raw json.RawMessage) (*string, *model.HSL, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil, nil
	}
	// String colors pass through unchanged.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s, nil, nil
	}
	var uc upstreamColor
	if err := json.Unmarshal(raw, &uc); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidColor, raw)
	}
	if uc.H == nil || uc.S == nil || uc.L == nil {
		return nil, nil, fmt.Errorf("%w: missing hsl channel", ErrInvalidColor)
	}
	hsl := model.HSL{H: int(*uc.H + 0.5), S: int(*uc.S + 0.5), L: int(*uc.L + 0.5)}
	canonical, err := json.Marshal(hsl)
	if err != nil {
		return nil, nil, err
	}
	c := string(canonical)
	return &c, &hsl, nil
}

// ParseHSL parses a user-submitted color payload, e.g. `{"h":140,"s":50,"l":50}`.
func ParseHSL(payload string) (model.HSL, error) {
	var uc upstreamColor
	if err := json.Unmarshal([]byte(payload), &uc); err != nil {
		return model.HSL{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	if uc.H == nil || uc.S == nil || uc.L == nil {
		return model.HSL{}, fmt.Errorf("%w: h, s and l are required", ErrInvalidColor)
	}
	return model.HSL{H: int(*uc.H + 0.5), S: int(*uc.S + 0.5), L: int(*uc.L + 0.5)}, nil
}

// WithinBand reports whether each channel of got lies within tolerance of
// the corresponding channel of want. The match is an axis-aligned box over
// the three channels, not a distance metric: every channel must pass
// independently.
func WithinBand(got, want model.HSL, tolerance int) bool {
	return abs(got.H-want.H) <= tolerance &&
		abs(got.S-want.S) <= tolerance &&
		abs(got.L-want.L) <= tolerance
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
