// Package placement holds the 2D transform that positions a design over the
// case render, together with the linear undo/redo history of its edits.
package placement

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
)

const (
	MinOffset   = -50
	MaxOffset   = 50
	MinScale    = 0.1
	MaxScale    = 3.0
	MinRotation = -180
	MaxRotation = 180
)

// Placement is a value type; edits always produce a new Placement.
type Placement struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation int     `json:"rotation"`
}

// Default returns the identity placement {0, 0, 1, 0}.
func Default() Placement {
	return Placement{X: 0, Y: 0, Scale: 1, Rotation: 0}
}

// Validate checks every field against its bound independently. Out-of-range
// values are rejected rather than clamped so history stays deterministic.
func (p Placement) Validate() error {
	violations := map[string]string{}
	if p.X < MinOffset || p.X > MaxOffset {
		violations["x"] = fmt.Sprintf("must be within [%d, %d]", MinOffset, MaxOffset)
	}
	if p.Y < MinOffset || p.Y > MaxOffset {
		violations["y"] = fmt.Sprintf("must be within [%d, %d]", MinOffset, MaxOffset)
	}
	// NaN fails both comparisons, so test the inclusive range positively.
	if !(p.Scale >= MinScale && p.Scale <= MaxScale) {
		violations["scale"] = fmt.Sprintf("must be within [%.1f, %.1f]", MinScale, MaxScale)
	}
	if p.Rotation < MinRotation || p.Rotation > MaxRotation {
		violations["rotation"] = fmt.Sprintf("must be within [%d, %d]", MinRotation, MaxRotation)
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeInvalidPlacement, fmt.Sprintf("placement out of bounds: %s", describe(violations))).
		WithDetails(violations)
}

func describe(violations map[string]string) string {
	fields := []string{"x", "y", "scale", "rotation"}
	out := ""
	for _, field := range fields {
		msg, ok := violations[field]
		if !ok {
			continue
		}
		if out != "" {
			out += "; "
		}
		out += field + " " + msg
	}
	return out
}
