// Package models defines the pin, finding and chat message types shared by
// the stores, along with the status and category vocabularies.
package models

import "math"

// PositionTolerance is the absolute per-axis tolerance under which two
// normalized positions on the same elevation are considered the same pin.
const PositionTolerance = 1e-6

// Position is a pin location normalized to the full-resolution rendering of
// an elevation drawing: both coordinates are fractions in [0,1], independent
// of zoom, pan and render target resolution. The JSON form {"x":f,"y":f} is
// the wire format used in pins.json.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Near reports whether p and other are within PositionTolerance on both axes.
func (p Position) Near(other Position) bool {
	return math.Abs(p.X-other.X) < PositionTolerance &&
		math.Abs(p.Y-other.Y) < PositionTolerance
}

// InBounds reports whether both coordinates lie inside [0,1].
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}
