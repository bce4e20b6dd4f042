// Package canvas maps between on-screen pixel coordinates and the
// normalized positions pins are stored in.
//
// Pins are persisted as fractions of the base rendered page so they stay
// anchored across zoom, pan and re-rendering at a different resolution;
// this package owns that conversion and nothing else.
package canvas

import "github.com/avoronin/facadekeeper/internal/models"

// Point is a position in widget pixel space.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair in pixels.
type Size struct {
	W float64
	H float64
}

// Viewport describes the current rendering of an elevation inside a widget:
// the base (unscaled) image size, the widget size, the zoom factor and the
// pan offset. The scaled image is centered in the widget before the pan
// offset is applied.
type Viewport struct {
	Scale float64
	Pan   Point
	View  Size
	Base  Size
}

// origin returns the widget-space pixel position of the image's top-left
// corner: centering offset plus pan.
func (v Viewport) origin() Point {
	return Point{
		X: (v.View.W-v.Base.W*v.Scale)/2 + v.Pan.X,
		Y: (v.View.H-v.Base.H*v.Scale)/2 + v.Pan.Y,
	}
}

// ToNormalized converts a widget pixel position to a normalized position.
// The second return value is false when the point falls outside the
// rendered image, or when the viewport is degenerate (zero scale or base
// size); callers must not create pins for such clicks.
func (v Viewport) ToNormalized(p Point) (models.Position, bool) {
	if v.Scale == 0 || v.Base.W == 0 || v.Base.H == 0 {
		return models.Position{}, false
	}

	o := v.origin()
	x := (p.X - o.X) / v.Scale
	y := (p.Y - o.Y) / v.Scale

	pos := models.Position{X: x / v.Base.W, Y: y / v.Base.H}
	if !pos.InBounds() {
		return models.Position{}, false
	}
	return pos, true
}

// ToPixel converts a normalized position back to widget pixel space. It is
// the inverse of ToNormalized up to floating-point rounding.
func (v Viewport) ToPixel(pos models.Position) Point {
	o := v.origin()
	return Point{
		X: pos.X*v.Base.W*v.Scale + o.X,
		Y: pos.Y*v.Base.H*v.Scale + o.Y,
	}
}
