// Package scene provides the retained scene graph: named scenes holding
// persistent elements, child-scene composition at offsets, and position
// resolution against the live viewport size.
package scene

// Rect is an element's painted bounds in absolute 1-based screen
// coordinates. W or H of zero means empty.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the 1-based point lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// PosMode selects how a Position resolves to screen coordinates.
type PosMode int

const (
	// PosAbsolute places at fixed 1-based coordinates.
	PosAbsolute PosMode = iota
	// PosPercent places at a fraction of the viewport size.
	PosPercent
	// PosAnchor places relative to a named anchor point plus an offset.
	PosAnchor
)

// AnchorPoint is one of the nine anchor points: the eight compass
// points plus center.
type AnchorPoint int

const (
	AnchorTopLeft AnchorPoint = iota
	AnchorTop
	AnchorTopRight
	AnchorLeft
	AnchorCenter
	AnchorRight
	AnchorBottomLeft
	AnchorBottom
	AnchorBottomRight
)

// Position is an element's placement spec. Resolution happens once per
// render pass against the current viewport size, so viewport resizes
// between frames need no extra bookkeeping.
type Position struct {
	Mode PosMode

	// Absolute coordinates (PosAbsolute), 1-based.
	X, Y int

	// Fractions of the viewport (PosPercent), in [0,1].
	PctX, PctY float64

	// Anchor point and pixel offset (PosAnchor).
	Anchor     AnchorPoint
	OffX, OffY int
}

// Abs creates an absolute position.
func Abs(x, y int) Position {
	return Position{Mode: PosAbsolute, X: x, Y: y}
}

// Pct creates a percentage position.
func Pct(px, py float64) Position {
	return Position{Mode: PosPercent, PctX: px, PctY: py}
}

// At creates an anchored position with an offset.
func At(anchor AnchorPoint, offX, offY int) Position {
	return Position{Mode: PosAnchor, Anchor: anchor, OffX: offX, OffY: offY}
}

// Resolve computes the 1-based top-left coordinate for an element of
// the given size in a viewport of the given size.
func (p Position) Resolve(elemW, elemH, viewW, viewH int) (int, int) {
	switch p.Mode {
	case PosPercent:
		x := int(p.PctX*float64(viewW)) + 1
		y := int(p.PctY*float64(viewH)) + 1
		return x, y

	case PosAnchor:
		x, y := anchorOrigin(p.Anchor, elemW, elemH, viewW, viewH)
		return x + p.OffX, y + p.OffY

	default:
		return p.X, p.Y
	}
}

// anchorOrigin returns the top-left coordinate that puts an element of
// the given size at the anchor point.
func anchorOrigin(a AnchorPoint, elemW, elemH, viewW, viewH int) (int, int) {
	centerX := (viewW-elemW)/2 + 1
	centerY := (viewH-elemH)/2 + 1
	rightX := viewW - elemW + 1
	bottomY := viewH - elemH + 1

	switch a {
	case AnchorTopLeft:
		return 1, 1
	case AnchorTop:
		return centerX, 1
	case AnchorTopRight:
		return rightX, 1
	case AnchorLeft:
		return 1, centerY
	case AnchorCenter:
		return centerX, centerY
	case AnchorRight:
		return rightX, centerY
	case AnchorBottomLeft:
		return 1, bottomY
	case AnchorBottom:
		return centerX, bottomY
	case AnchorBottomRight:
		return rightX, bottomY
	default:
		return 1, 1
	}
}
