// Package render paints positioned layout fragments through a terminal
// driver and rebuilds the per-frame UI registry of interactive regions.
package render

// RegionType identifies the kind of an interactive region.
type RegionType int

const (
	RegionLink RegionType = iota
	RegionButton
	RegionCheckbox
	RegionTextInput
)

// String returns the string representation of the region type.
func (t RegionType) String() string {
	switch t {
	case RegionLink:
		return "link"
	case RegionButton:
		return "button"
	case RegionCheckbox:
		return "checkbox"
	case RegionTextInput:
		return "textinput"
	default:
		return "unknown"
	}
}

// Region is one painted interactive area in absolute 1-based screen
// coordinates. Regions are derived state: rebuilt from scratch on every
// render pass and only ever consumed, never mutated, by dispatch.
type Region struct {
	Type   RegionType
	X, Y   int
	Width  int
	Height int

	// Element metadata.
	ID      string
	Label   string
	Target  string // link navigation target
	OnClick string // script event name
	Checked bool   // checkbox state at paint time
}

// Registry is the hit-test surface produced by one render pass.
type Registry struct {
	regions []Region
}

// Add appends a region.
func (r *Registry) Add(region Region) {
	r.regions = append(r.regions, region)
}

// Regions returns the region list in paint order.
func (r *Registry) Regions() []Region {
	if r == nil {
		return nil
	}
	return r.regions
}

// Hit returns the topmost region containing the point, or nil.
// Later-painted regions win.
func (r *Registry) Hit(x, y int) *Region {
	if r == nil {
		return nil
	}
	for i := len(r.regions) - 1; i >= 0; i-- {
		reg := &r.regions[i]
		if x >= reg.X && x < reg.X+reg.Width && y >= reg.Y && y < reg.Y+reg.Height {
			return reg
		}
	}
	return nil
}

// Len returns the number of regions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.regions)
}
