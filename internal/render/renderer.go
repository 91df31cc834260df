package render

import (
	"github.com/dshills/pageview/internal/layout"
	"github.com/dshills/pageview/internal/term"
)

// Paint draws placed fragments through the driver and returns a fresh
// registry of interactive regions. originX/originY are the absolute
// screen coordinates of the viewport's (1,1) cell; pressedID names the
// button painted with its press colors for this frame ("" for none).
//
// The previous frame's registry is discarded by construction: every
// call returns a new one, so stale regions cannot survive a re-render.
func Paint(d term.Driver, placed []layout.Placed, originX, originY int, pressedID string, st layout.State) *Registry {
	reg := &Registry{}

	for _, p := range placed {
		x := originX + p.Col - 1
		y := originY + p.Row - 1

		fg, bg := p.FG, p.BG
		if p.Kind == layout.KindButton && p.Token != nil && p.Token.ID == pressedID {
			fg, bg = p.PressFG, p.PressBG
		}

		d.SetForeground(fg)
		d.SetBackground(bg)
		d.SetCursor(x, y)
		d.WriteText(p.Text)

		if region, ok := fragmentRegion(p, x, y); ok {
			if region.Type == RegionCheckbox && st != nil {
				region.Checked = st.Checked(region.ID)
			}
			reg.Add(region)
		}
	}

	d.SetForeground(term.ColorDefault)
	d.SetBackground(term.ColorDefault)
	return reg
}

// fragmentRegion builds the registry entry for an interactive placed
// fragment. Word and space fragments produce none.
func fragmentRegion(p layout.Placed, x, y int) (Region, bool) {
	if p.Token == nil {
		return Region{}, false
	}

	region := Region{
		X:       x,
		Y:       y,
		Width:   p.Width,
		Height:  1,
		ID:      p.Token.ID,
		Label:   p.Token.Label,
		OnClick: p.Token.OnClick,
	}

	switch p.Kind {
	case layout.KindLink:
		region.Type = RegionLink
		region.Target = p.Token.Target
	case layout.KindButton:
		region.Type = RegionButton
	case layout.KindCheckbox:
		region.Type = RegionCheckbox
	case layout.KindTextInput:
		region.Type = RegionTextInput
	default:
		return Region{}, false
	}
	return region, true
}
