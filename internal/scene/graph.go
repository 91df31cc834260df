package scene

import (
	"github.com/google/uuid"

	"github.com/dshills/pageview/internal/term"
)

// Graph is the arena of scenes, indexed by name. One scene is active;
// composition walks the active scene and its attached children.
//
// The graph itself is not synchronized: the engine context serializes
// all access under its own lock.
type Graph struct {
	scenes map[string]*Scene
	active string
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{scenes: make(map[string]*Scene)}
}

// NewScene creates (or returns) the scene with the given name. The
// first scene created becomes active.
func (g *Graph) NewScene(name string) *Scene {
	if s, ok := g.scenes[name]; ok {
		return s
	}
	s := &Scene{Name: name}
	g.scenes[name] = s
	if g.active == "" {
		g.active = name
	}
	return s
}

// Scene returns the named scene, or nil.
func (g *Graph) Scene(name string) *Scene {
	return g.scenes[name]
}

// SetActive switches the active scene. Unknown names are ignored.
func (g *Graph) SetActive(name string) {
	if _, ok := g.scenes[name]; ok {
		g.active = name
	}
}

// Active returns the active scene, or nil if none exists.
func (g *Graph) Active() *Scene {
	return g.scenes[g.active]
}

// ActiveName returns the active scene's name.
func (g *Graph) ActiveName() string {
	return g.active
}

// PlacedElement is an element paired with the cumulative offset of the
// scene composition path that reached it.
type PlacedElement struct {
	Element    Element
	OffX, OffY int
}

// Compose flattens the active scene and its children into paint order:
// parent elements first, then each child's elements shifted by the
// cumulative attachment offsets. A visited set guards against
// attachment cycles.
func (g *Graph) Compose() []PlacedElement {
	active := g.Active()
	if active == nil {
		return nil
	}
	var out []PlacedElement
	g.compose(active, 0, 0, map[string]bool{}, &out)
	return out
}

func (g *Graph) compose(s *Scene, offX, offY int, visited map[string]bool, out *[]PlacedElement) {
	if visited[s.Name] {
		return
	}
	visited[s.Name] = true

	for _, el := range s.elements {
		*out = append(*out, PlacedElement{Element: el, OffX: offX, OffY: offY})
	}
	for _, child := range s.children {
		cs := g.scenes[child.Name]
		if cs == nil {
			continue
		}
		g.compose(cs, offX+child.OffX, offY+child.OffY, visited, out)
	}
}

// FindElement searches every scene for the element with the given id.
func (g *Graph) FindElement(id string) Element {
	for _, s := range g.scenes {
		if el := s.Find(id); el != nil {
			return el
		}
	}
	return nil
}

// RemoveElement removes an element by id from whichever scene owns it.
func (g *Graph) RemoveElement(id string) bool {
	for _, s := range g.scenes {
		if s.Remove(id) {
			return true
		}
	}
	return false
}

// Viewports returns every viewport element in the composed tree, in
// paint order.
func (g *Graph) Viewports() []*Viewport {
	var vps []*Viewport
	for _, pe := range g.Compose() {
		if vp, ok := pe.Element.(*Viewport); ok {
			vps = append(vps, vp)
		}
	}
	return vps
}

// sceneFor picks the constructor target: the named scene, or the
// active scene for "". Missing scenes are created.
func (g *Graph) sceneFor(name string) *Scene {
	if name == "" {
		if s := g.Active(); s != nil {
			return s
		}
		return g.NewScene("main")
	}
	return g.NewScene(name)
}

// NewLabel creates a label in the named scene ("" for active) and
// returns a handle for later mutation.
func (g *Graph) NewLabel(sceneName, text string, pos Position) *Label {
	l := &Label{
		elem: elem{id: uuid.NewString(), pos: pos},
		Text: text,
		FG:   term.ColorDefault,
		BG:   term.ColorDefault,
	}
	g.sceneFor(sceneName).Add(l)
	return l
}

// NewButton creates a button in the named scene ("" for active).
func (g *Graph) NewButton(sceneName, text string, pos Position) *Button {
	b := &Button{
		elem:    elem{id: uuid.NewString(), pos: pos},
		Text:    text,
		FG:      term.ColorWhite,
		BG:      term.ColorGray,
		PressFG: term.ColorGray,
		PressBG: term.ColorWhite,
	}
	g.sceneFor(sceneName).Add(b)
	return b
}

// NewCheckbox creates a checkbox in the named scene ("" for active).
func (g *Graph) NewCheckbox(sceneName, text string, pos Position) *Checkbox {
	c := &Checkbox{
		elem:           elem{id: uuid.NewString(), pos: pos},
		Text:           text,
		FG:             term.ColorDefault,
		BG:             term.ColorDefault,
		CheckedGlyph:   "[x]",
		UncheckedGlyph: "[ ]",
	}
	g.sceneFor(sceneName).Add(c)
	return c
}

// NewTextField creates a text field in the named scene ("" for active).
func (g *Graph) NewTextField(sceneName string, width int, pos Position) *TextField {
	t := &TextField{
		elem:  elem{id: uuid.NewString(), pos: pos},
		Width: width,
		FG:    term.ColorWhite,
		BG:    term.ColorGray,
	}
	g.sceneFor(sceneName).Add(t)
	return t
}

// NewRectangle creates a filled rectangle in the named scene ("" for
// active).
func (g *Graph) NewRectangle(sceneName string, w, h int, bg term.Color, pos Position) *Rectangle {
	r := &Rectangle{
		elem: elem{id: uuid.NewString(), pos: pos},
		W:    w,
		H:    h,
		BG:   bg,
	}
	g.sceneFor(sceneName).Add(r)
	return r
}

// NewViewport creates a markup viewport in the named scene ("" for
// active). Content is set separately via SetContent.
func (g *Graph) NewViewport(sceneName string, w, h int, pos Position) *Viewport {
	v := &Viewport{
		elem: elem{id: uuid.NewString(), pos: pos},
		W:    w,
		H:    h,
	}
	v.SetContent("")
	g.sceneFor(sceneName).Add(v)
	return v
}
