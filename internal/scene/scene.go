package scene

// ChildRef attaches another scene at an offset. Attachment is a
// reference by name into the graph's arena, not ownership: detaching a
// child leaves the child scene intact.
type ChildRef struct {
	Name       string
	OffX, OffY int
}

// Scene is a named, independently addressable collection of persistent
// elements; the unit of screen composition. The scene exclusively owns
// its elements.
type Scene struct {
	Name string

	elements []Element
	children []ChildRef
}

// Add appends an element to the scene.
func (s *Scene) Add(el Element) {
	s.elements = append(s.elements, el)
}

// Remove deletes the element with the given id. Returns true if an
// element was removed. Removal is the only way an element dies; there
// is no garbage collection of orphans.
func (s *Scene) Remove(id string) bool {
	for i, el := range s.elements {
		if el.ID() == id {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			return true
		}
	}
	return false
}

// Elements returns the scene's elements in paint order.
func (s *Scene) Elements() []Element {
	return s.elements
}

// Find returns the element with the given id, or nil.
func (s *Scene) Find(id string) Element {
	for _, el := range s.elements {
		if el.ID() == id {
			return el
		}
	}
	return nil
}

// AttachChild attaches a child scene at an offset. Attaching the same
// child again updates its offset.
func (s *Scene) AttachChild(name string, offX, offY int) {
	for i := range s.children {
		if s.children[i].Name == name {
			s.children[i].OffX = offX
			s.children[i].OffY = offY
			return
		}
	}
	s.children = append(s.children, ChildRef{Name: name, OffX: offX, OffY: offY})
}

// DetachChild removes a child reference. Returns true if it existed.
func (s *Scene) DetachChild(name string) bool {
	for i := range s.children {
		if s.children[i].Name == name {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return true
		}
	}
	return false
}

// Children returns the attached child references in paint order.
func (s *Scene) Children() []ChildRef {
	return s.children
}
