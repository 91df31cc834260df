package engine

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dshills/pageview/internal/markup"
	"github.com/dshills/pageview/internal/scene"
	"github.com/dshills/pageview/internal/term"
)

// Element addressing errors, returned to the scripting layer.
var (
	ErrNoElement    = errors.New("no element with id")
	ErrUnknownField = errors.New("unknown element field")
)

// Navigate records a navigation target on the topmost viewport and
// fires the host navigation hook, as if a link had been clicked.
func (e *EngineContext) Navigate(target string) {
	e.mu.Lock()
	vps := e.graph.Viewports()
	var vp *scene.Viewport
	if len(vps) > 0 {
		vp = vps[len(vps)-1]
		vp.Pending = target
	}
	fn := e.onNavigate
	e.mu.Unlock()

	if vp == nil {
		return
	}
	if fn != nil {
		fn(vp, target)
	}
	e.MarkDirty()
}

// SetViewportContent replaces a viewport's page under the engine lock
// and marks the engine dirty. Focus held inside the viewport is cleared
// first: generated element ids restart for every parsed page, so focus
// surviving the swap would route keystrokes into an unrelated element.
func (e *EngineContext) SetViewportContent(vp *scene.Viewport, src string) {
	e.mu.Lock()
	if e.focusVP == vp {
		e.blurLocked()
	}
	vp.SetContent(src)
	e.mu.Unlock()
	e.dirty.Store(true)
}

// ElementField reads a named field of an element by id. Fields are
// text, checked, fg, and bg; availability depends on the element kind.
// Both scene elements and markup page elements are addressable.
func (e *EngineContext) ElementField(id, field string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if el := e.graph.FindElement(id); el != nil {
		return sceneField(el, field)
	}
	for _, vp := range e.graph.Viewports() {
		if tok := vp.TokenByID(id); tok != nil {
			return markupField(vp, tok, field)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoElement, id)
}

// SetElementField writes a named field of an element by id and marks
// the engine dirty so the change is painted on the next frame.
func (e *EngineContext) SetElementField(id, field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	if el := e.graph.FindElement(id); el != nil {
		err = setSceneField(el, field, value)
	} else {
		err = fmt.Errorf("%w: %s", ErrNoElement, id)
		for _, vp := range e.graph.Viewports() {
			if tok := vp.TokenByID(id); tok != nil {
				err = setMarkupField(vp, tok, field, value)
				break
			}
		}
	}
	if err != nil {
		return err
	}
	e.dirty.Store(true)
	return nil
}

func sceneField(el scene.Element, field string) (string, error) {
	switch t := el.(type) {
	case *scene.Label:
		switch field {
		case "text":
			return t.Text, nil
		case "fg":
			return t.FG.String(), nil
		case "bg":
			return t.BG.String(), nil
		}
	case *scene.Button:
		switch field {
		case "text":
			return t.Text, nil
		case "checked":
			return strconv.FormatBool(t.Pressed), nil
		case "fg":
			return t.FG.String(), nil
		case "bg":
			return t.BG.String(), nil
		}
	case *scene.Checkbox:
		switch field {
		case "text":
			return t.Text, nil
		case "checked":
			return strconv.FormatBool(t.Checked), nil
		case "fg":
			return t.FG.String(), nil
		case "bg":
			return t.BG.String(), nil
		}
	case *scene.TextField:
		switch field {
		case "text":
			return t.Text, nil
		case "fg":
			return t.FG.String(), nil
		case "bg":
			return t.BG.String(), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
}

func setSceneField(el scene.Element, field, value string) error {
	switch t := el.(type) {
	case *scene.Label:
		switch field {
		case "text":
			t.Text = value
			return nil
		case "fg":
			t.FG = term.ColorByName(value)
			return nil
		case "bg":
			t.BG = term.ColorByName(value)
			return nil
		}
	case *scene.Button:
		switch field {
		case "text":
			t.Text = value
			return nil
		case "checked":
			pressed, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			t.Pressed = pressed
			return nil
		case "fg":
			t.FG = term.ColorByName(value)
			return nil
		case "bg":
			t.BG = term.ColorByName(value)
			return nil
		}
	case *scene.Checkbox:
		switch field {
		case "text":
			t.Text = value
			return nil
		case "checked":
			checked, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			t.Checked = checked
			return nil
		case "fg":
			t.FG = term.ColorByName(value)
			return nil
		case "bg":
			t.BG = term.ColorByName(value)
			return nil
		}
	case *scene.TextField:
		switch field {
		case "text":
			t.Text = value
			return nil
		case "fg":
			t.FG = term.ColorByName(value)
			return nil
		case "bg":
			t.BG = term.ColorByName(value)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, field)
}

func markupField(vp *scene.Viewport, tok *markup.Token, field string) (string, error) {
	switch field {
	case "text":
		if tok.Kind == markup.TokenTextInput {
			return vp.InputText(tok.ID), nil
		}
		return tok.Label, nil
	case "checked":
		if tok.Kind == markup.TokenCheckbox {
			return strconv.FormatBool(vp.Checked(tok.ID)), nil
		}
	case "fg":
		return tok.FG.String(), nil
	case "bg":
		return tok.BG.String(), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
}

func setMarkupField(vp *scene.Viewport, tok *markup.Token, field, value string) error {
	switch field {
	case "text":
		if tok.Kind == markup.TokenTextInput {
			vp.Input(tok.ID).Text = value
			return nil
		}
		tok.Label = value
		return nil
	case "checked":
		if tok.Kind == markup.TokenCheckbox {
			checked, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			vp.SetChecked(tok.ID, checked)
			return nil
		}
	case "fg":
		tok.FG = term.ColorByName(value)
		return nil
	case "bg":
		tok.BG = term.ColorByName(value)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, field)
}
