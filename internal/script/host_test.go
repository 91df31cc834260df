package script

import (
	"fmt"
	"testing"
	"time"

	"github.com/dshills/pageview/internal/engine"
)

// fakeAPI is a map-backed engine stand-in.
type fakeAPI struct {
	fields map[string]map[string]string
	navs   []string
	dirty  int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{fields: make(map[string]map[string]string)}
}

func (f *fakeAPI) addElement(id string, fields map[string]string) {
	f.fields[id] = fields
}

func (f *fakeAPI) ElementField(id, field string) (string, error) {
	m, ok := f.fields[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", engine.ErrNoElement, id)
	}
	v, ok := m[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", engine.ErrUnknownField, field)
	}
	return v, nil
}

func (f *fakeAPI) SetElementField(id, field, value string) error {
	m, ok := f.fields[id]
	if !ok {
		return fmt.Errorf("%w: %s", engine.ErrNoElement, id)
	}
	m[field] = value
	return nil
}

func (f *fakeAPI) Navigate(target string) { f.navs = append(f.navs, target) }
func (f *fakeAPI) MarkDirty()             { f.dirty++ }

func TestEventHandlerMutatesElement(t *testing.T) {
	api := newFakeAPI()
	api.addElement("status", map[string]string{"text": "idle"})

	h := New(api, nil, Options{})
	defer h.Close()

	h.LoadPage(map[string]string{
		"main": `
			pageview.on("click", function(id)
				pageview.set_field("status", "text", "clicked " .. id)
			end)
		`,
	})

	h.Emit("click", "ok")
	if got := api.fields["status"]["text"]; got != "clicked ok" {
		t.Errorf("status text = %q, want clicked ok", got)
	}

	// Events with no handler are dropped.
	h.Emit("toggle", "ok")
}

func TestInvokeGlobalFunction(t *testing.T) {
	api := newFakeAPI()
	api.addElement("lbl", map[string]string{"text": ""})

	h := New(api, nil, Options{})
	defer h.Close()

	h.LoadPage(map[string]string{
		"main": `
			function greet(id)
				pageview.set_field(id, "text", "hello")
			end
		`,
	})

	h.Invoke("greet", "lbl")
	if got := api.fields["lbl"]["text"]; got != "hello" {
		t.Errorf("text = %q, want hello", got)
	}

	// Unknown function names are logged, not fatal.
	h.Invoke("missing", "lbl")
}

func TestGetElementTable(t *testing.T) {
	api := newFakeAPI()
	api.addElement("agree", map[string]string{"text": "Agree", "checked": "true"})
	api.addElement("echo", map[string]string{"text": ""})

	h := New(api, nil, Options{})
	defer h.Close()

	h.LoadPage(map[string]string{
		"main": `
			local el = pageview.get_element("agree")
			if el and el.checked then
				pageview.set_field("echo", "text", el.text)
			end
			if pageview.get_element("nope") == nil then
				pageview.set_field("echo", "text", pageview.get_element("echo").text .. "!")
			end
		`,
	})

	if got := api.fields["echo"]["text"]; got != "Agree!" {
		t.Errorf("echo = %q, want Agree!", got)
	}
}

func TestSandboxBlocksUnsafeCode(t *testing.T) {
	api := newFakeAPI()
	api.addElement("out", map[string]string{"text": ""})

	h := New(api, nil, Options{})
	defer h.Close()

	// Blocks run in name order; a failing block must not stop the rest.
	h.LoadPage(map[string]string{
		"a_bad_os":      `os.exit(1)`,
		"b_bad_dofile":  `dofile("/etc/passwd")`,
		"c_bad_require": `require("io")`,
		"d_good":        `pageview.set_field("out", "text", "survived")`,
	})

	if got := api.fields["out"]["text"]; got != "survived" {
		t.Errorf("out = %q; sandboxed failures must not be fatal", got)
	}
}

func TestNavigateFromHandler(t *testing.T) {
	api := newFakeAPI()

	h := New(api, nil, Options{})
	defer h.Close()

	h.LoadPage(map[string]string{
		"main": `
			pageview.on("click", function(id)
				pageview.navigate("settings")
			end)
		`,
	})

	h.Emit("click", "gear")
	if len(api.navs) != 1 || api.navs[0] != "settings" {
		t.Errorf("navs = %v, want [settings]", api.navs)
	}
}

func TestRunawayScriptIsBounded(t *testing.T) {
	api := newFakeAPI()

	h := New(api, nil, Options{CallTimeout: 50 * time.Millisecond})
	defer h.Close()

	start := time.Now()
	h.LoadPage(map[string]string{
		"spin": `while true do end`,
	})
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("runaway block ran %v, want call budget enforcement", elapsed)
	}
}

func TestEmitWithoutPage(t *testing.T) {
	h := New(newFakeAPI(), nil, Options{})
	defer h.Close()

	h.Emit("click", "nothing") // no state loaded; must not panic
	h.Invoke("fn", "nothing")

	h.LoadPage(nil)
	h.Emit("click", "still nothing")
}
