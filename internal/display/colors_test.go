package display

import (
	"testing"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

func TestSystemColorFromStyleBlock(t *testing.T) {
	backend := newFakeBackend()
	backend.style = `
window, dialog {
  background-color: #336699;
  color: rgb(10, 20, 30);
}
`
	d := newTestDisplay(t, backend)

	bg, err := d.SystemColor(ColorWidgetBackground)
	if err != nil {
		t.Fatalf("SystemColor: %v", err)
	}
	want := platform.RGB{Red: 0x33, Green: 0x66, Blue: 0x99}
	if bg != want {
		t.Fatalf("widget background = %+v, want %+v", bg, want)
	}
	fg, _ := d.SystemColor(ColorWidgetForeground)
	if (fg != platform.RGB{Red: 10, Green: 20, Blue: 30}) {
		t.Fatalf("widget foreground = %+v, want rgb(10,20,30)", fg)
	}
}

func TestSystemColorFromDefinedColor(t *testing.T) {
	backend := newFakeBackend()
	// No matching selector block, only named definitions, one of them a
	// reference to another.
	backend.style = `
@define-color base #abcdef;
@define-color theme_bg_color @base;
`
	d := newTestDisplay(t, backend)

	bg, _ := d.SystemColor(ColorWidgetBackground)
	want := platform.RGB{Red: 0xab, Green: 0xcd, Blue: 0xef}
	if bg != want {
		t.Fatalf("widget background = %+v, want %+v", bg, want)
	}
}

func TestSystemColorFromNativeQuery(t *testing.T) {
	backend := newFakeBackend()
	backend.resources = map[string]platform.RGB{
		"theme_bg_color": {Red: 1, Green: 2, Blue: 3},
	}
	d := newTestDisplay(t, backend)

	bg, _ := d.SystemColor(ColorWidgetBackground)
	if (bg != platform.RGB{Red: 1, Green: 2, Blue: 3}) {
		t.Fatalf("widget background = %+v, want the queried value", bg)
	}
}

func TestSystemColorBuiltinFallback(t *testing.T) {
	backend := newFakeBackend()
	d := newTestDisplay(t, backend)

	sel, _ := d.SystemColor(ColorListSelection)
	want := platform.RGB{Red: 0x4a, Green: 0x90, Blue: 0xd9}
	if sel != want {
		t.Fatalf("list selection = %+v, want built-in %+v", sel, want)
	}
}

func TestSystemColorOverride(t *testing.T) {
	backend := newFakeBackend()
	backend.style = `window { background-color: #336699; }`
	d, err := New(backend, Options{
		TrimPrefsPath:  t.TempDir() + "/trims.yaml",
		ColorOverrides: map[string]string{"widget-background": "#010203"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = d.Dispose() }()

	bg, _ := d.SystemColor(ColorWidgetBackground)
	if (bg != platform.RGB{Red: 1, Green: 2, Blue: 3}) {
		t.Fatalf("override ignored, got %+v", bg)
	}
}

func TestParseColorValueForms(t *testing.T) {
	cases := []struct {
		in   string
		want platform.RGB
		ok   bool
	}{
		{"#fff", platform.RGB{Red: 0xff, Green: 0xff, Blue: 0xff}, true},
		{"#102030", platform.RGB{Red: 0x10, Green: 0x20, Blue: 0x30}, true},
		{"rgb(0, 128, 255)", platform.RGB{Green: 128, Blue: 255}, true},
		{"rgba(1, 2, 3, 0.5)", platform.RGB{Red: 1, Green: 2, Blue: 3}, true},
		{"#12", platform.RGB{}, false},
		{"rgb(300, 0, 0)", platform.RGB{}, false},
		{"bogus", platform.RGB{}, false},
	}
	for _, c := range cases {
		got, ok := parseColorValue("", c.in, 0)
		if ok != c.ok || got != c.want {
			t.Errorf("parseColorValue(%q) = %+v, %v; want %+v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestDefinedColorCycleTerminates(t *testing.T) {
	style := `
@define-color a @b;
@define-color b @a;
`
	if _, ok := definedColor(style, "a"); ok {
		t.Fatal("cyclic definitions resolved, want failure")
	}
}
