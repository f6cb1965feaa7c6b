package display

import (
	"strconv"
	"strings"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// ColorID names a system color slot.
type ColorID int

const (
	ColorWidgetBackground ColorID = iota
	ColorWidgetForeground
	ColorWidgetBorder
	ColorWidgetDarkShadow
	ColorWidgetLightShadow
	ColorListBackground
	ColorListForeground
	ColorListSelection
	ColorListSelectionText
	ColorTitleBackground
	ColorTitleForeground
	ColorTitleInactiveBackground
	ColorTitleInactiveForeground
)

type colorSpec struct {
	id       ColorID
	name     string
	selector string
	property string
	variable string
	fallback platform.RGB
}

var systemColorTable = []colorSpec{
	{ColorWidgetBackground, "widget-background", "window", "background-color", "theme_bg_color", platform.RGB{Red: 0xee, Green: 0xee, Blue: 0xec}},
	{ColorWidgetForeground, "widget-foreground", "window", "color", "theme_fg_color", platform.RGB{Red: 0x2e, Green: 0x34, Blue: 0x36}},
	{ColorWidgetBorder, "widget-border", "entry", "border-color", "borders", platform.RGB{Red: 0x91, Green: 0x91, Blue: 0x91}},
	{ColorWidgetDarkShadow, "widget-dark-shadow", "entry", "border-color", "borders", platform.RGB{Red: 0x55, Green: 0x57, Blue: 0x53}},
	{ColorWidgetLightShadow, "widget-light-shadow", "window", "background-color", "theme_bg_color", platform.RGB{Red: 0xff, Green: 0xff, Blue: 0xff}},
	{ColorListBackground, "list-background", "textview text", "background-color", "theme_base_color", platform.RGB{Red: 0xff, Green: 0xff, Blue: 0xff}},
	{ColorListForeground, "list-foreground", "textview text", "color", "theme_text_color", platform.RGB{Red: 0x2e, Green: 0x34, Blue: 0x36}},
	{ColorListSelection, "list-selection", "textview selection", "background-color", "theme_selected_bg_color", platform.RGB{Red: 0x4a, Green: 0x90, Blue: 0xd9}},
	{ColorListSelectionText, "list-selection-text", "textview selection", "color", "theme_selected_fg_color", platform.RGB{Red: 0xff, Green: 0xff, Blue: 0xff}},
	{ColorTitleBackground, "title-background", "headerbar", "background-color", "theme_selected_bg_color", platform.RGB{Red: 0x4a, Green: 0x90, Blue: 0xd9}},
	{ColorTitleForeground, "title-foreground", "headerbar", "color", "theme_selected_fg_color", platform.RGB{Red: 0xff, Green: 0xff, Blue: 0xff}},
	{ColorTitleInactiveBackground, "title-inactive-background", "headerbar:backdrop", "background-color", "insensitive_bg_color", platform.RGB{Red: 0xd4, Green: 0xd0, Blue: 0xc8}},
	{ColorTitleInactiveForeground, "title-inactive-foreground", "headerbar:backdrop", "color", "insensitive_fg_color", platform.RGB{Red: 0x80, Green: 0x80, Blue: 0x80}},
}

// initializeSystemColors resolves each system color against the live theme.
// Resolution falls through explicit overrides, the selector's declaration in
// the theme style, the theme's named color definitions, a native query, and
// finally a built-in default.
func (d *Display) initializeSystemColors(overrides map[string]string) {
	style := d.backend.ThemeStyle()
	colors := make(map[ColorID]platform.RGB, len(systemColorTable))
	for _, spec := range systemColorTable {
		if value, ok := overrides[spec.name]; ok {
			if rgb, ok := parseColorValue(style, value, 0); ok {
				colors[spec.id] = rgb
				continue
			}
		}
		if rgb, ok := styleColor(style, spec.selector, spec.property); ok {
			colors[spec.id] = rgb
			continue
		}
		if rgb, ok := definedColor(style, spec.variable); ok {
			colors[spec.id] = rgb
			continue
		}
		if rgb, ok := d.backend.QueryColor(spec.variable); ok {
			colors[spec.id] = rgb
			continue
		}
		colors[spec.id] = spec.fallback
	}
	d.colors = colors
}

// SystemColor returns the resolved value for a system color slot.
func (d *Display) SystemColor(id ColorID) (platform.RGB, error) {
	if err := d.CheckDevice(); err != nil {
		return platform.RGB{}, err
	}
	rgb, ok := d.colors[id]
	if !ok {
		return platform.RGB{}, ErrNilArgument
	}
	return rgb, nil
}

// SystemColors returns every system color keyed by its stable name.
func (d *Display) SystemColors() (map[string]platform.RGB, error) {
	if err := d.CheckDevice(); err != nil {
		return nil, err
	}
	out := make(map[string]platform.RGB, len(systemColorTable))
	for _, spec := range systemColorTable {
		out[spec.name] = d.colors[spec.id]
	}
	return out, nil
}

// styleColor finds the first block whose selector line matches and returns
// the value of the named property inside it.
func styleColor(style, selector, property string) (platform.RGB, bool) {
	rest := style
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			return platform.RGB{}, false
		}
		head := strings.TrimSpace(rest[:open])
		close := strings.Index(rest[open:], "}")
		if close < 0 {
			return platform.RGB{}, false
		}
		body := rest[open+1 : open+close]
		rest = rest[open+close+1:]
		if !selectorMatches(head, selector) {
			continue
		}
		for _, decl := range strings.Split(body, ";") {
			name, value, ok := strings.Cut(decl, ":")
			if !ok || strings.TrimSpace(name) != property {
				continue
			}
			if rgb, ok := parseColorValue(style, strings.TrimSpace(value), 0); ok {
				return rgb, true
			}
		}
	}
}

func selectorMatches(head, selector string) bool {
	for _, part := range strings.Split(head, ",") {
		if strings.TrimSpace(part) == selector {
			return true
		}
	}
	return false
}

// definedColor resolves an @define-color entry, following one name to
// another up to a small depth.
func definedColor(style, name string) (platform.RGB, bool) {
	return definedColorDepth(style, name, 0)
}

func definedColorDepth(style, name string, depth int) (platform.RGB, bool) {
	if depth > 4 {
		return platform.RGB{}, false
	}
	rest := style
	for {
		i := strings.Index(rest, "@define-color")
		if i < 0 {
			return platform.RGB{}, false
		}
		rest = rest[i+len("@define-color"):]
		end := strings.Index(rest, ";")
		if end < 0 {
			return platform.RGB{}, false
		}
		fields := strings.Fields(rest[:end])
		rest = rest[end+1:]
		if len(fields) != 2 || fields[0] != name {
			continue
		}
		return parseColorValue(style, fields[1], depth+1)
	}
}

// parseColorValue understands #rgb, #rrggbb, rgb()/rgba() functions, and
// @name references into the style's defined colors.
func parseColorValue(style, value string, depth int) (platform.RGB, bool) {
	value = strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(value, "@"):
		return definedColorDepth(style, value[1:], depth+1)
	case strings.HasPrefix(value, "#"):
		return parseHexColor(value[1:])
	case strings.HasPrefix(value, "rgba(") && strings.HasSuffix(value, ")"):
		return parseRGBFunc(value[5 : len(value)-1])
	case strings.HasPrefix(value, "rgb(") && strings.HasSuffix(value, ")"):
		return parseRGBFunc(value[4 : len(value)-1])
	}
	return platform.RGB{}, false
}

func parseHexColor(hex string) (platform.RGB, bool) {
	switch len(hex) {
	case 3:
		r, err1 := strconv.ParseUint(strings.Repeat(hex[0:1], 2), 16, 8)
		g, err2 := strconv.ParseUint(strings.Repeat(hex[1:2], 2), 16, 8)
		b, err3 := strconv.ParseUint(strings.Repeat(hex[2:3], 2), 16, 8)
		if err1 != nil || err2 != nil || err3 != nil {
			return platform.RGB{}, false
		}
		return platform.RGB{Red: uint8(r), Green: uint8(g), Blue: uint8(b)}, true
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return platform.RGB{}, false
		}
		return platform.RGB{Red: uint8(v >> 16), Green: uint8(v >> 8), Blue: uint8(v)}, true
	}
	return platform.RGB{}, false
}

func parseRGBFunc(args string) (platform.RGB, bool) {
	parts := strings.Split(args, ",")
	if len(parts) < 3 {
		return platform.RGB{}, false
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return platform.RGB{}, false
		}
		channels[i] = uint8(n)
	}
	return platform.RGB{Red: channels[0], Green: channels[1], Blue: channels[2]}, true
}
