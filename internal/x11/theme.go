package x11

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// ThemeStyle returns the stylesheet text of the active widget theme, or ""
// when no theme can be located. The theme name comes from GTK_THEME or the
// server's resource database.
func (c *Connection) ThemeStyle() string {
	name := os.Getenv("GTK_THEME")
	if name == "" {
		name = c.resourceValue("gtk-theme-name")
	}
	if name == "" {
		return ""
	}
	name, _, _ = strings.Cut(name, ":")
	for _, dir := range themeDirs() {
		data, err := os.ReadFile(filepath.Join(dir, name, "gtk-3.0", "gtk.css"))
		if err == nil {
			return string(data)
		}
	}
	return ""
}

func themeDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, filepath.Join(home, ".themes"))
	}
	if data := os.Getenv("XDG_DATA_HOME"); data != "" {
		dirs = append(dirs, filepath.Join(data, "themes"))
	}
	dirs = append(dirs, "/usr/local/share/themes", "/usr/share/themes")
	return dirs
}

// QueryColor looks a color name up in the server's resource database. It
// accepts both bare names and the conventional *name form.
func (c *Connection) QueryColor(name string) (platform.RGB, bool) {
	value := c.resourceValue(name)
	if value == "" {
		return platform.RGB{}, false
	}
	return parseHex(value)
}

// resourceValue fetches one entry from the RESOURCE_MANAGER database on the
// root window.
func (c *Connection) resourceValue(name string) string {
	if c.atomResourceManager == xproto.AtomNone {
		return ""
	}
	reply, err := xproto.GetProperty(c.conn, false, c.root,
		c.atomResourceManager, xproto.GetPropertyTypeAny, 0, 1<<20).Reply()
	if err != nil || len(reply.Value) == 0 {
		return ""
	}
	for _, line := range strings.Split(string(reply.Value), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimPrefix(strings.TrimSpace(key), "*")
		if key == name {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func parseHex(value string) (platform.RGB, bool) {
	hex, ok := strings.CutPrefix(value, "#")
	if !ok || len(hex) != 6 {
		return platform.RGB{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return platform.RGB{}, false
	}
	return platform.RGB{Red: uint8(v >> 16), Green: uint8(v >> 8), Blue: uint8(v)}, true
}
