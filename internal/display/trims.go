package display

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Mailaender/eclipse.platform.swt/internal/prefs"
)

// Window trim classes, from no decoration to full title decoration.
const (
	TrimNone = iota
	TrimBorder
	TrimResize
	TrimTitleBorder
	TrimTitleResize
	TrimTitle
	trimCount
)

var (
	defaultTrimWidths  = [trimCount]int{0, 4, 6, 5, 6, 0}
	defaultTrimHeights = [trimCount]int{0, 4, 6, 28, 29, 23}
)

// trimFile is the on-disk cache shape. Each field holds the per-class
// measurements as one whitespace-separated integer list.
type trimFile struct {
	Widths  string `yaml:"trim_widths"`
	Heights string `yaml:"trim_heights"`
}

// loadTrims seeds the trim tables, overlaying cached measurements when a
// well-formed cache exists. Any problem silently keeps the defaults.
func (d *Display) loadTrims() {
	d.trimWidths = defaultTrimWidths
	d.trimHeights = defaultTrimHeights
	path := d.trimPrefsPath
	if path == "" {
		path = prefs.TrimCachePath()
	}
	d.trimPrefsPath = path

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var file trimFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return
	}
	widths, ok := parseTrimList(file.Widths)
	if !ok {
		return
	}
	heights, ok := parseTrimList(file.Heights)
	if !ok {
		return
	}
	d.trimWidths = widths
	d.trimHeights = heights
}

func parseTrimList(s string) ([trimCount]int, bool) {
	var out [trimCount]int
	fields := strings.Fields(s)
	if len(fields) != trimCount {
		return out, false
	}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return out, false
		}
		out[i] = n
	}
	return out, true
}

func formatTrimList(values [trimCount]int) string {
	fields := make([]string, trimCount)
	for i, v := range values {
		fields[i] = strconv.Itoa(v)
	}
	return strings.Join(fields, " ")
}

// saveTrims writes the current measurements back to the cache. Failures are
// ignored; the cache is an optimization, not state.
func (d *Display) saveTrims() {
	if d.trimPrefsPath == "" {
		return
	}
	file := trimFile{
		Widths:  formatTrimList(d.trimWidths),
		Heights: formatTrimList(d.trimHeights),
	}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(d.trimPrefsPath), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(d.trimPrefsPath, data, 0o644)
}

// TrimSize returns the cached decoration extents for a trim class.
func (d *Display) TrimSize(kind int) (width, height int, err error) {
	if err := d.CheckDevice(); err != nil {
		return 0, 0, err
	}
	if kind < 0 || kind >= trimCount {
		return 0, 0, ErrNilArgument
	}
	return d.trimWidths[kind], d.trimHeights[kind], nil
}

// SetTrimSize records a measured decoration extent for a trim class. The new
// value is persisted at disposal.
func (d *Display) SetTrimSize(kind, width, height int) error {
	if err := d.CheckDevice(); err != nil {
		return err
	}
	if kind < 0 || kind >= trimCount || width < 0 || height < 0 {
		return ErrNilArgument
	}
	d.trimWidths[kind] = width
	d.trimHeights[kind] = height
	return nil
}
