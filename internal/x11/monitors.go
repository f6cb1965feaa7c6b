package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// Monitor describes one attached output.
type Monitor struct {
	Name    string
	Bounds  platform.Rect
	Primary bool
}

// Monitors queries the attached outputs through RandR. The first active
// output is reported as primary when the server does not say otherwise.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.conn); err != nil {
		return nil, fmt.Errorf("initializing randr: %w", err)
	}
	resources, err := randr.GetScreenResources(c.conn, c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("querying screen resources: %w", err)
	}
	primary, _ := randr.GetOutputPrimary(c.conn, c.root).Reply()

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		name := fmt.Sprintf("output-%d", i)
		isPrimary := false
		if out, err := randr.GetOutputInfo(c.conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}
		if primary != nil && primary.Output != 0 {
			isPrimary = info.Outputs[0] == primary.Output
		} else {
			isPrimary = len(monitors) == 0
		}
		monitors = append(monitors, Monitor{
			Name:    name,
			Primary: isPrimary,
			Bounds: platform.Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}
	if len(monitors) == 0 {
		bounds, err := c.ScreenBounds()
		if err != nil {
			return nil, err
		}
		monitors = append(monitors, Monitor{Name: "screen", Primary: true, Bounds: bounds})
	}
	return monitors, nil
}
