// Package x11 talks to the X server. It owns the connection, window
// creation, and the event stream the display pump drains.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

const windowEventMask = xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskExposure

// Connection wraps an X server connection and the client-side state needed
// to back a display.
type Connection struct {
	xu   *xgbutil.XUtil
	conn *xgb.Conn
	root xproto.Window

	events  chan xgb.Event
	pending []xgb.Event
	wake    chan struct{}
	handler func(*platform.Event)
	dead    bool

	tags map[xproto.Window]int

	grabbed   xproto.Window
	haveShape bool
	haveXTest bool

	atomResourceManager xproto.Atom
	atomWMProtocols     xproto.Atom
	atomWMDeleteWindow  xproto.Atom
}

// Connect opens a connection to the X server named by DISPLAY.
func Connect() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}
	keybind.Initialize(xu)

	c := &Connection{
		xu:     xu,
		conn:   xu.Conn(),
		root:   xu.RootWin(),
		events: make(chan xgb.Event, 64),
		wake:   make(chan struct{}, 1),
		tags:   make(map[xproto.Window]int),
	}
	c.haveShape = shape.Init(c.conn) == nil
	c.haveXTest = xtest.Init(c.conn) == nil
	c.atomResourceManager = c.internAtom("RESOURCE_MANAGER")
	c.atomWMProtocols = c.internAtom("WM_PROTOCOLS")
	c.atomWMDeleteWindow = c.internAtom("WM_DELETE_WINDOW")

	// Settings changes arrive as property updates on the root window.
	xproto.ChangeWindowAttributes(c.conn, c.root, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange})

	go c.readEvents()
	return c, nil
}

func (c *Connection) internAtom(name string) xproto.Atom {
	reply, err := xproto.InternAtom(c.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return xproto.AtomNone
	}
	return reply.Atom
}

// Close shuts the connection down. Pending events are dropped.
func (c *Connection) Close() {
	c.conn.Close()
}

// CreateAnchorWindow creates the hidden 1x1 window that owns display-scoped
// resources and timestamps.
func (c *Connection) CreateAnchorWindow() (platform.WindowID, error) {
	return c.createWindow(platform.Rect{X: -1, Y: -1, Width: 1, Height: 1},
		xproto.WindowClassInputOnly, true, false)
}

// CreateWindow creates an unmapped top-level window.
func (c *Connection) CreateWindow(bounds platform.Rect) (platform.WindowID, error) {
	return c.createWindow(bounds, xproto.WindowClassInputOutput, false, true)
}

// CreateCaptureWindow creates and maps an input-only window covering the
// given bounds, used to capture input during drags.
func (c *Connection) CreateCaptureWindow(bounds platform.Rect) (platform.WindowID, error) {
	id, err := c.createWindow(bounds, xproto.WindowClassInputOnly, true, false)
	if err != nil {
		return 0, err
	}
	if err := xproto.MapWindowChecked(c.conn, xproto.Window(id)).Check(); err != nil {
		c.destroy(xproto.Window(id))
		return 0, fmt.Errorf("mapping capture window: %w", err)
	}
	return id, nil
}

func (c *Connection) createWindow(bounds platform.Rect, class uint16, overrideRedirect, wmClose bool) (platform.WindowID, error) {
	win, err := xproto.NewWindowId(c.conn)
	if err != nil {
		return 0, fmt.Errorf("allocating window id: %w", err)
	}
	mask := uint32(xproto.CwEventMask)
	values := []uint32{windowEventMask}
	if overrideRedirect {
		mask = xproto.CwOverrideRedirect | xproto.CwEventMask
		values = []uint32{1, windowEventMask}
	}
	err = xproto.CreateWindowChecked(c.conn, xproto.WindowClassCopyFromParent,
		win, c.root,
		int16(bounds.X), int16(bounds.Y),
		uint16(bounds.Width), uint16(bounds.Height), 0,
		class, xproto.Visualid(0), mask, values).Check()
	if err != nil {
		return 0, fmt.Errorf("creating window: %w", err)
	}
	if wmClose && c.atomWMProtocols != xproto.AtomNone && c.atomWMDeleteWindow != xproto.AtomNone {
		data := make([]byte, 4)
		xgb.Put32(data, uint32(c.atomWMDeleteWindow))
		xproto.ChangeProperty(c.conn, xproto.PropModeReplace, win,
			c.atomWMProtocols, xproto.AtomAtom, 32, 1, data)
	}
	return platform.WindowID(win), nil
}

// DestroyWindow destroys the window and drops any registry tag it carried.
func (c *Connection) DestroyWindow(id platform.WindowID) error {
	c.destroy(xproto.Window(id))
	return nil
}

func (c *Connection) destroy(win xproto.Window) {
	delete(c.tags, win)
	xproto.DestroyWindow(c.conn, win)
}

// ShowWindow maps the window.
func (c *Connection) ShowWindow(id platform.WindowID) error {
	return xproto.MapWindowChecked(c.conn, xproto.Window(id)).Check()
}

// HideWindow unmaps the window.
func (c *Connection) HideWindow(id platform.WindowID) error {
	return xproto.UnmapWindowChecked(c.conn, xproto.Window(id)).Check()
}

// MoveResize repositions the window in one configure request.
func (c *Connection) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{
		uint32(bounds.X), uint32(bounds.Y),
		uint32(bounds.Width), uint32(bounds.Height),
	}
	return xproto.ConfigureWindowChecked(c.conn, xproto.Window(id), mask, values).Check()
}

// ScreenBounds returns the root window geometry.
func (c *Connection) ScreenBounds() (platform.Rect, error) {
	screen := c.xu.Screen()
	return platform.Rect{
		Width:  int(screen.WidthInPixels),
		Height: int(screen.HeightInPixels),
	}, nil
}

// TagHandle stores a registry index for a window. X has no per-window client
// data, so tags live in a client-side table.
func (c *Connection) TagHandle(id platform.WindowID, index int) error {
	c.tags[xproto.Window(id)] = index
	return nil
}

// HandleTag returns the registry index stored for a window.
func (c *Connection) HandleTag(id platform.WindowID) (int, bool) {
	index, ok := c.tags[xproto.Window(id)]
	return index, ok
}

// ClearTag removes the registry index for a window.
func (c *Connection) ClearTag(id platform.WindowID) {
	delete(c.tags, xproto.Window(id))
}

// Beep rings the server bell.
func (c *Connection) Beep() {
	xproto.Bell(c.conn, 0)
}
