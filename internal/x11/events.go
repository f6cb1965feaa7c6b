package x11

import (
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// readEvents feeds the server's event stream into the channel Iterate and
// Wait drain. It runs for the life of the connection.
func (c *Connection) readEvents() {
	for {
		ev, err := c.conn.WaitForEvent()
		if ev == nil && err == nil {
			close(c.events)
			return
		}
		if ev != nil {
			c.events <- ev
		}
	}
}

// SetEventHandler installs the decoder sink. A nil handler drops events.
func (c *Connection) SetEventHandler(handler func(*platform.Event)) {
	c.handler = handler
}

// Iterate delivers every event already pending, without blocking, and
// reports whether it delivered any.
func (c *Connection) Iterate() bool {
	did := false
	for _, raw := range c.pending {
		c.deliver(raw)
		did = true
	}
	c.pending = nil
	if c.dead {
		return did
	}
	for {
		select {
		case raw, ok := <-c.events:
			if !ok {
				c.markDead()
				return did
			}
			c.deliver(raw)
			did = true
		default:
			return did
		}
	}
}

// Wait blocks until an event arrives, Wake is called, or the timeout
// elapses. An event that arrives is held for the next Iterate. It reports
// whether events are pending.
func (c *Connection) Wait(timeout time.Duration) bool {
	if len(c.pending) > 0 {
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	if c.dead {
		// The event channel is closed and would select immediately forever,
		// so block on the wake and the timer only.
		select {
		case <-c.wake:
		case <-timer.C:
		}
		return false
	}
	select {
	case raw, ok := <-c.events:
		if !ok {
			c.markDead()
			return false
		}
		c.pending = append(c.pending, raw)
		return true
	case <-c.wake:
		return false
	case <-timer.C:
		return false
	}
}

// markDead records that the server connection is gone. Every tagged window
// gets a close request so the widgets above can unwind; the registry tag
// table holds exactly the windows with an owner.
func (c *Connection) markDead() {
	if c.dead {
		return
	}
	c.dead = true
	if c.handler == nil {
		return
	}
	wins := make([]xproto.Window, 0, len(c.tags))
	for win := range c.tags {
		wins = append(wins, win)
	}
	for _, win := range wins {
		c.handler(&platform.Event{
			Type:   platform.EventCloseRequest,
			Window: platform.WindowID(win),
		})
	}
}

// Wake unblocks a Wait in progress. Safe from any goroutine.
func (c *Connection) Wake() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Connection) deliver(raw xgb.Event) {
	if c.handler == nil {
		return
	}
	if ev := c.decode(raw); ev != nil {
		c.handler(ev)
	}
}

func (c *Connection) decode(raw xgb.Event) *platform.Event {
	switch ev := raw.(type) {
	case xproto.KeyPressEvent:
		return &platform.Event{
			Type:   platform.EventKeyPress,
			Window: platform.WindowID(ev.Event),
			Time:   uint32(ev.Time),
			X:      int(ev.EventX), Y: int(ev.EventY),
			RootX: int(ev.RootX), RootY: int(ev.RootY),
			State:  ev.State,
			Keysym: uint32(keybind.KeysymGet(c.xu, ev.Detail, 0)),
		}
	case xproto.KeyReleaseEvent:
		return &platform.Event{
			Type:   platform.EventKeyRelease,
			Window: platform.WindowID(ev.Event),
			Time:   uint32(ev.Time),
			X:      int(ev.EventX), Y: int(ev.EventY),
			RootX: int(ev.RootX), RootY: int(ev.RootY),
			State:  ev.State,
			Keysym: uint32(keybind.KeysymGet(c.xu, ev.Detail, 0)),
		}
	case xproto.ButtonPressEvent:
		return &platform.Event{
			Type:   platform.EventButtonPress,
			Window: platform.WindowID(ev.Event),
			Time:   uint32(ev.Time),
			X:      int(ev.EventX), Y: int(ev.EventY),
			RootX: int(ev.RootX), RootY: int(ev.RootY),
			State:  ev.State,
			Button: byte(ev.Detail),
		}
	case xproto.ButtonReleaseEvent:
		return &platform.Event{
			Type:   platform.EventButtonRelease,
			Window: platform.WindowID(ev.Event),
			Time:   uint32(ev.Time),
			X:      int(ev.EventX), Y: int(ev.EventY),
			RootX: int(ev.RootX), RootY: int(ev.RootY),
			State:  ev.State,
			Button: byte(ev.Detail),
		}
	case xproto.MotionNotifyEvent:
		return &platform.Event{
			Type:   platform.EventMotion,
			Window: platform.WindowID(ev.Event),
			Time:   uint32(ev.Time),
			X:      int(ev.EventX), Y: int(ev.EventY),
			RootX: int(ev.RootX), RootY: int(ev.RootY),
			State: ev.State,
		}
	case xproto.ConfigureNotifyEvent:
		return &platform.Event{
			Type:   platform.EventConfigure,
			Window: platform.WindowID(ev.Window),
			X:      int(ev.X), Y: int(ev.Y),
			Width: int(ev.Width), Height: int(ev.Height),
		}
	case xproto.ExposeEvent:
		return &platform.Event{
			Type:   platform.EventExpose,
			Window: platform.WindowID(ev.Window),
			X:      int(ev.X), Y: int(ev.Y),
			Width: int(ev.Width), Height: int(ev.Height),
		}
	case xproto.ClientMessageEvent:
		if ev.Type == c.atomWMProtocols && ev.Format == 32 &&
			len(ev.Data.Data32) > 0 && xproto.Atom(ev.Data.Data32[0]) == c.atomWMDeleteWindow {
			return &platform.Event{
				Type:   platform.EventCloseRequest,
				Window: platform.WindowID(ev.Window),
			}
		}
	case xproto.PropertyNotifyEvent:
		if ev.Window == c.root && ev.Atom == c.atomResourceManager {
			return &platform.Event{
				Type: platform.EventSettingsChanged,
				Time: uint32(ev.Time),
			}
		}
	}
	return nil
}

// PostEvent injects a fake input event through the test extension. It
// reports false when injection is unavailable or the event class cannot be
// simulated.
func (c *Connection) PostEvent(ev *platform.Event) bool {
	if !c.haveXTest {
		return false
	}
	var kind, detail byte
	switch ev.Type {
	case platform.EventKeyPress:
		kind = xproto.KeyPress
		detail = c.keycodeFor(ev.Keysym)
	case platform.EventKeyRelease:
		kind = xproto.KeyRelease
		detail = c.keycodeFor(ev.Keysym)
	case platform.EventButtonPress:
		kind = xproto.ButtonPress
		detail = ev.Button
	case platform.EventButtonRelease:
		kind = xproto.ButtonRelease
		detail = ev.Button
	case platform.EventMotion:
		kind = xproto.MotionNotify
	default:
		return false
	}
	if (kind == xproto.KeyPress || kind == xproto.KeyRelease) && detail == 0 {
		return false
	}
	xtest.FakeInput(c.conn, kind, detail, uint32(xproto.TimeCurrentTime),
		c.root, int16(ev.RootX), int16(ev.RootY), 0)
	return true
}

func (c *Connection) keycodeFor(keysym uint32) byte {
	name := keybind.KeysymToStr(xproto.Keysym(keysym))
	if name == "" {
		return 0
	}
	codes := keybind.StrToKeycodes(c.xu, name)
	if len(codes) == 0 {
		return 0
	}
	return byte(codes[0])
}
