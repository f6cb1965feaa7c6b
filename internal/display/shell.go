package display

import (
	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// ShellOptions configures a new shell.
type ShellOptions struct {
	Bounds platform.Rect

	// Modal shells disable input to every other shell while open.
	Modal bool

	// Deferred shells are not mapped by Open directly; the pump maps them
	// in its popup phase.
	Deferred bool
}

// Shell is a top-level window registered with its display.
type Shell struct {
	display *Display
	handle  platform.WindowID
	bounds  platform.Rect

	modal    bool
	deferred bool
	enabled  bool
	visible  bool
	disposed bool

	layoutPending bool

	eventTable eventTable
}

// NewShell creates an unmapped top-level window and registers it with the
// display so native events route back to it.
func NewShell(d *Display, opts ShellOptions) (*Shell, error) {
	if err := d.CheckDevice(); err != nil {
		return nil, err
	}
	bounds := opts.Bounds
	if bounds.Width <= 0 {
		bounds.Width = 1
	}
	if bounds.Height <= 0 {
		bounds.Height = 1
	}
	handle, err := d.backend.CreateWindow(bounds)
	if err != nil {
		return nil, err
	}
	s := &Shell{
		display:  d,
		handle:   handle,
		bounds:   bounds,
		modal:    opts.Modal,
		deferred: opts.Deferred,
		enabled:  true,
	}
	if err := d.addWidget(handle, s); err != nil {
		_ = d.backend.DestroyWindow(handle)
		return nil, err
	}
	d.shells = append(d.shells, s)
	if s.modal {
		d.modalShells = append(d.modalShells, s)
		d.updateModal()
	}
	return s, nil
}

func (s *Shell) Handle() platform.WindowID { return s.handle }
func (s *Shell) Disposed() bool            { return s.disposed }
func (s *Shell) Display() *Display         { return s.display }
func (s *Shell) Bounds() platform.Rect     { return s.bounds }
func (s *Shell) Enabled() bool             { return s.enabled }
func (s *Shell) Visible() bool             { return s.visible }

// Open maps the shell. Deferred shells are queued for the pump's popup phase
// instead of mapping immediately.
func (s *Shell) Open() error {
	if err := s.checkWidget(); err != nil {
		return err
	}
	if s.deferred {
		s.display.addPopup(s)
		return nil
	}
	s.mapNow()
	return nil
}

func (s *Shell) mapNow() {
	if s.visible || s.disposed {
		return
	}
	if err := s.display.backend.ShowWindow(s.handle); err != nil {
		s.display.log.Warn("showing shell", "handle", s.handle, "error", err)
		return
	}
	s.visible = true
	s.SendEvent(&Event{Type: EventShow, Widget: s, Time: s.display.lastEventTime, Doit: true})
}

// SetVisible shows or hides the shell immediately.
func (s *Shell) SetVisible(visible bool) error {
	if err := s.checkWidget(); err != nil {
		return err
	}
	if visible {
		s.display.removePopup(s)
		s.mapNow()
		return nil
	}
	if !s.visible {
		return nil
	}
	s.visible = false
	return s.display.backend.HideWindow(s.handle)
}

// SetBounds moves and resizes the shell. Move and resize notifications are
// delivered when the native configure event arrives.
func (s *Shell) SetBounds(bounds platform.Rect) error {
	if err := s.checkWidget(); err != nil {
		return err
	}
	if bounds.Width < 1 || bounds.Height < 1 {
		return ErrNilArgument
	}
	return s.display.backend.MoveResize(s.handle, bounds)
}

// RequestLayout queues the shell for the pump's deferred layout phase.
func (s *Shell) RequestLayout() error {
	if err := s.checkWidget(); err != nil {
		return err
	}
	s.layoutPending = true
	s.display.deferLayout(s)
	return nil
}

func (s *Shell) flushLayout() {
	if !s.layoutPending {
		return
	}
	s.layoutPending = false
	s.SendEvent(&Event{Type: EventResize, Widget: s, Time: s.display.lastEventTime,
		Width: s.bounds.Width, Height: s.bounds.Height, Doit: true})
}

func (s *Shell) themeChanged() {
	s.SendEvent(&Event{Type: EventSettings, Widget: s, Time: s.display.lastEventTime, Doit: true})
	s.layoutPending = true
	s.display.deferLayout(s)
}

// AddListener hooks a listener for the given toolkit event type.
func (s *Shell) AddListener(eventType int, l Listener) error {
	if err := s.checkWidget(); err != nil {
		return err
	}
	if l == nil {
		return ErrNilArgument
	}
	s.eventTable.hook(eventType, l)
	return nil
}

// RemoveListener unhooks a listener.
func (s *Shell) RemoveListener(eventType int, l Listener) error {
	if err := s.checkWidget(); err != nil {
		return err
	}
	if l == nil {
		return ErrNilArgument
	}
	s.eventTable.unhook(eventType, l)
	return nil
}

// SendEvent delivers an event to the shell's listeners, display filters
// first.
func (s *Shell) SendEvent(e *Event) {
	e.Widget = s
	if e.Time == 0 {
		e.Time = s.display.lastEventTime
	}
	e.Doit = true
	if s.display.FilterEvent(e) {
		return
	}
	s.eventTable.sendEvent(e)
}

// HandleNativeEvent translates routed native events into toolkit events.
// Input to a shell disabled by a modal peer is swallowed with a beep.
func (s *Shell) HandleNativeEvent(ev *platform.Event) {
	switch ev.Type {
	case platform.EventConfigure:
		moved := ev.X != s.bounds.X || ev.Y != s.bounds.Y
		resized := ev.Width != s.bounds.Width || ev.Height != s.bounds.Height
		s.bounds = platform.Rect{X: ev.X, Y: ev.Y, Width: ev.Width, Height: ev.Height}
		if moved {
			s.display.PostDeferredEvent(&Event{Type: EventMove, Widget: s, Time: ev.Time,
				X: ev.X, Y: ev.Y, Doit: true})
		}
		if resized {
			s.display.PostDeferredEvent(&Event{Type: EventResize, Widget: s, Time: ev.Time,
				Width: ev.Width, Height: ev.Height, Doit: true})
		}
	case platform.EventKeyPress, platform.EventKeyRelease,
		platform.EventButtonPress, platform.EventButtonRelease, platform.EventMotion:
		if !s.enabled {
			if ev.IsUserInput() {
				s.display.backend.Beep()
			}
			return
		}
		s.SendEvent(&Event{Type: toolkitInputType(ev.Type), Time: ev.Time,
			X: ev.X, Y: ev.Y, Doit: true})
	case platform.EventCloseRequest:
		e := &Event{Type: EventClose, Widget: s, Time: ev.Time, Doit: true}
		s.SendEvent(e)
		if e.Doit {
			s.Dispose()
		}
	}
}

func toolkitInputType(t platform.EventType) int {
	switch t {
	case platform.EventKeyPress:
		return EventKeyDown
	case platform.EventKeyRelease:
		return EventKeyUp
	case platform.EventButtonPress:
		return EventMouseDown
	case platform.EventButtonRelease:
		return EventMouseUp
	default:
		return EventMouseMove
	}
}

// Dispose destroys the shell, fires its dispose event, and recomputes modal
// enablement for the survivors.
func (s *Shell) Dispose() {
	if s.disposed {
		return
	}
	s.SendEvent(&Event{Type: EventDispose, Widget: s, Doit: true})
	s.disposed = true

	d := s.display
	d.removeWidget(s.handle)
	d.removePopup(s)
	for i, sh := range d.shells {
		if sh == s {
			d.shells = append(d.shells[:i:i], d.shells[i+1:]...)
			break
		}
	}
	if s.modal {
		for i, sh := range d.modalShells {
			if sh == s {
				d.modalShells = append(d.modalShells[:i:i], d.modalShells[i+1:]...)
				break
			}
		}
		d.updateModal()
	}
	if err := d.backend.DestroyWindow(s.handle); err != nil {
		d.log.Warn("destroying shell", "handle", s.handle, "error", err)
	}
	s.handle = 0
}

func (s *Shell) checkWidget() error {
	if err := s.display.CheckDevice(); err != nil {
		return err
	}
	if s.disposed {
		return ErrWidgetDisposed
	}
	return nil
}

// updateModal recomputes enablement: with a modal stack only the most
// recently opened modal shell accepts input.
func (d *Display) updateModal() {
	var top *Shell
	if n := len(d.modalShells); n > 0 {
		top = d.modalShells[n-1]
	}
	for _, s := range d.shells {
		s.enabled = top == nil || s == top
	}
}
