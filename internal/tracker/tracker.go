// Package tracker implements rubber-band move and resize feedback: a set of
// outline rectangles that follow the pointer or arrow keys inside a nested
// event loop, without touching any real window until the caller commits.
package tracker

import (
	"time"

	"github.com/Mailaender/eclipse.platform.swt/internal/display"
	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// Style selects which directions a tracker may move or grow in. Without
// Resize the tracker translates; with it the tracker drags edges.
type Style int

const (
	Left Style = 1 << iota
	Right
	Up
	Down
	Resize
)

// Arrow-key step sizes in pixels. Holding control selects the small step.
const (
	stepSizeSmall = 1
	stepSizeLarge = 9
)

const idleWait = 50 * time.Millisecond

// ControlListener observes tracker geometry changes while the nested loop
// runs. Callbacks may inspect and replace the rectangles.
type ControlListener interface {
	ControlMoved(e *display.Event)
	ControlResized(e *display.Event)
}

// Tracker runs the rubber-band loop on its display's goroutine.
type Tracker struct {
	d       *display.Display
	backend platform.Backend
	style   Style

	rectangles  []platform.Rect
	proportions []platform.Rect
	bounds      platform.Rect
	hasBounds   bool
	rectGen     uint64

	orientation Style
	stippled    bool

	tracking  bool
	cancelled bool
	disposed  bool
	inEvent   bool

	clientCursor platform.CursorID
	resizeCursor platform.CursorID

	captureWindow platform.WindowID
	oldX, oldY    int

	listeners []ControlListener
}

// New creates a tracker. A style with none of the direction bits set allows
// all four directions.
func New(d *display.Display, style Style) (*Tracker, error) {
	if d == nil {
		return nil, display.ErrNilArgument
	}
	if err := d.CheckDevice(); err != nil {
		return nil, err
	}
	if style&(Left|Right|Up|Down) == 0 {
		style |= Left | Right | Up | Down
	}
	return &Tracker{d: d, backend: d.Backend(), style: style}, nil
}

// AddControlListener registers a listener for move and resize callbacks.
func (t *Tracker) AddControlListener(l ControlListener) error {
	if err := t.checkWidget(); err != nil {
		return err
	}
	if l == nil {
		return display.ErrNilArgument
	}
	t.listeners = append(t.listeners, l)
	return nil
}

// RemoveControlListener unregisters a listener.
func (t *Tracker) RemoveControlListener(l ControlListener) error {
	if err := t.checkWidget(); err != nil {
		return err
	}
	if l == nil {
		return display.ErrNilArgument
	}
	for i, hooked := range t.listeners {
		if hooked == l {
			t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
			break
		}
	}
	return nil
}

// SetRectangles replaces the tracked rectangles and recomputes the bounds
// and proportions.
func (t *Tracker) SetRectangles(rects []platform.Rect) error {
	if err := t.checkWidget(); err != nil {
		return err
	}
	if rects == nil {
		return display.ErrNilArgument
	}
	t.rectangles = make([]platform.Rect, len(rects))
	copy(t.rectangles, rects)
	t.bounds, t.hasBounds = computeBounds(t.rectangles)
	t.proportions = computeProportions(t.rectangles, t.bounds)
	t.rectGen++
	return nil
}

// GetRectangles returns a copy of the current rectangles.
func (t *Tracker) GetRectangles() ([]platform.Rect, error) {
	if err := t.checkWidget(); err != nil {
		return nil, err
	}
	out := make([]platform.Rect, len(t.rectangles))
	copy(out, t.rectangles)
	return out, nil
}

// Bounds returns the union of the current rectangles.
func (t *Tracker) Bounds() platform.Rect { return t.bounds }

// SetStippled selects dashed outlines.
func (t *Tracker) SetStippled(stippled bool) error {
	if err := t.checkWidget(); err != nil {
		return err
	}
	t.stippled = stippled
	return nil
}

// GetStippled reports whether outlines are dashed.
func (t *Tracker) GetStippled() (bool, error) {
	if err := t.checkWidget(); err != nil {
		return false, err
	}
	return t.stippled, nil
}

// SetCursor pins the pointer shape for the whole drag instead of letting the
// tracker pick orientation cursors.
func (t *Tracker) SetCursor(cursor platform.CursorID) error {
	if err := t.checkWidget(); err != nil {
		return err
	}
	t.clientCursor = cursor
	if cursor != 0 {
		t.backend.SetCursor(cursor)
	}
	return nil
}

// Close stops the nested loop as a commit.
func (t *Tracker) Close() error {
	if err := t.checkWidget(); err != nil {
		return err
	}
	t.tracking = false
	return nil
}

// Dispose releases the tracker. Disposal during an open loop cancels it.
func (t *Tracker) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	t.tracking = false
}

func (t *Tracker) Disposed() bool { return t.disposed }

func (t *Tracker) checkWidget() error {
	if err := t.d.CheckDevice(); err != nil {
		return err
	}
	if t.disposed {
		return display.ErrWidgetDisposed
	}
	return nil
}

// Open runs the nested rubber-band loop until the drag commits or cancels.
// It reports true on commit. Only key, button, and motion events dispatch
// while the loop runs; everything else is buffered and replayed afterwards.
func (t *Tracker) Open() (bool, error) {
	if err := t.checkWidget(); err != nil {
		return false, err
	}
	if t.rectangles == nil {
		return false, nil
	}
	t.cancelled = false
	t.tracking = true
	t.orientation = 0

	mouseDown := t.backend.PointerButtonDown()
	if !mouseDown {
		// Without an implicit grab from a pressed button, a full-screen
		// input-only window captures the pointer and keyboard for the drag.
		screen, err := t.backend.ScreenBounds()
		if err == nil {
			if capture, err := t.backend.CreateCaptureWindow(screen); err == nil {
				t.captureWindow = capture
				if err := t.backend.GrabInput(capture); err != nil {
					_ = t.backend.DestroyWindow(capture)
					t.captureWindow = 0
				}
			}
		}
	}

	t.drawRectangles(t.rectangles, t.stippled)
	if mouseDown {
		t.oldX, t.oldY = t.backend.CursorPos()
	} else if t.style&Resize != 0 {
		t.oldX, t.oldY = t.adjustResizeCursor()
	} else {
		t.oldX, t.oldY = t.adjustMoveCursor()
	}

	t.d.SetEventFilter(t)
	t.d.RestrictDispatch([]platform.EventType{
		platform.EventKeyPress,
		platform.EventKeyRelease,
		platform.EventButtonPress,
		platform.EventButtonRelease,
		platform.EventMotion,
	})

	for t.tracking && !t.cancelled && !t.disposed && !t.d.IsDisposed() {
		if !t.backend.Iterate() {
			t.backend.Wait(idleWait)
		}
	}

	t.d.SetEventFilter(nil)
	if !t.d.IsDisposed() {
		t.d.UnrestrictDispatch()
	}

	if !t.disposed {
		// XOR drawing, so repeating the last draw erases it.
		t.drawRectangles(t.rectangles, t.stippled)
	}
	if t.captureWindow != 0 {
		t.backend.UngrabInput()
		_ = t.backend.DestroyWindow(t.captureWindow)
		t.captureWindow = 0
	}
	if t.resizeCursor != 0 {
		t.backend.FreeCursor(t.resizeCursor)
		t.resizeCursor = 0
	}
	t.tracking = false
	return !t.cancelled, nil
}

// FilterNativeEvent consumes input events while the loop runs. It returns
// false for everything the tracker handled so normal dispatch stays
// suppressed, and true only when the tracker is idle.
func (t *Tracker) FilterNativeEvent(ev *platform.Event) bool {
	if !t.tracking {
		return true
	}
	switch ev.Type {
	case platform.EventMotion, platform.EventButtonRelease:
		newX, newY := ev.RootX, ev.RootY
		if newX != t.oldX || newY != t.oldY {
			if !t.applyChange(newX-t.oldX, newY-t.oldY, newX, newY) {
				return false
			}
			if t.style&Resize != 0 {
				newX, newY = t.adjustResizeCursor()
			}
			t.oldX, t.oldY = newX, newY
		}
		if ev.Type == platform.EventButtonRelease {
			t.tracking = false
		}
		return false
	case platform.EventKeyPress:
		t.handleKey(ev)
		return false
	case platform.EventKeyRelease, platform.EventButtonPress:
		return false
	}
	return true
}

func (t *Tracker) handleKey(ev *platform.Event) {
	// A system-modified keystroke always cancels the drag.
	if ev.State&platform.ModAlt != 0 {
		t.cancelled = true
		t.tracking = false
		return
	}
	stepSize := stepSizeLarge
	if ev.State&platform.ModControl != 0 {
		stepSize = stepSizeSmall
	}
	xChange, yChange := 0, 0
	switch ev.Keysym {
	case platform.KeysymEscape:
		t.cancelled = true
		t.tracking = false
		return
	case platform.KeysymReturn, platform.KeysymKPEnter:
		t.tracking = false
		return
	case platform.KeysymLeft:
		xChange = -stepSize
	case platform.KeysymRight:
		xChange = stepSize
	case platform.KeysymUp:
		yChange = -stepSize
	case platform.KeysymDown:
		yChange = stepSize
	default:
		return
	}
	if xChange == 0 && yChange == 0 {
		return
	}
	if !t.applyChange(xChange, yChange, t.oldX+xChange, t.oldY+yChange) {
		return
	}
	var x, y int
	if t.style&Resize != 0 {
		x, y = t.adjustResizeCursor()
	} else {
		x, y = t.adjustMoveCursor()
	}
	t.oldX, t.oldY = x, y
}

// applyChange updates the geometry by the delta, notifies listeners, and
// redraws. It reports false when a listener disposed the tracker, which
// counts as a cancel.
func (t *Tracker) applyChange(xChange, yChange, eventX, eventY int) bool {
	rectsToErase := make([]platform.Rect, len(t.rectangles))
	copy(rectsToErase, t.rectangles)
	oldStippled := t.stippled
	oldGen := t.rectGen

	var eventType int
	if t.style&Resize != 0 {
		t.resizeRectangles(xChange, yChange)
		eventType = display.EventResize
	} else {
		t.moveRectangles(xChange, yChange)
		eventType = display.EventMove
	}

	t.notifyListeners(eventType, eventX, eventY)
	if t.disposed {
		t.cancelled = true
		return false
	}

	// A listener that swapped the rectangles decides the redraw by value;
	// otherwise the geometry moved and always redraws.
	draw := true
	if t.rectGen != oldGen {
		draw = len(t.rectangles) != len(rectsToErase)
		if !draw {
			for i := range t.rectangles {
				if t.rectangles[i] != rectsToErase[i] {
					draw = true
					break
				}
			}
		}
	}
	if draw {
		t.drawRectangles(rectsToErase, oldStippled)
		t.drawRectangles(t.rectangles, t.stippled)
	}
	return true
}

// notifyListeners calls out to the registered listeners. While a callback
// runs, the capture window goes hit-transparent so the callback can reach
// the windows underneath it.
func (t *Tracker) notifyListeners(eventType, x, y int) {
	if len(t.listeners) == 0 {
		return
	}
	e := &display.Event{Type: eventType, Time: t.d.LastEventTime(), X: x, Y: y, Doit: true}
	t.inEvent = true
	if t.captureWindow != 0 {
		t.backend.SetWindowInputTransparent(t.captureWindow, true)
	}
	snapshot := make([]ControlListener, len(t.listeners))
	copy(snapshot, t.listeners)
	for _, l := range snapshot {
		if eventType == display.EventResize {
			l.ControlResized(e)
		} else {
			l.ControlMoved(e)
		}
	}
	t.inEvent = false
	if t.captureWindow != 0 && !t.disposed {
		t.backend.SetWindowInputTransparent(t.captureWindow, false)
	}
}

func (t *Tracker) drawRectangles(rects []platform.Rect, stippled bool) {
	if len(rects) == 0 {
		return
	}
	if err := t.backend.DrawRectangles(rects, stippled); err != nil {
		t.d.Backend().Beep()
	}
}

// adjustMoveCursor warps the pointer to the top center of the bounds so the
// drag has a stable reference point.
func (t *Tracker) adjustMoveCursor() (int, int) {
	if !t.hasBounds {
		return t.oldX, t.oldY
	}
	x := t.bounds.X + t.bounds.Width/2
	y := t.bounds.Y
	t.backend.WarpPointer(x, y)
	return x, y
}

// adjustResizeCursor warps the pointer to the controlled corner or edge and
// updates the pointer shape to match the orientation.
func (t *Tracker) adjustResizeCursor() (int, int) {
	if !t.hasBounds {
		return t.oldX, t.oldY
	}
	var x, y int
	switch {
	case t.orientation&Left != 0:
		x = t.bounds.X
	case t.orientation&Right != 0:
		x = t.bounds.X + t.bounds.Width
	default:
		x = t.bounds.X + t.bounds.Width/2
	}
	switch {
	case t.orientation&Up != 0:
		y = t.bounds.Y
	case t.orientation&Down != 0:
		y = t.bounds.Y + t.bounds.Height
	default:
		y = t.bounds.Y + t.bounds.Height/2
	}
	t.backend.WarpPointer(x, y)

	if t.clientCursor != 0 {
		return x, y
	}
	kind := platform.CursorSizeAll
	switch t.orientation {
	case Left | Up, Right | Down:
		kind = platform.CursorSizeNWSE
	case Left | Down, Right | Up:
		kind = platform.CursorSizeNESW
	case Left, Right:
		kind = platform.CursorSizeWE
	case Up, Down:
		kind = platform.CursorSizeNS
	}
	if newCursor, err := t.backend.CreateSizeCursor(kind); err == nil {
		t.backend.SetCursor(newCursor)
		if t.resizeCursor != 0 {
			t.backend.FreeCursor(t.resizeCursor)
		}
		t.resizeCursor = newCursor
	}
	return x, y
}
