package platform

import "time"

// WindowID is a platform-neutral native window handle.
type WindowID uint32

// CursorID is a platform-neutral native cursor handle.
type CursorID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RGB is an 8-bit-per-channel color value.
type RGB struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// Size cursor kinds used for resize-orientation feedback.
const (
	CursorSizeAll = iota
	CursorSizeNS
	CursorSizeWE
	CursorSizeNWSE
	CursorSizeNESW
)

// Backend abstracts the native windowing system. Exactly one goroutine (the
// one that created the owning display) may call any method except Wake and
// PostEvent, which are safe from any goroutine.
type Backend interface {
	// Window lifecycle.
	CreateAnchorWindow() (WindowID, error)
	CreateWindow(bounds Rect) (WindowID, error)
	CreateCaptureWindow(bounds Rect) (WindowID, error)
	DestroyWindow(id WindowID) error
	ShowWindow(id WindowID) error
	HideWindow(id WindowID) error
	MoveResize(id WindowID, bounds Rect) error
	ScreenBounds() (Rect, error)

	// Handle tagging for the widget registry. TagHandle fails only if the
	// platform cannot associate an index with the handle.
	TagHandle(id WindowID, index int) error
	HandleTag(id WindowID) (int, bool)
	ClearTag(id WindowID)

	// Event pump primitives. Iterate performs one non-blocking native
	// iteration, delivering any pending events to the installed handler and
	// reporting whether it did any work. Wait blocks until a native event is
	// pending, the timeout elapses, or Wake is called; it reports whether
	// events are pending.
	SetEventHandler(handler func(*Event))
	Iterate() bool
	Wait(timeout time.Duration) bool
	Wake()

	// Pointer and keyboard.
	GrabInput(id WindowID) error
	UngrabInput()
	PointerButtonDown() bool
	CursorPos() (int, int)
	WarpPointer(x, y int)
	SetCursor(id CursorID)
	CreateSizeCursor(kind int) (CursorID, error)
	FreeCursor(id CursorID)
	SetWindowInputTransparent(id WindowID, transparent bool)

	// Overlay drawing: XOR rubber bands, so drawing the same rectangles
	// twice erases them.
	DrawRectangles(rects []Rect, stippled bool) error
	Beep()

	// Theme introspection.
	ThemeStyle() string
	QueryColor(name string) (RGB, bool)

	// PostEvent injects a simulated input event. It degrades to false when
	// the display server does not support injection.
	PostEvent(ev *Event) bool
}
