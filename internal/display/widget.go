package display

import (
	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// Widget is the minimal surface the display needs from anything registered
// against a native handle.
type Widget interface {
	Handle() platform.WindowID
	Disposed() bool

	// SendEvent delivers a toolkit-level event to the widget's listeners.
	SendEvent(e *Event)

	// HandleNativeEvent receives decoded native events routed through the
	// display's handle registry.
	HandleNativeEvent(ev *platform.Event)
}
