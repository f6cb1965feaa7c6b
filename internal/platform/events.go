package platform

// EventType identifies a class of native event.
type EventType int

const (
	EventNone EventType = iota
	EventKeyPress
	EventKeyRelease
	EventButtonPress
	EventButtonRelease
	EventMotion
	EventConfigure
	EventExpose
	EventCloseRequest
	EventSettingsChanged
)

// Modifier masks carried in Event.State. Values follow the X11 key masks.
const (
	ModShift   uint16 = 1 << 0
	ModControl uint16 = 1 << 2
	ModAlt     uint16 = 1 << 3
)

// Keysyms the display and its helpers care about. Values are X11 keysyms.
const (
	KeysymEscape  uint32 = 0xff1b
	KeysymReturn  uint32 = 0xff0d
	KeysymKPEnter uint32 = 0xff8d
	KeysymLeft    uint32 = 0xff51
	KeysymUp      uint32 = 0xff52
	KeysymRight   uint32 = 0xff53
	KeysymDown    uint32 = 0xff54
)

// Event is a decoded native event.
type Event struct {
	Type   EventType
	Window WindowID

	// Timestamp in native ticks. Zero means the event carries no time.
	Time uint32

	// Pointer position relative to the event window and to the screen.
	X, Y         int
	RootX, RootY int

	// Modifier state at the time of the event.
	State uint16

	// Key events.
	Keysym uint32

	// Button events.
	Button byte

	// Configure and expose events.
	Width, Height int
}

// IsUserInput reports whether the event represents direct user input for the
// purpose of the user-input timestamp.
func (e *Event) IsUserInput() bool {
	return e.Type == EventKeyPress || e.Type == EventButtonPress
}
