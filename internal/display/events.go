package display

// Toolkit-level event types.
const (
	EventKeyDown = iota + 1
	EventKeyUp
	EventMouseDown
	EventMouseUp
	EventMouseMove
	EventMouseHover
	EventMove
	EventResize
	EventShow
	EventClose
	EventDispose
	EventSettings
	EventSkin
)

// Event is a toolkit-level event delivered to listeners.
type Event struct {
	Type   int
	Widget Widget
	Time   uint32

	X, Y          int
	Width, Height int

	// Doit lets a listener veto the default action where one exists.
	Doit bool

	Data any
}

// Listener receives toolkit-level events. Implementations must be comparable
// so they can be removed again.
type Listener interface {
	HandleEvent(e *Event)
}

// eventTable maps event types to listener lists. Listeners run in hook order
// against a snapshot, so a listener may unhook itself while running.
type eventTable struct {
	hooks map[int][]Listener
}

func (t *eventTable) hook(eventType int, l Listener) {
	if t.hooks == nil {
		t.hooks = make(map[int][]Listener)
	}
	t.hooks[eventType] = append(t.hooks[eventType], l)
}

func (t *eventTable) unhook(eventType int, l Listener) {
	list := t.hooks[eventType]
	for i, hooked := range list {
		if hooked == l {
			t.hooks[eventType] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

func (t *eventTable) hooked(eventType int) bool {
	return len(t.hooks[eventType]) > 0
}

func (t *eventTable) sendEvent(e *Event) {
	list := t.hooks[e.Type]
	if len(list) == 0 {
		return
	}
	snapshot := make([]Listener, len(list))
	copy(snapshot, list)
	for _, l := range snapshot {
		l.HandleEvent(e)
	}
}

// AddListener hooks a display-level listener for the given event type.
func (d *Display) AddListener(eventType int, l Listener) error {
	if err := d.CheckDevice(); err != nil {
		return err
	}
	if l == nil {
		return ErrNilArgument
	}
	d.eventTable.hook(eventType, l)
	return nil
}

// RemoveListener unhooks a display-level listener.
func (d *Display) RemoveListener(eventType int, l Listener) error {
	if err := d.CheckDevice(); err != nil {
		return err
	}
	if l == nil {
		return ErrNilArgument
	}
	d.eventTable.unhook(eventType, l)
	return nil
}

// AddFilter hooks a listener that sees events of the given type for every
// widget before the widget's own listeners do.
func (d *Display) AddFilter(eventType int, l Listener) error {
	if err := d.CheckDevice(); err != nil {
		return err
	}
	if l == nil {
		return ErrNilArgument
	}
	d.filterTable.hook(eventType, l)
	return nil
}

// RemoveFilter unhooks a filter listener.
func (d *Display) RemoveFilter(eventType int, l Listener) error {
	if err := d.CheckDevice(); err != nil {
		return err
	}
	if l == nil {
		return ErrNilArgument
	}
	d.filterTable.unhook(eventType, l)
	return nil
}

// Filters reports whether any filter is hooked for the event type.
func (d *Display) Filters(eventType int) bool {
	return d.filterTable.hooked(eventType)
}

// FilterEvent runs the hooked filters for the event and reports whether a
// filter vetoed it.
func (d *Display) FilterEvent(e *Event) bool {
	e.Doit = true
	d.filterTable.sendEvent(e)
	return !e.Doit
}

// sendDisplayEvent delivers an event to display-level listeners, stamping the
// last known event time when the event carries none.
func (d *Display) sendDisplayEvent(eventType int) {
	e := &Event{Type: eventType, Time: d.lastEventTime, Doit: true}
	d.eventTable.sendEvent(e)
}

// PostDeferredEvent queues a widget event for delivery at the end of the next
// dispatch cycle that processed native events.
func (d *Display) PostDeferredEvent(e *Event) {
	d.eventQueue = append(d.eventQueue, e)
}

// runDeferredEvents drains the deferred queue in order. Events whose widget
// was disposed after queueing are skipped. Listeners may queue further
// events; those are delivered in the same drain.
func (d *Display) runDeferredEvents() bool {
	run := false
	for len(d.eventQueue) > 0 {
		e := d.eventQueue[0]
		d.eventQueue = d.eventQueue[1:]
		w := e.Widget
		if w == nil || w.Disposed() {
			continue
		}
		run = true
		if !d.FilterEvent(e) {
			w.SendEvent(e)
		}
	}
	d.eventQueue = nil
	return run
}
