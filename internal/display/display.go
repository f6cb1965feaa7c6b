package display

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// EventFilter gets first refusal on native events before they are routed to
// widgets. FilterNativeEvent reports whether normal dispatch should continue.
type EventFilter interface {
	FilterNativeEvent(ev *platform.Event) bool
}

// Options tunes display behavior. The zero value uses built-in defaults.
type Options struct {
	// HoverDelay is how long the pointer must rest before a hover event
	// fires. Zero means 400ms.
	HoverDelay time.Duration

	// TrimPrefsPath overrides where window trim measurements are cached.
	// Empty means the per-user default location.
	TrimPrefsPath string

	// ColorOverrides maps system color names to CSS color values, consulted
	// before the theme style.
	ColorOverrides map[string]string

	Logger *slog.Logger
}

const defaultHoverDelay = 400 * time.Millisecond

// Display owns the connection to the windowing system, the widget registry,
// and the event pump. All methods must be called from the goroutine that
// created the display unless documented otherwise.
type Display struct {
	backend platform.Backend
	tid     int
	log     *slog.Logger

	disposed atomic.Bool

	// Widget registry.
	indexTable  []int
	widgetTable []Widget
	freeSlot    int
	lastHandle  platform.WindowID
	lastWidget  Widget

	// Cross-goroutine message queue.
	synchronizer *Synchronizer
	wakeMu       sync.Mutex
	wakePending  bool

	// Native dispatch state.
	signalRoutes  map[platform.EventType]bool
	restrictTypes []platform.EventType
	buffered      []*platform.Event
	filter        EventFilter

	lastEventTime     uint32
	lastUserEventTime uint32

	// Deferred toolkit events and listener tables.
	eventQueue  []*Event
	eventTable  eventTable
	filterTable eventTable

	// Dispatch phases.
	settingsChanged bool
	settingsPending bool
	skinList        []Widget
	layoutDeferred  []*Shell
	popups          []*Shell

	shells      []*Shell
	modalShells []*Shell

	timers     []*timerEntry
	hoverDelay time.Duration
	hoverProc  func()
	hoverer    Widget

	anchor         platform.WindowID
	colors         map[ColorID]platform.RGB
	colorOverrides map[string]string
	cursors        map[int]platform.CursorID
	disposeExecs   []func()

	trimPrefsPath string
	trimWidths    [trimCount]int
	trimHeights   [trimCount]int
}

var (
	displaysMu sync.Mutex
	displays   = make(map[int]*Display)
)

// New creates a display bound to the calling goroutine, which is locked to
// its OS thread for the lifetime of the display.
func New(backend platform.Backend, opts Options) (*Display, error) {
	if backend == nil {
		return nil, ErrNilArgument
	}
	runtime.LockOSThread()
	d := &Display{
		backend:       backend,
		tid:           currentThreadID(),
		log:           opts.Logger,
		hoverDelay:    opts.HoverDelay,
		trimPrefsPath: opts.TrimPrefsPath,
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	if d.hoverDelay <= 0 {
		d.hoverDelay = defaultHoverDelay
	}
	d.synchronizer = newSynchronizer(d)
	d.hoverProc = d.mouseHoverFired
	d.initializeWidgetTable()
	d.initializeCallbacks()
	d.cursors = make(map[int]platform.CursorID)

	anchor, err := backend.CreateAnchorWindow()
	if err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("creating anchor window: %w", err)
	}
	d.anchor = anchor
	d.colorOverrides = opts.ColorOverrides
	d.initializeSystemColors(d.colorOverrides)
	d.loadTrims()
	backend.SetEventHandler(d.handleNativeEvent)

	displaysMu.Lock()
	displays[d.tid] = d
	displaysMu.Unlock()
	return d, nil
}

// Current returns the display created on the calling goroutine's thread, or
// nil if there is none.
func Current() *Display {
	displaysMu.Lock()
	defer displaysMu.Unlock()
	return displays[currentThreadID()]
}

// Backend exposes the native layer for cooperating packages such as trackers.
func (d *Display) Backend() platform.Backend {
	return d.backend
}

func (d *Display) isValidThread() bool {
	return currentThreadID() == d.tid
}

// CheckDevice verifies the display is alive and the caller is on the display
// goroutine.
func (d *Display) CheckDevice() error {
	if !d.isValidThread() {
		return ErrWrongThread
	}
	if d.disposed.Load() {
		return ErrDisposed
	}
	return nil
}

// IsDisposed reports disposal. Safe from any goroutine.
func (d *Display) IsDisposed() bool {
	return d.disposed.Load()
}

// LastEventTime returns the timestamp of the most recent native event.
func (d *Display) LastEventTime() uint32 {
	return d.lastEventTime
}

// LastUserEventTime returns the timestamp of the most recent key or button
// press.
func (d *Display) LastUserEventTime() uint32 {
	return d.lastUserEventTime
}

// widgetSignals lists the native event classes forwarded to the owning
// widget. Settings changes are display-scoped and never reach a widget
// directly.
var widgetSignals = []platform.EventType{
	platform.EventKeyPress,
	platform.EventKeyRelease,
	platform.EventButtonPress,
	platform.EventButtonRelease,
	platform.EventMotion,
	platform.EventConfigure,
	platform.EventExpose,
	platform.EventCloseRequest,
}

func (d *Display) initializeCallbacks() {
	d.signalRoutes = make(map[platform.EventType]bool, len(widgetSignals))
	for _, sig := range widgetSignals {
		d.signalRoutes[sig] = true
	}
}

func (d *Display) releaseCallbacks() {
	d.signalRoutes = nil
	d.backend.SetEventHandler(nil)
}

// DisposeExec registers a callable to run during display disposal, after
// shells are disposed but before native resources are released.
func (d *Display) DisposeExec(fn func()) error {
	if err := d.CheckDevice(); err != nil {
		return err
	}
	if fn == nil {
		return ErrNilArgument
	}
	d.disposeExecs = append(d.disposeExecs, fn)
	return nil
}

// Shells returns the undisposed shells created on this display.
func (d *Display) Shells() ([]*Shell, error) {
	if err := d.CheckDevice(); err != nil {
		return nil, err
	}
	var out []*Shell
	for _, s := range d.shells {
		if !s.Disposed() {
			out = append(out, s)
		}
	}
	return out, nil
}

// Dispose tears the display down: dispose listeners fire first, then shells
// are disposed and the pump drained, then registered dispose callables run,
// and finally native resources are released. Each stage proceeds even when
// an earlier one fails.
func (d *Display) Dispose() error {
	if d.disposed.Load() {
		return nil
	}
	if !d.isValidThread() {
		return ErrWrongThread
	}

	d.sendDisplayEvent(EventDispose)

	for _, s := range d.shellSnapshot() {
		if !s.Disposed() {
			s.Dispose()
		}
	}
	for {
		more, err := d.ReadAndDispatch()
		if err != nil || !more {
			break
		}
	}

	for _, fn := range d.disposeExecs {
		d.runGuarded(fn)
	}
	d.disposeExecs = nil

	d.synchronizer.release()
	d.releaseCallbacks()
	d.releaseTimers()

	for _, cursor := range d.cursors {
		d.backend.FreeCursor(cursor)
	}
	d.cursors = nil
	d.colors = nil

	if d.anchor != 0 {
		if err := d.backend.DestroyWindow(d.anchor); err != nil {
			d.log.Warn("destroying anchor window", "error", err)
		}
		d.anchor = 0
	}

	d.saveTrims()

	d.indexTable = nil
	d.widgetTable = nil
	d.lastWidget = nil
	d.lastHandle = 0
	d.freeSlot = -1

	displaysMu.Lock()
	delete(displays, d.tid)
	displaysMu.Unlock()

	d.disposed.Store(true)
	return nil
}

func (d *Display) shellSnapshot() []*Shell {
	out := make([]*Shell, len(d.shells))
	copy(out, d.shells)
	return out
}

func (d *Display) runGuarded(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			d.log.Error("callable panicked", "panic", p)
		}
	}()
	fn()
}

// Beep emits the platform alert sound.
func (d *Display) Beep() error {
	if err := d.CheckDevice(); err != nil {
		return err
	}
	d.backend.Beep()
	return nil
}
