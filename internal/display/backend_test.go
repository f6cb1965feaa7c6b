package display

import (
	"sync"
	"time"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// fakeBackend is an in-memory platform used by the tests. Scripted events
// are delivered one batch per Iterate call.
type fakeBackend struct {
	mu      sync.Mutex
	nextWin platform.WindowID
	tags    map[platform.WindowID]int
	windows map[platform.WindowID]bool
	mapped  map[platform.WindowID]bool

	handler func(*platform.Event)
	queue   [][]*platform.Event
	wake    chan struct{}

	tagErr    error
	style     string
	resources map[string]platform.RGB

	beeps     int
	destroyed []platform.WindowID
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextWin: 100,
		tags:    make(map[platform.WindowID]int),
		windows: make(map[platform.WindowID]bool),
		mapped:  make(map[platform.WindowID]bool),
		wake:    make(chan struct{}, 1),
	}
}

// push schedules a batch of events for the next Iterate.
func (f *fakeBackend) push(events ...*platform.Event) {
	f.mu.Lock()
	f.queue = append(f.queue, events)
	f.mu.Unlock()
}

func (f *fakeBackend) newWindow() platform.WindowID {
	f.nextWin++
	f.windows[f.nextWin] = true
	return f.nextWin
}

func (f *fakeBackend) CreateAnchorWindow() (platform.WindowID, error) {
	return f.newWindow(), nil
}

func (f *fakeBackend) CreateWindow(bounds platform.Rect) (platform.WindowID, error) {
	return f.newWindow(), nil
}

func (f *fakeBackend) CreateCaptureWindow(bounds platform.Rect) (platform.WindowID, error) {
	return f.newWindow(), nil
}

func (f *fakeBackend) DestroyWindow(id platform.WindowID) error {
	delete(f.windows, id)
	delete(f.tags, id)
	f.destroyed = append(f.destroyed, id)
	return nil
}

func (f *fakeBackend) ShowWindow(id platform.WindowID) error {
	f.mapped[id] = true
	return nil
}

func (f *fakeBackend) HideWindow(id platform.WindowID) error {
	f.mapped[id] = false
	return nil
}

func (f *fakeBackend) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	return nil
}

func (f *fakeBackend) ScreenBounds() (platform.Rect, error) {
	return platform.Rect{Width: 1920, Height: 1080}, nil
}

func (f *fakeBackend) TagHandle(id platform.WindowID, index int) error {
	if f.tagErr != nil {
		return f.tagErr
	}
	f.tags[id] = index
	return nil
}

func (f *fakeBackend) HandleTag(id platform.WindowID) (int, bool) {
	index, ok := f.tags[id]
	return index, ok
}

func (f *fakeBackend) ClearTag(id platform.WindowID) {
	delete(f.tags, id)
}

func (f *fakeBackend) SetEventHandler(handler func(*platform.Event)) {
	f.handler = handler
}

func (f *fakeBackend) Iterate() bool {
	f.mu.Lock()
	if len(f.queue) == 0 {
		f.mu.Unlock()
		return false
	}
	batch := f.queue[0]
	f.queue = f.queue[1:]
	f.mu.Unlock()
	for _, ev := range batch {
		if f.handler != nil {
			f.handler(ev)
		}
	}
	return len(batch) > 0
}

func (f *fakeBackend) Wait(timeout time.Duration) bool {
	f.mu.Lock()
	pending := len(f.queue) > 0
	f.mu.Unlock()
	if pending {
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-f.wake:
		return false
	case <-timer.C:
		return false
	}
}

func (f *fakeBackend) Wake() {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *fakeBackend) GrabInput(id platform.WindowID) error { return nil }
func (f *fakeBackend) UngrabInput()                         {}
func (f *fakeBackend) PointerButtonDown() bool              { return false }
func (f *fakeBackend) CursorPos() (int, int)                { return 0, 0 }
func (f *fakeBackend) WarpPointer(x, y int)                 {}
func (f *fakeBackend) SetCursor(id platform.CursorID)       {}

func (f *fakeBackend) CreateSizeCursor(kind int) (platform.CursorID, error) {
	return platform.CursorID(kind + 1), nil
}

func (f *fakeBackend) FreeCursor(id platform.CursorID) {}

func (f *fakeBackend) SetWindowInputTransparent(id platform.WindowID, transparent bool) {}

func (f *fakeBackend) DrawRectangles(rects []platform.Rect, stippled bool) error {
	return nil
}

func (f *fakeBackend) Beep() { f.beeps++ }

func (f *fakeBackend) ThemeStyle() string { return f.style }

func (f *fakeBackend) QueryColor(name string) (platform.RGB, bool) {
	rgb, ok := f.resources[name]
	return rgb, ok
}

func (f *fakeBackend) PostEvent(ev *platform.Event) bool { return true }

// newTestDisplay builds a display over a fake backend with its trim cache in
// a scratch directory.
func newTestDisplay(t interface {
	TempDir() string
	Fatalf(string, ...any)
	Cleanup(func())
}, backend *fakeBackend) *Display {
	d, err := New(backend, Options{
		TrimPrefsPath: t.TempDir() + "/trims.yaml",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if !d.IsDisposed() {
			_ = d.Dispose()
		}
	})
	return d
}
