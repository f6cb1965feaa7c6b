package tracker

import (
	"sync"
	"testing"
	"time"

	"github.com/Mailaender/eclipse.platform.swt/internal/display"
	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// fakeBackend scripts native input for the nested loop. Each Iterate call
// delivers one pushed batch to the display's handler.
type fakeBackend struct {
	mu      sync.Mutex
	nextWin platform.WindowID
	tags    map[platform.WindowID]int
	handler func(*platform.Event)
	queue   [][]*platform.Event
	wake    chan struct{}

	buttonDown     bool
	pointerX       int
	pointerY       int
	warps          []platform.Rect
	draws          int
	lastDrawn      []platform.Rect
	lastStippled   bool
	cursorKinds    []int
	grabbed        platform.WindowID
	ungrabs        int
	destroyed      []platform.WindowID
	transparencies []bool
	beeps          int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextWin: 200,
		tags:    make(map[platform.WindowID]int),
		wake:    make(chan struct{}, 1),
	}
}

func (f *fakeBackend) push(events ...*platform.Event) {
	f.mu.Lock()
	f.queue = append(f.queue, events)
	f.mu.Unlock()
}

func (f *fakeBackend) newWindow() platform.WindowID {
	f.nextWin++
	return f.nextWin
}

func (f *fakeBackend) CreateAnchorWindow() (platform.WindowID, error) { return f.newWindow(), nil }
func (f *fakeBackend) CreateWindow(platform.Rect) (platform.WindowID, error) {
	return f.newWindow(), nil
}
func (f *fakeBackend) CreateCaptureWindow(platform.Rect) (platform.WindowID, error) {
	return f.newWindow(), nil
}

func (f *fakeBackend) DestroyWindow(id platform.WindowID) error {
	f.destroyed = append(f.destroyed, id)
	return nil
}

func (f *fakeBackend) ShowWindow(platform.WindowID) error                 { return nil }
func (f *fakeBackend) HideWindow(platform.WindowID) error                 { return nil }
func (f *fakeBackend) MoveResize(platform.WindowID, platform.Rect) error  { return nil }
func (f *fakeBackend) ScreenBounds() (platform.Rect, error) {
	return platform.Rect{Width: 1920, Height: 1080}, nil
}

func (f *fakeBackend) TagHandle(id platform.WindowID, index int) error {
	f.tags[id] = index
	return nil
}

func (f *fakeBackend) HandleTag(id platform.WindowID) (int, bool) {
	index, ok := f.tags[id]
	return index, ok
}

func (f *fakeBackend) ClearTag(id platform.WindowID) { delete(f.tags, id) }

func (f *fakeBackend) SetEventHandler(handler func(*platform.Event)) { f.handler = handler }

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
	case <-timer.C:
	}
	return false
}

func (f *fakeBackend) Wake() {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *fakeBackend) GrabInput(id platform.WindowID) error {
	f.grabbed = id
	return nil
}

func (f *fakeBackend) UngrabInput()            { f.ungrabs++ }
func (f *fakeBackend) PointerButtonDown() bool { return f.buttonDown }
func (f *fakeBackend) CursorPos() (int, int)   { return f.pointerX, f.pointerY }

func (f *fakeBackend) WarpPointer(x, y int) {
	f.pointerX, f.pointerY = x, y
	f.warps = append(f.warps, platform.Rect{X: x, Y: y})
}

func (f *fakeBackend) SetCursor(platform.CursorID) {}

func (f *fakeBackend) CreateSizeCursor(kind int) (platform.CursorID, error) {
	f.cursorKinds = append(f.cursorKinds, kind)
	return platform.CursorID(kind + 1), nil
}

func (f *fakeBackend) FreeCursor(platform.CursorID) {}

func (f *fakeBackend) SetWindowInputTransparent(id platform.WindowID, transparent bool) {
	f.transparencies = append(f.transparencies, transparent)
}

func (f *fakeBackend) DrawRectangles(rects []platform.Rect, stippled bool) error {
	f.draws++
	f.lastDrawn = append([]platform.Rect(nil), rects...)
	f.lastStippled = stippled
	return nil
}

func (f *fakeBackend) Beep() { f.beeps++ }

func (f *fakeBackend) ThemeStyle() string { return "" }

func (f *fakeBackend) QueryColor(string) (platform.RGB, bool) { return platform.RGB{}, false }

func (f *fakeBackend) PostEvent(*platform.Event) bool { return true }

func newTestTracker(t *testing.T, backend *fakeBackend, style Style) (*display.Display, *Tracker) {
	t.Helper()
	d, err := display.New(backend, display.Options{
		TrimPrefsPath: t.TempDir() + "/trims.yaml",
	})
	if err != nil {
		t.Fatalf("display.New: %v", err)
	}
	t.Cleanup(func() {
		if !d.IsDisposed() {
			_ = d.Dispose()
		}
	})
	tr, err := New(d, style)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, tr
}

// controlRecorder records callbacks and optionally runs a hook on each.
type controlRecorder struct {
	moved, resized int
	hook           func(*display.Event)
}

func (r *controlRecorder) ControlMoved(e *display.Event) {
	r.moved++
	if r.hook != nil {
		r.hook(e)
	}
}

func (r *controlRecorder) ControlResized(e *display.Event) {
	r.resized++
	if r.hook != nil {
		r.hook(e)
	}
}

func TestOpenMovesAndCommitsOnButtonRelease(t *testing.T) {
	backend := newFakeBackend()
	backend.buttonDown = true
	backend.pointerX, backend.pointerY = 20, 10
	_, tr := newTestTracker(t, backend, 0)

	if err := tr.SetRectangles([]platform.Rect{{X: 10, Y: 10, Width: 20, Height: 20}}); err != nil {
		t.Fatalf("SetRectangles: %v", err)
	}
	backend.push(&platform.Event{Type: platform.EventMotion, Time: 1, RootX: 30, RootY: 25})
	backend.push(&platform.Event{Type: platform.EventButtonRelease, Time: 2, RootX: 30, RootY: 25})

	committed, err := tr.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !committed {
		t.Fatal("button release reported as cancel")
	}
	rects, _ := tr.GetRectangles()
	want := platform.Rect{X: 20, Y: 25, Width: 20, Height: 20}
	if rects[0] != want {
		t.Fatalf("rect = %+v, want %+v", rects[0], want)
	}
}

func TestOpenEscapeCancels(t *testing.T) {
	backend := newFakeBackend()
	backend.buttonDown = true
	_, tr := newTestTracker(t, backend, 0)

	_ = tr.SetRectangles([]platform.Rect{{X: 10, Y: 10, Width: 20, Height: 20}})
	backend.push(&platform.Event{Type: platform.EventMotion, Time: 1, RootX: 5, RootY: 5})
	backend.push(&platform.Event{Type: platform.EventKeyPress, Time: 2, Keysym: platform.KeysymEscape})

	committed, err := tr.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if committed {
		t.Fatal("escape reported as commit")
	}
}

func TestOpenAltModifiedKeyCancels(t *testing.T) {
	backend := newFakeBackend()
	backend.buttonDown = true
	_, tr := newTestTracker(t, backend, 0)

	_ = tr.SetRectangles([]platform.Rect{{X: 10, Y: 10, Width: 20, Height: 20}})
	backend.push(&platform.Event{Type: platform.EventKeyPress, Time: 1,
		Keysym: platform.KeysymRight, State: platform.ModAlt})

	committed, _ := tr.Open()
	if committed {
		t.Fatal("alt-modified key reported as commit")
	}
	rects, _ := tr.GetRectangles()
	if rects[0].X != 10 {
		t.Fatalf("cancelled drag still moved the rect: %+v", rects[0])
	}
}

func TestArrowKeyStepsAndReturnCommits(t *testing.T) {
	backend := newFakeBackend()
	backend.buttonDown = true
	_, tr := newTestTracker(t, backend, 0)

	_ = tr.SetRectangles([]platform.Rect{{X: 10, Y: 10, Width: 20, Height: 20}})
	backend.push(&platform.Event{Type: platform.EventKeyPress, Time: 1, Keysym: platform.KeysymRight})
	backend.push(&platform.Event{Type: platform.EventKeyPress, Time: 2,
		Keysym: platform.KeysymRight, State: platform.ModControl})
	backend.push(&platform.Event{Type: platform.EventKeyPress, Time: 3, Keysym: platform.KeysymReturn})

	committed, err := tr.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !committed {
		t.Fatal("return reported as cancel")
	}
	rects, _ := tr.GetRectangles()
	if rects[0].X != 10+stepSizeLarge+stepSizeSmall {
		t.Fatalf("x = %d, want %d", rects[0].X, 10+stepSizeLarge+stepSizeSmall)
	}
}

func TestResizeDragGrowsAndPicksEdgeCursor(t *testing.T) {
	backend := newFakeBackend()
	backend.buttonDown = true
	backend.pointerX, backend.pointerY = 30, 20
	_, tr := newTestTracker(t, backend, Right|Resize)

	_ = tr.SetRectangles([]platform.Rect{{X: 10, Y: 10, Width: 20, Height: 20}})
	backend.push(&platform.Event{Type: platform.EventMotion, Time: 1, RootX: 40, RootY: 20})
	backend.push(&platform.Event{Type: platform.EventKeyPress, Time: 2, Keysym: platform.KeysymReturn})

	committed, err := tr.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !committed {
		t.Fatal("resize drag reported as cancel")
	}
	rects, _ := tr.GetRectangles()
	want := platform.Rect{X: 10, Y: 10, Width: 30, Height: 20}
	if rects[0] != want {
		t.Fatalf("rect = %+v, want %+v", rects[0], want)
	}
	if len(backend.cursorKinds) == 0 ||
		backend.cursorKinds[len(backend.cursorKinds)-1] != platform.CursorSizeWE {
		t.Fatalf("cursor kinds = %v, want trailing west-east cursor", backend.cursorKinds)
	}
}

func TestOpenWithoutButtonGrabsCaptureWindow(t *testing.T) {
	backend := newFakeBackend()
	_, tr := newTestTracker(t, backend, 0)

	_ = tr.SetRectangles([]platform.Rect{{X: 10, Y: 10, Width: 20, Height: 20}})
	backend.push(&platform.Event{Type: platform.EventKeyPress, Time: 1, Keysym: platform.KeysymEscape})

	_, err := tr.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if backend.grabbed == 0 {
		t.Fatal("no capture window grabbed")
	}
	if backend.ungrabs != 1 {
		t.Fatalf("ungrabs = %d, want 1", backend.ungrabs)
	}
	found := false
	for _, id := range backend.destroyed {
		if id == backend.grabbed {
			found = true
		}
	}
	if !found {
		t.Fatal("capture window not destroyed after the loop")
	}
}

func TestListenersRunBehindTransparentCapture(t *testing.T) {
	backend := newFakeBackend()
	_, tr := newTestTracker(t, backend, 0)

	_ = tr.SetRectangles([]platform.Rect{{X: 10, Y: 10, Width: 20, Height: 20}})
	rec := &controlRecorder{}
	if err := tr.AddControlListener(rec); err != nil {
		t.Fatalf("AddControlListener: %v", err)
	}
	backend.push(&platform.Event{Type: platform.EventMotion, Time: 1, RootX: 30, RootY: 20})
	backend.push(&platform.Event{Type: platform.EventKeyPress, Time: 2, Keysym: platform.KeysymReturn})

	if _, err := tr.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if rec.moved != 1 {
		t.Fatalf("moved callbacks = %d, want 1", rec.moved)
	}
	if len(backend.transparencies) != 2 ||
		!backend.transparencies[0] || backend.transparencies[1] {
		t.Fatalf("transparency toggles = %v, want [true false]", backend.transparencies)
	}
}

func TestListenerRectangleSwapSuppressesRedraw(t *testing.T) {
	backend := newFakeBackend()
	backend.buttonDown = true
	_, tr := newTestTracker(t, backend, 0)

	start := []platform.Rect{{X: 10, Y: 10, Width: 20, Height: 20}}
	_ = tr.SetRectangles(start)
	rec := &controlRecorder{hook: func(*display.Event) {
		// Snap the drag back to where it started.
		_ = tr.SetRectangles(start)
	}}
	_ = tr.AddControlListener(rec)

	backend.push(&platform.Event{Type: platform.EventMotion, Time: 1, RootX: 5, RootY: 5})
	backend.push(&platform.Event{Type: platform.EventKeyPress, Time: 2, Keysym: platform.KeysymReturn})

	if _, err := tr.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	// One draw entering the loop and one erase leaving it; the snapped-back
	// geometry matched what was on screen, so no repaint in between.
	if backend.draws != 2 {
		t.Fatalf("draws = %d, want 2", backend.draws)
	}
	rects, _ := tr.GetRectangles()
	if rects[0] != start[0] {
		t.Fatalf("rect = %+v, want %+v", rects[0], start[0])
	}
}

func TestDisposeDuringListenerCancels(t *testing.T) {
	backend := newFakeBackend()
	backend.buttonDown = true
	_, tr := newTestTracker(t, backend, 0)

	_ = tr.SetRectangles([]platform.Rect{{X: 10, Y: 10, Width: 20, Height: 20}})
	rec := &controlRecorder{hook: func(*display.Event) { tr.Dispose() }}
	_ = tr.AddControlListener(rec)

	backend.push(&platform.Event{Type: platform.EventMotion, Time: 1, RootX: 30, RootY: 20})

	committed, err := tr.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if committed {
		t.Fatal("disposal during a callback reported as commit")
	}
	if !tr.Disposed() {
		t.Fatal("tracker not disposed")
	}
}

func TestOpenWithoutRectanglesReturnsImmediately(t *testing.T) {
	backend := newFakeBackend()
	_, tr := newTestTracker(t, backend, 0)

	committed, err := tr.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if committed {
		t.Fatal("empty tracker reported a commit")
	}
	if backend.draws != 0 {
		t.Fatalf("draws = %d, want 0", backend.draws)
	}
}
