package x11

import (
	"testing"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// newLostConnection builds a connection whose event stream has already ended,
// the state left behind when the server goes away.
func newLostConnection() *Connection {
	c := &Connection{
		events: make(chan xgb.Event),
		wake:   make(chan struct{}, 1),
		tags:   make(map[xproto.Window]int),
	}
	close(c.events)
	return c
}

func TestWaitBlocksAfterConnectionLoss(t *testing.T) {
	c := newLostConnection()

	// First call notices the closed stream.
	if c.Wait(time.Millisecond) {
		t.Fatal("Wait reported pending events on a lost connection")
	}

	// Later calls must hold for the timeout instead of returning
	// immediately, or the pump would spin.
	start := time.Now()
	if c.Wait(50 * time.Millisecond) {
		t.Fatal("Wait reported pending events on a lost connection")
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("Wait returned after %v, want the full timeout", elapsed)
	}

	// Wake still unblocks promptly.
	c.Wake()
	start = time.Now()
	c.Wait(time.Second)
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Wake did not unblock Wait, took %v", elapsed)
	}
}

func TestIterateAfterConnectionLoss(t *testing.T) {
	c := newLostConnection()
	if c.Iterate() {
		t.Fatal("Iterate reported work on a lost connection")
	}
	if c.Iterate() {
		t.Fatal("Iterate reported work on a second pass")
	}
}

func TestConnectionLossClosesTaggedWindows(t *testing.T) {
	c := newLostConnection()
	c.tags[41] = 0
	c.tags[42] = 1

	var closed []platform.WindowID
	c.SetEventHandler(func(ev *platform.Event) {
		if ev.Type == platform.EventCloseRequest {
			closed = append(closed, ev.Window)
		}
	})

	c.Wait(time.Millisecond)
	if len(closed) != 2 {
		t.Fatalf("close requests = %v, want one per tagged window", closed)
	}

	// Loss is reported once; a later call must not repeat the requests.
	c.Wait(time.Millisecond)
	if len(closed) != 2 {
		t.Fatalf("close requests repeated: %v", closed)
	}
}
