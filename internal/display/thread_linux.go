package display

import "golang.org/x/sys/unix"

// currentThreadID identifies the kernel thread the calling goroutine is
// running on. The display goroutine is locked to its thread at creation, so
// comparing thread ids is a faithful ownership test.
func currentThreadID() int {
	return unix.Gettid()
}
