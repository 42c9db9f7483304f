//go:build linux

package platform

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// SetThreadName labels the calling OS thread via prctl(PR_SET_NAME).
// Best effort: goroutines are not pinned to threads, and the kernel
// truncates comm names to 15 bytes.
func SetThreadName(name string) {
	if len(name) > 15 {
		name = name[:15]
	}
	buf := append([]byte(name), 0)
	_ = unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&buf[0])), 0, 0, 0)
}
