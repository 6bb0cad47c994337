package greenq

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/alphadose/greenq/internal/freelist"
)

// DefaultStackSize is the stack size used by Spawn when a caller passes a
// zero size hint.
const DefaultStackSize = 16 * 1024

var pageSize = uintptr(unix.Getpagesize())

// stackPool recycles released coroStacks by usable size class, so spawning
// and retiring many coroutines of the same stack size does not round-trip
// mmap/munmap on every one of them.
var stackPool freelist.Pool

// coroStack is a single coroutine's private stack: an anonymous mapping with
// one inaccessible (PROT_NONE) guard page immediately below the usable region, so a runaway
// push past the bottom faults instead of silently corrupting an unrelated
// mapping. Raw mmap/mprotect is used rather than a plain make([]byte, n)
// allocation, which the Go runtime is free to move or scan and gives no
// faulting boundary at all.
type coroStack struct {
	mapping []byte // the full mmap'd region, guard page included; kept for Munmap
	base    uintptr
	size    uintptr // usable size, excluding the guard page
}

// allocStack reserves a stack of at least size bytes, rounded up to a whole
// number of pages, plus one leading guard page. It returns the stack's
// descriptor; its top method gives the usable region's one-past-top address
// that a coroutine's stack pointer descends from.
func allocStack(size uintptr) (*coroStack, error) {
	if size == 0 {
		size = DefaultStackSize
	}
	usable := roundUpPage(size)

	if pooled := stackPool.Get(usable); pooled != nil {
		return (*coroStack)(pooled), nil
	}

	total := usable + pageSize // + guard page

	mapping, err := unix.Mmap(-1, 0, int(total),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %w", ErrOutOfResources, total, err)
	}

	guard := mapping[:pageSize]
	if err := unix.Mprotect(guard, unix.PROT_NONE); err != nil {
		_ = unix.Munmap(mapping)
		return nil, fmt.Errorf("%w: mprotect guard page: %w", ErrOutOfResources, err)
	}

	base := uintptr(unsafe.Pointer(&mapping[0]))
	return &coroStack{
		mapping: mapping,
		base:    base + pageSize,
		size:    usable,
	}, nil
}

// top returns the one-past-top address: where a freshly built context's
// stack pointer starts descending from.
func (s *coroStack) top() uintptr {
	return s.base + s.size
}

// release returns s to the size-class pool for reuse by a later Spawn,
// rather than unmapping it immediately. The guard page stays armed and the
// usable region's contents are left as-is; a coroutine's entry function
// runs before anything reads old stack memory as data, so stale bytes are
// never observable as anything but uninitialized local storage.
func (s *coroStack) release() {
	if s == nil {
		return
	}
	stackPool.Put(s.size, unsafe.Pointer(s))
}

// free unconditionally unmaps s, bypassing the pool.
func (s *coroStack) free() error {
	if s == nil || s.mapping == nil {
		return nil
	}
	err := unix.Munmap(s.mapping)
	s.mapping = nil
	if err != nil {
		return fmt.Errorf("%w: munmap: %w", ErrOutOfResources, err)
	}
	return nil
}

func roundUpPage(n uintptr) uintptr {
	if rem := n % pageSize; rem != 0 {
		n += pageSize - rem
	}
	return n
}
