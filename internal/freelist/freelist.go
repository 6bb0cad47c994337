// Package freelist pools released coroutine stack regions by size class, so
// that spawning and retiring many short-lived coroutines of the same stack
// size does not round-trip mmap/munmap each time.
//
// Reuse is LIFO within a size class: the most recently released region is
// handed back out first, on the theory that it is the one most likely to
// still be warm in the page cache / TLB. Each class is its own lock-free
// Treiber stack — a single compare-and-swap on the class's head pointer —
// rather than a shared structure across classes, so unrelated size classes
// never contend with each other. It is safe for concurrent Put/Get from
// multiple goroutines even though a single coroutine's own resume/await
// pair never needs that, because a process may run several independent
// coroutine-driving goroutines sharing one freelist.
package freelist

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// region is one pooled stack-region handle, threaded onto its size class's
// stack. size is carried on the node itself (rather than looked up through
// an external map) so a class's stack is self-describing.
type region struct {
	addr unsafe.Pointer
	size uintptr
	next atomic.Pointer[region]
}

var regionPool = sync.Pool{New: func() any { return new(region) }}

// class is one size class's freelist: a Treiber stack of released regions,
// all sharing size.
type class struct {
	size uintptr
	top  atomic.Pointer[region]
}

// push returns a region to the top of the stack.
func (c *class) push(addr unsafe.Pointer) {
	n := regionPool.Get().(*region)
	n.addr, n.size = addr, c.size

	for {
		old := c.top.Load()
		n.next.Store(old)
		if c.top.CompareAndSwap(old, n) {
			return
		}
	}
}

// pop removes and returns the top region, or nil if the class is empty.
func (c *class) pop() unsafe.Pointer {
	for {
		old := c.top.Load()
		if old == nil {
			return nil
		}
		next := old.next.Load()
		if c.top.CompareAndSwap(old, next) {
			addr := old.addr
			old.addr, old.size = nil, 0
			old.next.Store(nil)
			// old is not handed back to regionPool: another pop may still
			// hold it, and reusing it could let that pop's CAS succeed
			// against a stale next (ABA).
			return addr
		}
	}
}

// Pool pools released stack regions, grouped by size class (the usable
// stack size, not counting the guard page). The zero value is ready to use.
type Pool struct {
	classes sync.Map // map[uintptr]*class
}

func (p *Pool) classFor(size uintptr) *class {
	if v, ok := p.classes.Load(size); ok {
		return v.(*class)
	}
	c := &class{size: size}
	actual, _ := p.classes.LoadOrStore(size, c)
	return actual.(*class)
}

// Put returns a released region of the given size class to the pool for
// reuse. addr is an opaque handle (e.g. a base pointer); freelist never
// dereferences it.
func (p *Pool) Put(size uintptr, addr unsafe.Pointer) {
	p.classFor(size).push(addr)
}

// Get removes and returns the most recently released region of the given
// size class, or nil if none is available.
func (p *Pool) Get(size uintptr) unsafe.Pointer {
	return p.classFor(size).pop()
}
