// Package canary paints a recognizable byte pattern across a coroutine's
// unused stack space and later checks it is still intact, to catch a stack
// overflow that landed short of the guard page (e.g. a single stray write
// just past the last recorded stack pointer) instead of faulting cleanly.
//
// It plays the same role as the debug-only stack-pointer probes a C
// coroutine harness exposes around spawn/resume/await, used to verify a
// context switch left the suspended stack's saved registers and buffer
// exactly where expected rather than bailing out with a "stack broken"
// diagnostic. Rather than aliasing separate debug entry points, this
// package wraps greenq's public StackBounds/CurrentStackDepth diagnostics,
// since Go has no equivalent of a debug-build-only symbol alias.
package canary

import (
	"fmt"
	"unsafe"

	"github.com/alphadose/greenq"
)

// Pattern is the repeating byte painted across unused stack memory. It is
// chosen to be conspicuous in a hex dump and unlikely to occur by chance in
// legitimate stack data.
const Pattern byte = 0xCE

// unusedRegion returns the byte range of co's stack that no frame has
// reached yet: from the low bound up to the last saved stack pointer (for a
// coroutine that has never run, up to its synthetic first context).
func unusedRegion(co *greenq.Coroutine) []byte {
	low, high := co.StackBounds()
	ceiling := high
	if depth := co.CurrentStackDepth(); depth > 0 {
		ceiling = high - depth
	}
	if ceiling <= low {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(low)), int(ceiling-low))
}

// Paint fills co's currently unused stack region with Pattern. Call it
// right after Spawn, before the coroutine has run, for the most coverage;
// calling it again after a suspension re-paints whatever has newly become
// unused since the last call.
func Paint(co *greenq.Coroutine) {
	region := unusedRegion(co)
	for i := range region {
		region[i] = Pattern
	}
}

// Check reports whether co's unused stack region is still entirely
// Pattern, along with the first offset (from the stack's low address)
// where it was not, if any.
func Check(co *greenq.Coroutine) (intact bool, brokenOffset int) {
	region := unusedRegion(co)
	for i, b := range region {
		if b != Pattern {
			return false, i
		}
	}
	return true, -1
}

// Report renders a one-line human-readable summary, suitable for a
// diagnostic bail-out message.
func Report(co *greenq.Coroutine) string {
	ok, offset := Check(co)
	if ok {
		return "canary: intact"
	}
	low, _ := co.StackBounds()
	return fmt.Sprintf("canary: stack (%#x) broken at offset %d", low, offset)
}
