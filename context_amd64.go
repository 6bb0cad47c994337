package greenq

import "unsafe"

// contextFrameSize matches the six 8-byte callee-saved slots swapcontext
// pushes/pops in switch_amd64.s (BP, BX, R12, R13, R14, R15) plus the
// 8-byte return-address slot restored by its trailing RET.
const contextFrameSize = 7 * 8

// writeInitialContext fabricates the synthetic saved context at sp so that
// a first swapcontext into it behaves exactly like a real suspended call:
// the R12 slot carries the *Coroutine pointer bootstrap reads, and the
// return-address slot carries bootstrap's own entry point.
func writeInitialContext(sp uintptr, co *Coroutine, bootstrapPC uintptr) {
	words := (*[7]uintptr)(unsafe.Pointer(sp))
	words[0] = 0                          // R15
	words[1] = 0                          // R14
	words[2] = 0                          // R13
	words[3] = uintptr(unsafe.Pointer(co)) // R12
	words[4] = 0                          // BX
	words[5] = 0                          // BP
	words[6] = bootstrapPC                // return address
}
