package greenq

import "unsafe"

// contextFrameSize matches the 96-byte spill block in switch_arm64.s (R19-
// R27, an unused slot where R28/g is not saved, R29, R30) plus nothing
// extra: arm64 carries its return address in
// the link register slot rather than on the stack, so there is no separate
// return-address word the way amd64 needs one.
const contextFrameSize = 12 * 8

// writeInitialContext mirrors context_amd64.go's role for arm64: the R19
// slot (offset 0, matching switch_arm64.s's STP (R19,R20),0(RSP)) carries
// the *Coroutine pointer, and the R30/link-register slot carries
// bootstrap's entry point so the trailing RET lands there.
func writeInitialContext(sp uintptr, co *Coroutine, bootstrapPC uintptr) {
	words := (*[12]uintptr)(unsafe.Pointer(sp))
	words[0] = uintptr(unsafe.Pointer(co)) // R19
	words[1] = 0                           // R20
	words[2] = 0                           // R21
	words[3] = 0                           // R22
	words[4] = 0                           // R23
	words[5] = 0                           // R24
	words[6] = 0                           // R25
	words[7] = 0                           // R26
	words[8] = 0                           // R27
	words[9] = 0                           // unused (R28/g is not restored)
	words[10] = 0                          // R29
	words[11] = bootstrapPC                // R30 / link register
}
