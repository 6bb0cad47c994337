package greenq

// swapcontext is the leaf context-switch primitive. It persists the calling
// goroutine's callee-saved registers and stack pointer into *savedSP, loads
// targetSP into the stack pointer, and returns by "falling into" whatever
// instruction stream targetSP's owner last suspended at (or, on a coroutine's
// first resume, the bootstrap trampoline spawn wired up in its place).
//
// Both directions of a switch execute this exact function body, so the two
// sides agree on stack shape without needing a second, asymmetric "resume"
// routine.
//
// Payload values never cross through registers here: Resume and Await stash
// the opaque payload on the Coroutine itself (field transfer) before calling
// swapcontext, and read it back once control returns. swapcontext only ever
// moves control and the callee-saved register file.
//
//go:noescape
func swapcontext(savedSP *uintptr, targetSP uintptr)

// bootstrap is never called through a normal Go call; its address is planted
// as the return address of a coroutine's synthetic first saved context, so
// that the RET at the end of swapcontext's restore sequence lands here. It
// recovers the *Coroutine pointer spawn stashed in the synthetic context's
// callee-saved save area and hands off to bootstrapTrampoline.
//
//go:noescape
func bootstrap()

// bootstrapAddr returns bootstrap's entry PC, for stamping into a freshly
// allocated coroutine stack's synthetic return-address slot.
func bootstrapAddr() uintptr
