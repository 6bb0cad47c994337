package greenq

// getg returns the address of the calling goroutine's runtime g struct.
//
// The value is opaque outside the runtime: it is never dereferenced here,
// only compared for identity. That is enough to answer "is this the same
// goroutine that first resumed this coroutine?" without requiring the host
// to carry its own goroutine-local storage.
func getg() uintptr
