package greenq

import "errors"

// ErrResumeFailed is returned by (*Coroutine).Resume when the coroutine is
// not eligible to run: it is already somewhere on an active chain (running,
// or an ancestor of whatever is running), or it was first resumed from a
// different goroutine than the one calling Resume now.
//
// Callers branch on errors.Is(err, ErrResumeFailed) rather than comparing a
// returned handle against a magic sentinel value.
var ErrResumeFailed = errors.New("greenq: resume failed")

// ErrAwaitFailed is returned by Await when called from a goroutine that is
// not currently running inside any coroutine's entry function.
var ErrAwaitFailed = errors.New("greenq: await failed")

// ErrOutOfResources is returned by Spawn when the stack allocator cannot
// satisfy a request, e.g. mmap or mprotect failing. It wraps the underlying
// unix.Errno so callers can still inspect errno via errors.As.
var ErrOutOfResources = errors.New("greenq: out of resources")
