// Package tap renders Test Anything Protocol output, in the spirit of a
// C coroutine harness's PASS/FAIL/SKIP/TODO/DIAG/BAIL macros. It exists
// alongside the standard `go test` suite as an alternate, dependency-free
// reporter a host embedding this package's coroutines can use for its own
// scenario scripts, independent of any other test framework.
package tap

import (
	"fmt"
	"io"
)

// Reporter emits a numbered TAP stream to an underlying writer. The zero
// value is not usable; use New.
type Reporter struct {
	w io.Writer
	n int
}

// New returns a Reporter that writes a "TAP version 13" header immediately.
func New(w io.Writer) *Reporter {
	fmt.Fprintln(w, "TAP version 13")
	return &Reporter{w: w}
}

// Pass records a passing assertion.
func (r *Reporter) Pass(description string) {
	r.n++
	fmt.Fprintf(r.w, "ok %d %s\n", r.n, description)
}

// Fail records a failing assertion.
func (r *Reporter) Fail(description string) {
	r.n++
	fmt.Fprintf(r.w, "not ok %d %s\n", r.n, description)
}

// Assert records Pass if ok is true, Fail otherwise. It returns ok
// unchanged, for chaining into a caller's own control flow.
func (r *Reporter) Assert(ok bool, description string) bool {
	if ok {
		r.Pass(description)
	} else {
		r.Fail(description)
	}
	return ok
}

// Skip records a skipped assertion with a reason, mirroring SKIP.
func (r *Reporter) Skip(description, reason string) {
	r.n++
	fmt.Fprintf(r.w, "ok %d %s # skip %s\n", r.n, description, reason)
}

// Todo records a known-failing assertion with a reason, mirroring TODO.
func (r *Reporter) Todo(description, reason string) {
	r.n++
	fmt.Fprintf(r.w, "not ok %d %s # TODO %s\n", r.n, description, reason)
}

// Diag writes a free-form diagnostic comment line, mirroring DIAG.
func (r *Reporter) Diag(format string, args ...any) {
	fmt.Fprintf(r.w, "# "+format+"\n", args...)
}

// Bail writes a "Bail out!" line, mirroring BAIL. Unlike the C macro this
// does not exit the process; callers decide whether a bail is fatal.
func (r *Reporter) Bail(format string, args ...any) {
	fmt.Fprintf(r.w, "Bail out! "+format+"\n", args...)
}

// Done writes the trailing "1..N" plan line, once every assertion has been
// recorded.
func (r *Reporter) Done() {
	fmt.Fprintf(r.w, "1..%d\n", r.n)
}
