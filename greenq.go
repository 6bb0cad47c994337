// Package greenq implements stackful, symmetric coroutines: independently
// schedulable execution contexts, each with its own real OS stack, switched
// by hand-written register-level assembly rather than goroutines or
// channels. A coroutine runs until it calls Await or returns; whoever last
// called Resume on it regains control synchronously, on the same OS thread,
// with no scheduler or preemption involved anywhere in the loop.
//
// Active chains are tracked per goroutine, not per OS thread. Resume and
// Await do not pin the calling goroutine to its OS thread; the tests call
// runtime.LockOSThread around their coroutine use.
//
// An entry function runs on a raw mmap'd stack that the Go runtime's stack
// bookkeeping (g.stack, g.stackguard0) knows nothing about. The package does
// not patch those fields, so Go code running there that reaches a
// stack-growth check has undefined behavior.
package greenq

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/rs/zerolog"
)

// Entry is a coroutine's body. argument is whatever was passed to Spawn;
// its return value, if any, should be delivered through a final Await-style
// handoff or simply discarded — Entry itself has no return value: control
// leaves a finished coroutine through the termination path built into
// Resume, not through a function result.
type Entry func(argument any)

// Coroutine is one stackful execution context. The zero value is not
// usable; obtain one from Spawn.
type Coroutine struct {
	stack *coroStack

	savedSP    uintptr
	prevActive *Coroutine // == self when off the active chain (invariant 4's sentinel)

	ownerG  uintptr // first-resuming goroutine; 0 until first Resume
	started bool
	done    bool

	entry    Entry
	argument any
	transfer any // opaque payload handoff, valid only during a switch's round trip
	panicVal any

	logger *zerolog.Logger
	id     uint64
}

var coroutineSeq uint64
var coroutineSeqMu sync.Mutex

func nextCoroutineID() uint64 {
	coroutineSeqMu.Lock()
	defer coroutineSeqMu.Unlock()
	coroutineSeq++
	return coroutineSeq
}

// threadState is the per-goroutine bookkeeping for "one active chain per OS
// thread". Go does not expose OS-thread-local storage, so this is keyed by
// the calling goroutine's g pointer (via getg) instead — a
// goroutine-granularity approximation of thread affinity, recorded as an
// open-question decision in DESIGN.md. root stands in for "no coroutine is
// active": it is never itself resumable, but shares Coroutine's shape so the
// switch/resume bookkeeping never needs a nil-vs-root special case.
type threadState struct {
	root    *Coroutine
	current *Coroutine
}

var threadStates sync.Map // map[uintptr]*threadState

func stateFor(g uintptr) *threadState {
	if v, ok := threadStates.Load(g); ok {
		return v.(*threadState)
	}
	root := &Coroutine{}
	root.prevActive = root
	ts := &threadState{root: root, current: root}
	actual, _ := threadStates.LoadOrStore(g, ts)
	return actual.(*threadState)
}

// Spawn allocates a coroutine's stack and wires up its synthetic first
// saved context, but does not run any of its code; the entry function
// starts executing on the first call to (*Coroutine).Resume.
func Spawn(entry Entry, argument any, stackSizeHint uintptr, opts ...SpawnOption) (*Coroutine, error) {
	cfg := spawnConfig{stackSize: stackSizeHint}
	for _, opt := range opts {
		opt(&cfg)
	}

	stack, err := allocStack(cfg.stackSize)
	if err != nil {
		l := cfg.logger
		if l == nil {
			l = &Logger
		}
		l.Error().Err(err).Msg("spawn: stack allocation failed")
		return nil, err
	}

	co := &Coroutine{
		stack:    stack,
		entry:    entry,
		argument: argument,
		logger:   cfg.logger,
		id:       nextCoroutineID(),
	}
	co.prevActive = co // off-chain sentinel until first resumed
	co.savedSP = buildInitialContext(stack.top(), co)

	co.log().Debug().Uint64("coroutine", co.id).Msg("spawned")
	return co, nil
}

// Resume transfers control to co, delivering wakeup as the value co's
// pending Await call returns. On the first resume there is no pending Await:
// the entry function receives Spawn's argument and wakeup is not delivered.
// Resume returns once co calls Await again or its entry function returns; if
// the entry function panics, Resume releases co's stack and re-panics with
// the same value.
//
// Resume fails, returning ErrResumeFailed, if co is already on some active
// chain (it is currently running, or is an ancestor of whatever is
// currently running), or if co was first resumed by a different goroutine
// than the one calling Resume now.
func (co *Coroutine) Resume(wakeup any) (await any, done bool, err error) {
	g := getg()

	if co.done {
		return nil, true, nil
	}
	if co.prevActive != co {
		co.log().Warn().Uint64("coroutine", co.id).Msg("resume: already on an active chain")
		return nil, false, ErrResumeFailed
	}
	if co.ownerG == 0 {
		co.ownerG = g
	} else if co.ownerG != g {
		co.log().Warn().Uint64("coroutine", co.id).Msg("resume: called from a different goroutine than first resumed it")
		return nil, false, ErrResumeFailed
	}

	ts := stateFor(g)
	parent := ts.current
	co.prevActive = parent
	ts.current = co

	co.transfer = wakeup
	co.started = true

	co.log().Debug().Uint64("coroutine", co.id).Msg("resume")
	swapcontext(&parent.savedSP, co.savedSP)
	// co called Await, or finished; either way control is back here, on
	// the same OS stack this call started on.
	ts.current = parent

	if co.done {
		result := co.transfer
		co.transfer = nil
		if pv := co.panicVal; pv != nil {
			co.panicVal = nil
			releaseCoroutine(co)
			panic(pv)
		}
		releaseCoroutine(co)
		return result, true, nil
	}
	return co.transfer, false, nil
}

// Await suspends the calling goroutine's currently running coroutine,
// handing wait back to whoever called Resume on it, and blocks until that
// coroutine (or another) resumes it again. It fails with ErrAwaitFailed if
// the calling goroutine is not currently running inside any coroutine.
func Await(wait any) (wakeup any, err error) {
	g := getg()
	ts := stateFor(g)
	self := ts.current

	if self == ts.root {
		Logger.Warn().Msg("await: called outside any running coroutine")
		return nil, ErrAwaitFailed
	}

	parent := self.prevActive
	ts.current = parent
	self.prevActive = self // off-chain again: suspended, awaiting resume

	self.transfer = wait
	self.log().Debug().Uint64("coroutine", self.id).Msg("await")
	swapcontext(&self.savedSP, parent.savedSP)

	return self.transfer, nil
}

// bootstrapTrampoline is called (via the bootstrap assembly shim) the first
// time a coroutine is resumed. It runs the entry function to completion,
// capturing a panic rather than letting it unwind onto the resumer's stack,
// then performs the final switch back with done=true.
func bootstrapTrampoline(coPtr uintptr) {
	co := (*Coroutine)(unsafe.Pointer(coPtr))
	runEntry(co)
	finishCoroutine(co)
	panic("greenq: finished coroutine resumed its own stack again")
}

func runEntry(co *Coroutine) {
	defer func() {
		if r := recover(); r != nil {
			co.panicVal = r
		}
	}()
	co.entry(co.argument)
}

func finishCoroutine(co *Coroutine) {
	co.done = true
	co.transfer = nil // the terminal await value is always nil, never the last wakeup
	parent := co.prevActive
	co.log().Debug().Uint64("coroutine", co.id).Msg("finished")
	swapcontext(&co.savedSP, parent.savedSP)
}

// buildInitialContext fabricates a coroutine's first saved context so that
// swapcontext's restore sequence, run against it for the first time, lands
// in bootstrap with the *Coroutine pointer already sitting in the register
// bootstrap expects. See switch_amd64.s / switch_arm64.s for the exact
// layout each architecture requires.
func buildInitialContext(stackTop uintptr, co *Coroutine) uintptr {
	sp := stackTop &^ 0xF // 16-byte align the usable top first

	sp -= contextFrameSize
	writeInitialContext(sp, co, bootstrapAddr())

	return sp
}

func (co *Coroutine) log() *zerolog.Logger {
	if co != nil && co.logger != nil {
		return co.logger
	}
	return &Logger
}

// Done reports whether co's entry function has returned or panicked.
func (co *Coroutine) Done() bool {
	return co.done
}

// StackBounds reports co's usable stack region as [low, high), excluding
// the guard page. It exists for diagnostic tooling (see the canary
// package) and panics if co's stack has already been released.
func (co *Coroutine) StackBounds() (low, high uintptr) {
	if co.stack == nil {
		panic("greenq: StackBounds on a released coroutine")
	}
	return co.stack.base, co.stack.top()
}

// CurrentStackDepth returns how many bytes of co's stack are in use below
// its last saved stack pointer, i.e. how close the last suspension came to
// the guard page. For a coroutine that has not yet been resumed it is the
// size of the synthetic first context Spawn placed at the top of the stack.
func (co *Coroutine) CurrentStackDepth() uintptr {
	if co.stack == nil {
		return 0
	}
	top := co.stack.top()
	if co.savedSP >= top {
		return 0
	}
	return top - co.savedSP
}

// String renders a short diagnostic line for logs and test failures.
func (co *Coroutine) String() string {
	state := "suspended"
	switch {
	case co.done:
		state = "done"
	case co.prevActive != co:
		state = "active-chain"
	case !co.started:
		state = "unstarted"
	}
	return fmt.Sprintf("Coroutine{id=%d state=%s}", co.id, state)
}

func releaseCoroutine(co *Coroutine) {
	if co.stack != nil {
		co.stack.release()
		co.stack = nil
	}
}
