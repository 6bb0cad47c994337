package greenq

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNesting spawns an outer coroutine that itself spawns and resumes an
// inner one, checking that the inner's await values surface through the
// outer's own Resume calls and that the active chain unwinds cleanly when
// both finish.
func TestNesting(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var trace []string

	inner, err := Spawn(func(argument any) {
		trace = append(trace, "inner:start")
		Await("inner:first")
		trace = append(trace, "inner:resumed")
		Await("inner:second")
		trace = append(trace, "inner:done")
	}, nil, 0)
	require.NoError(t, err)

	outer, err := Spawn(func(argument any) {
		trace = append(trace, "outer:start")
		for {
			await, done, err := inner.Resume(nil)
			if err != nil || done {
				break
			}
			if _, err := Await(await); err != nil {
				break
			}
		}
		trace = append(trace, "outer:done")
	}, nil, 0)
	require.NoError(t, err)

	await, done, err := outer.Resume(nil)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, "inner:first", await)

	await, done, err = outer.Resume(nil)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, "inner:second", await)

	_, done, err = outer.Resume(nil)
	require.NoError(t, err)
	assert.True(t, done)

	assert.Equal(t, []string{
		"outer:start",
		"inner:start",
		"inner:resumed",
		"inner:done",
		"outer:done",
	}, trace)
}

// TestNestingEightDeep builds a chain of coroutines, each one spawning and
// relaying Resume/Await to the next, eight levels deep, and drives the
// outermost one to completion — checking the active chain's bookkeeping
// survives at least the nesting depth the boundary behavior calls for.
func TestNestingEightDeep(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	const depth = 8

	var build func(level int) *Coroutine
	build = func(level int) *Coroutine {
		if level == depth-1 {
			co, err := Spawn(func(argument any) {
				Await("leaf")
			}, nil, 0)
			require.NoError(t, err)
			return co
		}

		child := build(level + 1)
		co, err := Spawn(func(argument any) {
			for {
				award, done, err := child.Resume(nil)
				if err != nil || done {
					return
				}
				if _, err := Await(award); err != nil {
					return
				}
			}
		}, nil, 0)
		require.NoError(t, err)
		return co
	}

	root := build(0)

	await, done, err := root.Resume(nil)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, "leaf", await)

	_, done, err = root.Resume(nil)
	require.NoError(t, err)
	assert.True(t, done)
}
