package canary_test

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphadose/greenq"
	"github.com/alphadose/greenq/canary"
)

func ptrAt(addr uintptr) unsafe.Pointer {
	return unsafe.Pointer(addr)
}

func TestPaintThenCheckIsIntactBeforeFirstResume(t *testing.T) {
	co, err := greenq.Spawn(func(argument any) {}, nil, 0)
	require.NoError(t, err)

	canary.Paint(co)
	ok, offset := canary.Check(co)
	assert.True(t, ok)
	assert.Equal(t, -1, offset)
}

func TestCheckDetectsOverwrittenPattern(t *testing.T) {
	co, err := greenq.Spawn(func(argument any) {}, nil, 0)
	require.NoError(t, err)

	canary.Paint(co)
	low, _ := co.StackBounds()
	*(*byte)(ptrAt(low)) = canary.Pattern + 1

	ok, offset := canary.Check(co)
	assert.False(t, ok)
	assert.Equal(t, 0, offset)
	assert.Contains(t, canary.Report(co), "broken at offset 0")
}

func TestPaintShrinksAfterResume(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	co, err := greenq.Spawn(func(argument any) {
		greenq.Await(nil)
	}, nil, 0)
	require.NoError(t, err)

	_, done, err := co.Resume(nil)
	require.NoError(t, err)
	require.False(t, done)

	// Once the coroutine has run, its recorded depth is nonzero, so the
	// unused region painted now is strictly smaller than before first run.
	assert.Greater(t, co.CurrentStackDepth(), uintptr(0))
	canary.Paint(co)
	ok, _ := canary.Check(co)
	assert.True(t, ok)
}
