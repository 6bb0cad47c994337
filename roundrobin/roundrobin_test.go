package roundrobin_test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphadose/greenq"
	"github.com/alphadose/greenq/roundrobin"
)

// TestSixWayRoundRobin realizes Testable Scenario 3: six coroutines, each
// awaiting a handful of values, driven by one Group, checking that no
// member is starved behind another and every value is delivered in the
// order its owner produced it.
func TestSixWayRoundRobin(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	const members = 6
	const perMember = 4

	coroutines := make([]*greenq.Coroutine, members)
	for i := 0; i < members; i++ {
		i := i
		co, err := greenq.Spawn(func(argument any) {
			for j := 0; j < perMember; j++ {
				if _, err := greenq.Await(fmt.Sprintf("m%d-v%d", i, j)); err != nil {
					return
				}
			}
		}, nil, 0)
		require.NoError(t, err)
		coroutines[i] = co
	}

	group := roundrobin.New(coroutines...)

	seenPerMember := make(map[int]int)
	turns := 0
	for group.Len() > 0 {
		idx, await, done, ok, err := group.Next(nil)
		require.NoError(t, err)
		if !ok {
			break
		}
		if done {
			continue
		}
		turns++
		expect := fmt.Sprintf("m%d-v%d", idx, seenPerMember[idx])
		assert.Equal(t, expect, await)
		seenPerMember[idx]++
	}

	assert.Equal(t, members*perMember, turns)
	for i := 0; i < members; i++ {
		assert.Equal(t, perMember, seenPerMember[i], "member %d starved or over-served", i)
	}
	assert.Equal(t, 0, group.Len())
}
