// Package roundrobin is a host-side fair multiplexer over many coroutines,
// built on top of greenq.Coroutine's plain Resume/Await pair.
//
// Group.Next fair-picks the coroutine with the fewest resumes so far among
// those not yet done, the same least-serviced-first fairness rule a fair
// multiplexer applies to ready channels, adapted to "not finished" since a
// coroutine, unlike a channel, has no separate readiness signal — it is
// simply due for another turn unless it has already run to completion.
package roundrobin

import "github.com/alphadose/greenq"

// Group is a fixed set of coroutines driven in round-robin order: each call
// to Next resumes whichever live member has been resumed the fewest times
// so far, so no member starves behind a long-running sibling.
type Group struct {
	members []*member
}

type member struct {
	co      *greenq.Coroutine
	resumes uint64
	done    bool
}

// New builds a Group over the given coroutines. None of them should have
// been resumed yet; Group takes over driving them from here.
func New(coroutines ...*greenq.Coroutine) *Group {
	members := make([]*member, len(coroutines))
	for i, co := range coroutines {
		members[i] = &member{co: co}
	}
	return &Group{members: members}
}

// Len reports how many members have not yet finished.
func (g *Group) Len() int {
	n := 0
	for _, m := range g.members {
		if !m.done {
			n++
		}
	}
	return n
}

// Next resumes the least-resumed live member with wakeup, and reports which
// index was chosen along with its result. It returns ok=false once every
// member has finished.
func (g *Group) Next(wakeup any) (index int, await any, done bool, ok bool, err error) {
	least := ^uint64(0)
	chosen := -1
	for i, m := range g.members {
		if !m.done && m.resumes < least {
			least = m.resumes
			chosen = i
		}
	}
	if chosen < 0 {
		return 0, nil, false, false, nil
	}

	m := g.members[chosen]
	m.resumes++
	await, done, err = m.co.Resume(wakeup)
	if done || err != nil {
		m.done = true
	}
	return chosen, await, done, true, err
}
