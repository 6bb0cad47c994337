package main

import (
	"fmt"
	"time"

	"github.com/alphadose/greenq"
)

// Payload is a representative multi-field value, used so the benchmark
// measures a realistic handoff cost rather than a single machine word.
type Payload struct {
	first   byte
	second  int64
	third   float64
	fourth  string
	fifth   complex64
	sixth   []rune
	seventh bool
}

func NewPayload() *Payload {
	return &Payload{
		first:  1,
		second: 2,
		third:  3.0,
		fourth: "4",
		fifth:  3 + 4i,
		sixth:  []rune("🐈⚔️👍🌏💥🦖"),
	}
}

var (
	pl Payload = *NewPayload()

	currSize uint64 = throughput[0]

	throughput = []uint64{60, 600, 6000, 600000}
)

func noopPayload(Payload) {}

// chanRunner hands currSize payloads from one goroutine to another over a
// channel, round-tripping a done signal so the cost is a fair one-in
// one-out comparison against the coroutine runner below.
func chanRunner() {
	values := make(chan Payload)
	done := make(chan struct{})
	go func() {
		for i := uint64(0); i < currSize; i++ {
			values <- pl
		}
		close(values)
	}()
	go func() {
		for v := range values {
			noopPayload(v)
		}
		close(done)
	}()
	<-done
}

func producer(argument any) {
	for i := uint64(0); i < currSize; i++ {
		if _, err := greenq.Await(pl); err != nil {
			return
		}
	}
}

// coroutineRunner drives the same number of handoffs through a single
// Spawn/Resume/Await pair, entirely on the calling goroutine: no scheduler,
// no channel, no second OS thread ever becomes involved.
func coroutineRunner() {
	co, err := greenq.Spawn(producer, nil, 0)
	if err != nil {
		panic(err)
	}
	for {
		v, done, err := co.Resume(nil)
		if err != nil {
			panic(err)
		}
		if done {
			return
		}
		noopPayload(v.(Payload))
	}
}

func measureTime(callback func(), runnerName string) {
	start := time.Now()
	callback()
	fmt.Printf("%s Runner completed transfer in: %v\n", runnerName, time.Since(start))
}

func main() {
	for _, tput := range throughput {
		currSize = tput
		fmt.Printf("With Input Batch Size: %d\n\n", currSize)

		measureTime(chanRunner, "Native Channel")
		measureTime(coroutineRunner, "greenq Coroutine")
		fmt.Print("====================================================================\n\n")
	}
}
