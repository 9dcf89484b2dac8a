// Package query implements a memoizing evaluator for recursive computations
// over a keyed domain. A tracked function may request the value of other
// keys while computing its own; the runtime detects when such requests form
// a cycle in the call graph and reroutes the affected keys to a recovery
// function that is given the cycle's participant set up front.
//
// Results are memoized per key, so repeated requests are cheap and
// deterministic. Values must be referentially transparent: recomputing one
// must always produce an identical result.
package query

import "sync"

// Ctx is handed to the tracked function so it can request dependencies
// through the runtime that invoked it.
type Ctx[K comparable, V any] struct {
	rt *Runtime[K, V]
}

// Get requests the value for key, computing it if necessary. Requesting a
// key whose computation is already in progress aborts the current
// computation and triggers cycle recovery.
func (c *Ctx[K, V]) Get(key K) V {
	return c.rt.get(key)
}

// Runtime memoizes a single tracked function.
type Runtime[K comparable, V any] struct {
	fn      func(*Ctx[K, V], K) V
	recover func(participants []K, key K) V

	mu      sync.Mutex
	memo    map[K]V
	onStack map[K]int // key -> index into stack
	stack   []K
}

// New builds a runtime for fn. The recovery function receives the cycle's
// participants in call order, starting with the key whose re-entry closed
// the cycle; it runs once per participant and must terminate without
// requesting further keys from the runtime.
func New[K comparable, V any](fn func(*Ctx[K, V], K) V, recoverFn func(participants []K, key K) V) *Runtime[K, V] {
	return &Runtime[K, V]{
		fn:      fn,
		recover: recoverFn,
		memo:    make(map[K]V),
		onStack: make(map[K]int),
	}
}

// Get returns the memoized value for key, computing it on first request.
// Safe for concurrent use; evaluation itself is serialized.
func (rt *Runtime[K, V]) Get(key K) V {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.get(key)
}

// cycleAbort unwinds the evaluation stack when a call-graph cycle is
// detected. Every participant frame converts it into a recovered value on
// the way up; the head frame stops the unwind.
type cycleAbort[K comparable] struct {
	head         K
	participants []K
}

func (rt *Runtime[K, V]) get(key K) (result V) {
	if v, ok := rt.memo[key]; ok {
		return v
	}

	if idx, on := rt.onStack[key]; on {
		// The computation of key transitively requested key itself.
		participants := append([]K(nil), rt.stack[idx:]...)
		panic(cycleAbort[K]{head: key, participants: participants})
	}

	rt.onStack[key] = len(rt.stack)
	rt.stack = append(rt.stack, key)

	defer func() {
		rt.stack = rt.stack[:len(rt.stack)-1]
		delete(rt.onStack, key)

		if r := recover(); r != nil {
			abort, ok := r.(cycleAbort[K])
			if !ok {
				panic(r)
			}
			// Replace this participant's aborted computation with the
			// recovery result; keys between cycle frames that are not
			// participants never observe the abort because every frame on
			// the unwind path is, by construction, on the cycle.
			result = rt.recover(abort.participants, key)
			rt.memo[key] = result
			if key != abort.head {
				panic(abort)
			}
		}
	}()

	v := rt.fn(&Ctx[K, V]{rt: rt}, key)
	rt.memo[key] = v
	return v
}
