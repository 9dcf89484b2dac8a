package query

import (
	"sort"
	"testing"
)

func TestMemoization(t *testing.T) {
	calls := 0
	rt := New(
		func(c *Ctx[int, int], k int) int {
			calls++
			if k <= 1 {
				return k
			}
			return c.Get(k-1) + c.Get(k-2)
		},
		func(_ []int, _ int) int { t.Fatal("no cycle expected"); return 0 },
	)

	if got := rt.Get(10); got != 55 {
		t.Fatalf("fib(10) = %d, want 55", got)
	}
	if calls != 11 {
		t.Errorf("expected 11 computations, got %d", calls)
	}

	calls = 0
	if got := rt.Get(10); got != 55 {
		t.Fatalf("second request = %d, want 55", got)
	}
	if calls != 0 {
		t.Errorf("memoized request recomputed %d keys", calls)
	}
}

func TestSelfCycle(t *testing.T) {
	recovered := 0
	rt := New(
		func(c *Ctx[string, string], k string) string {
			return c.Get(k) // immediately self-referential
		},
		func(participants []string, key string) string {
			recovered++
			if len(participants) != 1 || participants[0] != key {
				t.Errorf("participants = %v, want [%s]", participants, key)
			}
			return "recovered:" + key
		},
	)

	if got := rt.Get("a"); got != "recovered:a" {
		t.Errorf("Get = %q", got)
	}
	if recovered != 1 {
		t.Errorf("recovery ran %d times, want 1", recovered)
	}
	// The recovered value is memoized.
	if got := rt.Get("a"); got != "recovered:a" {
		t.Errorf("memoized Get = %q", got)
	}
	if recovered != 1 {
		t.Errorf("recovery re-ran on a memoized key")
	}
}

func TestTwoNodeCycle(t *testing.T) {
	deps := map[string]string{"a": "b", "b": "a"}
	var seen [][]string

	rt := New(
		func(c *Ctx[string, string], k string) string {
			return c.Get(deps[k])
		},
		func(participants []string, key string) string {
			cp := append([]string(nil), participants...)
			sort.Strings(cp)
			seen = append(seen, cp)
			return "cyclic:" + key
		},
	)

	if got := rt.Get("a"); got != "cyclic:a" {
		t.Errorf("Get(a) = %q", got)
	}
	// Both participants were recovered during the single unwind.
	if got := rt.Get("b"); got != "cyclic:b" {
		t.Errorf("Get(b) = %q", got)
	}
	if len(seen) != 2 {
		t.Fatalf("recovery ran %d times, want 2 (once per participant)", len(seen))
	}
	for _, p := range seen {
		if len(p) != 2 || p[0] != "a" || p[1] != "b" {
			t.Errorf("participants = %v, want [a b]", p)
		}
	}
}

func TestCycleBelowAcyclicPrefix(t *testing.T) {
	// start -> x -> y -> x ; start itself is not on the cycle.
	deps := map[string][]string{
		"start": {"x"},
		"x":     {"y"},
		"y":     {"x"},
	}

	rt := New(
		func(c *Ctx[string, string], k string) string {
			out := k
			for _, d := range deps[k] {
				out += "(" + c.Get(d) + ")"
			}
			return out
		},
		func(participants []string, key string) string {
			for _, p := range participants {
				if p == "start" {
					t.Errorf("start must not be a cycle participant")
				}
			}
			return "cyclic:" + key
		},
	)

	if got := rt.Get("start"); got != "start(cyclic:x)" {
		t.Errorf("Get(start) = %q, want start(cyclic:x)", got)
	}
}

func TestDeterministicAcrossRuntimes(t *testing.T) {
	build := func() *Runtime[int, int] {
		return New(
			func(c *Ctx[int, int], k int) int {
				if k == 0 {
					return 7
				}
				return c.Get(k-1) * 2
			},
			func(_ []int, _ int) int { return -1 },
		)
	}

	a, b := build(), build()
	for k := 0; k < 8; k++ {
		if a.Get(k) != b.Get(k) {
			t.Fatalf("runtimes disagree at key %d", k)
		}
	}
}
