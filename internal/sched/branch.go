// Package sched runs the non-deterministic branch frontier: a best-first
// search over partial computations, in which a single step can fork into
// several children instead of always advancing exactly one machine.
package sched

import (
	"github.com/golang/glog"

	"github.com/LRuffati/ndtm/internal/rules"
	"github.com/LRuffati/ndtm/internal/tape"
)

// outcome tags what a single Branch.step call produced.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeFailure
	outcomeRecognized
	outcomeSplit
)

// stepResult is the raw result of advancing a single branch, before the
// Scheduler turns it into a StepResult.
type stepResult struct {
	outcome outcome
	split   []rules.Transition
}

// Branch is a single, independent computation: its own tape, state, depth,
// and admissibility heuristic, plus an optional pending transition cached
// from a deterministic rule lookup so that only a pop-and-apply (not
// another table lookup) separates admission from mutation.
type Branch struct {
	ID       int
	Depth    int
	State    int
	Distance int
	Pending  *rules.Transition
	Tape     *tape.Tape
}

// newBranch builds a branch with the given identity, inheriting distance
// from the rule store for its starting state.
func newBranch(id, depth, state int, pending *rules.Transition, t *tape.Tape, store *rules.Store) *Branch {
	return &Branch{
		ID:       id,
		Depth:    depth,
		State:    state,
		Distance: store.Distance(state),
		Pending:  pending,
		Tape:     t,
	}
}

// step advances the branch by exactly one table lookup or one cached
// transition application:
//
//  1. A pending transition applies atomically: depth increments, state and
//     distance update, the tape is written and shifted, the cache clears.
//  2. Otherwise the rule store is consulted for (state, tape.Read()): no
//     rule fails the branch; exactly one rule is cached and immediately
//     applied (so the lookup never shows up as a distinct "step" a caller
//     can observe); two or more rules is a non-deterministic split, which
//     this call reports without mutating the branch. The caller
//     (Scheduler.Step) is responsible for splitting the tape.
func (b *Branch) step(store *rules.Store) stepResult {
	if b.Pending != nil {
		t := *b.Pending
		b.Pending = nil
		b.Depth++
		b.State = t.State
		b.Distance = store.Distance(b.State)
		b.Tape.Write(t.Symbol)
		b.Tape.Shift(t.Dir)
		if store.IsFinal(b.State) {
			return stepResult{outcome: outcomeRecognized}
		}
		return stepResult{outcome: outcomeSuccess}
	}

	out := store.Get(b.State, b.Tape.Read())
	switch out.Kind {
	case rules.None:
		return stepResult{outcome: outcomeFailure}
	case rules.Simple:
		t := out.Transitions[0]
		b.Pending = &t
		return b.step(store)
	case rules.Multi:
		return stepResult{outcome: outcomeSplit, split: out.Transitions}
	default:
		glog.Fatalf("sched: unknown rule output kind %v", out.Kind)
		panic("unreachable")
	}
}

// split consumes the branch, returning its state and depth (inherited
// unchanged by every child) along with n independent tape copies. It is an
// error to split a branch with a pending cached transition: a split is a
// non-deterministic event and must not silently discard queued work.
func (b *Branch) split(n int) (state, depth int, tapes []*tape.Tape) {
	if b.Pending != nil {
		glog.Fatalf("sched: split called on branch %d with a pending transition", b.ID)
	}
	return b.State, b.Depth, b.Tape.Split(n)
}

// priorityLess reports whether a is strictly more promising than b: a
// pending transition always wins; otherwise lower depth+distance wins;
// ties break toward the lower (older) id so repeated runs produce the
// same trace. Comparisons only ever read these three fields; a branch is
// never compared against itself as a whole.
func priorityLess(a, b *Branch) bool {
	aPending := a.Pending != nil
	bPending := b.Pending != nil
	if aPending != bPending {
		return aPending
	}
	aKey := addSaturating(a.Depth, a.Distance)
	bKey := addSaturating(b.Depth, b.Distance)
	if aKey != bKey {
		return aKey < bKey
	}
	return a.ID < b.ID
}

// addSaturating adds depth and distance without overflowing into a
// negative int when distance is rules.Unreachable.
func addSaturating(depth, distance int) int {
	if distance >= rules.Unreachable-depth {
		return rules.Unreachable
	}
	return depth + distance
}
