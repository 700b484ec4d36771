package sched

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LRuffati/ndtm/internal/rules"
	"github.com/LRuffati/ndtm/internal/tape"
)

// The scenarios below are the worked examples a rule file's tr/acc/max/run
// sections would produce for a given input line, spelled out directly
// against the Store/Scheduler API instead of through ruleio so each one
// exercises exactly the machinery it names.

func TestScenarioTrivialAccept(t *testing.T) {
	store := rules.New()
	store.AddRule(0, 'a', 'a', 1, tape.MoveRight)
	store.AddFinal(1)
	tp := tape.New(5, '_', []byte("a"))

	s := New(tp, store, 10)
	results := s.FastForward(0)
	last := results[len(results)-1]
	require.Equal(t, KindSuccess, last.Kind)
	require.Equal(t, DecisionSuccess, s.Decide(last))
}

func TestScenarioImmediateReject(t *testing.T) {
	store := rules.New()
	store.AddRule(0, 'a', 'a', 1, tape.MoveRight)
	store.AddFinal(1)
	tp := tape.New(5, '_', []byte("b"))

	s := New(tp, store, 10)
	results := s.FastForward(0)
	last := results[len(results)-1]
	require.Equal(t, KindFailAll, last.Kind)
	require.Equal(t, DecisionFailure, s.Decide(last))
}

func TestScenarioNonDeterministicAccept(t *testing.T) {
	store := rules.New()
	store.AddRule(0, 'a', 'a', 0, tape.MoveRight)
	store.AddRule(0, 'a', 'a', 1, tape.MoveRight)
	store.AddRule(1, '_', '_', 2, tape.MoveStay)
	store.AddFinal(2)
	tp := tape.New(5, '_', []byte("a"))

	decision := Run(tp, store, 20)
	require.Equal(t, DecisionSuccess, decision)
}

func TestScenarioStepBoundedUndecided(t *testing.T) {
	store := rules.New()
	store.AddRule(0, '_', '_', 0, tape.MoveRight)
	store.AddFinal(99)
	tp := tape.New(5, '_', []byte("_"))

	decision := Run(tp, store, 5)
	require.Equal(t, DecisionUndecided, decision)
}

// TestScenarioBoundaryShift walks the cursor across a cell boundary (cell
// width 5) while writing a fixed marker at every position, confirming
// neither the windowed cache nor the underlying cell chain lets a write
// bleed into a neighboring position.
func TestScenarioBoundaryShift(t *testing.T) {
	tp := tape.New(5, '_', []byte("abcdef"))
	for i := 0; i < 6; i++ {
		tp.Write('Z')
		tp.Shift(tape.MoveRight)
	}
	for i := 0; i < 6; i++ {
		tp.Shift(tape.MoveLeft)
	}
	for i := 0; i < 6; i++ {
		require.Equal(t, byte('Z'), tp.Read(), "position %d", i)
		tp.Shift(tape.MoveRight)
	}
}

// TestScenarioSplitIsolation runs two non-deterministic alternatives from
// the same starting tape, one writing a symbol that leads to acceptance and
// one writing a symbol that leads to a dead end, and confirms the run splits
// into two children and accepts through the first of them. The branches'
// tapes are not inspected here.
func TestScenarioSplitIsolation(t *testing.T) {
	store := rules.New()
	store.AddRule(0, 'a', 'x', 1, tape.MoveRight) // leads to accept
	store.AddRule(0, 'a', 'y', 2, tape.MoveRight) // leads to reject
	store.AddRule(1, '_', '_', 3, tape.MoveStay)
	store.AddFinal(3)
	store.ComputeDistances()

	tp := tape.New(5, '_', []byte("a"))
	s := New(tp, store, 20)

	split := s.Step()
	require.Equal(t, KindSplit, split.Kind)
	require.Len(t, split.New, 2)

	results := s.FastForward(0)
	last := results[len(results)-1]
	require.Equal(t, KindSuccess, last.Kind)
	require.Equal(t, DecisionSuccess, s.Decide(last))

	// the run accepts via the branch that wrote 'x'; the 'y' branch
	// (state 2, which has no rules) is still queued when acceptance
	// ends the run.
	require.Equal(t, split.New[0], last.Machine)
}
