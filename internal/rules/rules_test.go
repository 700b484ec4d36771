package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/LRuffati/ndtm/internal/tape"
)

func TestGetOnEmptyStoreIsNone(t *testing.T) {
	s := New()
	out := s.Get(0, 'a')
	require.Equal(t, None, out.Kind)
	require.Empty(t, out.Transitions)
}

func TestAddRuleFirstInsertionIsSimple(t *testing.T) {
	s := New()
	s.AddRule(0, 'a', 'b', 1, tape.MoveRight)
	out := s.Get(0, 'a')
	require.Equal(t, Simple, out.Kind)
	require.Len(t, out.Transitions, 1)
	require.Equal(t, Transition{State: 1, Symbol: 'b', Dir: tape.MoveRight}, out.Transitions[0])
}

func TestAddRuleSecondInsertionPromotesToMulti(t *testing.T) {
	s := New()
	s.AddRule(0, 'a', 'b', 1, tape.MoveRight)
	s.AddRule(0, 'a', 'c', 2, tape.MoveLeft)
	out := s.Get(0, 'a')
	require.Equal(t, Multi, out.Kind)
	require.Len(t, out.Transitions, 2)
	require.Equal(t, byte('b'), out.Transitions[0].Symbol)
	require.Equal(t, byte('c'), out.Transitions[1].Symbol)
}

func TestGetReturnsDefensiveCopy(t *testing.T) {
	s := New()
	s.AddRule(0, 'a', 'b', 1, tape.MoveRight)
	out := s.Get(0, 'a')
	out.Transitions[0].Symbol = 'Z'

	again := s.Get(0, 'a')
	require.Equal(t, byte('b'), again.Transitions[0].Symbol, "mutating a returned Output must not affect the store")
}

func TestDistanceBeforeComputeIsUnreachable(t *testing.T) {
	s := New()
	s.AddFinal(1)
	require.Equal(t, Unreachable, s.Distance(1))
}

func TestComputeDistancesFromDirectFinal(t *testing.T) {
	s := New()
	s.AddFinal(1)
	s.AddRule(0, 'a', 'a', 1, tape.MoveRight)
	s.ComputeDistances()

	require.Equal(t, 0, s.Distance(1))
	require.Equal(t, 1, s.Distance(0))
}

func TestComputeDistancesMultiHop(t *testing.T) {
	s := New()
	s.AddFinal(2)
	s.AddRule(0, 'a', 'a', 1, tape.MoveRight)
	s.AddRule(1, 'a', 'a', 2, tape.MoveRight)
	s.ComputeDistances()

	require.Equal(t, 0, s.Distance(2))
	require.Equal(t, 1, s.Distance(1))
	require.Equal(t, 2, s.Distance(0))
}

func TestComputeDistancesUnreachableStateStaysUnreachable(t *testing.T) {
	s := New()
	s.AddFinal(2)
	s.AddRule(0, 'a', 'a', 1, tape.MoveRight)
	// state 1 never reaches state 2
	s.ComputeDistances()

	require.Equal(t, Unreachable, s.Distance(1))
	require.Equal(t, Unreachable, s.Distance(99))
}

func TestComputeDistancesWithNoFinalsLeavesEverythingUnreachable(t *testing.T) {
	s := New()
	s.AddRule(0, 'a', 'a', 1, tape.MoveRight)
	s.ComputeDistances()

	require.Equal(t, Unreachable, s.Distance(0))
	require.Equal(t, Unreachable, s.Distance(1))
}

// TestComputeDistancesTerminatesOnCyclicPredecessors guards against the
// unbounded re-enqueue a naive reverse BFS can fall into when the
// predecessor graph has a cycle: state 0 and state 1 point at each other,
// and state 1 also reaches the final state 2.
func TestComputeDistancesTerminatesOnCyclicPredecessors(t *testing.T) {
	s := New()
	s.AddFinal(2)
	s.AddRule(0, 'a', 'a', 1, tape.MoveRight)
	s.AddRule(1, 'a', 'a', 0, tape.MoveRight)
	s.AddRule(1, 'b', 'b', 2, tape.MoveRight)

	done := make(chan struct{})
	go func() {
		s.ComputeDistances()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ComputeDistances did not terminate on a cyclic predecessor graph")
	}

	require.Equal(t, 0, s.Distance(2))
	require.Equal(t, 1, s.Distance(1))
	require.Equal(t, 2, s.Distance(0))
}

func TestAddRuleInvalidatesPreviousDistances(t *testing.T) {
	s := New()
	s.AddFinal(1)
	s.AddRule(0, 'a', 'a', 1, tape.MoveRight)
	s.ComputeDistances()
	require.Equal(t, 1, s.Distance(0))

	s.AddRule(2, 'a', 'a', 0, tape.MoveRight)
	require.Equal(t, Unreachable, s.Distance(2), "distances must be stale until ComputeDistances runs again")

	s.ComputeDistances()
	require.Equal(t, 2, s.Distance(2))
}

func TestIsFinal(t *testing.T) {
	s := New()
	s.AddFinal(5)
	require.True(t, s.IsFinal(5))
	require.False(t, s.IsFinal(6))
}
