// Package rules stores the transition table of a Turing machine and the
// reverse-reachability distance precomputation that feeds the scheduler's
// admissibility heuristic: a keyed lookup from "where I am" to "what
// happens next".
package rules

import (
	"math"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/golang/glog"

	"github.com/LRuffati/ndtm/internal/tape"
)

// Unreachable is the distance reported for a state with no path to any
// final state.
const Unreachable = math.MaxInt

// Transition is how the state of the machine and tape changes: write
// Symbol, move Dir, and become State.
type Transition struct {
	State  int
	Symbol byte
	Dir    tape.Movement
}

// Kind tags an Output's shape.
type Kind int

const (
	// None means there is no rule for the (state, symbol) pair.
	None Kind = iota
	// Simple means exactly one transition applies.
	Simple
	// Multi means two or more transitions apply non-deterministically.
	Multi
)

// Output is what Store.Get returns for a (state, symbol) key.
type Output struct {
	Kind        Kind
	Transitions []Transition
}

type key struct {
	state  int
	symbol byte
}

// Store holds the transition table, the final states, and the
// predecessor/distance bookkeeping ComputeDistances derives from it.
type Store struct {
	rules      map[key]*Output
	backtrace  map[int]mapset.Set[int]
	dist       map[int]int
	finals     mapset.Set[int]
	distsValid bool
}

// New returns an empty rule store.
func New() *Store {
	return &Store{
		rules:     make(map[key]*Output),
		backtrace: make(map[int]mapset.Set[int]),
		dist:      make(map[int]int),
		finals:    mapset.NewSet[int](),
	}
}

// AddRule inserts a transition for (stateIn, symbolIn). The first rule for
// a key becomes a Simple output; a second promotes it to Multi, in
// insertion order; further rules append.
func (s *Store) AddRule(stateIn int, symbolIn, symbolOut byte, stateOut int, dir tape.Movement) {
	s.distsValid = false
	t := Transition{State: stateOut, Symbol: symbolOut, Dir: dir}
	k := key{state: stateIn, symbol: symbolIn}
	if out, ok := s.rules[k]; ok {
		out.Kind = Multi
		out.Transitions = append(out.Transitions, t)
	} else {
		s.rules[k] = &Output{Kind: Simple, Transitions: []Transition{t}}
	}

	preds, ok := s.backtrace[stateOut]
	if !ok {
		preds = mapset.NewSet[int]()
		s.backtrace[stateOut] = preds
	}
	preds.Add(stateIn)
}

// Get returns a copy of the output registered for (state, symbol), or a
// None output if there is none.
func (s *Store) Get(state int, symbol byte) Output {
	out, ok := s.rules[key{state: state, symbol: symbol}]
	if !ok {
		return Output{Kind: None}
	}
	cp := make([]Transition, len(out.Transitions))
	copy(cp, out.Transitions)
	return Output{Kind: out.Kind, Transitions: cp}
}

// AddFinal marks s as an accepting state.
func (s *Store) AddFinal(state int) {
	s.distsValid = false
	s.finals.Add(state)
}

// IsFinal reports whether state is accepting.
func (s *Store) IsFinal(state int) bool {
	return s.finals.Contains(state)
}

// ComputeDistances runs a reverse breadth-first search from the final
// states through the predecessor adjacency built up by AddRule, assigning
// every reachable state the length of its shortest path to a final state.
// It is idempotent and safe to call more than once (AddRule/AddFinal mark
// the previous result stale). sched.New calls it once before the first
// Step, so Distance is never consulted before it is well defined.
func (s *Store) ComputeDistances() {
	dist := make(map[int]int, s.finals.Cardinality())
	frontier := make([]int, 0, s.finals.Cardinality())
	for st := range s.finals.Iter() {
		dist[st] = 0
		frontier = append(frontier, st)
	}

	layer := 0
	for len(frontier) > 0 {
		next := make([]int, 0)
		for _, st := range frontier {
			preds, ok := s.backtrace[st]
			if !ok {
				continue
			}
			for p := range preds.Iter() {
				if _, seen := dist[p]; !seen {
					dist[p] = layer + 1
					next = append(next, p)
				}
			}
		}
		layer++
		frontier = next
	}

	s.dist = dist
	s.distsValid = true
}

// Distance returns the precomputed distance from state to the nearest
// final state, or Unreachable if no path exists (or none was ever
// computed).
func (s *Store) Distance(state int) int {
	if !s.distsValid {
		glog.Warningf("rules: Distance queried before ComputeDistances; treating all states as unreachable")
		return Unreachable
	}
	if d, ok := s.dist[state]; ok {
		return d
	}
	return Unreachable
}
