package sched

import (
	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/golang/glog"

	"github.com/LRuffati/ndtm/internal/rules"
	"github.com/LRuffati/ndtm/internal/tape"
)

// resultKind tags a StepResult.
type resultKind int

const (
	// KindDetStep is a branch that took one deterministic step and is
	// still alive.
	KindDetStep resultKind = iota
	// KindSplit is a branch that forked into len(New) children.
	KindSplit
	// KindBranchFail is a branch with no applicable rule.
	KindBranchFail
	// KindSuccess is a branch that reached a final state.
	KindSuccess
	// KindUndecided is a branch dropped for reaching the step budget.
	KindUndecided
	// KindFailAll means the frontier is empty: every branch has been
	// resolved one way or another.
	KindFailAll
)

// StepResult reports what a single Scheduler.Step call did.
type StepResult struct {
	Kind    resultKind
	Machine int   // valid for DetStep, BranchFail, Success, Undecided
	Source  int   // valid for Split
	New     []int // valid for Split
}

func branchComparator(a, b interface{}) int {
	ba, bb := a.(*Branch), b.(*Branch)
	switch {
	case priorityLess(ba, bb):
		return -1
	case priorityLess(bb, ba):
		return 1
	default:
		return 0
	}
}

// Scheduler is the best-first frontier over live branches: it pops the
// most promising branch, advances it one step, and on a non-deterministic
// split clones the tape and pushes one child per alternative.
type Scheduler struct {
	store         *rules.Store
	frontier      *priorityqueue.Queue
	lastID        int
	budget        int
	someUndecided bool
}

// New seeds a scheduler with a single branch (depth 0, state 0, no pending
// transition) over t, bounded by budget steps. It computes the rule
// store's distances before returning, so the branch's ordering key is well
// defined from the first Step call.
func New(t *tape.Tape, store *rules.Store, budget int) *Scheduler {
	store.ComputeDistances()
	s := &Scheduler{
		store:    store,
		frontier: priorityqueue.NewWith(branchComparator),
		budget:   budget,
	}
	first := newBranch(0, 0, 0, nil, t, store)
	s.frontier.Enqueue(first)
	return s
}

// SomeUndecided reports whether any branch was ever dropped for reaching
// the step budget.
func (s *Scheduler) SomeUndecided() bool { return s.someUndecided }

// Step pops the highest-priority branch and advances it by exactly one
// step result.
func (s *Scheduler) Step() StepResult {
	raw, ok := s.frontier.Dequeue()
	if !ok {
		return StepResult{Kind: KindFailAll}
	}
	b := raw.(*Branch)

	if b.Depth >= s.budget {
		s.someUndecided = true
		glog.Infof("sched: branch %d dropped, depth %d reached budget %d", b.ID, b.Depth, s.budget)
		return StepResult{Kind: KindUndecided, Machine: b.ID}
	}

	res := b.step(s.store)
	switch res.outcome {
	case outcomeSuccess:
		s.frontier.Enqueue(b)
		return StepResult{Kind: KindDetStep, Machine: b.ID}
	case outcomeFailure:
		return StepResult{Kind: KindBranchFail, Machine: b.ID}
	case outcomeRecognized:
		return StepResult{Kind: KindSuccess, Machine: b.ID}
	case outcomeSplit:
		state, depth, tapes := b.split(len(res.split))
		ids := make([]int, len(tapes))
		for i, t := range tapes {
			s.lastID++
			tr := res.split[i]
			child := newBranch(s.lastID, depth, state, &tr, t, s.store)
			ids[i] = s.lastID
			s.frontier.Enqueue(child)
		}
		return StepResult{Kind: KindSplit, Source: b.ID, New: ids}
	default:
		glog.Fatalf("sched: unknown step outcome %v", res.outcome)
		panic("unreachable")
	}
}

// FastForward repeatedly calls Step, collecting every result, until either
// a Success or a FailAll is produced, or limit iterations have run (limit
// <= 0 means unbounded).
func (s *Scheduler) FastForward(limit int) []StepResult {
	var out []StepResult
	count := 0
	for {
		if limit > 0 && count >= limit {
			break
		}
		count++
		r := s.Step()
		out = append(out, r)
		if r.Kind == KindSuccess || r.Kind == KindFailAll {
			break
		}
	}
	return out
}

// Decision is the final accept/reject/undecided verdict for an input.
type Decision int

const (
	DecisionFailure Decision = iota
	DecisionSuccess
	DecisionUndecided
)

func (d Decision) String() string {
	switch d {
	case DecisionSuccess:
		return "Success"
	case DecisionUndecided:
		return "Undecided"
	default:
		return "Failure"
	}
}

// Decide turns the last StepResult from a run to completion into a
// Decision: Success accepts; FailAll rejects unless some branch was
// dropped for the step budget, in which case the input is undecided.
func (s *Scheduler) Decide(last StepResult) Decision {
	switch last.Kind {
	case KindSuccess:
		return DecisionSuccess
	case KindFailAll:
		if s.someUndecided {
			return DecisionUndecided
		}
		return DecisionFailure
	default:
		glog.Fatalf("sched: Decide called on a non-terminal StepResult (kind %v)", last.Kind)
		panic("unreachable")
	}
}

// Run drives the scheduler to completion against a fresh budget-bounded
// search and returns the final decision, the convenience entrypoint
// cmd/ndtm uses per input line.
func Run(t *tape.Tape, store *rules.Store, budget int) Decision {
	s := New(t, store, budget)
	results := s.FastForward(0)
	return s.Decide(results[len(results)-1])
}
