// Package ruleio parses the line-oriented rule-file grammar into a
// rules.Store and a step budget: a validate-then-construct parser over a
// fixed textual layout, not part of the simulation core itself.
package ruleio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LRuffati/ndtm/internal/rules"
	"github.com/LRuffati/ndtm/internal/tape"
)

// stage names which section of the grammar is currently being read.
type stage int

const (
	stageNone stage = iota
	stageTransitions
	stageAccepting
	stageBudget
	stageDone
)

// Parsed is the rule file's content: a transition table populated with
// rules and final states, plus the step budget every machine run against
// it is bounded by.
type Parsed struct {
	Store  *rules.Store
	Budget int
}

// Parse reads the tr/acc/max/run sections from r. Headers may appear in
// any order but tr, acc, and max must all be seen before run; any content
// after run is ignored by this parser (the spec's input strings come from
// standard input, not from the rule file).
func Parse(r io.Reader) (*Parsed, error) {
	store := rules.New()
	budget := -1
	haveBudget := false
	haveTr := false
	haveAcc := false

	cur := stageNone
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "tr":
			cur = stageTransitions
			haveTr = true
			continue
		case "acc":
			cur = stageAccepting
			haveAcc = true
			continue
		case "max":
			cur = stageBudget
			continue
		case "run":
			if !haveTr {
				return nil, fmt.Errorf("ruleio: line %d: run seen before a tr section", lineNo)
			}
			if !haveAcc {
				return nil, fmt.Errorf("ruleio: line %d: run seen before an acc section", lineNo)
			}
			if !haveBudget {
				return nil, fmt.Errorf("ruleio: line %d: run seen before a max section", lineNo)
			}
			cur = stageDone
			continue
		}

		switch cur {
		case stageTransitions:
			if err := parseRule(store, line); err != nil {
				return nil, fmt.Errorf("ruleio: line %d: %w", lineNo, err)
			}
		case stageAccepting:
			final, err := strconv.Atoi(line)
			if err != nil {
				return nil, fmt.Errorf("ruleio: line %d: malformed final state %q: %w", lineNo, line, err)
			}
			store.AddFinal(final)
		case stageBudget:
			b, err := strconv.Atoi(line)
			if err != nil {
				return nil, fmt.Errorf("ruleio: line %d: malformed step budget %q: %w", lineNo, line, err)
			}
			budget = b
			haveBudget = true
		case stageDone:
			// Anything after "run" is ignored.
		default:
			return nil, fmt.Errorf("ruleio: line %d: %q appears before any tr/acc/max/run header", lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ruleio: reading rule file: %w", err)
	}
	if !haveTr {
		return nil, fmt.Errorf("ruleio: rule file is missing a tr section")
	}
	if !haveAcc {
		return nil, fmt.Errorf("ruleio: rule file is missing an acc section")
	}
	if !haveBudget {
		return nil, fmt.Errorf("ruleio: rule file is missing a max (step budget) section")
	}

	return &Parsed{Store: store, Budget: budget}, nil
}

// parseRule parses one "STATE_IN SYMBOL_IN SYMBOL_OUT DIR STATE_OUT" line.
func parseRule(store *rules.Store, line string) error {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return fmt.Errorf("expected 5 fields, got %d: %q", len(fields), line)
	}
	stateIn, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("malformed state_in %q: %w", fields[0], err)
	}
	if len(fields[1]) == 0 {
		return fmt.Errorf("empty symbol_in token")
	}
	symbolIn := fields[1][0]
	if len(fields[2]) == 0 {
		return fmt.Errorf("empty symbol_out token")
	}
	symbolOut := fields[2][0]
	dir, err := parseDirection(fields[3])
	if err != nil {
		return err
	}
	stateOut, err := strconv.Atoi(fields[4])
	if err != nil {
		return fmt.Errorf("malformed state_out %q: %w", fields[4], err)
	}
	store.AddRule(stateIn, symbolIn, symbolOut, stateOut, dir)
	return nil
}

func parseDirection(tok string) (tape.Movement, error) {
	switch tok {
	case "L":
		return tape.MoveLeft, nil
	case "R":
		return tape.MoveRight, nil
	case "S":
		return tape.MoveStay, nil
	default:
		return 0, fmt.Errorf("unknown direction token %q, want one of L, R, S", tok)
	}
}
