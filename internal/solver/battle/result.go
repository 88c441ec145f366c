package battle

import (
	"fmt"
	"time"

	"github.com/napolitain/boss-solver/internal/models"
)

// Status describes how a search terminated
type Status int

const (
	// StatusComplete means the frontier drained
	StatusComplete Status = iota
	// StatusBudgetExceeded means the iteration cap stopped the search
	StatusBudgetExceeded
	// StatusDeadlineExceeded means the context or timeout stopped the search
	StatusDeadlineExceeded
	// StatusExhausted means the frontier drained without any victory
	StatusExhausted
)

// String returns the wire name of the status
func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusBudgetExceeded:
		return "budget_exceeded"
	case StatusDeadlineExceeded:
		return "deadline_exceeded"
	case StatusExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Result is the outcome of a solve
type Result struct {
	Sequence []models.Action
	Turns    int
	Status   Status
	// Complete is true when the frontier drained, i.e. the plan is the best the
	// estimator allows rather than a best-effort partial answer
	Complete bool

	Estimator    string
	Iterations   int
	Expanded     int
	Generated    int
	Dominated    int
	Bounded      int
	Improvements int
	Elapsed      time.Duration
}

// Found reports whether the result carries a plan
func (r *Result) Found() bool {
	return r != nil && len(r.Sequence) > 0
}

// Codes returns the sequence in wire encoding
func (r *Result) Codes() []int {
	if r == nil {
		return []int{}
	}
	return models.Codes(r.Sequence)
}

// Replay re-simulates a sequence from the root state and returns every state
// visited, root included. It fails on the first illegal action.
func Replay(enc *models.Encounter, seq []models.Action) ([]State, error) {
	if err := enc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	states := make([]State, 0, len(seq)+1)
	s := NewState(enc)
	states = append(states, s)
	for i, a := range seq {
		next, err := Step(s, a, enc.Abilities)
		if err != nil {
			return states, fmt.Errorf("turn %d (%s): %w", i+1, a, err)
		}
		s = next
		states = append(states, s)
	}
	return states, nil
}

// Verify checks that a sequence is legal and reaches victory on its last action
func Verify(enc *models.Encounter, seq []models.Action) error {
	states, err := Replay(enc, seq)
	if err != nil {
		return err
	}
	for i, s := range states[:len(states)-1] {
		if s.Terminal() {
			return fmt.Errorf("battle already won after %d of %d turns", i, len(seq))
		}
	}
	last := states[len(states)-1]
	if !last.Terminal() {
		return fmt.Errorf("sequence ends with %d enemies remaining (%d HP)", last.Enemies()-last.Target(), last.RemainingHP())
	}
	if last.Turns() != len(seq) {
		return fmt.Errorf("replay took %d turns, sequence has %d actions", last.Turns(), len(seq))
	}
	return nil
}
