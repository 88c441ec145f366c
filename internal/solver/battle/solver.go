package battle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/napolitain/boss-solver/internal/models"
)

// DefaultMaxIterations caps the number of frontier pops per solve
const DefaultMaxIterations = 200000

// deadlineCheckInterval is how many iterations pass between context checks
const deadlineCheckInterval = 1024

// Solve errors, matched with errors.Is
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrSearchExhausted = errors.New("search exhausted without reaching victory")
	ErrBudgetExceeded  = errors.New("search budget exceeded")
)

// Config tunes a solve
type Config struct {
	// MaxIterations bounds frontier pops; <= 0 means DefaultMaxIterations
	MaxIterations int
	// Timeout is an optional wall-clock deadline; 0 disables it
	Timeout time.Duration
	// Estimator orders the frontier; nil means WeightedDamage
	Estimator Estimator
}

// DefaultConfig returns the configuration used by NewSolver
func DefaultConfig() Config {
	return Config{
		MaxIterations: DefaultMaxIterations,
		Estimator:     WeightedDamage{},
	}
}

// Solver plans the minimum-turn action sequence for an encounter
type Solver struct {
	Config Config
}

// NewSolver creates a solver with default settings
func NewSolver() *Solver {
	return &Solver{Config: DefaultConfig()}
}

// NewSolverWithConfig creates a solver, filling unset fields with defaults
func NewSolverWithConfig(cfg Config) *Solver {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Estimator == nil {
		cfg.Estimator = WeightedDamage{}
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	return &Solver{Config: cfg}
}

// Solve runs a solve with default settings
func Solve(ctx context.Context, enc *models.Encounter) (*Result, error) {
	return NewSolver().Solve(ctx, enc)
}

// Solve searches for the shortest sequence that defeats every enemy in order.
//
// On success the returned Result holds the sequence; Complete is false when the
// iteration cap or deadline stopped the search early. On failure the error wraps
// ErrInvalidInput, ErrSearchExhausted or ErrBudgetExceeded, and the Result (nil
// only for invalid input) still carries the search counters.
func (s *Solver) Solve(ctx context.Context, enc *models.Encounter) (*Result, error) {
	if err := enc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	cfg := s.Config
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Estimator == nil {
		cfg.Estimator = WeightedDamage{}
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	return search(ctx, enc, cfg)
}

// search is the best-first loop. It assumes enc has been validated.
func search(ctx context.Context, enc *models.Encounter, cfg Config) (*Result, error) {
	start := time.Now()
	roster := enc.Abilities
	est := cfg.Estimator

	frontier := NewFrontier()
	root := NewState(enc)
	frontier.Push(root, noParent, models.Wait(), est.Estimate(root, roster))

	// Cheapest turn count at which each state was expanded
	visited := make(map[string]int)

	res := &Result{Estimator: est.Name()}
	best := math.MaxInt
	bestIdx := noParent
	status := StatusComplete

	for !frontier.Empty() {
		if res.Iterations >= cfg.MaxIterations {
			status = StatusBudgetExceeded
			break
		}
		if res.Iterations%deadlineCheckInterval == 0 && ctx.Err() != nil {
			status = StatusDeadlineExceeded
			break
		}
		res.Iterations++

		idx, _ := frontier.Pop()
		n := frontier.Node(idx)
		g := n.state.Turns()

		key := n.state.Key()
		if seen, ok := visited[key]; ok && seen <= g {
			res.Dominated++
			continue
		}
		visited[key] = g

		if n.f >= best {
			res.Bounded++
			continue
		}

		if n.state.Terminal() {
			if g < best {
				best = g
				bestIdx = idx
				res.Improvements++
			}
			continue
		}

		res.Expanded++
		for _, a := range LegalActions(n.state) {
			next, err := Step(n.state, a, roster)
			if err != nil {
				continue
			}
			f := next.Turns() + est.Estimate(next, roster)
			if f < best {
				frontier.Push(next, idx, a, f)
			}
		}
	}

	res.Generated = frontier.Generated()
	res.Elapsed = time.Since(start)
	res.Status = status

	if bestIdx == noParent {
		switch status {
		case StatusBudgetExceeded:
			return res, fmt.Errorf("%w: no victory found within %d iterations", ErrBudgetExceeded, cfg.MaxIterations)
		case StatusDeadlineExceeded:
			return res, fmt.Errorf("%w: %w after %d iterations", ErrBudgetExceeded, ctx.Err(), res.Iterations)
		default:
			res.Status = StatusExhausted
			return res, ErrSearchExhausted
		}
	}

	res.Sequence = frontier.Path(bestIdx)
	res.Turns = best
	res.Complete = status == StatusComplete
	return res, nil
}
