// Package converter provides conversions between wire DTOs and model types
package converter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/napolitain/boss-solver/internal/models"
	"github.com/napolitain/boss-solver/internal/solver/battle"
)

// SolveRequest is the wire form of a solve call
type SolveRequest struct {
	EnemyHP       []int                `json:"enemy_hp"`
	Abilities     []models.AbilitySpec `json:"abilities"`
	MaxIterations int                  `json:"max_iterations,omitempty"`
	TimeoutMs     int                  `json:"timeout_ms,omitempty"`
	Heuristic     string               `json:"heuristic,omitempty"`
}

// SolveResponse is the wire form of a solve outcome
type SolveResponse struct {
	Sequence   []int    `json:"sequence"`
	Actions    []string `json:"actions"`
	Turns      int      `json:"turns"`
	Status     string   `json:"status"`
	Complete   bool     `json:"complete"`
	Iterations int      `json:"iterations"`
	Heuristic  string   `json:"heuristic,omitempty"`
	ElapsedMs  int64    `json:"elapsed_ms"`
	Error      string   `json:"error,omitempty"`
}

// ToEncounter builds the model encounter described by the request
func (r *SolveRequest) ToEncounter() *models.Encounter {
	return models.NewEncounter(r.EnemyHP, r.Abilities)
}

// SolverConfig merges the request's tuning fields over base
func (r *SolveRequest) SolverConfig(base battle.Config) (battle.Config, error) {
	cfg := base
	if r.MaxIterations < 0 {
		return cfg, fmt.Errorf("max_iterations must not be negative, got %d", r.MaxIterations)
	}
	if r.MaxIterations > 0 {
		cfg.MaxIterations = r.MaxIterations
	}
	if r.TimeoutMs < 0 {
		return cfg, fmt.Errorf("timeout_ms must not be negative, got %d", r.TimeoutMs)
	}
	if r.TimeoutMs > 0 {
		cfg.Timeout = time.Duration(r.TimeoutMs) * time.Millisecond
	}
	if r.Heuristic != "" {
		est, err := battle.EstimatorByName(r.Heuristic)
		if err != nil {
			return cfg, err
		}
		cfg.Estimator = est
	}
	return cfg, nil
}

// Key returns a canonical string identifying the search the request runs
// under cfg, the resolved config returned by SolverConfig. Requests with the
// same encounter and effective settings share a key whatever aliases or
// defaults they were written with.
func (r *SolveRequest) Key(cfg battle.Config) string {
	var b strings.Builder
	b.WriteString("hp=")
	for i, hp := range r.EnemyHP {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(hp))
	}
	b.WriteString("|ab=")
	for i, a := range r.Abilities {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(a.Damage))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(a.Cooldown))
	}
	iterations := cfg.MaxIterations
	if iterations <= 0 {
		iterations = battle.DefaultMaxIterations
	}
	timeout := cfg.Timeout
	if timeout < 0 {
		timeout = 0
	}
	est := battle.Estimator(battle.WeightedDamage{})
	if cfg.Estimator != nil {
		est = cfg.Estimator
	}
	fmt.Fprintf(&b, "|it=%d|to=%s|h=%s", iterations, timeout, est.Name())
	return b.String()
}

// FromResult converts a solver result to its wire form
func FromResult(res *battle.Result) SolveResponse {
	resp := SolveResponse{
		Sequence: res.Codes(),
		Actions:  ActionNames(nil),
	}
	if res == nil {
		return resp
	}
	resp.Actions = ActionNames(res.Sequence)
	resp.Turns = res.Turns
	resp.Status = res.Status.String()
	resp.Complete = res.Complete
	resp.Iterations = res.Iterations
	resp.Heuristic = res.Estimator
	resp.ElapsedMs = res.Elapsed.Milliseconds()
	return resp
}

// ErrorResponse converts a failed solve to its wire form. res may be nil.
func ErrorResponse(res *battle.Result, err error) SolveResponse {
	resp := FromResult(res)
	if res == nil {
		resp.Status = StatusName(err)
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// StatusName names the failure class of a solve error
func StatusName(err error) string {
	switch {
	case err == nil:
		return battle.StatusComplete.String()
	case errors.Is(err, battle.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, battle.ErrSearchExhausted):
		return battle.StatusExhausted.String()
	case errors.Is(err, battle.ErrBudgetExceeded):
		return battle.StatusBudgetExceeded.String()
	default:
		return "error"
	}
}

// ActionNames renders a sequence as action strings ("Cast(2)", "Wait")
func ActionNames(seq []models.Action) []string {
	out := make([]string, len(seq))
	for i, a := range seq {
		out[i] = a.String()
	}
	return out
}
