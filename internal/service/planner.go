// Package service runs solve requests for the HTTP and Lambda front ends.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/napolitain/boss-solver/internal/converter"
	"github.com/napolitain/boss-solver/internal/dedupe"
	"github.com/napolitain/boss-solver/internal/logging"
	"github.com/napolitain/boss-solver/internal/models"
	"github.com/napolitain/boss-solver/internal/solver/battle"
)

type solveFunc func(ctx context.Context, enc *models.Encounter, cfg battle.Config) (*battle.Result, error)

func runSolver(ctx context.Context, enc *models.Encounter, cfg battle.Config) (*battle.Result, error) {
	return battle.NewSolverWithConfig(cfg).Solve(ctx, enc)
}

// Planner validates requests, merges them over the configured search
// settings and shares one search between identical concurrent requests.
type Planner struct {
	base  battle.Config
	group *singleflight.Group
	solve solveFunc
}

// NewPlanner creates a planner using base for unset request fields
func NewPlanner(base battle.Config) *Planner {
	return &Planner{
		base:  base,
		group: &dedupe.SolveGroup,
		solve: runSolver,
	}
}

type outcome struct {
	res *battle.Result
	err error
}

// Solve runs the request. Errors wrap the battle package sentinels; a request
// that cannot be turned into a valid encounter wraps battle.ErrInvalidInput.
//
// The search runs detached from ctx because other callers may be waiting on
// it; it stays bounded by the iteration cap and timeout. A cancelled ctx only
// stops this caller from waiting.
func (p *Planner) Solve(ctx context.Context, req *converter.SolveRequest) (*battle.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", battle.ErrInvalidInput)
	}
	cfg, err := req.SolverConfig(p.base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", battle.ErrInvalidInput, err)
	}
	enc := req.ToEncounter()
	if err := enc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", battle.ErrInvalidInput, err)
	}

	key := req.Key(cfg)
	searchCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (interface{}, error) {
		res, err := p.solve(searchCtx, enc, cfg)
		return outcome{res: res, err: err}, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			logging.Error("solve failed", r.Err, logging.Fields{"key": key})
			return nil, r.Err
		}
		out := r.Val.(outcome)
		fields := logging.Fields{
			"key":        key,
			"shared":     r.Shared,
			"iterations": 0,
		}
		if out.res != nil {
			fields["iterations"] = out.res.Iterations
			fields["status"] = out.res.Status.String()
			fields["turns"] = out.res.Turns
			fields["elapsed_ms"] = out.res.Elapsed.Milliseconds()
		}
		if out.err != nil {
			logging.Error("solve failed", out.err, fields)
		} else {
			logging.Info("solve finished", fields)
		}
		return out.res, out.err
	case <-ctx.Done():
		logging.Warn("solve abandoned by caller", logging.Fields{"key": key, "reason": ctx.Err().Error()})
		return nil, fmt.Errorf("%w: %w", battle.ErrBudgetExceeded, ctx.Err())
	}
}

// Handle runs the request and returns the HTTP status and wire response
func (p *Planner) Handle(ctx context.Context, req *converter.SolveRequest) (int, converter.SolveResponse) {
	res, err := p.Solve(ctx, req)
	if err != nil {
		return HTTPStatus(err), converter.ErrorResponse(res, err)
	}
	return http.StatusOK, converter.FromResult(res)
}

// HTTPStatus maps a solve error to a response code
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, battle.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, battle.ErrSearchExhausted), errors.Is(err, battle.ErrBudgetExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
