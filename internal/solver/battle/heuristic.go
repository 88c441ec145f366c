package battle

import (
	"fmt"
	"math"
	"strings"

	"github.com/napolitain/boss-solver/internal/models"
)

// Estimator estimates the number of turns still needed to win from a state
type Estimator interface {
	Estimate(s State, roster models.Roster) int
	Name() string
}

// WeightedDamage divides remaining HP by the roster's damage averaged with
// weights 1/(cooldown+1), so abilities close to ready count more.
// It is fast and usually tight but may overestimate.
type WeightedDamage struct{}

// Name returns the estimator identifier
func (WeightedDamage) Name() string { return "weighted" }

// Estimate returns ceil(remaining HP / weighted average damage)
func (WeightedDamage) Estimate(s State, roster models.Roster) int {
	remaining := s.RemainingHP()
	if remaining == 0 {
		return 0
	}
	avg := AverageDamage(s, roster)
	if avg <= 0 {
		return remaining
	}
	return int(math.Ceil(float64(remaining) / avg))
}

// AverageDamage returns the inverse-cooldown weighted mean damage of the roster,
// or 1 when the roster is empty
func AverageDamage(s State, roster models.Roster) float64 {
	var num, den float64
	for _, a := range roster {
		div := float64(s.Cooldown(a.ID) + 1)
		num += float64(a.Damage) / div
		den += 1 / div
	}
	if den == 0 {
		return 1
	}
	return num / den
}

// MaxDamage assumes the strongest ability lands every turn. It never
// overestimates, so the search returns a true minimum when it completes.
type MaxDamage struct{}

// Name returns the estimator identifier
func (MaxDamage) Name() string { return "admissible" }

// Estimate returns ceil(remaining HP / max damage)
func (MaxDamage) Estimate(s State, roster models.Roster) int {
	remaining := s.RemainingHP()
	if remaining == 0 {
		return 0
	}
	best := roster.MaxDamage()
	if best <= 0 {
		best = 1
	}
	return (remaining + best - 1) / best
}

// EstimatorByName resolves a configured estimator name
func EstimatorByName(name string) (Estimator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "weighted", "default":
		return WeightedDamage{}, nil
	case "admissible", "max", "max-damage":
		return MaxDamage{}, nil
	default:
		return nil, fmt.Errorf("unknown heuristic %q (want weighted or admissible)", name)
	}
}
