package battle

import (
	"testing"

	"github.com/napolitain/boss-solver/internal/models"
)

// concreteEncounter is the three-enemy reference battle
func concreteEncounter() *models.Encounter {
	return models.NewEncounter([]int{30, 50, 40}, []models.AbilitySpec{
		{Damage: 20, Cooldown: 2},
		{Damage: 9, Cooldown: 1},
		{Damage: 32, Cooldown: 3},
	})
}

// bruteForceTurns returns the true minimum turn count by breadth-first search
// over the same transition the solver uses
func bruteForceTurns(t testing.TB, enc *models.Encounter) int {
	t.Helper()

	type item struct {
		state State
	}
	root := NewState(enc)
	seen := map[string]bool{root.Key(): true}
	queue := []item{{root}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.state.Terminal() {
			return cur.state.Turns()
		}
		for _, a := range LegalActions(cur.state) {
			next, err := Step(cur.state, a, enc.Abilities)
			if err != nil {
				t.Fatalf("legal action %s rejected: %v", a, err)
			}
			k := next.Key()
			if seen[k] {
				continue
			}
			seen[k] = true
			queue = append(queue, item{next})
		}
	}
	t.Fatalf("brute force found no victory")
	return -1
}

// assertCooldownsRespected checks that no ability is recast within its cooldown
func assertCooldownsRespected(t *testing.T, enc *models.Encounter, seq []models.Action) {
	t.Helper()
	lastCast := make(map[int]int)
	for i, a := range seq {
		if a.IsWait() {
			continue
		}
		id := a.AbilityID()
		if prev, ok := lastCast[id]; ok {
			if gap := i - prev; gap <= enc.Abilities[id].Cooldown {
				t.Errorf("ability %d cast at turns %d and %d (gap %d, cooldown %d)",
					id, prev+1, i+1, gap, enc.Abilities[id].Cooldown)
			}
		}
		lastCast[id] = i
	}
}
