package battle

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/napolitain/boss-solver/internal/models"
)

// ErrIllegalAction is returned by Step when the action cannot be taken in the given state
var ErrIllegalAction = errors.New("illegal action")

// State is an immutable snapshot of a battle.
// Identity for search purposes is (enemy HP, target, cooldowns); Turns is a path cost.
type State struct {
	enemyHP   []int
	target    int
	cooldowns []int // indexed by ability ID
	turns     int
}

// NewState creates the root state: full HP, target 0, all cooldowns ready
func NewState(enc *models.Encounter) State {
	hp := make([]int, len(enc.EnemyHP))
	copy(hp, enc.EnemyHP)
	return State{
		enemyHP:   hp,
		cooldowns: make([]int, len(enc.Abilities)),
	}
}

// HP returns the remaining HP of enemy i
func (s State) HP(i int) int { return s.enemyHP[i] }

// EnemyHP returns a copy of all enemy HP values
func (s State) EnemyHP() []int {
	out := make([]int, len(s.enemyHP))
	copy(out, s.enemyHP)
	return out
}

// Enemies returns the number of enemies in the battle
func (s State) Enemies() int { return len(s.enemyHP) }

// Target returns the index of the enemy currently being attacked
func (s State) Target() int { return s.target }

// Cooldown returns the remaining cooldown of an ability (0 when ready or unknown)
func (s State) Cooldown(id int) int {
	if id < 0 || id >= len(s.cooldowns) {
		return 0
	}
	return s.cooldowns[id]
}

// Cooldowns returns a copy of the cooldown counters indexed by ability ID
func (s State) Cooldowns() []int {
	out := make([]int, len(s.cooldowns))
	copy(out, s.cooldowns)
	return out
}

// Turns returns the number of actions taken to reach this state
func (s State) Turns() int { return s.turns }

// Terminal reports whether every enemy has been defeated
func (s State) Terminal() bool { return s.target >= len(s.enemyHP) }

// RemainingHP sums the positive HP of the current and later enemies
func (s State) RemainingHP() int {
	total := 0
	for i := s.target; i < len(s.enemyHP); i++ {
		if s.enemyHP[i] > 0 {
			total += s.enemyHP[i]
		}
	}
	return total
}

// Key returns the search identity of the state. Turns is not part of it.
func (s State) Key() string {
	buf := make([]byte, 0, binary.MaxVarintLen32*(2+len(s.enemyHP)+len(s.cooldowns)))
	buf = binary.AppendUvarint(buf, uint64(s.target))
	buf = binary.AppendUvarint(buf, uint64(len(s.enemyHP)))
	for _, hp := range s.enemyHP {
		buf = binary.AppendVarint(buf, int64(hp))
	}
	for _, cd := range s.cooldowns {
		buf = binary.AppendUvarint(buf, uint64(cd))
	}
	return string(buf)
}

// String returns a compact description for logs and test output
func (s State) String() string {
	return fmt.Sprintf("turn=%d target=%d hp=%v cd=%v", s.turns, s.target, s.enemyHP, s.cooldowns)
}

// ticked returns the cooldowns after the start-of-turn decrement
func (s State) ticked() []int {
	cds := make([]int, len(s.cooldowns))
	for i, cd := range s.cooldowns {
		if cd > 0 {
			cds[i] = cd - 1
		}
	}
	return cds
}

// LegalActions returns the actions available on the next turn:
// every ready ability in ascending ID order, or only Wait when none is ready
func LegalActions(s State) []models.Action {
	var actions []models.Action
	for id, cd := range s.cooldowns {
		if cd <= 1 {
			actions = append(actions, models.Cast(id))
		}
	}
	if len(actions) == 0 {
		return []models.Action{models.Wait()}
	}
	return actions
}

// Step applies one turn: cooldowns tick, then the action resolves.
// The parent state is never modified.
func Step(s State, a models.Action, roster models.Roster) (State, error) {
	cds := s.ticked()

	ready := false
	for _, cd := range cds {
		if cd == 0 {
			ready = true
			break
		}
	}

	next := State{
		enemyHP:   s.enemyHP,
		target:    s.target,
		cooldowns: cds,
		turns:     s.turns + 1,
	}

	if a.IsWait() {
		if ready {
			return State{}, fmt.Errorf("%w: wait while an ability is ready", ErrIllegalAction)
		}
		return next, nil
	}

	ability, ok := roster.Get(a.AbilityID())
	if !ok || ability.ID >= len(cds) {
		return State{}, fmt.Errorf("%w: unknown ability %d", ErrIllegalAction, a.AbilityID())
	}
	if cds[ability.ID] != 0 {
		return State{}, fmt.Errorf("%w: ability %d on cooldown (%d)", ErrIllegalAction, ability.ID, cds[ability.ID])
	}

	if next.target < len(s.enemyHP) {
		hp := make([]int, len(s.enemyHP))
		copy(hp, s.enemyHP)
		hp[next.target] -= ability.Damage
		// Overkill does not carry over; only already-dead enemies are skipped
		for next.target < len(hp) && hp[next.target] <= 0 {
			next.target++
		}
		next.enemyHP = hp
	}
	cds[ability.ID] = ability.Cooldown + 1

	return next, nil
}
