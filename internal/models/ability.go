package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Ability is a player skill with fixed damage and a post-use cooldown
type Ability struct {
	ID       int `json:"id" yaml:"id"`
	Damage   int `json:"damage" yaml:"damage"`
	Cooldown int `json:"cooldown" yaml:"cooldown"`
}

// String returns a short human-readable description
func (a Ability) String() string {
	return fmt.Sprintf("Skill %d (D:%d, C:%d)", a.ID+1, a.Damage, a.Cooldown)
}

// AbilitySpec is an ability as supplied by the encounter layer, before IDs are assigned
type AbilitySpec struct {
	Damage   int `json:"damage" yaml:"damage"`
	Cooldown int `json:"cooldown" yaml:"cooldown"`
}

// Roster is the fixed list of abilities available during one battle.
// Ability IDs equal their index in the roster.
type Roster []Ability

// NewRoster assigns IDs by position
func NewRoster(specs []AbilitySpec) Roster {
	r := make(Roster, len(specs))
	for i, s := range specs {
		r[i] = Ability{ID: i, Damage: s.Damage, Cooldown: s.Cooldown}
	}
	return r
}

// Get returns the ability with the given ID
func (r Roster) Get(id int) (Ability, bool) {
	if id < 0 || id >= len(r) {
		return Ability{}, false
	}
	return r[id], true
}

// MaxDamage returns the highest single-cast damage in the roster
func (r Roster) MaxDamage() int {
	best := 0
	for _, a := range r {
		if a.Damage > best {
			best = a.Damage
		}
	}
	return best
}

// Specs converts the roster back to its input form
func (r Roster) Specs() []AbilitySpec {
	out := make([]AbilitySpec, len(r))
	for i, a := range r {
		out[i] = AbilitySpec{Damage: a.Damage, Cooldown: a.Cooldown}
	}
	return out
}

// Encounter is the solver input: enemies fought in order and the player's roster
type Encounter struct {
	Name      string
	EnemyHP   []int
	Abilities Roster
}

// NewEncounter builds an encounter, assigning ability IDs by position
func NewEncounter(enemyHP []int, specs []AbilitySpec) *Encounter {
	hp := make([]int, len(enemyHP))
	copy(hp, enemyHP)
	return &Encounter{EnemyHP: hp, Abilities: NewRoster(specs)}
}

// Validation errors
var (
	ErrNoEnemies   = errors.New("enemy list is empty")
	ErrNoAbilities = errors.New("ability roster is empty")
)

// MaxValue bounds enemy HP (summed over the encounter), ability damage and
// cooldown so that turn, cooldown and estimate arithmetic cannot overflow
const MaxValue = 1 << 30

// Validate checks the encounter against the input contract
func (e *Encounter) Validate() error {
	if e == nil || len(e.EnemyHP) == 0 {
		return ErrNoEnemies
	}
	if len(e.Abilities) == 0 {
		return ErrNoAbilities
	}

	var problems []string
	for i, hp := range e.EnemyHP {
		if hp <= 0 {
			problems = append(problems, fmt.Sprintf("enemy %d has non-positive hp %d", i, hp))
		}
	}
	if total, ok := checkedTotal(e.EnemyHP); !ok || total > MaxValue {
		problems = append(problems, fmt.Sprintf("total enemy hp exceeds %d", MaxValue))
	}
	for i, a := range e.Abilities {
		if a.ID != i {
			problems = append(problems, fmt.Sprintf("ability at index %d has id %d", i, a.ID))
		}
		if a.Damage <= 0 {
			problems = append(problems, fmt.Sprintf("ability %d has non-positive damage %d", i, a.Damage))
		}
		if a.Damage > MaxValue {
			problems = append(problems, fmt.Sprintf("ability %d damage %d exceeds %d", i, a.Damage, MaxValue))
		}
		if a.Cooldown < 0 {
			problems = append(problems, fmt.Sprintf("ability %d has negative cooldown %d", i, a.Cooldown))
		}
		if a.Cooldown > MaxValue {
			problems = append(problems, fmt.Sprintf("ability %d cooldown %d exceeds %d", i, a.Cooldown, MaxValue))
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// checkedTotal sums the positive entries of hp, reporting false on overflow
func checkedTotal(hp []int) (int, bool) {
	total := 0
	for _, v := range hp {
		if v <= 0 {
			continue
		}
		if total > math.MaxInt-v {
			return 0, false
		}
		total += v
	}
	return total, true
}

// TotalHP returns the summed starting HP of every enemy
func (e *Encounter) TotalHP() int {
	total := 0
	for _, hp := range e.EnemyHP {
		total += hp
	}
	return total
}
