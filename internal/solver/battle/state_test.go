package battle

import (
	"errors"
	"reflect"
	"testing"

	"github.com/napolitain/boss-solver/internal/models"
)

func TestNewState(t *testing.T) {
	enc := concreteEncounter()
	s := NewState(enc)

	if s.Target() != 0 || s.Turns() != 0 {
		t.Fatalf("root should start at target 0, turn 0: %s", s)
	}
	if !reflect.DeepEqual(s.EnemyHP(), []int{30, 50, 40}) {
		t.Errorf("EnemyHP = %v", s.EnemyHP())
	}
	for id := range enc.Abilities {
		if s.Cooldown(id) != 0 {
			t.Errorf("ability %d should start ready, cooldown %d", id, s.Cooldown(id))
		}
	}
	if s.Cooldown(99) != 0 {
		t.Errorf("unknown ability should default to cooldown 0")
	}
	if s.RemainingHP() != 120 {
		t.Errorf("RemainingHP = %d, want 120", s.RemainingHP())
	}

	// The root must not alias the encounter's slice
	enc.EnemyHP[0] = 1
	if s.HP(0) != 30 {
		t.Errorf("root state aliases encounter HP")
	}
}

func TestStepCastDamagesCurrentTarget(t *testing.T) {
	enc := concreteEncounter()
	s, err := Step(NewState(enc), models.Cast(0), enc.Abilities)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if s.HP(0) != 10 {
		t.Errorf("enemy 0 HP = %d, want 10", s.HP(0))
	}
	if s.Target() != 0 {
		t.Errorf("target = %d, want 0", s.Target())
	}
	if s.Cooldown(0) != 3 {
		t.Errorf("cooldown after cast = %d, want cooldown+1 = 3", s.Cooldown(0))
	}
	if s.Turns() != 1 {
		t.Errorf("turns = %d, want 1", s.Turns())
	}
}

func TestStepOverkillDoesNotCarry(t *testing.T) {
	enc := models.NewEncounter([]int{5, 10}, []models.AbilitySpec{{Damage: 20, Cooldown: 0}})
	s, err := Step(NewState(enc), models.Cast(0), enc.Abilities)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if s.Target() != 1 {
		t.Fatalf("target = %d, want 1", s.Target())
	}
	if s.HP(1) != 10 {
		t.Errorf("second enemy HP = %d, overkill must not carry over", s.HP(1))
	}
	if s.RemainingHP() != 10 {
		t.Errorf("RemainingHP = %d, want 10", s.RemainingHP())
	}
}

func TestStepCooldownTiming(t *testing.T) {
	enc := models.NewEncounter([]int{100}, []models.AbilitySpec{{Damage: 20, Cooldown: 2}})
	s, err := Step(NewState(enc), models.Cast(0), enc.Abilities)
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}

	// Two forced waits, then the ability is ready again
	for turn := 2; turn <= 3; turn++ {
		if _, err := Step(s, models.Cast(0), enc.Abilities); !errors.Is(err, ErrIllegalAction) {
			t.Fatalf("turn %d: cast should be illegal, got %v", turn, err)
		}
		legal := LegalActions(s)
		if len(legal) != 1 || !legal[0].IsWait() {
			t.Fatalf("turn %d: legal actions = %v, want [Wait]", turn, legal)
		}
		s, err = Step(s, models.Wait(), enc.Abilities)
		if err != nil {
			t.Fatalf("turn %d: wait failed: %v", turn, err)
		}
	}

	s, err = Step(s, models.Cast(0), enc.Abilities)
	if err != nil {
		t.Fatalf("turn 4: cast should be legal: %v", err)
	}
	if s.HP(0) != 60 || s.Turns() != 4 {
		t.Errorf("after turn 4: %s", s)
	}
}

func TestStepZeroCooldownReadyNextTurn(t *testing.T) {
	enc := models.NewEncounter([]int{25}, []models.AbilitySpec{{Damage: 10, Cooldown: 0}})
	s := NewState(enc)
	for turn := 1; turn <= 3; turn++ {
		var err error
		s, err = Step(s, models.Cast(0), enc.Abilities)
		if err != nil {
			t.Fatalf("turn %d: %v", turn, err)
		}
	}
	if !s.Terminal() {
		t.Errorf("three casts of 10 should defeat 25 HP: %s", s)
	}
}

func TestStepWaitIllegalWhenCastAvailable(t *testing.T) {
	enc := concreteEncounter()
	_, err := Step(NewState(enc), models.Wait(), enc.Abilities)
	if !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("wait with ready abilities: got %v, want ErrIllegalAction", err)
	}
}

func TestStepUnknownAbility(t *testing.T) {
	enc := concreteEncounter()
	_, err := Step(NewState(enc), models.Cast(7), enc.Abilities)
	if !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("unknown ability: got %v, want ErrIllegalAction", err)
	}
}

func TestStepDoesNotMutateParent(t *testing.T) {
	enc := concreteEncounter()
	parent := NewState(enc)
	before := parent.String()

	child, err := Step(parent, models.Cast(2), enc.Abilities)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if _, err := Step(child, models.Cast(0), enc.Abilities); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if parent.String() != before {
		t.Errorf("parent changed: before %s, after %s", before, parent)
	}
	if child.Target() != 1 || child.HP(0) != -2 {
		t.Errorf("child = %s", child)
	}
}

func TestKeyIgnoresTurns(t *testing.T) {
	a := State{enemyHP: []int{10, 20}, target: 0, cooldowns: []int{1, 0}, turns: 3}
	b := State{enemyHP: []int{10, 20}, target: 0, cooldowns: []int{1, 0}, turns: 9}
	if a.Key() != b.Key() {
		t.Errorf("keys differ for states that differ only in turns")
	}

	variants := []State{
		{enemyHP: []int{10, 21}, target: 0, cooldowns: []int{1, 0}},
		{enemyHP: []int{10, 20}, target: 1, cooldowns: []int{1, 0}},
		{enemyHP: []int{10, 20}, target: 0, cooldowns: []int{0, 1}},
		{enemyHP: []int{-10, 20}, target: 0, cooldowns: []int{1, 0}},
	}
	for i, v := range variants {
		if v.Key() == a.Key() {
			t.Errorf("variant %d shares key with base state", i)
		}
	}
}

func TestLegalActions(t *testing.T) {
	tests := []struct {
		name      string
		cooldowns []int
		want      []models.Action
	}{
		{"all ready", []int{0, 0, 0}, []models.Action{models.Cast(0), models.Cast(1), models.Cast(2)}},
		{"ready after tick", []int{1, 2, 0}, []models.Action{models.Cast(0), models.Cast(2)}},
		{"nothing ready", []int{2, 3, 4}, []models.Action{models.Wait()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{enemyHP: []int{10}, cooldowns: tt.cooldowns}
			got := LegalActions(s)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LegalActions = %v, want %v", got, tt.want)
			}
		})
	}
}
