package models

import "fmt"

// WaitCode is the wire encoding of a wait action
const WaitCode = -1

// ActionKind identifies which variant an Action holds
type ActionKind int

const (
	ActionCast ActionKind = iota
	ActionWait
)

// Action is one turn of the plan: either Cast(ability) or Wait
type Action struct {
	kind    ActionKind
	ability int
}

// Cast returns the action that casts the given ability
func Cast(abilityID int) Action {
	return Action{kind: ActionCast, ability: abilityID}
}

// Wait returns the wait action
func Wait() Action {
	return Action{kind: ActionWait, ability: WaitCode}
}

// Kind returns the action variant
func (a Action) Kind() ActionKind { return a.kind }

// IsWait reports whether the action is a wait
func (a Action) IsWait() bool { return a.kind == ActionWait }

// AbilityID returns the cast ability, or WaitCode for a wait
func (a Action) AbilityID() int {
	if a.kind == ActionWait {
		return WaitCode
	}
	return a.ability
}

// Code returns the integer wire encoding (ability index, or -1 for wait)
func (a Action) Code() int {
	return a.AbilityID()
}

// ActionFromCode decodes the integer wire encoding
func ActionFromCode(code int) (Action, error) {
	switch {
	case code == WaitCode:
		return Wait(), nil
	case code >= 0:
		return Cast(code), nil
	default:
		return Action{}, fmt.Errorf("invalid action code %d", code)
	}
}

// String returns a human-readable description
func (a Action) String() string {
	if a.IsWait() {
		return "Wait"
	}
	return fmt.Sprintf("Cast(%d)", a.ability)
}

// Codes encodes a sequence of actions for the wire
func Codes(seq []Action) []int {
	out := make([]int, len(seq))
	for i, a := range seq {
		out[i] = a.Code()
	}
	return out
}

// ActionsFromCodes decodes a wire sequence
func ActionsFromCodes(codes []int) ([]Action, error) {
	out := make([]Action, len(codes))
	for i, c := range codes {
		a, err := ActionFromCode(c)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		out[i] = a
	}
	return out, nil
}
