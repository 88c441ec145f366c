package converter

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/napolitain/boss-solver/internal/loader"
)

// DecodeRequest parses a JSON solve request. The encounter part accepts every
// shape the JSON encounter loader does, including the legacy
// {"B": [...], "PlayerSkills": [[damage, cooldown]]} document.
func DecodeRequest(body string) (*SolveRequest, error) {
	enc, err := loader.ParseEncounterJSON(body)
	if err != nil {
		return nil, err
	}

	root := gjson.Parse(body)
	req := &SolveRequest{
		EnemyHP:   enc.EnemyHP,
		Abilities: enc.Abilities.Specs(),
	}
	if req.MaxIterations, err = optionalInt(root, "max_iterations"); err != nil {
		return nil, err
	}
	if req.TimeoutMs, err = optionalInt(root, "timeout_ms"); err != nil {
		return nil, err
	}
	if v := root.Get("heuristic"); v.Exists() {
		if v.Type != gjson.String {
			return nil, fmt.Errorf("heuristic must be a string")
		}
		req.Heuristic = v.String()
	}
	return req, nil
}

func optionalInt(root gjson.Result, name string) (int, error) {
	v := root.Get(name)
	if !v.Exists() {
		return 0, nil
	}
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) || v.Num > math.MaxInt32 || v.Num < math.MinInt32 {
		return 0, fmt.Errorf("%s must be an integer, got %s", name, v.Raw)
	}
	return int(v.Num), nil
}

// EncodeResponse marshals a response body
func EncodeResponse(resp SolveResponse) (string, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
