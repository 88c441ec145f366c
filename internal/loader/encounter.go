package loader

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/boss-solver/internal/models"
)

// EncounterYAML represents the YAML structure for an encounter file
type EncounterYAML struct {
	Name      string               `yaml:"name"`
	Enemies   []int                `yaml:"enemies"`
	Abilities []models.AbilitySpec `yaml:"abilities"`
}

// LoadEncounter loads an encounter from a .yaml, .yml or .json file
func LoadEncounter(path string) (*models.Encounter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var enc *models.Encounter
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		enc, err = ParseEncounterYAML(data)
	case ".json":
		enc, err = ParseEncounterJSON(string(data))
	default:
		return nil, fmt.Errorf("unsupported encounter file %s (want .yaml, .yml or .json)", filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if enc.Name == "" {
		enc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return enc, nil
}

// ParseEncounterYAML decodes a YAML encounter document
func ParseEncounterYAML(data []byte) (*models.Encounter, error) {
	var raw EncounterYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	enc := models.NewEncounter(raw.Enemies, raw.Abilities)
	enc.Name = raw.Name
	return enc, nil
}

// ParseEncounterJSON decodes a JSON encounter document. Besides the native
// shape {"enemy_hp": [...], "abilities": [{"damage":..,"cooldown":..}]} it
// accepts the maze layer's {"B": [...], "PlayerSkills": [[damage, cooldown]]}.
func ParseEncounterJSON(data string) (*models.Encounter, error) {
	if !gjson.Valid(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	root := gjson.Parse(data)

	enemiesField := firstExisting(root, "enemy_hp", "enemies", "B")
	if !enemiesField.Exists() {
		return nil, fmt.Errorf("missing enemy list (enemy_hp, enemies or B)")
	}
	if !enemiesField.IsArray() {
		return nil, fmt.Errorf("enemy list must be an array")
	}
	var enemies []int
	var hpErr error
	enemiesField.ForEach(func(key, v gjson.Result) bool {
		hp, err := intValue(v)
		if err != nil {
			hpErr = fmt.Errorf("enemy %d hp: %w", key.Int(), err)
			return false
		}
		enemies = append(enemies, hp)
		return true
	})
	if hpErr != nil {
		return nil, hpErr
	}

	abilitiesField := firstExisting(root, "abilities", "PlayerSkills")
	if !abilitiesField.Exists() {
		return nil, fmt.Errorf("missing ability list (abilities or PlayerSkills)")
	}
	specs, err := parseAbilities(abilitiesField)
	if err != nil {
		return nil, err
	}

	enc := models.NewEncounter(enemies, specs)
	enc.Name = root.Get("name").String()
	return enc, nil
}

// parseAbilities reads either {"damage","cooldown"} objects or [damage, cooldown] pairs
func parseAbilities(field gjson.Result) ([]models.AbilitySpec, error) {
	if !field.IsArray() {
		return nil, fmt.Errorf("ability list must be an array")
	}
	var specs []models.AbilitySpec
	var parseErr error
	field.ForEach(func(key, v gjson.Result) bool {
		var damage, cooldown gjson.Result
		switch {
		case v.IsObject():
			damage = v.Get("damage")
			cooldown = v.Get("cooldown")
			if !cooldown.Exists() {
				cooldown = gjson.Result{Type: gjson.Number, Raw: "0"}
			}
		case v.IsArray():
			pair := v.Array()
			if len(pair) != 2 {
				parseErr = fmt.Errorf("ability %d: want [damage, cooldown], got %d values", key.Int(), len(pair))
				return false
			}
			damage, cooldown = pair[0], pair[1]
		default:
			parseErr = fmt.Errorf("ability %d: unexpected %s", key.Int(), v.Type)
			return false
		}

		d, err := intValue(damage)
		if err != nil {
			parseErr = fmt.Errorf("ability %d damage: %w", key.Int(), err)
			return false
		}
		cd, err := intValue(cooldown)
		if err != nil {
			parseErr = fmt.Errorf("ability %d cooldown: %w", key.Int(), err)
			return false
		}
		specs = append(specs, models.AbilitySpec{Damage: d, Cooldown: cd})
		return true
	})
	return specs, parseErr
}

// intValue accepts only JSON numbers holding an integer within 32 bits
func intValue(v gjson.Result) (int, error) {
	if !v.Exists() {
		return 0, fmt.Errorf("missing value")
	}
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("want an integer, got %s %s", v.Type, v.Raw)
	}
	if v.Num != math.Trunc(v.Num) || math.IsInf(v.Num, 0) {
		return 0, fmt.Errorf("want an integer, got %s", v.Raw)
	}
	if v.Num > math.MaxInt32 || v.Num < math.MinInt32 {
		return 0, fmt.Errorf("value %s out of range", v.Raw)
	}
	return int(v.Num), nil
}

func firstExisting(root gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := root.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

// ParseEnemies parses a comma-separated HP list such as "30,50,40"
func ParseEnemies(s string) ([]int, error) {
	var out []int
	for _, part := range splitList(s) {
		hp, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid enemy HP %q", part)
		}
		out = append(out, hp)
	}
	return out, nil
}

// ParseAbilities parses a comma-separated list of damage:cooldown pairs such as "20:2,9:1"
func ParseAbilities(s string) ([]models.AbilitySpec, error) {
	var out []models.AbilitySpec
	for _, part := range splitList(s) {
		dmgStr, cdStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid ability %q (want damage:cooldown)", part)
		}
		dmg, err := strconv.Atoi(strings.TrimSpace(dmgStr))
		if err != nil {
			return nil, fmt.Errorf("invalid damage in %q", part)
		}
		cd, err := strconv.Atoi(strings.TrimSpace(cdStr))
		if err != nil {
			return nil, fmt.Errorf("invalid cooldown in %q", part)
		}
		out = append(out, models.AbilitySpec{Damage: dmg, Cooldown: cd})
	}
	return out, nil
}

// ParseSequence parses a comma-separated action list. Each entry is an
// ability index, -1, or "w"/"wait".
func ParseSequence(s string) ([]models.Action, error) {
	var out []models.Action
	for _, part := range splitList(s) {
		switch strings.ToLower(part) {
		case "w", "wait":
			out = append(out, models.Wait())
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid action %q", part)
		}
		a, err := models.ActionFromCode(code)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func splitList(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
