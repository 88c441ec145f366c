package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/napolitain/boss-solver/internal/converter"
	"github.com/napolitain/boss-solver/internal/models"
	"github.com/napolitain/boss-solver/internal/service"
	"github.com/napolitain/boss-solver/internal/solver/battle"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return newRouter(&server{planner: service.NewPlanner(battle.DefaultConfig())})
}

func post(t *testing.T, router *gin.Engine, body string) (int, converter.SolveResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp converter.SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return rec.Code, resp
}

// TestSolveMatchesDirectSolver verifies that the HTTP endpoint returns the
// same plan as calling the solver directly with identical inputs.
func TestSolveMatchesDirectSolver(t *testing.T) {
	router := testRouter(t)
	body := `{"enemy_hp": [30, 50, 40], "abilities": [
		{"damage": 20, "cooldown": 2}, {"damage": 9, "cooldown": 1}, {"damage": 32, "cooldown": 3}]}`

	code, resp := post(t, router, body)
	if code != http.StatusOK {
		t.Fatalf("code = %d, want 200 (%s)", code, resp.Error)
	}

	enc := models.NewEncounter([]int{30, 50, 40}, []models.AbilitySpec{
		{Damage: 20, Cooldown: 2}, {Damage: 9, Cooldown: 1}, {Damage: 32, Cooldown: 3},
	})
	direct, err := battle.NewSolver().Solve(t.Context(), enc)
	if err != nil {
		t.Fatalf("direct solve failed: %v", err)
	}

	if resp.Turns != direct.Turns {
		t.Errorf("Turns: HTTP %d, direct %d", resp.Turns, direct.Turns)
	}
	codes := direct.Codes()
	if len(resp.Sequence) != len(codes) {
		t.Fatalf("sequence length: HTTP %d, direct %d", len(resp.Sequence), len(codes))
	}
	for i := range codes {
		if resp.Sequence[i] != codes[i] {
			t.Errorf("action %d: HTTP %d, direct %d", i, resp.Sequence[i], codes[i])
		}
	}
	if resp.Status != "complete" || !resp.Complete || resp.Iterations != direct.Iterations {
		t.Errorf("response = %+v", resp)
	}
}

func TestSolveLegacyBody(t *testing.T) {
	router := testRouter(t)
	code, resp := post(t, router, `{"B": [38], "PlayerSkills": [[2, 4], [7, 0]], "heuristic": "admissible"}`)
	if code != http.StatusOK {
		t.Fatalf("code = %d (%s)", code, resp.Error)
	}
	if resp.Turns != 6 {
		t.Errorf("Turns = %d, want 6", resp.Turns)
	}
}

func TestSolveErrors(t *testing.T) {
	router := testRouter(t)
	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantStatus string
	}{
		{"malformed", `{"enemy_hp": [`, http.StatusBadRequest, "invalid_input"},
		{"missing abilities", `{"enemy_hp": [10]}`, http.StatusBadRequest, "invalid_input"},
		{"empty enemies", `{"enemy_hp": [], "abilities": [[1, 0]]}`, http.StatusBadRequest, "invalid_input"},
		{"zero damage", `{"enemy_hp": [10], "abilities": [[0, 0]]}`, http.StatusBadRequest, "invalid_input"},
		{"fractional hp", `{"enemy_hp": [30.9], "abilities": [[10, 1]]}`, http.StatusBadRequest, "invalid_input"},
		{"string cooldown", `{"enemy_hp": [30], "abilities": [{"damage": 10, "cooldown": "x"}]}`, http.StatusBadRequest, "invalid_input"},
		{"cooldown overflow", `{"enemy_hp": [10], "abilities": [[5, 1e15]]}`, http.StatusBadRequest, "invalid_input"},
		{"unknown heuristic", `{"enemy_hp": [10], "abilities": [[1, 0]], "heuristic": "psychic"}`, http.StatusBadRequest, "invalid_input"},
		{"budget", `{"enemy_hp": [30, 50, 40], "abilities": [[20, 2], [9, 1], [32, 3]], "max_iterations": 1}`, http.StatusUnprocessableEntity, "budget_exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := post(t, router, tt.body)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if resp.Error == "" {
				t.Error("error message missing")
			}
			if resp.Sequence == nil {
				t.Error("sequence should be an empty array, not null")
			}
		})
	}
}

func TestVersionAndHealth(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/api/version", "/healthz"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Errorf("GET %s: %v", path, err)
		}
		if path == "/api/version" && body["version"] == "" {
			t.Errorf("version missing: %v", body)
		}
	}
}
