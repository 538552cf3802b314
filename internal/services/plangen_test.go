package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/apierr"
)

func TestPlanGenerateTypedActions(t *testing.T) {
	ai := &fakeAI{responses: []string{`Sure! {"summary":"A 3 month plan","category":"fitness","actions":[
		{"type":"create_todos","count":99,"data":[{"title":"buy scale"},{"title":"meal prep sunday"}]},
		{"type":"create_workout_plan","count":1,"data":{"name":"strength base","duration":70}}
	]}`}}
	svc := NewPlanGenService(testLogger(t), ai)

	plan, err := svc.Generate(context.Background(), &types.Intent{GoalType: "weight_loss", Category: "fitness"}, map[string]any{"q1": "80kg"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if plan.Summary != "A 3 month plan" {
		t.Fatalf("summary = %q", plan.Summary)
	}
	if len(plan.Actions) != 2 {
		t.Fatalf("actions = %d, want 2", len(plan.Actions))
	}
	// count is recomputed from the payload, not trusted from the model
	if plan.Actions[0].Count != 2 {
		t.Fatalf("todos count = %d, want 2", plan.Actions[0].Count)
	}
	if plan.Actions[1].Count != 1 {
		t.Fatalf("workout count = %d, want 1", plan.Actions[1].Count)
	}
	for _, a := range plan.Actions {
		if a.Status != types.ActionPending {
			t.Fatalf("action %s status = %q, want pending", a.Type, a.Status)
		}
	}
}

func TestPlanGenerateUnwrapsArrayOfOne(t *testing.T) {
	ai := &fakeAI{responses: []string{`{"summary":"meals","category":"nutrition","actions":[
		{"type":"create_meal_plan","count":1,"data":[{"name":"cut phase","durationWeeks":4}]}
	]}`}}
	svc := NewPlanGenService(testLogger(t), ai)

	plan, err := svc.Generate(context.Background(), &types.Intent{GoalType: "nutrition"}, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	data := strings.TrimSpace(string(plan.Actions[0].Data))
	if !strings.HasPrefix(data, "{") {
		t.Fatalf("meal plan payload still a list: %s", data)
	}
	var draft types.MealPlanDraft
	if err := json.Unmarshal(plan.Actions[0].Data, &draft); err != nil {
		t.Fatalf("decode unwrapped payload: %v", err)
	}
	if draft.Name != "cut phase" {
		t.Fatalf("name = %q", draft.Name)
	}
}

func TestPlanGenerateTerminalFailures(t *testing.T) {
	tests := []struct {
		name string
		ai   *fakeAI
	}{
		{"completion error", &fakeAI{err: fmt.Errorf("backend down")}},
		{"no json", &fakeAI{responses: []string{"I could not build a plan, sorry."}}},
		{"empty actions", &fakeAI{responses: []string{`{"summary":"x","category":"y","actions":[]}`}}},
		{"unknown action type", &fakeAI{responses: []string{`{"summary":"x","actions":[{"type":"create_rockets","data":[{}]}]}`}}},
		{"object for list action", &fakeAI{responses: []string{`{"summary":"x","actions":[{"type":"create_todos","data":{"title":"t"}}]}`}}},
		{"two objects for single action", &fakeAI{responses: []string{`{"summary":"x","actions":[{"type":"create_meal_plan","data":[{"name":"a"},{"name":"b"}]}]}`}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPlanGenService(testLogger(t), tt.ai)
			_, err := svc.Generate(context.Background(), &types.Intent{GoalType: "general"}, nil)
			if err == nil {
				t.Fatal("expected terminal error, got nil")
			}
			if code := apierr.CodeOf(err, ""); code != "plan_generation_failed" {
				t.Fatalf("code = %q, want plan_generation_failed", code)
			}
			if status := apierr.StatusOf(err, 0); status != http.StatusBadGateway && status != http.StatusInternalServerError {
				t.Fatalf("status = %d", status)
			}
		})
	}
}
