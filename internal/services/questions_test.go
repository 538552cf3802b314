package services

import (
	"context"
	"fmt"
	"testing"

	types "github.com/yungbote/stride-backend/internal/domain"
)

func TestQuestionsGenerateBoundsAndSanitizes(t *testing.T) {
	ai := &fakeAI{responses: []string{`{"questions":[
		{"id":"q1","text":"How much do you weigh now?","type":"number","min":30,"max":300},
		{"text":"How many days per week can you train?","type":"slider","min":1,"max":7},
		{"id":"q3","text":"","type":"text"},
		{"id":"q4","text":"Any dietary restrictions?","type":"banana"},
		{"id":"q5","text":"Preferred cuisine?","type":"select","options":["italian","asian"]},
		{"id":"q6","text":"Anything else?","type":"text"},
		{"id":"q7","text":"One too many","type":"text"}
	]}`}}
	svc := NewQuestionService(testLogger(t), ai)

	intent := &types.Intent{GoalType: "weight_loss", RequiredInfo: []string{"current weight"}}
	got := svc.Generate(context.Background(), intent, "lose weight")

	if len(got) != maxFollowUpQuestions {
		t.Fatalf("len = %d, want %d", len(got), maxFollowUpQuestions)
	}
	// blank-text entry dropped, missing id backfilled, bad type coerced
	if got[1].ID == "" {
		t.Fatalf("missing id not backfilled: %+v", got[1])
	}
	if got[2].Type != "text" {
		t.Fatalf("invalid type not coerced: %+v", got[2])
	}
	for _, q := range got {
		if q.Text == "" {
			t.Fatalf("blank question survived: %+v", got)
		}
	}
}

func TestQuestionsGenerateFallsBack(t *testing.T) {
	for name, ai := range map[string]*fakeAI{
		"error":    {err: fmt.Errorf("backend down")},
		"garbage":  {responses: []string{"not json"}},
		"no items": {responses: []string{`{"questions":[]}`}},
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewQuestionService(testLogger(t), ai)
			got := svc.Generate(context.Background(), &types.Intent{GoalType: "general"}, "goal")
			if len(got) != 1 {
				t.Fatalf("len = %d, want 1 fallback question", len(got))
			}
			if got[0].Type != "text" || !got[0].Required {
				t.Fatalf("fallback question = %+v", got[0])
			}
		})
	}
}
