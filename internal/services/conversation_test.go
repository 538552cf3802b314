package services

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stride-backend/internal/data/repos/plannerrepo"
	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/apierr"
)

func newConversationService(t *testing.T, gdb *gorm.DB, intentAI, questionAI, planAI *fakeAI) ConversationService {
	t.Helper()
	log := testLogger(t)
	convos := plannerrepo.NewConversationRepo(gdb, log)
	plans := plannerrepo.NewActionPlanRepo(gdb, log)
	notifier := NewPlanNotifier(&captureEmitter{})
	return NewConversationService(
		log, gdb, convos, plans,
		NewIntentService(log, intentAI),
		NewQuestionService(log, questionAI),
		NewPlanGenService(log, planAI),
		notifier,
	)
}

func TestSubmitMessageCreatesConversation(t *testing.T) {
	gdb := testDB(t)
	user := seedTestUser(t, gdb)
	intentAI := &fakeAI{responses: []string{`{"goalType":"weight_loss","requiredInfo":["current weight"],"category":"fitness"}`}}
	questionAI := &fakeAI{responses: []string{`{"questions":[{"id":"q1","text":"Current weight?","type":"number"}]}`}}
	svc := newConversationService(t, gdb, intentAI, questionAI, &fakeAI{})

	resp, err := svc.SubmitMessage(authedContext(user.ID), nil, "I want to lose 10kg")
	if err != nil {
		t.Fatalf("submit message: %v", err)
	}
	if resp.ConversationID == uuid.Nil {
		t.Fatal("no conversation id returned")
	}
	if len(resp.Questions) != 1 || resp.Questions[0].ID != "q1" {
		t.Fatalf("questions = %+v", resp.Questions)
	}
	if resp.Intent == nil || resp.Intent.GoalType != "weight_loss" {
		t.Fatalf("intent = %+v", resp.Intent)
	}

	var stored types.Conversation
	if err := gdb.First(&stored, "id = ?", resp.ConversationID).Error; err != nil {
		t.Fatalf("load conversation: %v", err)
	}
	if stored.UserID != user.ID || stored.Status != types.ConversationActive {
		t.Fatalf("stored = %+v", stored)
	}
	msgs, err := stored.GetMessages()
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != types.RoleUser || msgs[1].Role != types.RoleAssistant {
		t.Fatalf("history = %+v", msgs)
	}
}

func TestSubmitMessageAppendsToExisting(t *testing.T) {
	gdb := testDB(t)
	user := seedTestUser(t, gdb)
	intentAI := &fakeAI{responses: []string{`{"goalType":"general","requiredInfo":["details"]}`}}
	questionAI := &fakeAI{responses: []string{`{"questions":[{"id":"q1","text":"More?","type":"text"}]}`}}
	svc := newConversationService(t, gdb, intentAI, questionAI, &fakeAI{})

	ctx := authedContext(user.ID)
	first, err := svc.SubmitMessage(ctx, nil, "first turn")
	if err != nil {
		t.Fatalf("first turn: %v", err)
	}
	second, err := svc.SubmitMessage(ctx, &first.ConversationID, "second turn")
	if err != nil {
		t.Fatalf("second turn: %v", err)
	}
	if second.ConversationID != first.ConversationID {
		t.Fatalf("conversation changed: %s vs %s", second.ConversationID, first.ConversationID)
	}

	stored, err := svc.GetConversation(ctx, first.ConversationID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	msgs, _ := stored.GetMessages()
	if len(msgs) != 4 {
		t.Fatalf("history length = %d, want 4", len(msgs))
	}
}

func TestSubmitMessageRejectsEmptyText(t *testing.T) {
	gdb := testDB(t)
	user := seedTestUser(t, gdb)
	svc := newConversationService(t, gdb, &fakeAI{}, &fakeAI{}, &fakeAI{})

	_, err := svc.SubmitMessage(authedContext(user.ID), nil, "   ")
	if err == nil {
		t.Fatal("expected error for empty text")
	}
	if status := apierr.StatusOf(err, 0); status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestSubmitMessageSurvivesGeneratorOutage(t *testing.T) {
	gdb := testDB(t)
	user := seedTestUser(t, gdb)
	down := &fakeAI{err: fmt.Errorf("backend down")}
	svc := newConversationService(t, gdb, down, down, down)

	resp, err := svc.SubmitMessage(authedContext(user.ID), nil, "help me")
	if err != nil {
		t.Fatalf("submit message: %v", err)
	}
	if resp.Intent.GoalType != "general" {
		t.Fatalf("intent = %+v, want fallback", resp.Intent)
	}
	if len(resp.Questions) != 1 {
		t.Fatalf("questions = %+v, want one fallback", resp.Questions)
	}
}

func TestSubmitAnswersBuildsPlan(t *testing.T) {
	gdb := testDB(t)
	user := seedTestUser(t, gdb)
	intentAI := &fakeAI{responses: []string{`{"goalType":"weight_loss","requiredInfo":["weight"],"category":"fitness"}`}}
	questionAI := &fakeAI{responses: []string{`{"questions":[{"id":"q1","text":"Weight?","type":"number"}]}`}}
	planAI := &fakeAI{responses: []string{`{"summary":"Your plan","category":"fitness","actions":[
		{"type":"create_todos","data":[{"title":"buy scale"}]},
		{"type":"create_habits","data":[{"name":"daily walk"}]}
	]}`}}
	svc := newConversationService(t, gdb, intentAI, questionAI, planAI)

	ctx := authedContext(user.ID)
	turn, err := svc.SubmitMessage(ctx, nil, "I want to lose weight")
	if err != nil {
		t.Fatalf("submit message: %v", err)
	}

	resp, err := svc.SubmitAnswers(ctx, turn.ConversationID, map[string]any{"q1": 82})
	if err != nil {
		t.Fatalf("submit answers: %v", err)
	}
	if resp.Plan == nil || resp.Plan.Summary != "Your plan" {
		t.Fatalf("plan = %+v", resp.Plan)
	}

	var storedPlan types.ActionPlan
	if err := gdb.First(&storedPlan, "id = ?", resp.Plan.ID).Error; err != nil {
		t.Fatalf("load plan: %v", err)
	}
	if storedPlan.Executed {
		t.Fatal("new plan must not be executed")
	}
	actions, _ := storedPlan.GetActions()
	if len(actions) != 2 {
		t.Fatalf("actions = %d, want 2", len(actions))
	}
	for _, a := range actions {
		if a.Status != types.ActionPending {
			t.Fatalf("action %s status = %q", a.Type, a.Status)
		}
	}

	conv, err := svc.GetConversation(ctx, turn.ConversationID)
	if err != nil {
		t.Fatalf("get conversation: %v", err)
	}
	if conv.PlanID == nil || *conv.PlanID != resp.Plan.ID {
		t.Fatalf("plan not linked: %v", conv.PlanID)
	}
}

func TestSubmitAnswersNotFoundForForeignConversation(t *testing.T) {
	gdb := testDB(t)
	owner := seedTestUser(t, gdb)
	other := seedTestUser(t, gdb)
	intentAI := &fakeAI{responses: []string{`{"goalType":"general","requiredInfo":["details"]}`}}
	questionAI := &fakeAI{responses: []string{`{"questions":[{"id":"q1","text":"More?","type":"text"}]}`}}
	svc := newConversationService(t, gdb, intentAI, questionAI, &fakeAI{})

	turn, err := svc.SubmitMessage(authedContext(owner.ID), nil, "my goal")
	if err != nil {
		t.Fatalf("submit message: %v", err)
	}

	_, err = svc.SubmitAnswers(authedContext(other.ID), turn.ConversationID, map[string]any{"q1": "x"})
	if err == nil {
		t.Fatal("expected not-found for foreign conversation")
	}
	if status := apierr.StatusOf(err, 0); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (never 403)", status)
	}
}

func TestSubmitAnswersPlanFailurePersistsNothing(t *testing.T) {
	gdb := testDB(t)
	user := seedTestUser(t, gdb)
	intentAI := &fakeAI{responses: []string{`{"goalType":"general","requiredInfo":["details"]}`}}
	questionAI := &fakeAI{responses: []string{`{"questions":[{"id":"q1","text":"More?","type":"text"}]}`}}
	planAI := &fakeAI{responses: []string{"sorry, I refuse to emit json"}}
	svc := newConversationService(t, gdb, intentAI, questionAI, planAI)

	ctx := authedContext(user.ID)
	turn, err := svc.SubmitMessage(ctx, nil, "my goal")
	if err != nil {
		t.Fatalf("submit message: %v", err)
	}
	before, _ := svc.GetConversation(ctx, turn.ConversationID)
	beforeMsgs, _ := before.GetMessages()

	_, err = svc.SubmitAnswers(ctx, turn.ConversationID, map[string]any{"q1": "x"})
	if err == nil {
		t.Fatal("expected terminal plan generation error")
	}

	var planCount int64
	if err := gdb.Model(&types.ActionPlan{}).Count(&planCount).Error; err != nil {
		t.Fatalf("count plans: %v", err)
	}
	if planCount != 0 {
		t.Fatalf("plan rows = %d, want 0", planCount)
	}
	after, _ := svc.GetConversation(ctx, turn.ConversationID)
	afterMsgs, _ := after.GetMessages()
	if len(afterMsgs) != len(beforeMsgs) {
		t.Fatalf("history grew on failure: %d -> %d", len(beforeMsgs), len(afterMsgs))
	}
	if after.PlanID != nil {
		t.Fatalf("plan id linked on failure: %v", after.PlanID)
	}
}

func TestListConversationsOmitsMessages(t *testing.T) {
	gdb := testDB(t)
	user := seedTestUser(t, gdb)
	intentAI := &fakeAI{responses: []string{`{"goalType":"general","requiredInfo":["details"]}`}}
	questionAI := &fakeAI{responses: []string{`{"questions":[{"id":"q1","text":"More?","type":"text"}]}`}}
	svc := newConversationService(t, gdb, intentAI, questionAI, &fakeAI{})

	ctx := authedContext(user.ID)
	if _, err := svc.SubmitMessage(ctx, nil, "goal one"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.SubmitMessage(ctx, nil, "goal two"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	out, err := svc.ListConversations(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}

	_, err = svc.GetConversation(ctx, uuid.New())
	if status := apierr.StatusOf(err, 0); status != http.StatusNotFound {
		t.Fatalf("get missing: status = %d, want 404", status)
	}
}
