package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stride-backend/internal/data/repos/plannerrepo"
	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/apierr"
	"github.com/yungbote/stride-backend/internal/platform/ctxutil"
	"github.com/yungbote/stride-backend/internal/platform/dbctx"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

// MessageResponse is the envelope returned after one conversation turn.
type MessageResponse struct {
	ConversationID uuid.UUID                `json:"conversation_id"`
	Intent         *types.Intent            `json:"intent,omitempty"`
	Questions      []types.FollowUpQuestion `json:"questions,omitempty"`
	Reply          string                   `json:"reply"`
}

// AnswersResponse carries the freshly generated plan back to the caller.
type AnswersResponse struct {
	ConversationID uuid.UUID         `json:"conversation_id"`
	Plan           *types.ActionPlan `json:"plan"`
}

type ConversationService interface {
	SubmitMessage(ctx context.Context, conversationID *uuid.UUID, text string) (*MessageResponse, error)
	SubmitAnswers(ctx context.Context, conversationID uuid.UUID, answers map[string]any) (*AnswersResponse, error)
	ListConversations(ctx context.Context, limit int) ([]plannerrepo.ConversationSummary, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*types.Conversation, error)
}

type conversationService struct {
	log       *logger.Logger
	db        *gorm.DB
	convos    plannerrepo.ConversationRepo
	plans     plannerrepo.ActionPlanRepo
	intents   IntentService
	questions QuestionService
	plangen   PlanGenService
	notifier  PlanNotifier
}

func NewConversationService(
	log *logger.Logger,
	db *gorm.DB,
	convos plannerrepo.ConversationRepo,
	plans plannerrepo.ActionPlanRepo,
	intents IntentService,
	questions QuestionService,
	plangen PlanGenService,
	notifier PlanNotifier,
) ConversationService {
	return &conversationService{
		log:       log.With("service", "ConversationService"),
		db:        db,
		convos:    convos,
		plans:     plans,
		intents:   intents,
		questions: questions,
		plangen:   plangen,
		notifier:  notifier,
	}
}

func requestUserID(ctx context.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing request identity"))
	}
	return rd.UserID, nil
}

func (s *conversationService) SubmitMessage(ctx context.Context, conversationID *uuid.UUID, text string) (*MessageResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apierr.BadRequest("empty_message", fmt.Errorf("message text required"))
	}

	now := time.Now().UTC()

	var conv *types.Conversation
	if conversationID != nil && *conversationID != uuid.Nil {
		existing, err := s.convos.GetOwned(dbctx.Context{Ctx: ctx}, *conversationID, userID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apierr.NotFound("conversation_not_found", fmt.Errorf("conversation %s", *conversationID))
		}
		conv = existing
	} else {
		conv = &types.Conversation{
			ID:     uuid.New(),
			UserID: userID,
			Status: types.ConversationActive,
		}
	}

	if err := conv.AppendMessage(types.RoleUser, text, now); err != nil {
		return nil, err
	}

	// LLM calls happen outside any transaction; both generators degrade
	// instead of failing, so this turn always produces a reply.
	intent := s.intents.Extract(ctx, text)
	if err := conv.SetIntent(intent); err != nil {
		return nil, err
	}
	questions := s.questions.Generate(ctx, intent, text)

	reply := buildQuestionReply(questions)
	if err := conv.AppendMessage(types.RoleAssistant, reply, time.Now().UTC()); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if conversationID != nil && *conversationID != uuid.Nil {
			return s.convos.Save(dbc, conv)
		}
		_, err := s.convos.Create(dbc, []*types.Conversation{conv})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.ConversationUpdated(userID, conv)

	return &MessageResponse{
		ConversationID: conv.ID,
		Intent:         intent,
		Questions:      questions,
		Reply:          reply,
	}, nil
}

func (s *conversationService) SubmitAnswers(ctx context.Context, conversationID uuid.UUID, answers map[string]any) (*AnswersResponse, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	conv, err := s.convos.GetOwned(dbctx.Context{Ctx: ctx}, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, apierr.NotFound("conversation_not_found", fmt.Errorf("conversation %s", conversationID))
	}

	intent, err := conv.GetIntent()
	if err != nil {
		return nil, err
	}
	if intent == nil {
		intent = fallbackIntent()
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	if err := conv.AppendMessage(types.RoleUser, string(answersJSON), time.Now().UTC()); err != nil {
		return nil, err
	}

	generated, err := s.plangen.Generate(ctx, intent, answers)
	if err != nil {
		return nil, err
	}

	plan := &types.ActionPlan{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		UserID:         userID,
		Summary:        generated.Summary,
		Category:       generated.Category,
	}
	if err := plan.SetIntent(intent); err != nil {
		return nil, err
	}
	if err := plan.SetActions(generated.Actions); err != nil {
		return nil, err
	}

	conv.PlanID = &plan.ID
	if err := conv.AppendMessage(types.RoleAssistant, generated.Summary, time.Now().UTC()); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.plans.Create(dbc, []*types.ActionPlan{plan}); err != nil {
			return err
		}
		return s.convos.Save(dbc, conv)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PlanReady(userID, plan)

	return &AnswersResponse{ConversationID: conv.ID, Plan: plan}, nil
}

func (s *conversationService) ListConversations(ctx context.Context, limit int) ([]plannerrepo.ConversationSummary, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	return s.convos.ListByUser(dbctx.Context{Ctx: ctx}, userID, limit)
}

func (s *conversationService) GetConversation(ctx context.Context, id uuid.UUID) (*types.Conversation, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	conv, err := s.convos.GetOwned(dbctx.Context{Ctx: ctx}, id, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, apierr.NotFound("conversation_not_found", fmt.Errorf("conversation %s", id))
	}
	return conv, nil
}

func buildQuestionReply(questions []types.FollowUpQuestion) string {
	if len(questions) == 0 {
		return "Got it. I have everything I need to build your plan."
	}
	var b strings.Builder
	b.WriteString("A few questions before I build your plan:\n")
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Text)
	}
	return b.String()
}
