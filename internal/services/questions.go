package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/jsonx"
	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/platform/openai"
)

const maxFollowUpQuestions = 5

// QuestionService turns an intent's missing-info list into clarifying
// questions. It never fails: any error degrades to a single open-text
// question.
type QuestionService interface {
	Generate(ctx context.Context, intent *types.Intent, goalText string) []types.FollowUpQuestion
}

type questionService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewQuestionService(log *logger.Logger, ai openai.Client) QuestionService {
	return &questionService{
		log: log.With("service", "QuestionService"),
		ai:  ai,
	}
}

func (s *questionService) Generate(ctx context.Context, intent *types.Intent, goalText string) []types.FollowUpQuestion {
	intentJSON, err := json.Marshal(intent)
	if err != nil {
		s.log.Warn("Intent marshal failed; using fallback question", "error", err)
		return fallbackQuestions()
	}
	userPrompt := fmt.Sprintf("Goal: %s\nExtracted intent: %s\nMissing information: %s",
		goalText, string(intentJSON), strings.Join(intent.RequiredInfo, ", "))

	raw, err := s.ai.GenerateText(ctx, questionsSystemPrompt, userPrompt)
	if err != nil {
		s.log.Warn("Question generation failed; using fallback question", "error", err)
		return fallbackQuestions()
	}

	var envelope struct {
		Questions []types.FollowUpQuestion `json:"questions"`
	}
	if err := jsonx.DecodeObject(raw, &envelope); err != nil {
		s.log.Warn("Question response unparsable; using fallback question",
			"error", err,
			"preview", jsonx.CompactPreview(raw, 200),
		)
		return fallbackQuestions()
	}

	out := make([]types.FollowUpQuestion, 0, maxFollowUpQuestions)
	for i, q := range envelope.Questions {
		if strings.TrimSpace(q.Text) == "" {
			continue
		}
		if !types.ValidQuestionType(q.Type) {
			q.Type = "text"
		}
		if strings.TrimSpace(q.ID) == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		out = append(out, q)
		if len(out) == maxFollowUpQuestions {
			break
		}
	}
	if len(out) == 0 {
		return fallbackQuestions()
	}
	return out
}

func fallbackQuestions() []types.FollowUpQuestion {
	return []types.FollowUpQuestion{{
		ID:          "details",
		Text:        "Tell me more about your goal and what you want to achieve.",
		Type:        "text",
		Required:    true,
		Placeholder: "Share any details that matter to you",
	}}
}
