package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/jsonx"
	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/platform/openai"
)

// IntentService extracts a structured goal intent from one user message.
// It never fails: any completion or parse error degrades to a generic
// intent so the conversation can keep moving.
type IntentService interface {
	Extract(ctx context.Context, text string) *types.Intent
}

type intentService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewIntentService(log *logger.Logger, ai openai.Client) IntentService {
	return &intentService{
		log: log.With("service", "IntentService"),
		ai:  ai,
	}
}

func (s *intentService) Extract(ctx context.Context, text string) *types.Intent {
	userPrompt := fmt.Sprintf("User message:\n%s", text)

	raw, err := s.ai.GenerateText(ctx, intentSystemPrompt, userPrompt)
	if err != nil {
		s.log.Warn("Intent extraction failed; using fallback", "error", err)
		return fallbackIntent()
	}

	var intent types.Intent
	if err := jsonx.DecodeObject(raw, &intent); err != nil {
		s.log.Warn("Intent response unparsable; using fallback",
			"error", err,
			"preview", jsonx.CompactPreview(raw, 200),
		)
		return fallbackIntent()
	}

	if strings.TrimSpace(intent.GoalType) == "" {
		intent.GoalType = "general"
	}
	if len(intent.RequiredInfo) == 0 {
		intent.RequiredInfo = []string{"details"}
	}
	return &intent
}

func fallbackIntent() *types.Intent {
	return &types.Intent{
		GoalType:     "general",
		RequiredInfo: []string{"details"},
		Category:     "general-" + uuid.New().String()[:8],
	}
}
