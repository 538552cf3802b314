package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/apierr"
	"github.com/yungbote/stride-backend/internal/platform/jsonx"
	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/platform/openai"
)

// GeneratedPlan is the typed output of one plan generation call.
type GeneratedPlan struct {
	Summary  string             `json:"summary"`
	Category string             `json:"category"`
	Actions  []types.ActionItem `json:"actions"`
}

// PlanGenService builds an action plan from intent plus answers. Unlike
// the intent and question generators it has no fallback: an empty plan
// has no value, so unparsable output is a terminal error.
type PlanGenService interface {
	Generate(ctx context.Context, intent *types.Intent, answers map[string]any) (*GeneratedPlan, error)
}

type planGenService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewPlanGenService(log *logger.Logger, ai openai.Client) PlanGenService {
	return &planGenService{
		log: log.With("service", "PlanGenService"),
		ai:  ai,
	}
}

func (s *planGenService) Generate(ctx context.Context, intent *types.Intent, answers map[string]any) (*GeneratedPlan, error) {
	intentJSON, err := json.Marshal(intent)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "plan_generation_failed", err)
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "plan_generation_failed", err)
	}
	userPrompt := fmt.Sprintf("Intent: %s\nUser answers: %s", string(intentJSON), string(answersJSON))

	raw, err := s.ai.GenerateText(ctx, planSystemPrompt, userPrompt)
	if err != nil {
		s.log.Error("Plan generation call failed", "error", err)
		return nil, apierr.New(http.StatusBadGateway, "plan_generation_failed", fmt.Errorf("plan generation: %w", err))
	}

	var plan GeneratedPlan
	if err := jsonx.DecodeObject(raw, &plan); err != nil {
		s.log.Error("Plan response unparsable",
			"error", err,
			"preview", jsonx.CompactPreview(raw, 200),
		)
		return nil, apierr.New(http.StatusBadGateway, "plan_generation_failed", fmt.Errorf("plan parse: %w", err))
	}
	if len(plan.Actions) == 0 {
		return nil, apierr.New(http.StatusBadGateway, "plan_generation_failed", fmt.Errorf("generated plan has no actions"))
	}

	cleaned := make([]types.ActionItem, 0, len(plan.Actions))
	for i := range plan.Actions {
		a := plan.Actions[i]
		if !types.ValidActionType(a.Type) {
			return nil, apierr.New(http.StatusBadGateway, "plan_generation_failed", fmt.Errorf("unknown action type %q", a.Type))
		}
		if err := normalizeActionShape(&a); err != nil {
			return nil, apierr.New(http.StatusBadGateway, "plan_generation_failed", err)
		}
		a.Status = types.ActionPending
		cleaned = append(cleaned, a)
	}
	plan.Actions = cleaned

	if strings.TrimSpace(plan.Category) == "" {
		plan.Category = intent.Category
	}
	return &plan, nil
}

// normalizeActionShape fixes the generator's output so the execution
// engine only ever sees one shape per action type: list-valued actions
// carry an array with count equal to its length, single-object actions
// carry a bare object (arrays of one are unwrapped) with count 1.
func normalizeActionShape(a *types.ActionItem) error {
	trimmed := strings.TrimSpace(string(a.Data))
	if trimmed == "" {
		return fmt.Errorf("action %s has no data", a.Type)
	}

	if a.Type.ListValued() {
		if !strings.HasPrefix(trimmed, "[") {
			return fmt.Errorf("action %s payload must be a list", a.Type)
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(a.Data, &elems); err != nil {
			return fmt.Errorf("action %s payload: %w", a.Type, err)
		}
		a.Count = len(elems)
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var elems []json.RawMessage
		if err := json.Unmarshal(a.Data, &elems); err != nil {
			return fmt.Errorf("action %s payload: %w", a.Type, err)
		}
		if len(elems) != 1 {
			return fmt.Errorf("action %s expects one object, got %d", a.Type, len(elems))
		}
		a.Data = elems[0]
	}
	a.Count = 1
	return nil
}
