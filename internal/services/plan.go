package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/stride-backend/internal/data/repos/plannerrepo"
	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/apierr"
	"github.com/yungbote/stride-backend/internal/platform/dbctx"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

// PlanService is the read side of action plans. Mutation happens through
// ExecutionService only.
type PlanService interface {
	GetPlan(ctx context.Context, id uuid.UUID) (*types.ActionPlan, error)
}

type planService struct {
	log   *logger.Logger
	plans plannerrepo.ActionPlanRepo
}

func NewPlanService(log *logger.Logger, plans plannerrepo.ActionPlanRepo) PlanService {
	return &planService{
		log:   log.With("service", "PlanService"),
		plans: plans,
	}
}

func (s *planService) GetPlan(ctx context.Context, id uuid.UUID) (*types.ActionPlan, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.GetOwned(dbctx.Context{Ctx: ctx}, id, userID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apierr.NotFound("plan_not_found", fmt.Errorf("plan %s", id))
	}
	return plan, nil
}
