package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/http/response"
	"github.com/yungbote/stride-backend/internal/platform/apierr"
	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/realtime"
	"github.com/yungbote/stride-backend/internal/services"
)

type PlanHandler struct {
	log              *logger.Logger
	planService      services.PlanService
	executionService services.ExecutionService
}

func NewPlanHandler(log *logger.Logger, planService services.PlanService, executionService services.ExecutionService) *PlanHandler {
	return &PlanHandler{
		log:              log.With("handler", "PlanHandler"),
		planService:      planService,
		executionService: executionService,
	}
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_plan_id", err)
		return
	}
	plan, err := h.planService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		response.RespondError(c, apierr.StatusOf(err, http.StatusBadRequest), apierr.CodeOf(err, "get_plan_failed"), err)
		return
	}
	response.RespondOK(c, gin.H{"plan": plan})
}

type executePlanRequest struct {
	Confirmations map[types.ActionType]bool `json:"confirmations"`
}

// ExecutePlan runs the plan and streams progress over SSE. All failures
// after the stream opens are reported as stream frames, not JSON envelopes.
func (h *PlanHandler) ExecutePlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_plan_id", err)
		return
	}
	var req executePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	stream, err := realtime.NewSSEProgressStream(c.Writer, h.log)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "streaming_unsupported", err)
		return
	}
	if _, err := h.executionService.Execute(c.Request.Context(), planID, req.Confirmations, stream); err != nil {
		h.log.Warn("Plan execution failed", "plan_id", planID.String(), "error", err.Error())
	}
}
