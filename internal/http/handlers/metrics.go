package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/stride-backend/internal/http/response"
	"github.com/yungbote/stride-backend/internal/observability"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

type MetricsHandler struct {
	log *logger.Logger
}

func NewMetricsHandler(log *logger.Logger) *MetricsHandler {
	return &MetricsHandler{log: log.With("handler", "MetricsHandler")}
}

func (h *MetricsHandler) Snapshot(c *gin.Context) {
	response.RespondOK(c, observability.Current().Snapshot())
}
