package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/stride-backend/internal/http/response"
	"github.com/yungbote/stride-backend/internal/platform/apierr"
	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/services"
)

type ConversationHandler struct {
	log                 *logger.Logger
	conversationService services.ConversationService
}

func NewConversationHandler(log *logger.Logger, conversationService services.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		log:                 log.With("handler", "ConversationHandler"),
		conversationService: conversationService,
	}
}

type submitMessageRequest struct {
	ConversationID *uuid.UUID `json:"conversation_id"`
	Message        string     `json:"message"`
}

func (h *ConversationHandler) SubmitMessage(c *gin.Context) {
	var req submitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	resp, err := h.conversationService.SubmitMessage(c.Request.Context(), req.ConversationID, req.Message)
	if err != nil {
		response.RespondError(c, apierr.StatusOf(err, http.StatusBadRequest), apierr.CodeOf(err, "submit_message_failed"), err)
		return
	}
	response.RespondOK(c, resp)
}

type submitAnswersRequest struct {
	Answers map[string]any `json:"answers"`
}

func (h *ConversationHandler) SubmitAnswers(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
		return
	}
	var req submitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	resp, err := h.conversationService.SubmitAnswers(c.Request.Context(), conversationID, req.Answers)
	if err != nil {
		response.RespondError(c, apierr.StatusOf(err, http.StatusBadRequest), apierr.CodeOf(err, "submit_answers_failed"), err)
		return
	}
	response.RespondOK(c, resp)
}

func (h *ConversationHandler) ListConversations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = parsed
	}
	conversations, err := h.conversationService.ListConversations(c.Request.Context(), limit)
	if err != nil {
		response.RespondError(c, apierr.StatusOf(err, http.StatusBadRequest), apierr.CodeOf(err, "list_conversations_failed"), err)
		return
	}
	response.RespondOK(c, gin.H{"conversations": conversations})
}

func (h *ConversationHandler) GetConversation(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
		return
	}
	conv, err := h.conversationService.GetConversation(c.Request.Context(), conversationID)
	if err != nil {
		response.RespondError(c, apierr.StatusOf(err, http.StatusBadRequest), apierr.CodeOf(err, "get_conversation_failed"), err)
		return
	}
	response.RespondOK(c, gin.H{"conversation": conv})
}
