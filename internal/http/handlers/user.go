package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stride-backend/internal/http/response"
	"github.com/yungbote/stride-backend/internal/platform/apierr"
	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/services"
)

const maxAvatarUploadBytes = 5 << 20

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
	return &UserHandler{
		log:         log.With("handler", "UserHandler"),
		userService: userService,
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondError(c, apierr.StatusOf(err, http.StatusBadRequest), apierr.CodeOf(err, "get_me_failed"), err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

type updateNameRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *UserHandler) UpdateName(c *gin.Context) {
	var req updateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, err := h.userService.UpdateName(c.Request.Context(), req.FirstName, req.LastName)
	if err != nil {
		response.RespondError(c, apierr.StatusOf(err, http.StatusBadRequest), apierr.CodeOf(err, "update_name_failed"), err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAvatarUploadBytes))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
		return
	}
	user, err := h.userService.UpdateAvatar(c.Request.Context(), raw)
	if err != nil {
		response.RespondError(c, apierr.StatusOf(err, http.StatusBadRequest), apierr.CodeOf(err, "update_avatar_failed"), err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}
