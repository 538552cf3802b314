package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stride-backend/internal/http/response"
	"github.com/yungbote/stride-backend/internal/platform/apierr"
	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		log:         log.With("handler", "AuthHandler"),
		authService: authService,
	}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, pair, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		response.RespondError(c, apierr.StatusOf(err, http.StatusBadRequest), apierr.CodeOf(err, "register_failed"), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "tokens": pair})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondError(c, apierr.StatusOf(err, http.StatusUnauthorized), apierr.CodeOf(err, "login_failed"), err)
		return
	}
	response.RespondOK(c, gin.H{"user": user, "tokens": pair})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondError(c, apierr.StatusOf(err, http.StatusUnauthorized), apierr.CodeOf(err, "refresh_failed"), err)
		return
	}
	response.RespondOK(c, gin.H{"tokens": pair})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		response.RespondError(c, apierr.StatusOf(err, http.StatusBadRequest), apierr.CodeOf(err, "logout_failed"), err)
		return
	}
	response.RespondOK(c, gin.H{"message": "logged out"})
}
