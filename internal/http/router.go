package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/stride-backend/internal/http/handlers"
	httpMW "github.com/yungbote/stride-backend/internal/http/middleware"
	"github.com/yungbote/stride-backend/internal/observability"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler         *httpH.AuthHandler
	UserHandler         *httpH.UserHandler
	ConversationHandler *httpH.ConversationHandler
	PlanHandler         *httpH.PlanHandler
	RealtimeHandler     *httpH.RealtimeHandler
	MetricsHandler      *httpH.MetricsHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())
	r.Use(otelgin.Middleware("stride-backend"))
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(observability.Current()))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
			protected.POST("/sse/subscribe", cfg.RealtimeHandler.SSESubscribe)
			protected.POST("/sse/unsubscribe", cfg.RealtimeHandler.SSEUnsubscribe)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me", cfg.UserHandler.UpdateName)
			protected.POST("/me/avatar", cfg.UserHandler.UpdateAvatar)
		}

		// Conversations
		if cfg.ConversationHandler != nil {
			protected.POST("/conversations/message", cfg.ConversationHandler.SubmitMessage)
			protected.POST("/conversations/:id/answers", cfg.ConversationHandler.SubmitAnswers)
			protected.GET("/conversations", cfg.ConversationHandler.ListConversations)
			protected.GET("/conversations/:id", cfg.ConversationHandler.GetConversation)
		}

		// Plans
		if cfg.PlanHandler != nil {
			protected.GET("/plans/:id", cfg.PlanHandler.GetPlan)
			protected.POST("/plans/:id/execute", cfg.PlanHandler.ExecutePlan)
		}

		// Metrics snapshot
		if cfg.MetricsHandler != nil && observability.Enabled() {
			protected.GET("/metricsz", cfg.MetricsHandler.Snapshot)
		}
	}

	return r
}
