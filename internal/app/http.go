package app

import (
	apphttp "github.com/yungbote/stride-backend/internal/http"
	httpH "github.com/yungbote/stride-backend/internal/http/handlers"
	httpMW "github.com/yungbote/stride-backend/internal/http/middleware"
	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	User         *httpH.UserHandler
	Conversation *httpH.ConversationHandler
	Plan         *httpH.PlanHandler
	Realtime     *httpH.RealtimeHandler
	Metrics      *httpH.MetricsHandler
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, serviceset.Auth),
	}
}

func wireHandlers(log *logger.Logger, serviceset Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(),
		Auth:         httpH.NewAuthHandler(log, serviceset.Auth),
		User:         httpH.NewUserHandler(log, serviceset.User),
		Conversation: httpH.NewConversationHandler(log, serviceset.Conversation),
		Plan:         httpH.NewPlanHandler(log, serviceset.Plan, serviceset.Execution),
		Realtime:     httpH.NewRealtimeHandler(log, hub),
		Metrics:      httpH.NewMetricsHandler(log),
	}
}

func wireRouter(log *logger.Logger, handlerset Handlers, middleware Middleware) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:                 log,
		AuthMiddleware:      middleware.Auth,
		HealthHandler:       handlerset.Health,
		AuthHandler:         handlerset.Auth,
		UserHandler:         handlerset.User,
		ConversationHandler: handlerset.Conversation,
		PlanHandler:         handlerset.Plan,
		RealtimeHandler:     handlerset.Realtime,
		MetricsHandler:      handlerset.Metrics,
	})
}
