package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/realtime"
	"github.com/yungbote/stride-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Avatar       services.AvatarService
	User         services.UserService
	Intent       services.IntentService
	Questions    services.QuestionService
	PlanGen      services.PlanGenService
	Conversation services.ConversationService
	Plan         services.PlanService
	Execution    services.ExecutionService
	Notifier     services.PlanNotifier
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	clients Clients,
	repos Repos,
	hub *realtime.SSEHub,
) (Services, error) {
	log.Info("Wiring services...")

	// With redis present every instance publishes through the bus and the
	// forwarder feeds the local hub; without it the hub is hit directly.
	var emitter services.SSEEmitter
	if clients.SSEBus != nil {
		emitter = &services.RedisEmitter{Bus: clients.SSEBus}
	} else {
		emitter = &services.HubEmitter{Hub: hub}
	}
	notifier := services.NewPlanNotifier(emitter)

	avatar, err := services.NewAvatarService(log)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	auth, err := services.NewAuthService(
		log, db, repos.User, repos.UserToken, avatar,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	user := services.NewUserService(log, db, repos.User, avatar, notifier)
	intent := services.NewIntentService(log, clients.OpenAI)
	questions := services.NewQuestionService(log, clients.OpenAI)
	plangen := services.NewPlanGenService(log, clients.OpenAI)
	conversation := services.NewConversationService(
		log, db, repos.Conversation, repos.ActionPlan,
		intent, questions, plangen, notifier,
	)
	plan := services.NewPlanService(log, repos.ActionPlan)
	execution := services.NewExecutionService(
		log, db, repos.ActionPlan, repos.Conversation, clients.Life, notifier,
	)

	return Services{
		Auth:         auth,
		Avatar:       avatar,
		User:         user,
		Intent:       intent,
		Questions:    questions,
		PlanGen:      plangen,
		Conversation: conversation,
		Plan:         plan,
		Execution:    execution,
		Notifier:     notifier,
	}, nil
}
