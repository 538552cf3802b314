package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/stride-backend/internal/data/repos/plannerrepo"
	userrepo "github.com/yungbote/stride-backend/internal/data/repos/user"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

type Repos struct {
	User         userrepo.UserRepo
	UserToken    userrepo.UserTokenRepo
	Conversation plannerrepo.ConversationRepo
	ActionPlan   plannerrepo.ActionPlanRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         userrepo.NewUserRepo(db, log),
		UserToken:    userrepo.NewUserTokenRepo(db, log),
		Conversation: plannerrepo.NewConversationRepo(db, log),
		ActionPlan:   plannerrepo.NewActionPlanRepo(db, log),
	}
}
