package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userrepo "github.com/yungbote/stride-backend/internal/data/repos/user"
	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/apierr"
	"github.com/yungbote/stride-backend/internal/platform/dbctx"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error)
	UpdateAvatar(ctx context.Context, raw []byte) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	db       *gorm.DB
	users    userrepo.UserRepo
	avatars  AvatarService
	notifier PlanNotifier
}

func NewUserService(log *logger.Logger, db *gorm.DB, users userrepo.UserRepo, avatars AvatarService, notifier PlanNotifier) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		db:       db,
		users:    users,
		avatars:  avatars,
		notifier: notifier,
	}
}

func (s *userService) GetMe(ctx context.Context) (*types.User, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user_not_found", fmt.Errorf("user %s", userID))
	}
	return users[0], nil
}

func (s *userService) UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		return nil, apierr.BadRequest("empty_name", fmt.Errorf("first or last name required"))
	}

	user, err := s.GetMe(ctx)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if firstName != "" {
		user.FirstName = firstName
		updates["first_name"] = firstName
	}
	if lastName != "" {
		user.LastName = lastName
		updates["last_name"] = lastName
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		// initials changed, so the rendered avatar must follow
		if aErr := s.avatars.AssignInitialsAvatar(ctx, user); aErr != nil {
			s.log.Warn("Avatar refresh failed on rename", "error", aErr)
		} else {
			updates["avatar_color"] = user.AvatarColor
			updates["avatar_url"] = user.AvatarURL
		}
		return s.users.UpdateFields(dbc, user.ID, updates)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.UserAvatarUpdated(user.ID, user)
	return user, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, raw []byte) (*types.User, error) {
	if len(raw) == 0 {
		return nil, apierr.BadRequest("empty_image", fmt.Errorf("image payload required"))
	}

	user, err := s.GetMe(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.avatars.AvatarFromImage(ctx, user, raw); err != nil {
		return nil, apierr.BadRequest("invalid_image", err)
	}

	err = s.users.UpdateFields(dbctx.Context{Ctx: ctx}, user.ID, map[string]interface{}{
		"avatar_url": user.AvatarURL,
	})
	if err != nil {
		return nil, err
	}
	s.notifier.UserAvatarUpdated(user.ID, user)
	return user, nil
}
