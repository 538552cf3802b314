package user

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/dbctx"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

type UserTokenRepo interface {
	Create(dbc dbctx.Context, rows []*types.UserToken) ([]*types.UserToken, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserToken, error)
	GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.UserToken, error)
	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: log.With("repo", "UserTokenRepo")}
}

func (r *userTokenRepo) Create(dbc dbctx.Context, rows []*types.UserToken) ([]*types.UserToken, error) {
	if len(rows) == 0 {
		return []*types.UserToken{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userTokenRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserToken, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.UserToken
	if err := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *userTokenRepo) GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.UserToken, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("missing refresh token")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.UserToken
	if err := txx.WithContext(dbc.Ctx).
		Where("refresh_token = ?", refreshToken).
		Take(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *userTokenRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.UserToken{}).Error
}

func (r *userTokenRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Delete(&types.UserToken{}).Error
}
