package plannerrepo

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/dbctx"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

type ActionPlanRepo interface {
	Create(dbc dbctx.Context, rows []*types.ActionPlan) ([]*types.ActionPlan, error)
	// GetOwned returns nil (no error) when the plan does not exist or
	// belongs to another user.
	GetOwned(dbc dbctx.Context, id, userID uuid.UUID) (*types.ActionPlan, error)
	Save(dbc dbctx.Context, row *types.ActionPlan) error
	// MarkExecuted flips the executed flag only if it is still unset.
	// Returns false when another execution already claimed the plan.
	MarkExecuted(dbc dbctx.Context, id uuid.UUID, at time.Time) (bool, error)
}

type actionPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActionPlanRepo(db *gorm.DB, log *logger.Logger) ActionPlanRepo {
	return &actionPlanRepo{db: db, log: log.With("repo", "ActionPlanRepo")}
}

func (r *actionPlanRepo) Create(dbc dbctx.Context, rows []*types.ActionPlan) ([]*types.ActionPlan, error) {
	if len(rows) == 0 {
		return []*types.ActionPlan{}, nil
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

func (r *actionPlanRepo) GetOwned(dbc dbctx.Context, id, userID uuid.UUID) (*types.ActionPlan, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.ActionPlan
	if err := txx.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *actionPlanRepo) Save(dbc dbctx.Context, row *types.ActionPlan) error {
	if row == nil || row.ID == uuid.Nil {
		return fmt.Errorf("missing plan")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Save(row).Error
}

func (r *actionPlanRepo) MarkExecuted(dbc dbctx.Context, id uuid.UUID, at time.Time) (bool, error) {
	if id == uuid.Nil {
		return false, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Model(&types.ActionPlan{}).
		Where("id = ? AND executed = ?", id, false).
		Updates(map[string]any{"executed": true, "executed_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
