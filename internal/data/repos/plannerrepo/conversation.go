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

// ConversationSummary is the list projection: message bodies omitted.
type ConversationSummary struct {
	ID        uuid.UUID  `json:"id"`
	Status    string     `json:"status"`
	PlanID    *uuid.UUID `json:"plan_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type ConversationRepo interface {
	Create(dbc dbctx.Context, rows []*types.Conversation) ([]*types.Conversation, error)
	// GetOwned returns nil (no error) when the conversation does not exist
	// or belongs to another user; callers surface both as not-found.
	GetOwned(dbc dbctx.Context, id, userID uuid.UUID) (*types.Conversation, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]ConversationSummary, error)
	Save(dbc dbctx.Context, row *types.Conversation) error
}

type conversationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, log *logger.Logger) ConversationRepo {
	return &conversationRepo{db: db, log: log.With("repo", "ConversationRepo")}
}

func (r *conversationRepo) Create(dbc dbctx.Context, rows []*types.Conversation) ([]*types.Conversation, error) {
	if len(rows) == 0 {
		return []*types.Conversation{}, nil
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

func (r *conversationRepo) GetOwned(dbc dbctx.Context, id, userID uuid.UUID) (*types.Conversation, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Conversation
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

func (r *conversationRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]ConversationSummary, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []ConversationSummary
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Conversation{}).
		Select("id", "status", "plan_id", "created_at", "updated_at").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *conversationRepo) Save(dbc dbctx.Context, row *types.Conversation) error {
	if row == nil || row.ID == uuid.Nil {
		return fmt.Errorf("missing conversation")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Save(row).Error
}
