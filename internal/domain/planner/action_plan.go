package planner

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActionPlan is a persisted, confirmable batch of creation operations.
// Once Executed is true the plan is terminal: repeat execution requests
// are rejected, never re-run.
type ActionPlan struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Intent   datatypes.JSON `gorm:"type:jsonb;column:intent" json:"intent,omitempty"`
	Summary  string         `gorm:"column:summary;type:text;not null" json:"summary"`
	Category string         `gorm:"column:category" json:"category,omitempty"`

	Actions datatypes.JSON `gorm:"type:jsonb;column:actions;not null;default:'[]'" json:"actions"`

	Executed   bool       `gorm:"column:executed;not null;default:false;index" json:"executed"`
	ExecutedAt *time.Time `gorm:"column:executed_at" json:"executed_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ActionPlan) TableName() string { return "action_plan" }

func (p *ActionPlan) GetActions() ([]ActionItem, error) {
	if len(p.Actions) == 0 {
		return []ActionItem{}, nil
	}
	var out []ActionItem
	if err := json.Unmarshal(p.Actions, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *ActionPlan) SetActions(actions []ActionItem) error {
	raw, err := json.Marshal(actions)
	if err != nil {
		return err
	}
	p.Actions = datatypes.JSON(raw)
	return nil
}

func (p *ActionPlan) SetIntent(in *Intent) error {
	if in == nil {
		return nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	p.Intent = datatypes.JSON(raw)
	return nil
}
