package planner

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

const (
	ConversationActive    = "active"
	ConversationCompleted = "completed"
	ConversationAbandoned = "abandoned"
)

// Message is one turn of conversation history, stored inside the
// conversation row's JSON document column. History is append-only.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Conversation struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Messages datatypes.JSON `gorm:"type:jsonb;column:messages;not null;default:'[]'" json:"messages,omitempty"`
	Intent   datatypes.JSON `gorm:"type:jsonb;column:intent" json:"intent,omitempty"`

	PlanID *uuid.UUID `gorm:"type:uuid;column:plan_id;index" json:"plan_id,omitempty"`

	Status string `gorm:"column:status;not null;index" json:"status"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Conversation) TableName() string { return "conversation" }

func (c *Conversation) GetMessages() ([]Message, error) {
	if len(c.Messages) == 0 {
		return []Message{}, nil
	}
	var out []Message
	if err := json.Unmarshal(c.Messages, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendMessage adds one turn to the stored history. Existing entries are
// never rewritten.
func (c *Conversation) AppendMessage(role, content string, at time.Time) error {
	msgs, err := c.GetMessages()
	if err != nil {
		return err
	}
	msgs = append(msgs, Message{Role: role, Content: content, Timestamp: at})
	raw, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	c.Messages = datatypes.JSON(raw)
	return nil
}

func (c *Conversation) GetIntent() (*Intent, error) {
	if len(c.Intent) == 0 {
		return nil, nil
	}
	var out Intent
	if err := json.Unmarshal(c.Intent, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Conversation) SetIntent(in *Intent) error {
	if in == nil {
		return nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	c.Intent = datatypes.JSON(raw)
	return nil
}
