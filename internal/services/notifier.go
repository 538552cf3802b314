package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/realtime"
)

// PlanNotifier fans conversation and plan lifecycle events out to the
// owning user's SSE channel. Every method is fire-and-forget.
type PlanNotifier interface {
	ConversationUpdated(userID uuid.UUID, conv *types.Conversation)
	PlanReady(userID uuid.UUID, plan *types.ActionPlan)
	ExecutionFinished(userID uuid.UUID, planID uuid.UUID, summary *types.ExecutionSummary)
	UserAvatarUpdated(userID uuid.UUID, user *types.User)
}

type planNotifier struct {
	emit SSEEmitter
}

func NewPlanNotifier(emit SSEEmitter) PlanNotifier {
	return &planNotifier{emit: emit}
}

func (n *planNotifier) ConversationUpdated(userID uuid.UUID, conv *types.Conversation) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventConversationUpdated,
		Data:    map[string]any{"conversation": conv},
	})
}

func (n *planNotifier) PlanReady(userID uuid.UUID, plan *types.ActionPlan) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventPlanReady,
		Data:    map[string]any{"plan": plan},
	})
}

func (n *planNotifier) UserAvatarUpdated(userID uuid.UUID, user *types.User) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventUserAvatarUpdated,
		Data:    map[string]any{"user": user},
	})
}

func (n *planNotifier) ExecutionFinished(userID uuid.UUID, planID uuid.UUID, summary *types.ExecutionSummary) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventExecutionFinished,
		Data:    map[string]any{"plan_id": planID, "summary": summary},
	})
}
