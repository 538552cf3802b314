package realtime

type SSEEvent string

const (
	SSEEventConversationUpdated SSEEvent = "ConversationUpdated"
	SSEEventPlanReady           SSEEvent = "PlanReady"
	SSEEventExecutionProgress   SSEEvent = "ExecutionProgress"
	SSEEventExecutionFinished   SSEEvent = "ExecutionFinished"
	SSEEventUserAvatarUpdated   SSEEvent = "UserAvatarChanged"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
