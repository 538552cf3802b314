package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubReconnectAndOrdering(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	channel := uuid.New().String()

	clientA := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientA, channel)

	first := SSEMessage{Channel: channel, Event: SSEEventPlanReady, Data: map[string]any{"seq": 1}}
	second := SSEMessage{Channel: channel, Event: SSEEventExecutionProgress, Data: map[string]any{"seq": 2}}
	hub.Broadcast(first)
	hub.Broadcast(second)

	gotFirst := recvMessage(t, clientA.Outbound, time.Second)
	gotSecond := recvMessage(t, clientA.Outbound, time.Second)
	if gotFirst.Event != SSEEventPlanReady {
		t.Fatalf("first event: want=%s got=%s", SSEEventPlanReady, gotFirst.Event)
	}
	if gotSecond.Event != SSEEventExecutionProgress {
		t.Fatalf("second event: want=%s got=%s", SSEEventExecutionProgress, gotSecond.Event)
	}

	hub.CloseClient(clientA)
	select {
	case _, ok := <-clientA.Outbound:
		if ok {
			t.Fatalf("clientA outbound should be closed after disconnect")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for clientA channel close")
	}

	clientB := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientB, channel)
	reconnect := SSEMessage{Channel: channel, Event: SSEEventExecutionFinished, Data: map[string]any{"seq": 3}}
	hub.Broadcast(reconnect)
	gotReconnect := recvMessage(t, clientB.Outbound, time.Second)
	if gotReconnect.Event != SSEEventExecutionFinished {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventExecutionFinished, gotReconnect.Event)
	}
}

func TestSSEHubBroadcastSkipsOtherChannels(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	subscribed := hub.NewSSEClient(uuid.New())
	hub.AddChannel(subscribed, "user:a")
	bystander := hub.NewSSEClient(uuid.New())
	hub.AddChannel(bystander, "user:b")

	hub.Broadcast(SSEMessage{Channel: "user:a", Event: SSEEventConversationUpdated})

	got := recvMessage(t, subscribed.Outbound, time.Second)
	if got.Event != SSEEventConversationUpdated {
		t.Fatalf("event = %s, want %s", got.Event, SSEEventConversationUpdated)
	}
	select {
	case msg := <-bystander.Outbound:
		t.Fatalf("bystander received %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
