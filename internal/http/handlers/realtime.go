package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/stride-backend/internal/http/response"
	"github.com/yungbote/stride-backend/internal/platform/ctxutil"
	"github.com/yungbote/stride-backend/internal/platform/logger"
	"github.com/yungbote/stride-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub

	mu      sync.RWMutex
	clients map[uuid.UUID]*realtime.SSEClient // keyed by session id
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     hub,
		clients: make(map[uuid.UUID]*realtime.SSEClient),
	}
}

func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}
	if rd.SessionID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "missing_session", fmt.Errorf("missing session id"))
		return
	}

	h.mu.Lock()
	// A reconnect for the same session replaces the old stream.
	if existing, ok := h.clients[rd.SessionID]; ok {
		h.hub.CloseClient(existing)
		delete(h.clients, rd.SessionID)
	}
	client := h.hub.NewSSEClient(rd.UserID)
	h.clients[rd.SessionID] = client
	h.mu.Unlock()

	// Every session listens on the user-global channel.
	h.hub.AddChannel(client, rd.UserID.String())
	h.log.Info("SSE stream open", "user_id", rd.UserID.String(), "session_id", rd.SessionID.String())

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	delete(h.clients, rd.SessionID)
	h.mu.Unlock()
	h.hub.CloseClient(client)
}

type sseChannelRequest struct {
	Channel string `json:"channel"`
}

func (h *RealtimeHandler) SSESubscribe(c *gin.Context) {
	client, req, ok := h.sessionClient(c)
	if !ok {
		return
	}
	h.hub.AddChannel(client, req.Channel)
	response.RespondOK(c, gin.H{"message": "subscribed", "channel": req.Channel})
}

func (h *RealtimeHandler) SSEUnsubscribe(c *gin.Context) {
	client, req, ok := h.sessionClient(c)
	if !ok {
		return
	}
	h.hub.RemoveChannel(client, req.Channel)
	response.RespondOK(c, gin.H{"message": "unsubscribed", "channel": req.Channel})
}

func (h *RealtimeHandler) sessionClient(c *gin.Context) (*realtime.SSEClient, *sseChannelRequest, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil || rd.SessionID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return nil, nil, false
	}
	var req sseChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_channel", fmt.Errorf("channel required"))
		return nil, nil, false
	}
	h.mu.RLock()
	client, exists := h.clients[rd.SessionID]
	h.mu.RUnlock()
	if !exists {
		response.RespondError(c, http.StatusConflict, "no_active_stream", fmt.Errorf("no active SSE connection for this session"))
		return nil, nil, false
	}
	return client, &req, true
}
