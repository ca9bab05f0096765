package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/feedback360-backend/internal/http/response"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"github.com/yungbote/feedback360-backend/internal/realtime"
	"github.com/yungbote/feedback360-backend/internal/services"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// Events streams admin events until the client disconnects.
func (h *RealtimeHandler) Events(c *gin.Context) {
	access := services.SessionAccess(c.Request.Context())
	if access == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	client := h.hub.NewSSEClient(string(access))
	h.hub.AddChannel(client, realtime.ChannelAdmin)
	h.log.Info("SSE stream open", "client_id", client.ID.String(), "access", access)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.log.Info("SSE stream closed", "client_id", client.ID.String())
}
