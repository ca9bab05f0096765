package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yungbote/feedback360-backend/internal/http/response"
	"github.com/yungbote/feedback360-backend/internal/services"
)

type AdminHandler struct {
	stats services.StatsService
	demo  services.DemoDataService
}

func NewAdminHandler(stats services.StatsService, demo services.DemoDataService) *AdminHandler {
	return &AdminHandler{stats: stats, demo: demo}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	st, err := h.stats.Get(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "stats_failed", err)
		return
	}
	response.RespondOK(c, st)
}

func (h *AdminHandler) DemoData(c *gin.Context) {
	var req services.DemoDataRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.demo.Generate(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, "demo_data_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"created": len(created), "submissions": created})
}
