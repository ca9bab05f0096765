package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yungbote/feedback360-backend/internal/http/response"
	"github.com/yungbote/feedback360-backend/internal/services"
)

type ManagerHandler struct {
	aggregation services.AggregationService
	submissions services.SubmissionService
	reports     services.ReportService
}

func NewManagerHandler(aggregation services.AggregationService, submissions services.SubmissionService, reports services.ReportService) *ManagerHandler {
	return &ManagerHandler{aggregation: aggregation, submissions: submissions, reports: reports}
}

func (h *ManagerHandler) List(c *gin.Context) {
	managers, err := h.aggregation.Managers(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "aggregation_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"managers": managers, "count": len(managers)})
}

func (h *ManagerHandler) Get(c *gin.Context) {
	agg, err := h.aggregation.Manager(c.Request.Context(), managerParam(c))
	if err != nil {
		response.RespondServiceError(c, "aggregation_failed", err)
		return
	}
	response.RespondOK(c, agg)
}

func (h *ManagerHandler) Delete(c *gin.Context) {
	n, err := h.submissions.DeleteManager(c.Request.Context(), managerParam(c))
	if err != nil {
		response.RespondServiceError(c, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": n})
}

func (h *ManagerHandler) Comparison(c *gin.Context) {
	cmp, _, err := h.aggregation.Comparison(c.Request.Context(), managerParam(c))
	if err != nil {
		response.RespondServiceError(c, "aggregation_failed", err)
		return
	}
	response.RespondOK(c, cmp)
}

func (h *ManagerHandler) Chart(c *gin.Context) {
	png, err := h.reports.Chart(c.Request.Context(), managerParam(c))
	if err != nil {
		response.RespondServiceError(c, "chart_failed", err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// Report accepts the request once the payload is built; delivery to the
// document webhook happens in the background.
func (h *ManagerHandler) Report(c *gin.Context) {
	var req services.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	receipt, err := h.reports.Request(c.Request.Context(), managerParam(c), req)
	if err != nil {
		response.RespondServiceError(c, "report_failed", err)
		return
	}
	response.RespondAccepted(c, receipt)
}
