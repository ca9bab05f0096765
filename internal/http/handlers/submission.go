package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yungbote/feedback360-backend/internal/data/repos"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	"github.com/yungbote/feedback360-backend/internal/http/response"
	"github.com/yungbote/feedback360-backend/internal/services"
)

type SubmissionHandler struct {
	submissions services.SubmissionService
}

func NewSubmissionHandler(submissions services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// Submit stores a leadership survey as the caller's role. Admin sessions
// must name the role explicitly.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req struct {
		services.SubmissionInput
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	access := services.SessionAccess(c.Request.Context())
	role, ok := access.Role()
	if access == types.AccessAdmin {
		r, err := survey.ParseRole(req.Role)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_role", err)
			return
		}
		role, ok = r, r.Aggregated()
	}
	if !ok {
		response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("session cannot submit surveys"))
		return
	}

	in := req.SubmissionInput
	in.IPAddress = c.ClientIP()
	in.UserAgent = c.Request.UserAgent()
	sub, err := h.submissions.Submit(c.Request.Context(), role, in)
	if err != nil {
		response.RespondServiceError(c, "submission_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"submission": sub})
}

func (h *SubmissionHandler) List(c *gin.Context) {
	filter := repos.SubmissionFilter{ManagerName: strings.TrimSpace(c.Query("manager"))}
	if raw := strings.TrimSpace(c.Query("role")); raw != "" {
		role, err := survey.ParseRole(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_role", err)
			return
		}
		filter.Role = role
	}
	subs, err := h.submissions.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondServiceError(c, "list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"submissions": subs, "count": len(subs)})
}

func (h *SubmissionHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, "invalid_request", err)
		return
	}
	sub, err := h.submissions.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, "get_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"submission": sub})
}

func (h *SubmissionHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, "invalid_request", err)
		return
	}
	var req struct {
		ManagerID   *string          `json:"manager_id"`
		ManagerName *string          `json:"manager_name"`
		Comments    *string          `json:"comments"`
		Responses   *types.Responses `json:"responses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sub, err := h.submissions.Update(c.Request.Context(), id, repos.SubmissionUpdate{
		ManagerID:   req.ManagerID,
		ManagerName: req.ManagerName,
		Comments:    req.Comments,
		Responses:   req.Responses,
	})
	if err != nil {
		response.RespondServiceError(c, "update_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"submission": sub})
}

func (h *SubmissionHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, "invalid_request", err)
		return
	}
	if err := h.submissions.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": 1})
}

func (h *SubmissionHandler) BulkDelete(c *gin.Context) {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	n, err := h.submissions.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		response.RespondServiceError(c, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": n})
}

func (h *SubmissionHandler) Clear(c *gin.Context) {
	n, err := h.submissions.Clear(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": n})
}
