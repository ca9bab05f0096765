package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/http/response"
	"github.com/yungbote/feedback360-backend/internal/services"
)

type CustomSurveyHandler struct {
	surveys services.CustomSurveyService
}

func NewCustomSurveyHandler(surveys services.CustomSurveyService) *CustomSurveyHandler {
	return &CustomSurveyHandler{surveys: surveys}
}

func (h *CustomSurveyHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	out, err := h.surveys.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.RespondServiceError(c, "list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"surveys": out, "count": len(out)})
}

// Get serves one survey. Inactive surveys are visible to admins only.
func (h *CustomSurveyHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, "invalid_request", err)
		return
	}
	s, err := h.surveys.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, "get_failed", err)
		return
	}
	if !s.IsActive && services.SessionAccess(c.Request.Context()) != types.AccessAdmin {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("survey not available"))
		return
	}
	response.RespondOK(c, gin.H{"survey": s})
}

func (h *CustomSurveyHandler) Create(c *gin.Context) {
	var in services.CustomSurveyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	s, err := h.surveys.Create(c.Request.Context(), string(services.SessionAccess(c.Request.Context())), in)
	if err != nil {
		response.RespondServiceError(c, "create_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"survey": s})
}

func (h *CustomSurveyHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, "invalid_request", err)
		return
	}
	var in services.CustomSurveyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	s, err := h.surveys.Update(c.Request.Context(), id, in)
	if err != nil {
		response.RespondServiceError(c, "update_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"survey": s})
}

func (h *CustomSurveyHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, "invalid_request", err)
		return
	}
	if err := h.surveys.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (h *CustomSurveyHandler) Respond(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, "invalid_request", err)
		return
	}
	var in services.CustomResponseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in.IPAddress = c.ClientIP()
	in.UserAgent = c.Request.UserAgent()
	sub, err := h.surveys.Respond(c.Request.Context(), id, in)
	if err != nil {
		response.RespondServiceError(c, "response_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"submission": sub})
}

func (h *CustomSurveyHandler) Responses(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondServiceError(c, "invalid_request", err)
		return
	}
	subs, err := h.surveys.Responses(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, "list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"submissions": subs, "count": len(subs)})
}
