package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	"github.com/yungbote/feedback360-backend/internal/http/response"
	"github.com/yungbote/feedback360-backend/internal/services"
)

type SurveyHandler struct {
	surveyConfig services.SurveyConfigService
}

func NewSurveyHandler(surveyConfig services.SurveyConfigService) *SurveyHandler {
	return &SurveyHandler{surveyConfig: surveyConfig}
}

// GetSections serves the questionnaire for a role. Respondents may only read
// their own role's survey.
func (h *SurveyHandler) GetSections(c *gin.Context) {
	role, err := survey.ParseRole(c.Param("role"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_role", err)
		return
	}
	access := services.SessionAccess(c.Request.Context())
	if access != types.AccessAdmin && types.Access(role) != access {
		response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("survey belongs to another role"))
		return
	}
	sections, err := h.surveyConfig.SectionsFor(c.Request.Context(), role)
	if err != nil {
		response.RespondServiceError(c, "survey_load_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"role": role, "sections": sections})
}

func (h *SurveyHandler) GetConfig(c *gin.Context) {
	cfg, err := h.surveyConfig.Get(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "survey_load_failed", err)
		return
	}
	response.RespondOK(c, cfg)
}

func (h *SurveyHandler) PutConfig(c *gin.Context) {
	var cfg types.SurveyConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	saved, err := h.surveyConfig.Put(c.Request.Context(), cfg)
	if err != nil {
		response.RespondServiceError(c, "survey_save_failed", err)
		return
	}
	response.RespondOK(c, saved)
}

func (h *SurveyHandler) ResetConfig(c *gin.Context) {
	cfg, err := h.surveyConfig.Reset(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "survey_reset_failed", err)
		return
	}
	response.RespondOK(c, cfg)
}
