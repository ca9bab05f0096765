package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yungbote/feedback360-backend/internal/data/repos"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	"github.com/yungbote/feedback360-backend/internal/http/response"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/export"
	"github.com/yungbote/feedback360-backend/internal/services"
)

type ExportHandler struct {
	exports services.ExportService
}

func NewExportHandler(exports services.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

func (h *ExportHandler) Submissions(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_format", err)
		return
	}
	filter := repos.SubmissionFilter{ManagerName: strings.TrimSpace(c.Query("manager"))}
	if raw := strings.TrimSpace(c.Query("role")); raw != "" {
		role, err := survey.ParseRole(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_role", err)
			return
		}
		filter.Role = role
	}
	var buf bytes.Buffer
	if _, err := h.exports.Submissions(c.Request.Context(), &buf, format, filter); err != nil {
		response.RespondServiceError(c, "export_failed", err)
		return
	}
	name := fmt.Sprintf("survey-submissions-%s.%s", time.Now().UTC().Format("2006-01-02"), format)
	attachment(c, name, format, buf.Bytes())
}

func (h *ExportHandler) Manager(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_format", err)
		return
	}
	name := managerParam(c)
	var buf bytes.Buffer
	if err := h.exports.Manager(c.Request.Context(), &buf, format, name); err != nil {
		response.RespondServiceError(c, "export_failed", err)
		return
	}
	file := fmt.Sprintf("%s-feedback.%s", strings.Join(strings.Fields(strings.ToLower(name)), "-"), format)
	attachment(c, file, format, buf.Bytes())
}

// Output is buffered so a failed export still gets a JSON error instead of a
// truncated file.
func attachment(c *gin.Context, filename string, format export.Format, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), body)
}
