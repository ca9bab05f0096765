package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/platform/apierr"
	"github.com/yungbote/feedback360-backend/internal/services"
)

// RespondServiceError maps service errors onto the error envelope. fallback
// is the code used for unclassified failures.
func RespondServiceError(c *gin.Context, fallback string, err error) {
	if ae, ok := apierr.As(err); ok {
		RespondError(c, ae.Status, ae.Code, ae)
		return
	}
	var noData *services.NoDataError
	switch {
	case errors.As(err, &noData):
		RespondError(c, http.StatusNotFound, "no_data", err)
	case errors.Is(err, services.ErrChartFailed):
		RespondError(c, http.StatusInternalServerError, "chart_failed", err)
	case errors.Is(err, apperr.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperr.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, apperr.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, apperr.ErrForbidden):
		RespondError(c, http.StatusForbidden, "forbidden", err)
	default:
		RespondError(c, http.StatusInternalServerError, fallback, err)
	}
}
