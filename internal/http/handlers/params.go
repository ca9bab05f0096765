package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
)

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", apperr.ErrInvalidArgument, name)
	}
	return id, nil
}

// managerParam reads the :name path segment. Gin has already unescaped it.
func managerParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("name"))
}
