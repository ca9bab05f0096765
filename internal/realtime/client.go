package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

type SSEClient struct {
	ID       uuid.UUID
	Access   string
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	once     sync.Once
	Logger   *logger.Logger
}
