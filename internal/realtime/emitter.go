package realtime

import (
	"context"

	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

// Emitter publishes events to connected clients.
type Emitter interface {
	Emit(ctx context.Context, msg SSEMessage)
}

// Publisher is the subset of a cross-instance bus an emitter needs.
type Publisher interface {
	Publish(ctx context.Context, msg SSEMessage) error
}

type HubEmitter struct{ Hub *SSEHub }

func (e *HubEmitter) Emit(_ context.Context, msg SSEMessage) {
	if e == nil || e.Hub == nil {
		return
	}
	e.Hub.Broadcast(msg)
}

// BusEmitter publishes through the bus; every instance's forwarder delivers
// to its own hub. Falls back to the local hub when the publish fails.
type BusEmitter struct {
	Bus      Publisher
	Fallback *SSEHub
	Log      *logger.Logger
}

func (e *BusEmitter) Emit(ctx context.Context, msg SSEMessage) {
	if e == nil || e.Bus == nil {
		return
	}
	if err := e.Bus.Publish(ctx, msg); err != nil {
		if e.Log != nil {
			e.Log.Warn("realtime bus publish failed; delivering locally", "event", msg.Event, "error", err)
		}
		if e.Fallback != nil {
			e.Fallback.Broadcast(msg)
		}
	}
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, SSEMessage) {}

// Nop returns an emitter that drops everything.
func Nop() Emitter { return nopEmitter{} }
