package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"github.com/yungbote/feedback360-backend/internal/realtime"
)

func TestDecode(t *testing.T) {
	msg, err := decode(`{"channel":"admin","event":"submission.created","data":{"id":"x"}}`)
	require.NoError(t, err)
	require.Equal(t, realtime.ChannelAdmin, msg.Channel)
	require.Equal(t, realtime.SSEEventSubmissionCreated, msg.Event)

	_, err = decode(`{"event":"submission.created"}`)
	require.Error(t, err)
	_, err = decode(`not json`)
	require.Error(t, err)
}

func TestNewRedisBusRequiresAddr(t *testing.T) {
	_, err := NewRedisBus(context.Background(), logger.Nop(), Config{})
	require.Error(t, err)
	_, err = NewRedisBus(context.Background(), nil, Config{Addr: "localhost:6379"})
	require.Error(t, err)
}
