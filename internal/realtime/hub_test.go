package realtime

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubReconnectAndOrdering(t *testing.T) {
	hub := NewSSEHub(logger.Nop())

	clientA := hub.NewSSEClient("admin")
	hub.AddChannel(clientA, ChannelAdmin)

	hub.Broadcast(SSEMessage{Channel: ChannelAdmin, Event: SSEEventSubmissionCreated, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: ChannelAdmin, Event: SSEEventSubmissionUpdated, Data: map[string]any{"seq": 2}})

	require.Equal(t, SSEEventSubmissionCreated, recvMessage(t, clientA.Outbound, time.Second).Event)
	require.Equal(t, SSEEventSubmissionUpdated, recvMessage(t, clientA.Outbound, time.Second).Event)

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	_, ok := <-clientA.Outbound
	require.False(t, ok, "outbound should be closed after disconnect")
	require.Equal(t, 0, hub.ClientCount())

	clientB := hub.NewSSEClient("admin")
	hub.AddChannel(clientB, ChannelAdmin)
	hub.Broadcast(SSEMessage{Channel: ChannelAdmin, Event: SSEEventManagerDeleted})
	require.Equal(t, SSEEventManagerDeleted, recvMessage(t, clientB.Outbound, time.Second).Event)
	hub.CloseClient(clientB)
}

func TestSSEHubIgnoresOtherChannels(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	c := hub.NewSSEClient("admin")
	defer hub.CloseClient(c)
	hub.AddChannel(c, ChannelAdmin)
	hub.RemoveChannel(c, ChannelAdmin)

	hub.Broadcast(SSEMessage{Channel: ChannelAdmin, Event: SSEEventSubmissionCreated})
	hub.Broadcast(SSEMessage{Channel: "other", Event: SSEEventSubmissionCreated})
	select {
	case msg := <-c.Outbound:
		t.Fatalf("unexpected message %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSSEHubClientGauge(t *testing.T) {
	var last int64
	hub := NewSSEHub(logger.Nop(), WithClientGauge(func(n int) { atomic.StoreInt64(&last, int64(n)) }))
	a := hub.NewSSEClient("admin")
	b := hub.NewSSEClient("admin")
	require.EqualValues(t, 2, atomic.LoadInt64(&last))
	hub.CloseClient(a)
	hub.CloseClient(b)
	require.EqualValues(t, 0, atomic.LoadInt64(&last))
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	hub := NewSSEHub(logger.Nop(), WithHeartbeat(time.Hour))
	client := hub.NewSSEClient("admin")
	hub.AddChannel(client, ChannelAdmin)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r, client)
	}))
	defer srv.Close()

	tr := &http.Transport{}
	defer tr.CloseIdleConnections()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := (&http.Client{Transport: tr}).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	hub.Broadcast(SSEMessage{Channel: ChannelAdmin, Event: SSEEventReportRequested, Data: map[string]any{"manager_name": "John Doe"}})

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "event: report.requested\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "data: {"))
	require.Contains(t, line, `"manager_name":"John Doe"`)

	hub.CloseClient(client)
}

type failingBus struct{ calls int32 }

func (f *failingBus) Publish(context.Context, SSEMessage) error {
	atomic.AddInt32(&f.calls, 1)
	return errors.New("down")
}

func TestBusEmitterFallsBackToLocalHub(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	c := hub.NewSSEClient("admin")
	defer hub.CloseClient(c)
	hub.AddChannel(c, ChannelAdmin)

	fb := &failingBus{}
	em := &BusEmitter{Bus: fb, Fallback: hub, Log: logger.Nop()}
	em.Emit(context.Background(), SSEMessage{Channel: ChannelAdmin, Event: SSEEventSurveyConfigUpdated})

	require.EqualValues(t, 1, atomic.LoadInt32(&fb.calls))
	require.Equal(t, SSEEventSurveyConfigUpdated, recvMessage(t, c.Outbound, time.Second).Event)
}
