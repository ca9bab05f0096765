package services

import (
	"context"
	"sync"
	"testing"

	"github.com/yungbote/feedback360-backend/internal/data/repos"
	"github.com/yungbote/feedback360-backend/internal/data/repos/testutil"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/seed"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"github.com/yungbote/feedback360-backend/internal/realtime"
	"gorm.io/gorm"
)

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *recordingEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = append(e.msgs, msg)
}

func (e *recordingEmitter) events() []realtime.SSEEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]realtime.SSEEvent, 0, len(e.msgs))
	for _, m := range e.msgs {
		out = append(out, m.Event)
	}
	return out
}

type testEnv struct {
	tx      *gorm.DB
	log     *logger.Logger
	repos   repos.Repos
	emitter *recordingEmitter
}

// newTestEnv builds repositories on a transaction that is rolled back when
// the test ends.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := testutil.Logger(t)
	tx := testutil.Tx(t, testutil.DB(t))
	return &testEnv{
		tx:      tx,
		log:     log,
		repos:   repos.New(tx, log, seed.DefaultConfig),
		emitter: &recordingEmitter{},
	}
}

func (e *testEnv) submissions() SubmissionService {
	return NewSubmissionService(e.tx, e.log, e.repos.Submission, e.emitter)
}

func (e *testEnv) aggregation() AggregationService {
	return NewAggregationService(e.tx, e.log, e.repos.Submission, e.repos.SurveyConfig)
}
