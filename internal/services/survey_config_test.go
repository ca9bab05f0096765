package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/realtime"
)

func TestSurveyConfigPutAndReset(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSurveyConfigService(env.log, env.repos.SurveyConfig, env.emitter)
	ctx := context.Background()

	defaults, err := svc.Get(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, defaults.Self)

	edited := defaults
	edited.Peer = []types.SurveySection{{
		ID:        "building-trust",
		Title:     "Trust",
		Questions: []types.SurveyQuestion{{ID: "building-trust-1", Text: "They keep promises.", Type: "likert"}},
	}}
	_, err = svc.Put(ctx, edited)
	require.NoError(t, err)

	peer, err := svc.SectionsFor(ctx, types.RolePeer)
	require.NoError(t, err)
	require.Len(t, peer, 1)
	require.Equal(t, "They keep promises.", peer[0].Questions[0].Text)

	reset, err := svc.Reset(ctx)
	require.NoError(t, err)
	require.Equal(t, len(defaults.Peer), len(reset.Peer))

	require.Equal(t, []realtime.SSEEvent{realtime.SSEEventSurveyConfigUpdated, realtime.SSEEventSurveyConfigUpdated}, env.emitter.events())
}

func TestSurveyConfigRejectsInvalid(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSurveyConfigService(env.log, env.repos.SurveyConfig, env.emitter)
	ctx := context.Background()

	_, err := svc.Put(ctx, types.SurveyConfig{Self: []types.SurveySection{{Title: "no id"}}})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.SectionsFor(ctx, types.RoleCustom)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
	require.Empty(t, env.emitter.events())
}
