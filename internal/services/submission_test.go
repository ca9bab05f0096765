package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yungbote/feedback360-backend/internal/data/repos"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/realtime"
)

func trustAnswer(v string) types.Responses {
	return types.Responses{"building-trust": {"building-trust-1": types.Answer(v)}}
}

func submit(t *testing.T, svc SubmissionService, role types.Role, manager, answer string) *types.Submission {
	t.Helper()
	s, err := svc.Submit(context.Background(), role, SubmissionInput{
		ManagerName: manager,
		Responses:   trustAnswer(answer),
		Comments:    string(role) + " says hi",
	})
	require.NoError(t, err)
	return s
}

func TestSubmitStoresAndEmits(t *testing.T) {
	env := newTestEnv(t)
	svc := env.submissions()

	s, err := svc.Submit(context.Background(), types.RolePeer, SubmissionInput{
		ManagerID:   " JD001 ",
		ManagerName: "  John Doe ",
		Responses:   trustAnswer("often"),
		Location:    "40.7, -74.0",
		IPAddress:   "10.0.0.1",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, s.ID)
	require.Equal(t, "John Doe", s.ManagerName)
	require.Equal(t, "JD001", s.ManagerID)
	require.Equal(t, types.StatusCompleted, s.Status)

	got, err := svc.Get(context.Background(), s.ID)
	require.NoError(t, err)
	require.Equal(t, types.Answer("often"), got.Answers()["building-trust"]["building-trust-1"])
	require.Equal(t, []realtime.SSEEvent{realtime.SSEEventSubmissionCreated}, env.emitter.events())
}

func TestSubmitRejectsCustomRoleAndEmptyResponses(t *testing.T) {
	env := newTestEnv(t)
	svc := env.submissions()
	ctx := context.Background()

	_, err := svc.Submit(ctx, types.RoleCustom, SubmissionInput{Responses: trustAnswer("3")})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.Submit(ctx, types.RoleSelf, SubmissionInput{Responses: types.Responses{"building-trust": {"building-trust-1": ""}}})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestUpdateBumpsLastModified(t *testing.T) {
	env := newTestEnv(t)
	svc := env.submissions()
	s := submit(t, svc, types.RoleDirect, "John Doe", "2")
	require.Nil(t, s.LastModified)

	comments := "edited"
	updated, err := svc.Update(context.Background(), s.ID, repos.SubmissionUpdate{Comments: &comments})
	require.NoError(t, err)
	require.Equal(t, "edited", updated.Comments)
	require.NotNil(t, updated.LastModified)

	_, err = svc.Update(context.Background(), uuid.New(), repos.SubmissionUpdate{Comments: &comments})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteAndBulkDelete(t *testing.T) {
	env := newTestEnv(t)
	svc := env.submissions()
	ctx := context.Background()
	a := submit(t, svc, types.RolePeer, "John Doe", "4")
	b := submit(t, svc, types.RolePeer, "John Doe", "5")
	c := submit(t, svc, types.RolePeer, "John Doe", "3")

	require.NoError(t, svc.Delete(ctx, a.ID))
	require.ErrorIs(t, svc.Delete(ctx, a.ID), apperr.ErrNotFound)

	n, err := svc.BulkDelete(ctx, []uuid.UUID{b.ID, c.ID, uuid.New()})
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	_, err = svc.BulkDelete(ctx, nil)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	left, err := svc.List(ctx, repos.SubmissionFilter{})
	require.NoError(t, err)
	require.Empty(t, left)
}

func TestDeletingAllOfAManagersSubmissionsRemovesHim(t *testing.T) {
	env := newTestEnv(t)
	svc := env.submissions()
	agg := env.aggregation()
	ctx := context.Background()

	for _, r := range survey.AggregateRoles {
		submit(t, svc, r, "John Doe", "4")
	}
	submit(t, svc, types.RolePeer, "Jane Roe", "5")

	managers, err := agg.Managers(ctx)
	require.NoError(t, err)
	require.Len(t, managers, 2)

	n, err := svc.DeleteManager(ctx, " John Doe ")
	require.NoError(t, err)
	require.EqualValues(t, 4, n)

	managers, err = agg.Managers(ctx)
	require.NoError(t, err)
	require.Len(t, managers, 1)
	require.Equal(t, "Jane Roe", managers[0].ManagerName)

	_, err = agg.Manager(ctx, "John Doe")
	var noData *NoDataError
	require.True(t, errors.As(err, &noData))
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.DeleteManager(ctx, "John Doe")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.Contains(t, env.emitter.events(), realtime.SSEEventManagerDeleted)
}

func TestClearRemovesEverything(t *testing.T) {
	env := newTestEnv(t)
	svc := env.submissions()
	submit(t, svc, types.RoleSelf, "John Doe", "3")
	submit(t, svc, types.RolePeer, "Jane Roe", "3")

	n, err := svc.Clear(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}
