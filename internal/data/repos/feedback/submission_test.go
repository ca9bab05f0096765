package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/feedback360-backend/internal/data/repos/testutil"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
)

func trust(v string) types.Responses {
	return types.Responses{"building-trust": {"building-trust-1": types.Answer(v)}}
}

func TestSubmissionListFilters(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSubmissionRepo(tx, testutil.Logger(t))

	testutil.SeedSubmission(t, ctx, tx, survey.RolePeer, "John Doe", trust("4"))
	testutil.SeedSubmission(t, ctx, tx, survey.RolePeer, "  John Doe ", trust("5"))
	testutil.SeedSubmission(t, ctx, tx, survey.RoleSelf, "John Doe", trust("3"))
	testutil.SeedSubmission(t, ctx, tx, survey.RolePeer, "Jane Roe", trust("2"))
	testutil.SeedSubmission(t, ctx, tx, survey.RoleDirect, "", trust("2"))

	all, err := repo.List(ctx, tx, SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)

	john, err := repo.List(ctx, tx, SubmissionFilter{ManagerName: "John Doe"})
	require.NoError(t, err)
	require.Len(t, john, 3)

	peers, err := repo.List(ctx, tx, SubmissionFilter{ManagerName: "John Doe", Role: survey.RolePeer})
	require.NoError(t, err)
	require.Len(t, peers, 2)

	unknown, err := repo.List(ctx, tx, SubmissionFilter{ManagerName: "   "})
	require.NoError(t, err)
	require.Len(t, unknown, 1)
	require.Equal(t, survey.RoleDirect, unknown[0].Role)
}

func TestSubmissionUpdateBumpsLastModified(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSubmissionRepo(tx, testutil.Logger(t))
	sub := testutil.SeedSubmission(t, ctx, tx, survey.RolePeer, "John Doe", trust("4"))

	name := "  Johnny Doe "
	comments := "edited"
	answers := trust("1")
	got, err := repo.Update(ctx, tx, sub.ID, SubmissionUpdate{ManagerName: &name, Comments: &comments, Responses: &answers})
	require.NoError(t, err)
	require.Equal(t, "Johnny Doe", got.ManagerName)
	require.Equal(t, "edited", got.Comments)
	require.Equal(t, types.Answer("1"), got.Answers()["building-trust"]["building-trust-1"])
	require.NotNil(t, got.LastModified)

	_, err = repo.Update(ctx, tx, uuid.New(), SubmissionUpdate{Comments: &comments})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSubmissionDeletes(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSubmissionRepo(tx, testutil.Logger(t))

	a := testutil.SeedSubmission(t, ctx, tx, survey.RolePeer, "John Doe", trust("4"))
	testutil.SeedSubmission(t, ctx, tx, survey.RoleSelf, "John Doe", trust("4"))
	custom := testutil.SeedSubmission(t, ctx, tx, survey.RoleCustom, "John Doe", nil)
	testutil.SeedSubmission(t, ctx, tx, survey.RolePeer, "Jane Roe", trust("4"))

	n, err := repo.DeleteByIDs(ctx, tx, []uuid.UUID{a.ID})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = repo.DeleteByManager(ctx, tx, "John Doe")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// custom survey responses are not part of a manager's feedback
	_, err = repo.GetByID(ctx, tx, custom.ID)
	require.NoError(t, err)

	n, err = repo.DeleteAll(ctx, tx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestSubmissionCountByRole(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSubmissionRepo(tx, testutil.Logger(t))

	testutil.SeedSubmission(t, ctx, tx, survey.RolePeer, "John Doe", trust("4"))
	testutil.SeedSubmission(t, ctx, tx, survey.RolePeer, "John Doe", trust("4"))
	old := testutil.SeedSubmission(t, ctx, tx, survey.RoleSelf, "John Doe", trust("4"))
	require.NoError(t, tx.Model(old).Update("submitted_at", time.Now().UTC().Add(-48*time.Hour)).Error)

	counts, err := repo.CountByRole(ctx, tx, nil)
	require.NoError(t, err)
	require.EqualValues(t, 2, counts[survey.RolePeer])
	require.EqualValues(t, 1, counts[survey.RoleSelf])

	since := time.Now().UTC().Add(-time.Hour)
	recent, err := repo.CountByRole(ctx, tx, &since)
	require.NoError(t, err)
	require.EqualValues(t, 0, recent[survey.RoleSelf])
}
