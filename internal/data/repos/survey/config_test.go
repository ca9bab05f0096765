package survey

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/feedback360-backend/internal/data/repos/settings"
	"github.com/yungbote/feedback360-backend/internal/data/repos/testutil"
	domainsettings "github.com/yungbote/feedback360-backend/internal/domain/settings"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
)

func fixedDefaults() (survey.Config, error) {
	return survey.Config{Self: []survey.Section{{
		ID:        "building-trust",
		Title:     "Building Trust",
		Questions: []survey.Question{{ID: "building-trust-1", Text: "I keep promises."}},
	}}}, nil
}

func newConfigRepo(t *testing.T) (ConfigRepository, settings.SettingRepo) {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	settingRepo := settings.NewSettingRepo(tx, log)
	return NewConfigRepository(settingRepo, fixedDefaults, log), settingRepo
}

func TestConfigLoadFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	repo, settingRepo := newConfigRepo(t)

	cfg, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "building-trust", cfg.Self[0].ID)

	require.NoError(t, settingRepo.Put(ctx, nil, domainsettings.KeySurveyConfig, []byte(`{"self":"not a list"}`)))
	cfg, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, cfg.Self, 1)

	require.NoError(t, settingRepo.Put(ctx, nil, domainsettings.KeySurveyConfig, []byte(`{"self":[]}`)))
	cfg, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, cfg.Self, 1)
}

func TestConfigSaveIsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo, _ := newConfigRepo(t)

	first := survey.Config{Peer: []survey.Section{{ID: "a", Title: "A", Questions: []survey.Question{{ID: "a-1", Text: "one"}}}}}
	second := survey.Config{Peer: []survey.Section{{ID: "b", Title: "B", Questions: []survey.Question{{ID: "b-1", Text: "two"}}}}}
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	cfg, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, cfg.Self)
	require.Equal(t, "b", cfg.Peer[0].ID)

	reset, err := repo.Reset(ctx)
	require.NoError(t, err)
	require.Len(t, reset.Self, 1)
	cfg, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, cfg.Peer)
}

func TestConfigSaveRejectsDuplicateIDs(t *testing.T) {
	repo, _ := newConfigRepo(t)
	bad := survey.Config{Direct: []survey.Section{
		{ID: "x", Title: "X"},
		{ID: "x", Title: "Again"},
	}}
	require.ErrorIs(t, repo.Save(context.Background(), bad), apperr.ErrInvalidArgument)
}
