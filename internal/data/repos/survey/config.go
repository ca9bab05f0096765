package survey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yungbote/feedback360-backend/internal/data/repos/settings"
	domainsettings "github.com/yungbote/feedback360-backend/internal/domain/settings"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

// ConfigRepository loads and stores the editable survey definition. Load
// never fails on missing or unreadable data; it falls back to the defaults.
type ConfigRepository interface {
	Load(ctx context.Context) (survey.Config, error)
	Save(ctx context.Context, cfg survey.Config) error
	Reset(ctx context.Context) (survey.Config, error)
}

// DefaultsFunc supplies the seed definition.
type DefaultsFunc func() (survey.Config, error)

type configRepo struct {
	settings settings.SettingRepo
	defaults DefaultsFunc
	log      *logger.Logger
}

func NewConfigRepository(settingRepo settings.SettingRepo, defaults DefaultsFunc, baseLog *logger.Logger) ConfigRepository {
	return &configRepo{
		settings: settingRepo,
		defaults: defaults,
		log:      baseLog.With("repo", "SurveyConfigRepository"),
	}
}

func (r *configRepo) Load(ctx context.Context) (survey.Config, error) {
	row, err := r.settings.Get(ctx, nil, domainsettings.KeySurveyConfig)
	if errors.Is(err, apperr.ErrNotFound) {
		return r.defaults()
	}
	if err != nil {
		return survey.Config{}, fmt.Errorf("load survey config: %w", err)
	}
	var cfg survey.Config
	if err := json.Unmarshal(row.Value, &cfg); err != nil {
		r.log.Warn("Stored survey config unreadable, using defaults", "error", err)
		return r.defaults()
	}
	if cfg.Empty() {
		r.log.Warn("Stored survey config empty, using defaults")
		return r.defaults()
	}
	return cfg, nil
}

func (r *configRepo) Save(ctx context.Context, cfg survey.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode survey config: %w", err)
	}
	if err := r.settings.Put(ctx, nil, domainsettings.KeySurveyConfig, raw); err != nil {
		return fmt.Errorf("save survey config: %w", err)
	}
	return nil
}

func (r *configRepo) Reset(ctx context.Context) (survey.Config, error) {
	if err := r.settings.Delete(ctx, nil, domainsettings.KeySurveyConfig); err != nil {
		return survey.Config{}, fmt.Errorf("reset survey config: %w", err)
	}
	return r.defaults()
}
