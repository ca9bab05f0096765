package services

import (
	"context"
	"fmt"

	"github.com/yungbote/feedback360-backend/internal/data/repos"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"github.com/yungbote/feedback360-backend/internal/realtime"
)

type SurveyConfigService interface {
	Get(ctx context.Context) (types.SurveyConfig, error)
	SectionsFor(ctx context.Context, role types.Role) ([]types.SurveySection, error)
	Put(ctx context.Context, cfg types.SurveyConfig) (types.SurveyConfig, error)
	Reset(ctx context.Context) (types.SurveyConfig, error)
}

type surveyConfigService struct {
	log     *logger.Logger
	repo    repos.SurveyConfigRepository
	emitter realtime.Emitter
}

func NewSurveyConfigService(log *logger.Logger, repo repos.SurveyConfigRepository, emitter realtime.Emitter) SurveyConfigService {
	if emitter == nil {
		emitter = realtime.Nop()
	}
	return &surveyConfigService{
		log:     log.With("service", "SurveyConfigService"),
		repo:    repo,
		emitter: emitter,
	}
}

func (s *surveyConfigService) Get(ctx context.Context) (types.SurveyConfig, error) {
	return s.repo.Load(ctx)
}

func (s *surveyConfigService) SectionsFor(ctx context.Context, role types.Role) ([]types.SurveySection, error) {
	if !role.Aggregated() {
		return nil, fmt.Errorf("%w: no leadership survey for role %q", apperr.ErrInvalidArgument, role)
	}
	cfg, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	sections := cfg.Sections(role)
	if sections == nil {
		sections = []types.SurveySection{}
	}
	return sections, nil
}

func (s *surveyConfigService) Put(ctx context.Context, cfg types.SurveyConfig) (types.SurveyConfig, error) {
	if err := s.repo.Save(ctx, cfg); err != nil {
		return types.SurveyConfig{}, err
	}
	s.log.Info("Survey config saved")
	s.emitter.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelAdmin, Event: realtime.SSEEventSurveyConfigUpdated, Data: map[string]any{"reset": false}})
	return cfg, nil
}

func (s *surveyConfigService) Reset(ctx context.Context) (types.SurveyConfig, error) {
	cfg, err := s.repo.Reset(ctx)
	if err != nil {
		return types.SurveyConfig{}, err
	}
	s.log.Info("Survey config reset to defaults")
	s.emitter.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelAdmin, Event: realtime.SSEEventSurveyConfigUpdated, Data: map[string]any{"reset": true}})
	return cfg, nil
}
