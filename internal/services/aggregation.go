package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/feedback360-backend/internal/data/repos"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/aggregate"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/compare"
	"github.com/yungbote/feedback360-backend/internal/observability"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// NoDataError reports a manager with no aggregated submissions.
type NoDataError struct {
	ManagerName string
}

func (e *NoDataError) Error() string {
	return "no data available for " + e.ManagerName
}

func (e *NoDataError) Unwrap() error { return apperr.ErrNotFound }

// AggregationService recomputes every view from the stored submissions on
// each call. Nothing is cached.
type AggregationService interface {
	Managers(ctx context.Context) ([]aggregate.AggregatedSubmission, error)
	Manager(ctx context.Context, managerName string) (aggregate.AggregatedSubmission, error)
	Comparison(ctx context.Context, managerName string) (compare.Comparison, aggregate.AggregatedSubmission, error)
}

type aggregationService struct {
	db             *gorm.DB
	log            *logger.Logger
	submissionRepo repos.SubmissionRepo
	surveyConfig   repos.SurveyConfigRepository
}

func NewAggregationService(db *gorm.DB, log *logger.Logger, submissionRepo repos.SubmissionRepo, surveyConfig repos.SurveyConfigRepository) AggregationService {
	return &aggregationService{
		db:             db,
		log:            log.With("service", "AggregationService"),
		submissionRepo: submissionRepo,
		surveyConfig:   surveyConfig,
	}
}

func (s *aggregationService) aggregator(ctx context.Context) (*aggregate.Aggregator, error) {
	cfg, err := s.surveyConfig.Load(ctx)
	if err != nil {
		return nil, err
	}
	onDrop := func(d aggregate.DroppedResponse) {
		observability.Current().IncDroppedResponse(string(d.Role))
	}
	return aggregate.New(aggregate.NewCatalog(cfg), s.log, aggregate.WithDropObserver(onDrop)), nil
}

func (s *aggregationService) load(ctx context.Context, filter repos.SubmissionFilter) ([]*types.Submission, *aggregate.Aggregator, error) {
	subs, err := s.submissionRepo.List(ctx, s.db, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("list submissions: %w", err)
	}
	agg, err := s.aggregator(ctx)
	if err != nil {
		return nil, nil, err
	}
	return subs, agg, nil
}

func (s *aggregationService) Managers(ctx context.Context) ([]aggregate.AggregatedSubmission, error) {
	start := time.Now()
	subs, agg, err := s.load(ctx, repos.SubmissionFilter{})
	if err != nil {
		return nil, err
	}
	out := agg.Build(subs)
	observability.Current().ObserveAggregation(time.Since(start))
	s.log.Debug("Aggregated managers", "submissions", len(subs), "managers", len(out))
	return out, nil
}

func (s *aggregationService) Manager(ctx context.Context, managerName string) (aggregate.AggregatedSubmission, error) {
	name := strings.TrimSpace(managerName)
	if name == "" {
		return aggregate.AggregatedSubmission{}, fmt.Errorf("%w: manager name required", apperr.ErrInvalidArgument)
	}
	start := time.Now()
	subs, agg, err := s.load(ctx, repos.SubmissionFilter{ManagerName: name})
	if err != nil {
		return aggregate.AggregatedSubmission{}, err
	}
	out, ok := agg.ForManager(subs, name)
	observability.Current().ObserveAggregation(time.Since(start))
	if !ok {
		return aggregate.AggregatedSubmission{}, &NoDataError{ManagerName: name}
	}
	return out, nil
}

func (s *aggregationService) Comparison(ctx context.Context, managerName string) (compare.Comparison, aggregate.AggregatedSubmission, error) {
	agg, err := s.Manager(ctx, managerName)
	if err != nil {
		return compare.Comparison{}, aggregate.AggregatedSubmission{}, err
	}
	return compare.Build(agg), agg, nil
}
