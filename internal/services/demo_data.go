package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/feedback360-backend/internal/data/repos"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/demodata"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

const MaxDemoPerRole = 50

type DemoDataRequest struct {
	ManagerName string `json:"manager_name"`
	PerRole     int    `json:"per_role"`
	// Seed makes the generated answers reproducible. Zero picks a time seed.
	Seed int64 `json:"seed"`
}

type DemoDataService interface {
	Generate(ctx context.Context, req DemoDataRequest) ([]*types.Submission, error)
}

type demoDataService struct {
	log          *logger.Logger
	surveyConfig repos.SurveyConfigRepository
	submissions  SubmissionService
}

func NewDemoDataService(log *logger.Logger, surveyConfig repos.SurveyConfigRepository, submissions SubmissionService) DemoDataService {
	return &demoDataService{
		log:          log.With("service", "DemoDataService"),
		surveyConfig: surveyConfig,
		submissions:  submissions,
	}
}

func (ds *demoDataService) Generate(ctx context.Context, req DemoDataRequest) ([]*types.Submission, error) {
	if req.PerRole < 0 || req.PerRole > MaxDemoPerRole {
		return nil, fmt.Errorf("%w: per_role must be between 0 and %d", apperr.ErrInvalidArgument, MaxDemoPerRole)
	}
	cfg, err := ds.surveyConfig.Load(ctx)
	if err != nil {
		return nil, err
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	subs := demodata.New(seed).Generate(cfg, demodata.Options{
		ManagerName: req.ManagerName,
		PerRole:     req.PerRole,
		Now:         time.Now().UTC(),
	})
	created, err := ds.submissions.Import(ctx, subs)
	if err != nil {
		return nil, err
	}
	ds.log.Info("Demo data generated", "manager_name", created[0].ManagerName, "count", len(created), "seed", seed)
	return created, nil
}
