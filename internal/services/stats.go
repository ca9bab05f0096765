package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/feedback360-backend/internal/data/repos"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type Stats struct {
	TotalSubmissions int64                `json:"total_submissions"`
	ByRole           map[types.Role]int64 `json:"by_role"`
	CompletedToday   int64                `json:"completed_today"`
	ManagerCount     int                  `json:"manager_count"`
}

type StatsService interface {
	Get(ctx context.Context) (Stats, error)
}

type statsService struct {
	db             *gorm.DB
	log            *logger.Logger
	submissionRepo repos.SubmissionRepo
	aggregation    AggregationService
	now            func() time.Time
}

func NewStatsService(db *gorm.DB, log *logger.Logger, submissionRepo repos.SubmissionRepo, aggregation AggregationService) StatsService {
	return &statsService{
		db:             db,
		log:            log.With("service", "StatsService"),
		submissionRepo: submissionRepo,
		aggregation:    aggregation,
		now:            time.Now,
	}
}

func (s *statsService) Get(ctx context.Context) (Stats, error) {
	byRole, err := s.submissionRepo.CountByRole(ctx, s.db, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("count submissions: %w", err)
	}
	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	today, err := s.submissionRepo.CountByRole(ctx, s.db, &midnight)
	if err != nil {
		return Stats{}, fmt.Errorf("count today's submissions: %w", err)
	}
	managers, err := s.aggregation.Managers(ctx)
	if err != nil {
		return Stats{}, err
	}

	out := Stats{ByRole: map[types.Role]int64{}, ManagerCount: len(managers)}
	for _, r := range []types.Role{types.RoleSelf, types.RolePeer, types.RoleDirect, types.RoleManager, types.RoleCustom} {
		out.ByRole[r] = byRole[r]
		out.TotalSubmissions += byRole[r]
		out.CompletedToday += today[r]
	}
	return out, nil
}
