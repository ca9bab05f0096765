package services

import (
	"context"
	"fmt"
	"io"

	"github.com/yungbote/feedback360-backend/internal/data/repos"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/export"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

type ExportService interface {
	Submissions(ctx context.Context, w io.Writer, f export.Format, filter repos.SubmissionFilter) (int, error)
	Manager(ctx context.Context, w io.Writer, f export.Format, managerName string) error
}

type exportService struct {
	log         *logger.Logger
	submissions SubmissionService
	aggregation AggregationService
}

func NewExportService(log *logger.Logger, submissions SubmissionService, aggregation AggregationService) ExportService {
	return &exportService{
		log:         log.With("service", "ExportService"),
		submissions: submissions,
		aggregation: aggregation,
	}
}

// Submissions writes the filtered submissions and returns how many were written.
func (es *exportService) Submissions(ctx context.Context, w io.Writer, f export.Format, filter repos.SubmissionFilter) (int, error) {
	subs, err := es.submissions.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	if err := export.WriteSubmissions(w, f, subs); err != nil {
		return 0, fmt.Errorf("write submissions: %w", err)
	}
	es.log.Info("Submissions exported", "format", f, "count", len(subs))
	return len(subs), nil
}

func (es *exportService) Manager(ctx context.Context, w io.Writer, f export.Format, managerName string) error {
	agg, err := es.aggregation.Manager(ctx, managerName)
	if err != nil {
		return err
	}
	if err := export.WriteManager(w, f, agg); err != nil {
		return fmt.Errorf("write manager export: %w", err)
	}
	es.log.Info("Manager exported", "format", f, "manager_name", agg.ManagerName)
	return nil
}
