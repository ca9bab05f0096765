package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/feedback360-backend/internal/data/repos"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/observability"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"github.com/yungbote/feedback360-backend/internal/realtime"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmissionInput is what a respondent sends; the role comes from the session.
type SubmissionInput struct {
	ManagerID   string          `json:"manager_id"`
	ManagerName string          `json:"manager_name"`
	Responses   types.Responses `json:"responses"`
	Comments    string          `json:"comments"`
	Location    string          `json:"location"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type SubmissionService interface {
	Submit(ctx context.Context, role types.Role, in SubmissionInput) (*types.Submission, error)
	Import(ctx context.Context, subs []*types.Submission) ([]*types.Submission, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Submission, error)
	List(ctx context.Context, filter repos.SubmissionFilter) ([]*types.Submission, error)
	Update(ctx context.Context, id uuid.UUID, upd repos.SubmissionUpdate) (*types.Submission, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error)
	Clear(ctx context.Context) (int64, error)
	DeleteManager(ctx context.Context, managerName string) (int64, error)
}

type submissionService struct {
	db             *gorm.DB
	log            *logger.Logger
	submissionRepo repos.SubmissionRepo
	emitter        realtime.Emitter
}

func NewSubmissionService(db *gorm.DB, log *logger.Logger, submissionRepo repos.SubmissionRepo, emitter realtime.Emitter) SubmissionService {
	if emitter == nil {
		emitter = realtime.Nop()
	}
	return &submissionService{
		db:             db,
		log:            log.With("service", "SubmissionService"),
		submissionRepo: submissionRepo,
		emitter:        emitter,
	}
}

type submissionEvent struct {
	ID          uuid.UUID  `json:"id"`
	Role        types.Role `json:"role"`
	ManagerName string     `json:"manager_name"`
}

func (ss *submissionService) emit(ctx context.Context, event realtime.SSEEvent, data any) {
	ss.emitter.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelAdmin, Event: event, Data: data})
}

func (ss *submissionService) Submit(ctx context.Context, role types.Role, in SubmissionInput) (*types.Submission, error) {
	if !role.Aggregated() {
		return nil, fmt.Errorf("%w: role %q cannot submit the leadership survey", apperr.ErrInvalidArgument, role)
	}
	if in.Responses.Count() == 0 {
		return nil, fmt.Errorf("%w: no responses", apperr.ErrInvalidArgument)
	}
	sub := &types.Submission{
		Role:        role,
		ManagerID:   strings.TrimSpace(in.ManagerID),
		ManagerName: strings.TrimSpace(in.ManagerName),
		Responses:   datatypes.NewJSONType(in.Responses),
		Comments:    in.Comments,
		Status:      types.StatusCompleted,
		IPAddress:   in.IPAddress,
		UserAgent:   in.UserAgent,
		Location:    strings.TrimSpace(in.Location),
		SubmittedAt: time.Now().UTC(),
	}
	created, err := ss.submissionRepo.Create(ctx, ss.db, []*types.Submission{sub})
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	out := created[0]
	ss.log.Info("Submission stored", "submission_id", out.ID, "role", role, "manager_name", out.ManagerName, "answers", in.Responses.Count())
	observability.Current().IncSubmission(string(role), "created")
	ss.emit(ctx, realtime.SSEEventSubmissionCreated, submissionEvent{ID: out.ID, Role: out.Role, ManagerName: out.ManagerName})
	return out, nil
}

// Import stores pre-built submissions, such as generated demo data, in one
// transaction.
func (ss *submissionService) Import(ctx context.Context, subs []*types.Submission) ([]*types.Submission, error) {
	var created []*types.Submission
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = ss.submissionRepo.Create(ctx, tx, subs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("import submissions: %w", err)
	}
	for _, s := range created {
		observability.Current().IncSubmission(string(s.Role), "imported")
		ss.emit(ctx, realtime.SSEEventSubmissionCreated, submissionEvent{ID: s.ID, Role: s.Role, ManagerName: s.ManagerName})
	}
	ss.log.Info("Submissions imported", "count", len(created))
	return created, nil
}

func (ss *submissionService) Get(ctx context.Context, id uuid.UUID) (*types.Submission, error) {
	return ss.submissionRepo.GetByID(ctx, ss.db, id)
}

func (ss *submissionService) List(ctx context.Context, filter repos.SubmissionFilter) ([]*types.Submission, error) {
	subs, err := ss.submissionRepo.List(ctx, ss.db, filter)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

func (ss *submissionService) Update(ctx context.Context, id uuid.UUID, upd repos.SubmissionUpdate) (*types.Submission, error) {
	updated, err := ss.submissionRepo.Update(ctx, ss.db, id, upd)
	if err != nil {
		return nil, err
	}
	ss.log.Info("Submission updated", "submission_id", id)
	observability.Current().IncSubmission(string(updated.Role), "updated")
	ss.emit(ctx, realtime.SSEEventSubmissionUpdated, submissionEvent{ID: updated.ID, Role: updated.Role, ManagerName: updated.ManagerName})
	return updated, nil
}

func (ss *submissionService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := ss.submissionRepo.DeleteByIDs(ctx, ss.db, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("submission %s: %w", id, apperr.ErrNotFound)
	}
	ss.log.Info("Submission deleted", "submission_id", id)
	ss.emit(ctx, realtime.SSEEventSubmissionDeleted, map[string]any{"ids": []uuid.UUID{id}})
	return nil
}

func (ss *submissionService) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no ids", apperr.ErrInvalidArgument)
	}
	n, err := ss.submissionRepo.DeleteByIDs(ctx, ss.db, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete submissions: %w", err)
	}
	ss.log.Info("Submissions bulk deleted", "requested", len(ids), "deleted", n)
	ss.emit(ctx, realtime.SSEEventSubmissionDeleted, map[string]any{"ids": ids, "deleted": n})
	return n, nil
}

func (ss *submissionService) Clear(ctx context.Context) (int64, error) {
	n, err := ss.submissionRepo.DeleteAll(ctx, ss.db)
	if err != nil {
		return 0, fmt.Errorf("clear submissions: %w", err)
	}
	ss.log.Warn("All submissions cleared", "deleted", n)
	ss.emit(ctx, realtime.SSEEventSubmissionDeleted, map[string]any{"all": true, "deleted": n})
	return n, nil
}

// DeleteManager removes every leadership submission filed about managerName.
func (ss *submissionService) DeleteManager(ctx context.Context, managerName string) (int64, error) {
	name := strings.TrimSpace(managerName)
	if name == "" {
		return 0, fmt.Errorf("%w: manager name required", apperr.ErrInvalidArgument)
	}
	n, err := ss.submissionRepo.DeleteByManager(ctx, ss.db, name)
	if err != nil {
		return 0, fmt.Errorf("delete manager submissions: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("manager %q: %w", name, apperr.ErrNotFound)
	}
	ss.log.Info("Manager submissions deleted", "manager_name", name, "deleted", n)
	ss.emit(ctx, realtime.SSEEventManagerDeleted, map[string]any{"manager_name": name, "deleted": n})
	return n, nil
}
