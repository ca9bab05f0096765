package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	domainfeedback "github.com/yungbote/feedback360-backend/internal/domain/feedback"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionFilter struct {
	Role           survey.Role
	ManagerName    string
	CustomSurveyID *uuid.UUID
	Since          *time.Time
}

// SubmissionUpdate carries the fields an admin may edit. Nil means unchanged.
type SubmissionUpdate struct {
	ManagerID   *string
	ManagerName *string
	Comments    *string
	Responses   *types.Responses
}

type SubmissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, subs []*types.Submission) ([]*types.Submission, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Submission, error)
	List(ctx context.Context, tx *gorm.DB, filter SubmissionFilter) ([]*types.Submission, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, upd SubmissionUpdate) (*types.Submission, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
	DeleteByManager(ctx context.Context, tx *gorm.DB, managerName string) (int64, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error)
	CountByRole(ctx context.Context, tx *gorm.DB, since *time.Time) (map[survey.Role]int64, error)
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	repoLog := baseLog.With("repo", "SubmissionRepo")
	return &submissionRepo{db: db, log: repoLog}
}

func (r *submissionRepo) tx(tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return r.db
	}
	return tx
}

func (r *submissionRepo) Create(ctx context.Context, tx *gorm.DB, subs []*types.Submission) ([]*types.Submission, error) {
	if len(subs) == 0 {
		return []*types.Submission{}, nil
	}
	if err := r.tx(tx).WithContext(ctx).Create(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *submissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Submission, error) {
	var sub types.Submission
	err := r.tx(tx).WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("submission %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) List(ctx context.Context, tx *gorm.DB, filter SubmissionFilter) ([]*types.Submission, error) {
	q := r.tx(tx).WithContext(ctx).Model(&types.Submission{})
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.ManagerName != "" {
		q = whereManager(q, filter.ManagerName)
	}
	if filter.CustomSurveyID != nil {
		q = q.Where("custom_survey_id = ?", *filter.CustomSurveyID)
	}
	if filter.Since != nil {
		q = q.Where("submitted_at >= ?", *filter.Since)
	}
	var results []*types.Submission
	if err := q.Order("submitted_at ASC").Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *submissionRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, upd SubmissionUpdate) (*types.Submission, error) {
	now := time.Now().UTC()
	updates := map[string]any{"last_modified": now}
	if upd.ManagerID != nil {
		updates["manager_id"] = strings.TrimSpace(*upd.ManagerID)
	}
	if upd.ManagerName != nil {
		updates["manager_name"] = strings.TrimSpace(*upd.ManagerName)
	}
	if upd.Comments != nil {
		updates["comments"] = *upd.Comments
	}
	if upd.Responses != nil {
		updates["responses"] = datatypes.NewJSONType(*upd.Responses)
	}

	transaction := r.tx(tx).WithContext(ctx)
	res := transaction.Model(&types.Submission{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("submission %s: %w", id, apperr.ErrNotFound)
	}
	return r.GetByID(ctx, tx, id)
}

func (r *submissionRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.tx(tx).WithContext(ctx).Where("id IN ?", ids).Delete(&types.Submission{})
	return res.RowsAffected, res.Error
}

func (r *submissionRepo) DeleteByManager(ctx context.Context, tx *gorm.DB, managerName string) (int64, error) {
	res := whereManager(r.tx(tx).WithContext(ctx), managerName).
		Where("role <> ?", survey.RoleCustom).
		Delete(&types.Submission{})
	return res.RowsAffected, res.Error
}

func (r *submissionRepo) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	res := r.tx(tx).WithContext(ctx).Where("1 = 1").Delete(&types.Submission{})
	return res.RowsAffected, res.Error
}

func (r *submissionRepo) CountByRole(ctx context.Context, tx *gorm.DB, since *time.Time) (map[survey.Role]int64, error) {
	type row struct {
		Role  survey.Role
		Count int64
	}
	q := r.tx(tx).WithContext(ctx).Model(&types.Submission{}).Select("role, COUNT(*) AS count")
	if since != nil {
		q = q.Where("submitted_at >= ?", *since)
	}
	var rows []row
	if err := q.Group("role").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[survey.Role]int64, len(rows))
	for _, rw := range rows {
		out[rw.Role] = rw.Count
	}
	return out, nil
}

// whereManager matches the grouping identity used by aggregation: trimmed
// name, with blank names grouped under the unknown manager.
func whereManager(q *gorm.DB, managerName string) *gorm.DB {
	key := domainfeedback.ManagerKey(managerName)
	if key == domainfeedback.UnknownManager {
		return q.Where("(TRIM(COALESCE(manager_name, '')) = '' OR TRIM(manager_name) = ?)", key)
	}
	return q.Where("TRIM(manager_name) = ?", key)
}
