package survey

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CustomSurveyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, s *types.CustomSurvey) (*types.CustomSurvey, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CustomSurvey, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.CustomSurvey, error)
	Save(ctx context.Context, tx *gorm.DB, s *types.CustomSurvey) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type customSurveyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomSurveyRepo(db *gorm.DB, baseLog *logger.Logger) CustomSurveyRepo {
	return &customSurveyRepo{db: db, log: baseLog.With("repo", "CustomSurveyRepo")}
}

func (r *customSurveyRepo) Create(ctx context.Context, tx *gorm.DB, s *types.CustomSurvey) (*types.CustomSurvey, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *customSurveyRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CustomSurvey, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var s types.CustomSurvey
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("custom survey %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *customSurveyRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.CustomSurvey, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.CustomSurvey{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []*types.CustomSurvey
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *customSurveyRepo) Save(ctx context.Context, tx *gorm.DB, s *types.CustomSurvey) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Model(s).Select("*").Omit("created_at").Updates(s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("custom survey %s: %w", s.ID, apperr.ErrNotFound)
	}
	return nil
}

func (r *customSurveyRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.CustomSurvey{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("custom survey %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
