package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	types "github.com/yungbote/feedback360-backend/internal/domain"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepo interface {
	Get(ctx context.Context, tx *gorm.DB, key string) (*types.Setting, error)
	Put(ctx context.Context, tx *gorm.DB, key string, value []byte) error
	Delete(ctx context.Context, tx *gorm.DB, key string) error
}

type settingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingRepo(db *gorm.DB, baseLog *logger.Logger) SettingRepo {
	return &settingRepo{db: db, log: baseLog.With("repo", "SettingRepo")}
}

func (r *settingRepo) Get(ctx context.Context, tx *gorm.DB, key string) (*types.Setting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var s types.Setting
	err := transaction.WithContext(ctx).Where("key = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("setting %q: %w", key, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Put replaces the whole document stored under key.
func (r *settingRepo) Put(ctx context.Context, tx *gorm.DB, key string, value []byte) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	row := &types.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(row).Error
}

func (r *settingRepo) Delete(ctx context.Context, tx *gorm.DB, key string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("key = ?", key).Delete(&types.Setting{}).Error
}
