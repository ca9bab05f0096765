package auth

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

type RoleCredentialRepo interface {
	Get(ctx context.Context, tx *gorm.DB, access types.Access) (*types.RoleCredential, error)
	// Upsert replaces the stored hash for access.
	Upsert(ctx context.Context, tx *gorm.DB, access types.Access, passwordHash string) error
	// Seed inserts the hash only when no credential exists for access yet.
	Seed(ctx context.Context, tx *gorm.DB, access types.Access, passwordHash string) (bool, error)
}

type roleCredentialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoleCredentialRepo(db *gorm.DB, baseLog *logger.Logger) RoleCredentialRepo {
	return &roleCredentialRepo{db: db, log: baseLog.With("repo", "RoleCredentialRepo")}
}

func (r *roleCredentialRepo) Get(ctx context.Context, tx *gorm.DB, access types.Access) (*types.RoleCredential, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var cred types.RoleCredential
	err := transaction.WithContext(ctx).Where("access = ?", access).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("credential %s: %w", access, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *roleCredentialRepo) Upsert(ctx context.Context, tx *gorm.DB, access types.Access, passwordHash string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	row := &types.RoleCredential{Access: access, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "access"}},
			DoUpdates: clause.AssignmentColumns([]string{"password_hash", "updated_at"}),
		}).
		Create(row).Error
}

func (r *roleCredentialRepo) Seed(ctx context.Context, tx *gorm.DB, access types.Access, passwordHash string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	row := &types.RoleCredential{Access: access, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	res := transaction.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
