package testutil

import (
	"context"
	"testing"
	"time"

	types "github.com/yungbote/feedback360-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedSubmission inserts a submission answering a single question.
func SeedSubmission(tb testing.TB, ctx context.Context, tx *gorm.DB, role types.Role, manager string, answers types.Responses) *types.Submission {
	tb.Helper()
	s := &types.Submission{
		Role:        role,
		ManagerName: manager,
		Responses:   datatypes.NewJSONType(answers),
		Comments:    string(role) + " comment",
		SubmittedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed submission: %v", err)
	}
	return s
}
