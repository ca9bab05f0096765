package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/feedback360-backend/internal/domain/survey"
)

// Access is what a session token grants: one respondent role or admin.
type Access string

const (
	AccessAdmin   Access = "admin"
	AccessSelf    Access = Access(survey.RoleSelf)
	AccessPeer    Access = Access(survey.RolePeer)
	AccessDirect  Access = Access(survey.RoleDirect)
	AccessManager Access = Access(survey.RoleManager)
)

var AllAccess = []Access{AccessAdmin, AccessSelf, AccessPeer, AccessDirect, AccessManager}

func ParseAccess(s string) (Access, error) {
	a := Access(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllAccess {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown access %q", s)
}

// Role returns the survey role a respondent access submits as.
func (a Access) Role() (survey.Role, bool) {
	if a == AccessAdmin {
		return "", false
	}
	r := survey.Role(a)
	return r, r.Aggregated()
}

// RoleCredential stores the shared password for one access kind.
type RoleCredential struct {
	Access       Access    `gorm:"primaryKey;column:access" json:"access"`
	PasswordHash string    `gorm:"not null;column:password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (RoleCredential) TableName() string { return "role_credential" }
