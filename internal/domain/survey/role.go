package survey

import (
	"fmt"
	"strings"
)

// Role is the respondent's relationship to the manager being rated.
type Role string

const (
	RoleSelf    Role = "self"
	RolePeer    Role = "peer"
	RoleDirect  Role = "direct"
	RoleManager Role = "manager"
	RoleCustom  Role = "custom"
)

// AggregateRoles are the roles that take part in score aggregation, in the
// order rollups are reported.
var AggregateRoles = []Role{RoleSelf, RolePeer, RoleDirect, RoleManager}

// OtherRoles are the non-self roles whose scores form the "others" composite.
// Order also decides which rollup supplies a section title first.
var OtherRoles = []Role{RolePeer, RoleDirect, RoleManager}

func (r Role) Valid() bool {
	switch r {
	case RoleSelf, RolePeer, RoleDirect, RoleManager, RoleCustom:
		return true
	}
	return false
}

func (r Role) Aggregated() bool {
	return r.Valid() && r != RoleCustom
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
