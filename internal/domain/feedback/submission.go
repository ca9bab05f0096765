package feedback

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Answer is a raw response value. Clients send either strings ("4", "often")
// or bare numbers; both decode to their textual form.
type Answer string

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Answer(s)
		return nil
	}
	if f, err := strconv.ParseFloat(string(data), 64); err == nil {
		*a = Answer(formatNumber(f))
		return nil
	}
	*a = Answer(data)
	return nil
}

// formatNumber renders whole numbers without a fraction, so 4.0 reads as "4".
func formatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Responses maps section id -> question id -> answer.
type Responses map[string]map[string]Answer

// Count returns the number of non-empty answers.
func (r Responses) Count() int {
	n := 0
	for _, qs := range r {
		for _, v := range qs {
			if v != "" {
				n++
			}
		}
	}
	return n
}

type Submission struct {
	ID             uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	Role           survey.Role                   `gorm:"not null;index;column:role" json:"role"`
	ManagerID      string                        `gorm:"column:manager_id" json:"manager_id"`
	ManagerName    string                        `gorm:"index;column:manager_name" json:"manager_name"`
	CustomSurveyID *uuid.UUID                    `gorm:"type:uuid;index;column:custom_survey_id" json:"custom_survey_id,omitempty"`
	Responses      datatypes.JSONType[Responses] `gorm:"column:responses" json:"responses"`
	Comments       string                        `gorm:"column:comments" json:"comments"`
	Status         string                        `gorm:"not null;default:completed;column:status" json:"status"`
	IPAddress      string                        `gorm:"column:ip_address" json:"ip_address,omitempty"`
	UserAgent      string                        `gorm:"column:user_agent" json:"user_agent,omitempty"`
	Location       string                        `gorm:"column:location" json:"location,omitempty"`
	SubmittedAt    time.Time                     `gorm:"not null;index;column:submitted_at" json:"submitted_at"`
	LastModified   *time.Time                    `gorm:"column:last_modified" json:"last_modified,omitempty"`
	CreatedAt      time.Time                     `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time                     `gorm:"not null" json:"updated_at"`
}

func (Submission) TableName() string { return "submission" }

func (s *Submission) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now().UTC()
	}
	if s.Status == "" {
		s.Status = StatusCompleted
	}
	return nil
}

// Answers returns the decoded response map, never nil.
func (s *Submission) Answers() Responses {
	r := s.Responses.Data()
	if r == nil {
		return Responses{}
	}
	return r
}

// AnonymousID is the short identifier shown in exports instead of the row id.
func (s *Submission) AnonymousID() string {
	id := s.ID.String()
	return "ANON-" + id[:8]
}

const StatusCompleted = "completed"

// UnknownManager groups submissions that carry no manager name.
const UnknownManager = "Unknown"

// ManagerKey is the grouping identity of a submission's manager.
func ManagerKey(name string) string {
	if k := strings.TrimSpace(name); k != "" {
		return k
	}
	return UnknownManager
}

// ManagerSlug is a lowercase, dash-separated form of the manager name for use
// in ids and object keys. Distinct names can share a slug.
func ManagerSlug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "unknown"
	}
	return slug
}

var managerNamespace = uuid.MustParse("3c1f5b0e-8d2a-5e57-9a40-6f0d2c7b9e11")

// ManagerRef is ManagerSlug plus a short hash of the manager key, unique per
// grouping identity.
func ManagerRef(name string) string {
	key := ManagerKey(name)
	sum := uuid.NewSHA1(managerNamespace, []byte(key)).String()
	return ManagerSlug(key) + "-" + sum[:8]
}
