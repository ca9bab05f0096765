package survey

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionOpenEnded      QuestionType = "open-ended"
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionLikert         QuestionType = "likert-scale"
	QuestionYesNo          QuestionType = "yes-no"
)

type LikertScale struct {
	Min    int      `json:"min"`
	Max    int      `json:"max"`
	Labels []string `json:"labels,omitempty"`
}

type CustomQuestion struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Required    bool         `json:"required"`
	Options     []string     `json:"options,omitempty"`
	LikertScale *LikertScale `json:"likert_scale,omitempty"`
}

// CustomSurvey is an admin-authored questionnaire outside the leadership
// survey. Its responses are stored as custom-role submissions.
type CustomSurvey struct {
	ID             uuid.UUID                              `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string                                 `gorm:"not null;column:title" json:"title"`
	Description    string                                 `gorm:"column:description" json:"description"`
	CreatedBy      string                                 `gorm:"column:created_by" json:"created_by"`
	IsActive       bool                                   `gorm:"not null;default:true;column:is_active" json:"is_active"`
	TargetAudience string                                 `gorm:"column:target_audience" json:"target_audience"`
	Questions      datatypes.JSONType[[]CustomQuestion] `gorm:"column:questions" json:"questions"`
	CreatedAt      time.Time                              `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time                              `gorm:"not null" json:"updated_at"`
}

func (CustomSurvey) TableName() string { return "custom_survey" }

func (s *CustomSurvey) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
