package settings

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is a single JSON document stored under a well-known key.
type Setting struct {
	Key       string         `gorm:"primaryKey;column:key" json:"key"`
	Value     datatypes.JSON `gorm:"column:value" json:"value"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Setting) TableName() string { return "setting" }

const KeySurveyConfig = "survey_config"
