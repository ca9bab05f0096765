package seed

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/feedback360-backend/internal/domain/survey"
)

// SurveyDefaultsEnv points at a YAML file that replaces the embedded defaults.
const SurveyDefaultsEnv = "SURVEY_DEFAULTS_YAML"

//go:embed default_survey.yaml
var defaultsFS embed.FS

var (
	defaultsOnce sync.Once
	defaults     survey.Config
	defaultsErr  error
)

// DefaultConfig returns a fresh copy of the seed survey definition.
func DefaultConfig() (survey.Config, error) {
	defaultsOnce.Do(func() {
		defaults, defaultsErr = loadDefaults()
	})
	if defaultsErr != nil {
		return survey.Config{}, defaultsErr
	}
	return clone(defaults), nil
}

func loadDefaults() (survey.Config, error) {
	data, err := readDefaults()
	if err != nil {
		return survey.Config{}, err
	}
	return Parse(data)
}

// Parse decodes and validates a survey definition document.
func Parse(data []byte) (survey.Config, error) {
	var cfg survey.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return survey.Config{}, fmt.Errorf("decode survey defaults: %w", err)
	}
	if cfg.Empty() {
		return survey.Config{}, fmt.Errorf("survey defaults define no sections")
	}
	if err := cfg.Validate(); err != nil {
		return survey.Config{}, err
	}
	return cfg, nil
}

func readDefaults() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(SurveyDefaultsEnv)); path != "" {
		return os.ReadFile(path)
	}
	return defaultsFS.ReadFile("default_survey.yaml")
}

func clone(cfg survey.Config) survey.Config {
	var out survey.Config
	for _, r := range survey.AggregateRoles {
		src := cfg.Sections(r)
		sections := make([]survey.Section, len(src))
		for i, s := range src {
			s.Questions = append([]survey.Question(nil), s.Questions...)
			sections[i] = s
		}
		out.SetSections(r, sections)
	}
	return out
}
