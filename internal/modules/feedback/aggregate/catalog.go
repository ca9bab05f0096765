package aggregate

import "github.com/yungbote/feedback360-backend/internal/domain/survey"

// Catalog resolves display text for section and question ids.
type Catalog interface {
	SectionTitle(sectionID string) string
	QuestionText(role survey.Role, sectionID, questionID string) string
}

var sectionTitles = map[string]string{
	"building-trust":            "Building Trust",
	"communicating-effectively": "Communicating Effectively",
	"collaborating-effectively": "Collaborating Effectively",
	"driving-accountability":    "Driving Accountability and Results",
	"motivating-others":         "Motivating Others",
	"developing-others":         "Developing Others",
	// ids used by earlier survey revisions
	"trust":          "Trust & Integrity",
	"communication":  "Communication",
	"collaboration":  "Collaboration & Teamwork",
	"accountability": "Accountability & Results",
	"motivation":     "Motivation & Development",
	"development":    "Strategic Leadership",
}

// SurveyCatalog resolves titles from the static section table and question
// text from a survey definition.
type SurveyCatalog struct {
	sectionTitles map[string]string
	questions     map[survey.Role]map[string]map[string]string
	sectionRank   map[string]int
	questionRank  map[string]map[string]int
}

func NewCatalog(cfg survey.Config) *SurveyCatalog {
	c := &SurveyCatalog{
		sectionTitles: map[string]string{},
		questions:     map[survey.Role]map[string]map[string]string{},
		sectionRank:   map[string]int{},
		questionRank:  map[string]map[string]int{},
	}
	for _, r := range survey.AggregateRoles {
		byID := map[string]map[string]string{}
		for _, s := range cfg.Sections(r) {
			if _, ok := c.sectionTitles[s.ID]; !ok && s.Title != "" {
				c.sectionTitles[s.ID] = s.Title
			}
			if _, ok := c.sectionRank[s.ID]; !ok {
				c.sectionRank[s.ID] = len(c.sectionRank)
				c.questionRank[s.ID] = map[string]int{}
			}
			qs := make(map[string]string, len(s.Questions))
			for _, q := range s.Questions {
				qs[q.ID] = q.Text
				if _, ok := c.questionRank[s.ID][q.ID]; !ok {
					c.questionRank[s.ID][q.ID] = len(c.questionRank[s.ID])
				}
			}
			byID[s.ID] = qs
		}
		c.questions[r] = byID
	}
	return c
}

func (c *SurveyCatalog) SectionTitle(sectionID string) string {
	if t, ok := sectionTitles[sectionID]; ok {
		return t
	}
	if c != nil {
		if t, ok := c.sectionTitles[sectionID]; ok {
			return t
		}
	}
	return sectionID
}

// QuestionText prefers the asking role's wording, then the third-person
// wording of the other roles, then the self wording, then the raw id.
func (c *SurveyCatalog) QuestionText(role survey.Role, sectionID, questionID string) string {
	if c == nil {
		return questionID
	}
	order := append([]survey.Role{role}, survey.OtherRoles...)
	order = append(order, survey.RoleSelf)
	for _, r := range order {
		if text := c.questions[r][sectionID][questionID]; text != "" {
			return text
		}
	}
	return questionID
}

func (c *SurveyCatalog) SectionRank(sectionID string) (int, bool) {
	if c == nil {
		return 0, false
	}
	r, ok := c.sectionRank[sectionID]
	return r, ok
}

func (c *SurveyCatalog) QuestionRank(sectionID, questionID string) (int, bool) {
	if c == nil {
		return 0, false
	}
	r, ok := c.questionRank[sectionID][questionID]
	return r, ok
}
