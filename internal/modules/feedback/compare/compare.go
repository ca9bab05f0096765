// Package compare contrasts a manager's self-assessment with the weighted
// view of their peers, direct reports and managers.
package compare

import (
	"math"

	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/aggregate"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/response"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/score"
)

// Differences are compared in whole tenths so that scores such as 4.3 vs 4.0
// land exactly on a threshold instead of either side of it.
const (
	insightThresholdTenths = 3
	calloutThresholdTenths = 5
)

type Row struct {
	SectionID    string  `json:"section_id"`
	QuestionID   string  `json:"question_id"`
	QuestionText string  `json:"question_text"`
	OthersScore  float64 `json:"others_score"`
	SelfScore    float64 `json:"self_score"`
}

// Difference is |others - self| rounded to one decimal.
func (r Row) Difference() float64 {
	return score.Round1(math.Abs(r.OthersScore - r.SelfScore))
}

// Callout reports whether the gap is wide enough to highlight.
func (r Row) Callout() bool {
	return tenths(r.OthersScore-r.SelfScore) > calloutThresholdTenths ||
		tenths(r.SelfScore-r.OthersScore) > calloutThresholdTenths
}

type Group struct {
	SectionTitle string `json:"section_title"`
	Rows         []Row  `json:"rows"`
}

type InsightKind string

const (
	InsightOthersHigher InsightKind = "others_higher"
	InsightSelfHigher   InsightKind = "self_higher"
	InsightAligned      InsightKind = "aligned"
)

type Insight struct {
	Kind       InsightKind `json:"kind"`
	Difference float64     `json:"difference"`
	Message    string      `json:"message"`
}

type RoleScore struct {
	Role  survey.Role `json:"role"`
	Score float64     `json:"score"`
	Count int         `json:"count"`
	Band  string      `json:"band"`
}

// Competency is one section title scored separately for every role.
type Competency struct {
	Title  string                  `json:"title"`
	Scores map[survey.Role]float64 `json:"scores"`
}

type Comparison struct {
	ManagerName      string       `json:"manager_name"`
	Groups           []Group      `json:"groups"`
	RoleScores       []RoleScore  `json:"role_scores"`
	OthersLeadership float64      `json:"leadership_score_from_others"`
	SelfLeadership   float64      `json:"self_leadership_score"`
	Insight          Insight      `json:"insight"`
	Competencies     []Competency `json:"competencies"`
	RespondentCount  int          `json:"respondent_count"`
	QuestionCount    int          `json:"question_count"`
}

// Rows flattens the groups in display order.
func (c *Comparison) Rows() []Row {
	var out []Row
	for _, g := range c.Groups {
		out = append(out, g.Rows...)
	}
	return out
}

// titleOrder decides which rollup supplies a section title first.
var titleOrder = []survey.Role{survey.RolePeer, survey.RoleDirect, survey.RoleManager, survey.RoleSelf}

type questionKey struct{ section, question string }

type rowAcc struct {
	row   Row
	title string
}

// Build derives the comparison for one aggregated submission.
func Build(agg aggregate.AggregatedSubmission) Comparison {
	counts := agg.SurveyTypeCounts

	var (
		order []questionKey
		rows  = map[questionKey]*rowAcc{}
	)
	for _, r := range titleOrder {
		for _, s := range agg.SectionsFor(r) {
			for _, q := range s.Questions {
				k := questionKey{s.ID, q.QuestionID}
				if _, ok := rows[k]; ok {
					continue
				}
				rows[k] = &rowAcc{
					row:   Row{SectionID: s.ID, QuestionID: q.QuestionID, QuestionText: q.QuestionText},
					title: s.Title,
				}
				order = append(order, k)
			}
		}
	}

	others := map[survey.Role]map[questionKey]response.Histogram{}
	for _, r := range survey.AggregateRoles {
		others[r] = index(agg.SectionsFor(r))
	}

	for _, k := range order {
		acc := rows[k]
		var weighted, weight float64
		for _, r := range survey.OtherRoles {
			h, ok := others[r][k]
			if !ok {
				continue
			}
			w := float64(counts.Get(r))
			weighted += score.Calculate(h) * w
			weight += w
		}
		if weight > 0 {
			acc.row.OthersScore = score.Round1(weighted / weight)
		}
		if h, ok := others[survey.RoleSelf][k]; ok {
			acc.row.SelfScore = score.Calculate(h)
		}
	}

	var (
		groupOrder []string
		groups     = map[string]*Group{}
	)
	for _, k := range order {
		acc := rows[k]
		g, ok := groups[acc.title]
		if !ok {
			g = &Group{SectionTitle: acc.title}
			groups[acc.title] = g
			groupOrder = append(groupOrder, acc.title)
		}
		g.Rows = append(g.Rows, acc.row)
	}

	out := Comparison{
		ManagerName:     agg.ManagerName,
		Groups:          make([]Group, 0, len(groupOrder)),
		RespondentCount: counts.Total(),
		QuestionCount:   len(order),
	}
	for _, t := range groupOrder {
		out.Groups = append(out.Groups, *groups[t])
	}

	var weighted float64
	var total int
	for _, r := range []survey.Role{survey.RolePeer, survey.RoleDirect, survey.RoleManager, survey.RoleSelf} {
		s := roleOverall(agg.SectionsFor(r))
		c := counts.Get(r)
		out.RoleScores = append(out.RoleScores, RoleScore{Role: r, Score: s, Count: c, Band: score.Describe(s)})
		if r == survey.RoleSelf {
			out.SelfLeadership = s
			continue
		}
		if c > 0 {
			weighted += s * float64(c)
			total += c
		}
	}
	if total > 0 {
		out.OthersLeadership = score.Round1(weighted / float64(total))
	}
	out.Insight = NewInsight(out.OthersLeadership, out.SelfLeadership)
	out.Competencies = competencies(agg)
	return out
}

// NewInsight classifies the gap between the others and self scores.
func NewInsight(others, self float64) Insight {
	diff := score.Round1(math.Abs(others - self))
	switch {
	case tenths(others-self) > insightThresholdTenths:
		return Insight{Kind: InsightOthersHigher, Difference: diff, Message: "Others rate leadership higher than self-assessment"}
	case tenths(self-others) > insightThresholdTenths:
		return Insight{Kind: InsightSelfHigher, Difference: diff, Message: "Self-assessment higher than others' ratings"}
	default:
		return Insight{Kind: InsightAligned, Difference: diff, Message: "Self and others' assessments are well aligned"}
	}
}

func tenths(x float64) int {
	return int(math.Round(x * 10))
}

func index(sections []aggregate.SectionRollup) map[questionKey]response.Histogram {
	out := map[questionKey]response.Histogram{}
	for _, s := range sections {
		for _, q := range s.Questions {
			out[questionKey{s.ID, q.QuestionID}] = q.Responses
		}
	}
	return out
}

func roleOverall(sections []aggregate.SectionRollup) float64 {
	hs := make([][]response.Histogram, len(sections))
	for i, s := range sections {
		hs[i] = s.Histograms()
	}
	return score.Overall(hs)
}

func competencies(agg aggregate.AggregatedSubmission) []Competency {
	type seenKey struct {
		title string
		role  survey.Role
	}
	var order []string
	byTitle := map[string]*Competency{}
	seen := map[seenKey]bool{}
	for _, r := range titleOrder {
		for _, s := range agg.SectionsFor(r) {
			c, ok := byTitle[s.Title]
			if !ok {
				c = &Competency{Title: s.Title, Scores: map[survey.Role]float64{}}
				for _, role := range survey.AggregateRoles {
					c.Scores[role] = 0
				}
				byTitle[s.Title] = c
				order = append(order, s.Title)
			}
			if seen[seenKey{s.Title, r}] {
				continue
			}
			seen[seenKey{s.Title, r}] = true
			c.Scores[r] = score.Section(s.Histograms())
		}
	}
	out := make([]Competency, 0, len(order))
	for _, t := range order {
		out = append(out, *byTitle[t])
	}
	return out
}
