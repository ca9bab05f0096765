// Package aggregate groups survey submissions by manager and role and folds
// their answers into per-question response histograms.
package aggregate

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/domain/feedback"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/response"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

type QuestionRollup struct {
	QuestionID   string             `json:"question_id"`
	QuestionText string             `json:"question_text"`
	Responses    response.Histogram `json:"responses"`
}

type SectionRollup struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Questions []QuestionRollup `json:"questions"`
}

// Histograms returns the section's question histograms in order.
func (s SectionRollup) Histograms() []response.Histogram {
	out := make([]response.Histogram, len(s.Questions))
	for i, q := range s.Questions {
		out[i] = q.Responses
	}
	return out
}

type RoleCounts struct {
	Self    int `json:"self"`
	Peer    int `json:"peer"`
	Direct  int `json:"direct"`
	Manager int `json:"manager"`
}

func (c RoleCounts) Get(r survey.Role) int {
	switch r {
	case survey.RoleSelf:
		return c.Self
	case survey.RolePeer:
		return c.Peer
	case survey.RoleDirect:
		return c.Direct
	case survey.RoleManager:
		return c.Manager
	}
	return 0
}

func (c *RoleCounts) inc(r survey.Role) {
	switch r {
	case survey.RoleSelf:
		c.Self++
	case survey.RolePeer:
		c.Peer++
	case survey.RoleDirect:
		c.Direct++
	case survey.RoleManager:
		c.Manager++
	}
}

func (c RoleCounts) Total() int { return c.Self + c.Peer + c.Direct + c.Manager }

// DroppedResponse records an answer that could not be mapped to a bucket.
type DroppedResponse struct {
	SubmissionID uuid.UUID   `json:"submission_id"`
	Role         survey.Role `json:"role"`
	SectionID    string      `json:"section_id"`
	QuestionID   string      `json:"question_id"`
	Value        string      `json:"value"`
}

// AggregatedSubmission is the per-manager view across all respondent roles.
type AggregatedSubmission struct {
	ID               string     `json:"id"`
	ManagerID        string     `json:"manager_id"`
	ManagerName      string     `json:"manager_name"`
	SubmittedAt      time.Time  `json:"submitted_at"`
	Status           string     `json:"status"`
	EmployeeCount    int        `json:"employee_count"`
	SurveyTypeCounts RoleCounts `json:"survey_type_counts"`

	SelfSections    []SectionRollup `json:"self_sections"`
	PeerSections    []SectionRollup `json:"peer_sections"`
	DirectSections  []SectionRollup `json:"direct_sections"`
	ManagerSections []SectionRollup `json:"manager_sections"`

	SelfComments    []string `json:"self_comments"`
	PeerComments    []string `json:"peer_comments"`
	DirectComments  []string `json:"direct_comments"`
	ManagerComments []string `json:"manager_comments"`

	// Legacy merged view: self sections and every comment.
	Sections []SectionRollup `json:"sections"`
	Comments []string        `json:"comments"`

	AggregatedPeerID string            `json:"aggregated_peer_id"`
	Dropped          []DroppedResponse `json:"dropped_responses"`
}

func (a *AggregatedSubmission) SectionsFor(r survey.Role) []SectionRollup {
	switch r {
	case survey.RoleSelf:
		return a.SelfSections
	case survey.RolePeer:
		return a.PeerSections
	case survey.RoleDirect:
		return a.DirectSections
	case survey.RoleManager:
		return a.ManagerSections
	}
	return nil
}

func (a *AggregatedSubmission) setSections(r survey.Role, s []SectionRollup) {
	switch r {
	case survey.RoleSelf:
		a.SelfSections = s
	case survey.RolePeer:
		a.PeerSections = s
	case survey.RoleDirect:
		a.DirectSections = s
	case survey.RoleManager:
		a.ManagerSections = s
	}
}

func (a *AggregatedSubmission) CommentsFor(r survey.Role) []string {
	switch r {
	case survey.RoleSelf:
		return a.SelfComments
	case survey.RolePeer:
		return a.PeerComments
	case survey.RoleDirect:
		return a.DirectComments
	case survey.RoleManager:
		return a.ManagerComments
	}
	return nil
}

func (a *AggregatedSubmission) setComments(r survey.Role, c []string) {
	switch r {
	case survey.RoleSelf:
		a.SelfComments = c
	case survey.RolePeer:
		a.PeerComments = c
	case survey.RoleDirect:
		a.DirectComments = c
	case survey.RoleManager:
		a.ManagerComments = c
	}
}

type Option func(*Aggregator)

// WithDropObserver registers fn to be called for every dropped answer.
func WithDropObserver(fn func(DroppedResponse)) Option {
	return func(a *Aggregator) { a.onDrop = fn }
}

type Aggregator struct {
	catalog Catalog
	log     *logger.Logger
	onDrop  func(DroppedResponse)
}

func (a *Aggregator) sectionRank(id string) (int, bool) {
	if r, ok := a.catalog.(Ranker); ok {
		return r.SectionRank(id)
	}
	return 0, false
}

func (a *Aggregator) questionRank(sectionID string) func(string) (int, bool) {
	r, ok := a.catalog.(Ranker)
	if !ok {
		return noRank
	}
	return func(id string) (int, bool) { return r.QuestionRank(sectionID, id) }
}

func New(catalog Catalog, log *logger.Logger, opts ...Option) *Aggregator {
	if catalog == nil {
		catalog = NewCatalog(survey.Config{})
	}
	if log == nil {
		log = logger.Nop()
	}
	a := &Aggregator{catalog: catalog, log: log.With("component", "Aggregator")}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Rollup folds the answers of every submission for managerName in role into
// section rollups. Sections and questions are ordered by the survey
// definition, then by natural id order for ids the survey does not know.
func (a *Aggregator) Rollup(subs []*types.Submission, managerName string, role survey.Role) ([]SectionRollup, []DroppedResponse) {
	key := feedback.ManagerKey(managerName)
	matched := make([]*types.Submission, 0, len(subs))
	for _, s := range subs {
		if s != nil && s.Role == role && feedback.ManagerKey(s.ManagerName) == key {
			matched = append(matched, s)
		}
	}
	return a.rollup(matched, role)
}

func (a *Aggregator) rollup(subs []*types.Submission, role survey.Role) ([]SectionRollup, []DroppedResponse) {
	if len(subs) == 0 {
		return []SectionRollup{}, nil
	}

	type sectionAcc struct {
		rollup  SectionRollup
		indexOf map[string]int
	}
	var (
		order    []string
		sections = map[string]*sectionAcc{}
		dropped  []DroppedResponse
	)

	for _, sub := range subs {
		answers := sub.Answers()
		if len(answers) == 0 {
			continue
		}
		for _, sectionID := range sortedKeys(map[string]map[string]feedback.Answer(answers), a.sectionRank) {
			questions := answers[sectionID]
			for _, questionID := range sortedKeys(questions, a.questionRank(sectionID)) {
				raw := string(questions[questionID])
				bucket, err := response.Parse(raw)
				if errors.Is(err, response.ErrEmpty) {
					continue
				}
				if err != nil {
					d := DroppedResponse{
						SubmissionID: sub.ID,
						Role:         role,
						SectionID:    sectionID,
						QuestionID:   questionID,
						Value:        raw,
					}
					dropped = append(dropped, d)
					a.log.Warn("Dropping unrecognized response value",
						"submission_id", sub.ID.String(),
						"role", role,
						"section_id", sectionID,
						"question_id", questionID,
						"value", raw,
					)
					if a.onDrop != nil {
						a.onDrop(d)
					}
					continue
				}

				acc, ok := sections[sectionID]
				if !ok {
					acc = &sectionAcc{
						rollup:  SectionRollup{ID: sectionID, Title: a.catalog.SectionTitle(sectionID)},
						indexOf: map[string]int{},
					}
					sections[sectionID] = acc
					order = append(order, sectionID)
				}
				idx, ok := acc.indexOf[questionID]
				if !ok {
					acc.rollup.Questions = append(acc.rollup.Questions, QuestionRollup{
						QuestionID:   questionID,
						QuestionText: a.catalog.QuestionText(role, sectionID, questionID),
					})
					idx = len(acc.rollup.Questions) - 1
					acc.indexOf[questionID] = idx
				}
				acc.rollup.Questions[idx].Responses.Add(bucket)
			}
		}
	}

	out := make([]SectionRollup, 0, len(order))
	for _, id := range sortedKeys(sections, a.sectionRank) {
		acc := sections[id]
		qs := make([]QuestionRollup, 0, len(acc.rollup.Questions))
		for _, qid := range sortedKeys(acc.indexOf, a.questionRank(id)) {
			qs = append(qs, acc.rollup.Questions[acc.indexOf[qid]])
		}
		acc.rollup.Questions = qs
		out = append(out, acc.rollup)
	}
	return out, dropped
}

type managerGroup struct {
	name   string
	byRole map[survey.Role][]*types.Submission
}

// Build produces one aggregated submission per manager with at least one
// submission in an aggregated role, in order of first appearance.
func (a *Aggregator) Build(subs []*types.Submission) []AggregatedSubmission {
	var (
		order  []string
		groups = map[string]*managerGroup{}
	)
	for _, s := range subs {
		if s == nil || !s.Role.Aggregated() {
			continue
		}
		key := feedback.ManagerKey(s.ManagerName)
		g, ok := groups[key]
		if !ok {
			g = &managerGroup{name: key, byRole: map[survey.Role][]*types.Submission{}}
			groups[key] = g
			order = append(order, key)
		}
		g.byRole[s.Role] = append(g.byRole[s.Role], s)
	}

	out := make([]AggregatedSubmission, 0, len(order))
	for _, key := range order {
		out = append(out, a.build(groups[key]))
	}
	return out
}

// ForManager aggregates only managerName's submissions. ok is false when the
// manager has no aggregated submissions.
func (a *Aggregator) ForManager(subs []*types.Submission, managerName string) (AggregatedSubmission, bool) {
	key := feedback.ManagerKey(managerName)
	var matched []*types.Submission
	for _, s := range subs {
		if s != nil && feedback.ManagerKey(s.ManagerName) == key {
			matched = append(matched, s)
		}
	}
	all := a.Build(matched)
	if len(all) == 0 {
		return AggregatedSubmission{}, false
	}
	return all[0], true
}

func (a *Aggregator) build(g *managerGroup) AggregatedSubmission {
	ref := feedback.ManagerRef(g.name)
	agg := AggregatedSubmission{
		ID:               "agg-" + ref,
		ManagerName:      g.name,
		Status:           feedback.StatusCompleted,
		AggregatedPeerID: "PEER-" + strings.ToUpper(ref),
		Dropped:          []DroppedResponse{},
	}

	var firstSubmittedID string
	for _, r := range survey.AggregateRoles {
		subs := g.byRole[r]
		sections, dropped := a.rollup(subs, r)
		agg.setSections(r, sections)
		agg.Dropped = append(agg.Dropped, dropped...)

		comments := []string{}
		for _, s := range subs {
			agg.SurveyTypeCounts.inc(r)
			if c := strings.TrimSpace(s.Comments); c != "" {
				comments = append(comments, c)
			}
			if s.SubmittedAt.After(agg.SubmittedAt) {
				agg.SubmittedAt = s.SubmittedAt
			}
			if firstSubmittedID == "" && strings.TrimSpace(s.ManagerID) != "" {
				firstSubmittedID = strings.TrimSpace(s.ManagerID)
			}
		}
		agg.setComments(r, comments)
	}

	agg.ManagerID = firstSubmittedID
	if agg.ManagerID == "" {
		agg.ManagerID = agg.AggregatedPeerID
	}
	agg.EmployeeCount = agg.SurveyTypeCounts.Peer
	agg.Sections = agg.SelfSections
	agg.Comments = make([]string, 0, len(agg.SelfComments)+len(agg.PeerComments)+len(agg.DirectComments)+len(agg.ManagerComments))
	for _, r := range survey.AggregateRoles {
		agg.Comments = append(agg.Comments, agg.CommentsFor(r)...)
	}
	return agg
}
