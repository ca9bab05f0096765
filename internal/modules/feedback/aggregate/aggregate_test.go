package aggregate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/response"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/seed"
)

func sub(role survey.Role, manager string, answers types.Responses, comments string) *types.Submission {
	return &types.Submission{
		ID:          uuid.New(),
		Role:        role,
		ManagerName: manager,
		Responses:   datatypes.NewJSONType(answers),
		Comments:    comments,
		SubmittedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func trust(v string) types.Responses {
	return types.Responses{"building-trust": {"building-trust-1": types.Answer(v)}}
}

func newAggregator(t *testing.T) *Aggregator {
	t.Helper()
	cfg, err := seed.DefaultConfig()
	require.NoError(t, err)
	return New(NewCatalog(cfg), nil)
}

func TestRollupScenarioFiveFiveFour(t *testing.T) {
	a := newAggregator(t)
	subs := []*types.Submission{
		sub(survey.RolePeer, "John Doe", trust("5"), ""),
		sub(survey.RolePeer, "John Doe", trust("5"), ""),
		sub(survey.RolePeer, "John Doe", trust("4"), ""),
	}

	sections, dropped := a.Rollup(subs, "John Doe", survey.RolePeer)
	require.Empty(t, dropped)
	require.Len(t, sections, 1)
	require.Equal(t, "Building Trust", sections[0].Title)
	require.Len(t, sections[0].Questions, 1)
	q := sections[0].Questions[0]
	require.Equal(t, "Shows genuine care for others.", q.QuestionText)
	require.Equal(t, response.Histogram{Often: 1, Always: 2}, q.Responses)
}

func TestRollupFiltersByManagerAndRole(t *testing.T) {
	a := newAggregator(t)
	subs := []*types.Submission{
		sub(survey.RolePeer, "John Doe", trust("5"), ""),
		sub(survey.RolePeer, " John Doe ", trust("never"), ""),
		sub(survey.RoleSelf, "John Doe", trust("3"), ""),
		sub(survey.RolePeer, "Jane Roe", trust("1"), ""),
	}
	sections, _ := a.Rollup(subs, "John Doe", survey.RolePeer)
	require.Len(t, sections, 1)
	require.Equal(t, 2, sections[0].Questions[0].Responses.Total())
}

func TestRollupDropsUnknownValuesAndSkipsBlanks(t *testing.T) {
	var observed []DroppedResponse
	cfg, err := seed.DefaultConfig()
	require.NoError(t, err)
	a := New(NewCatalog(cfg), nil, WithDropObserver(func(d DroppedResponse) { observed = append(observed, d) }))

	bad := sub(survey.RoleDirect, "John Doe", types.Responses{
		"building-trust": {"building-trust-1": "maybe", "building-trust-2": "", "building-trust-3": "4"},
	}, "")
	sections, dropped := a.Rollup([]*types.Submission{bad}, "John Doe", survey.RoleDirect)

	require.Len(t, dropped, 1)
	require.Equal(t, "maybe", dropped[0].Value)
	require.Equal(t, bad.ID, dropped[0].SubmissionID)
	require.Equal(t, dropped, observed)
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Questions, 1)
	require.Equal(t, "building-trust-3", sections[0].Questions[0].QuestionID)
	require.Equal(t, "building-trust-3", sections[0].Questions[0].QuestionText)
}

func TestRollupUnknownSectionFallsBackToID(t *testing.T) {
	a := New(nil, nil)
	s := sub(survey.RolePeer, "John Doe", types.Responses{"vision": {"v1": "2"}}, "")
	sections, _ := a.Rollup([]*types.Submission{s}, "John Doe", survey.RolePeer)
	require.Equal(t, "vision", sections[0].Title)
	require.Equal(t, "v1", sections[0].Questions[0].QuestionText)
}

func TestRollupHistogramsAreOrderIndependent(t *testing.T) {
	a := newAggregator(t)
	values := []string{"1", "2", "3", "4", "5", "never", "always", "often", "x"}
	rng := rand.New(rand.NewSource(11))
	var subs []*types.Submission
	for i := 0; i < 40; i++ {
		subs = append(subs, sub(survey.RolePeer, "John Doe", types.Responses{
			"building-trust":         {"building-trust-1": types.Answer(values[rng.Intn(len(values))])},
			"driving-accountability": {"driving-accountability-2": types.Answer(values[rng.Intn(len(values))])},
		}, ""))
	}
	want, _ := a.Rollup(subs, "John Doe", survey.RolePeer)

	for trial := 0; trial < 5; trial++ {
		shuffled := append([]*types.Submission(nil), subs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got, _ := a.Rollup(shuffled, "John Doe", survey.RolePeer)
		if diff := cmp.Diff(histogramsByQuestion(want), histogramsByQuestion(got)); diff != "" {
			t.Fatalf("histograms differ after shuffle (-want +got):\n%s", diff)
		}
	}
}

func histogramsByQuestion(sections []SectionRollup) map[string]response.Histogram {
	out := map[string]response.Histogram{}
	for _, s := range sections {
		for _, q := range s.Questions {
			out[s.ID+"/"+q.QuestionID] = q.Responses
		}
	}
	return out
}

func TestRollupSortsBySurveyOrder(t *testing.T) {
	a := newAggregator(t)
	s := sub(survey.RolePeer, "John Doe", types.Responses{
		"developing-others":      {"developing-others-1": "3"},
		"building-trust":         {"building-trust-2": "4", "building-trust-1": "5"},
		"driving-accountability": {"driving-accountability-6": "2"},
	}, "")
	sections, _ := a.Rollup([]*types.Submission{s}, "John Doe", survey.RolePeer)
	require.Equal(t, []string{"building-trust", "driving-accountability", "developing-others"},
		[]string{sections[0].ID, sections[1].ID, sections[2].ID})
	require.Equal(t, "building-trust-1", sections[0].Questions[0].QuestionID)
}

func TestBuildGroupsByManager(t *testing.T) {
	a := newAggregator(t)
	late := sub(survey.RoleManager, "John Doe", trust("4"), "Strong results.")
	late.SubmittedAt = late.SubmittedAt.Add(48 * time.Hour)
	late.ManagerID = "EMP-7"
	subs := []*types.Submission{
		sub(survey.RolePeer, "John Doe", trust("5"), "Great listener."),
		sub(survey.RoleSelf, "John Doe", trust("3"), "  "),
		sub(survey.RolePeer, "Jane Roe", trust("2"), ""),
		late,
		sub(survey.RoleCustom, "Custom Only", nil, "ignored"),
	}

	all := a.Build(subs)
	require.Len(t, all, 2)
	require.Equal(t, "John Doe", all[0].ManagerName)
	require.Equal(t, "Jane Roe", all[1].ManagerName)

	john := all[0]
	require.Regexp(t, `^agg-john-doe-[0-9a-f]{8}$`, john.ID)
	require.Regexp(t, `^PEER-JOHN-DOE-[0-9A-F]{8}$`, john.AggregatedPeerID)
	require.Equal(t, "EMP-7", john.ManagerID)
	require.Equal(t, RoleCounts{Self: 1, Peer: 1, Manager: 1}, john.SurveyTypeCounts)
	require.Equal(t, 1, john.EmployeeCount)
	require.True(t, john.SubmittedAt.Equal(late.SubmittedAt))
	require.Empty(t, john.SelfComments)
	require.Equal(t, []string{"Great listener."}, john.PeerComments)
	require.Equal(t, []string{"Great listener.", "Strong results."}, john.Comments)
	require.Equal(t, john.SelfSections, john.Sections)
	require.Empty(t, john.DirectSections)
	require.NotNil(t, john.DirectSections)

	jane := all[1]
	require.Equal(t, jane.AggregatedPeerID, jane.ManagerID)
	require.Regexp(t, `^PEER-JANE-ROE-`, jane.ManagerID)
}

func TestManagersSharingASlugGetDistinctIDs(t *testing.T) {
	a := newAggregator(t)
	all := a.Build([]*types.Submission{
		sub(survey.RolePeer, "A-B", trust("4"), ""),
		sub(survey.RolePeer, "A B", trust("4"), ""),
		sub(survey.RolePeer, " A B ", trust("5"), ""),
	})
	require.Len(t, all, 2)
	require.NotEqual(t, all[0].ID, all[1].ID)
	require.NotEqual(t, all[0].AggregatedPeerID, all[1].AggregatedPeerID)

	again := a.Build([]*types.Submission{sub(survey.RolePeer, "A B", trust("1"), "")})
	require.Equal(t, all[1].ID, again[0].ID)
}

func TestPeerOnlyManagerHasEmptyOtherRollups(t *testing.T) {
	a := newAggregator(t)
	agg, ok := a.ForManager([]*types.Submission{sub(survey.RolePeer, "Solo", trust("4"), "")}, "Solo")
	require.True(t, ok)
	require.Len(t, agg.PeerSections, 1)
	require.Empty(t, agg.SelfSections)
	require.Empty(t, agg.DirectSections)
	require.Empty(t, agg.ManagerSections)
}

func TestForManagerMissing(t *testing.T) {
	a := newAggregator(t)
	_, ok := a.ForManager([]*types.Submission{sub(survey.RolePeer, "John Doe", trust("4"), "")}, "Nobody")
	require.False(t, ok)
}

func TestBlankManagerGroupsAsUnknown(t *testing.T) {
	a := newAggregator(t)
	all := a.Build([]*types.Submission{sub(survey.RolePeer, "   ", trust("4"), "")})
	require.Len(t, all, 1)
	require.Equal(t, "Unknown", all[0].ManagerName)
}

func TestNaturalLess(t *testing.T) {
	require.True(t, naturalLess("q2", "q10"))
	require.False(t, naturalLess("q10", "q2"))
	require.True(t, naturalLess("a", "b"))
	require.True(t, naturalLess("q1", "q1a"))

	// Equal numbers written with different padding still order strictly.
	require.NotEqual(t, naturalLess("q01", "q1"), naturalLess("q1", "q01"))
	require.False(t, naturalLess("q1", "q1"))
}

func TestRollupOrderIsStableForPaddedIDs(t *testing.T) {
	a := newAggregator(t)
	subs := []*types.Submission{sub(survey.RolePeer, "John Doe", types.Responses{
		"extra": {"q01": "4", "q1": "5", "q001": "3", "q2": "2"},
	}, "")}

	first, _ := a.Rollup(subs, "John Doe", survey.RolePeer)
	require.Len(t, first, 1)
	ids := func(s []SectionRollup) []string {
		out := make([]string, 0, len(s[0].Questions))
		for _, q := range s[0].Questions {
			out = append(out, q.QuestionID)
		}
		return out
	}
	want := ids(first)
	require.Equal(t, "q2", want[len(want)-1])
	for i := 0; i < 100; i++ {
		got, _ := a.Rollup(subs, "John Doe", survey.RolePeer)
		require.Equal(t, want, ids(got))
	}
}
