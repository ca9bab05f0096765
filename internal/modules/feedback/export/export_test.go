package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/aggregate"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/score"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/seed"
)

func sub(role survey.Role, manager string, answers types.Responses, comments string) *types.Submission {
	return &types.Submission{
		ID:          uuid.New(),
		Role:        role,
		ManagerName: manager,
		Responses:   datatypes.NewJSONType(answers),
		Comments:    comments,
		Status:      types.StatusCompleted,
		SubmittedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriteSubmissionsCSV(t *testing.T) {
	s := sub(survey.RolePeer, "John Doe", nil, `Said "great", then left`)
	var buf bytes.Buffer
	require.NoError(t, WriteSubmissionsCSV(&buf, []*types.Submission{s}))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, SubmissionHeader, recs[0])
	require.Equal(t, []string{
		s.ID.String(), s.AnonymousID(), "John Doe", "peer", "2024-05-01", "completed", `Said "great", then left`,
	}, recs[1])
}

func TestWriteSubmissionsJSON(t *testing.T) {
	s := sub(survey.RoleSelf, "Jane", types.Responses{"building-trust": {"building-trust-1": "4"}}, "")
	var buf bytes.Buffer
	require.NoError(t, WriteSubmissions(&buf, FormatJSON, []*types.Submission{s}))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	require.Equal(t, s.AnonymousID(), out[0]["anonymous_id"])
	require.Equal(t, "Jane", out[0]["manager_name"])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatCSV, f)
	f, err = ParseFormat(" JSON ")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)
	_, err = ParseFormat("xml")
	require.Error(t, err)
}

func TestHistogramCSVRoundTripReproducesScores(t *testing.T) {
	cfg, err := seed.DefaultConfig()
	require.NoError(t, err)
	agg := aggregate.New(aggregate.NewCatalog(cfg), nil)

	rng := rand.New(rand.NewSource(7))
	values := []string{"1", "2", "3", "4", "5", "never", "often"}
	var subs []*types.Submission
	for _, role := range survey.AggregateRoles {
		for i := 0; i < 4; i++ {
			answers := types.Responses{}
			for _, sec := range cfg.Sections(role) {
				answers[sec.ID] = map[string]types.Answer{}
				for _, q := range sec.Questions {
					answers[sec.ID][q.ID] = types.Answer(values[rng.Intn(len(values))])
				}
			}
			subs = append(subs, sub(role, "John Doe", answers, ""))
		}
	}
	built, ok := agg.ForManager(subs, "John Doe")
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, WriteHistogramCSV(&buf, built))

	byRole, rows, err := ReadHistogramCSV(&buf)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	for _, row := range rows {
		require.Equal(t, row.Score, score.Calculate(row.Responses), "question %s", row.QuestionID)
	}
	for _, role := range survey.AggregateRoles {
		want := built.SectionsFor(role)
		got := byRole[role]
		require.Equal(t, len(want), len(got), "role %s", role)
		for i := range want {
			require.Equal(t, score.Section(want[i].Histograms()), score.Section(got[i].Histograms()))
			require.Equal(t, want[i], got[i])
		}
	}
}

func TestReadHistogramCSVRejectsBadInput(t *testing.T) {
	_, _, err := ReadHistogramCSV(strings.NewReader("a,b\n"))
	require.True(t, errors.Is(err, ErrMalformedCSV))

	body := strings.Join(HistogramHeader, ",") + "\npeer,s,S,q,Q,1,x,0,0,0,1.0\n"
	_, _, err = ReadHistogramCSV(strings.NewReader(body))
	require.True(t, errors.Is(err, ErrMalformedCSV))

	body = strings.Join(HistogramHeader, ",") + "\ncustom,s,S,q,Q,1,0,0,0,0,1.0\n"
	_, _, err = ReadHistogramCSV(strings.NewReader(body))
	require.True(t, errors.Is(err, ErrMalformedCSV))
}
