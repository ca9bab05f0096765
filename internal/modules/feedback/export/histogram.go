package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/aggregate"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/compare"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/response"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/score"
)

var HistogramHeader = []string{
	"role", "section_id", "section_title", "question_id", "question_text",
	"never", "rarely", "sometimes", "often", "always", "score",
}

var ErrMalformedCSV = errors.New("malformed histogram csv")

// WriteHistogramCSV writes every question histogram of agg, role by role.
func WriteHistogramCSV(w io.Writer, agg aggregate.AggregatedSubmission) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(HistogramHeader); err != nil {
		return err
	}
	for _, role := range survey.AggregateRoles {
		for _, sec := range agg.SectionsFor(role) {
			for _, q := range sec.Questions {
				h := q.Responses
				row := []string{
					string(role), sec.ID, sec.Title, q.QuestionID, q.QuestionText,
					strconv.Itoa(h.Never), strconv.Itoa(h.Rarely), strconv.Itoa(h.Sometimes),
					strconv.Itoa(h.Often), strconv.Itoa(h.Always),
					strconv.FormatFloat(score.Calculate(h), 'f', 1, 64),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// HistogramRow is one parsed line of a histogram export.
type HistogramRow struct {
	Role         survey.Role
	SectionID    string
	SectionTitle string
	QuestionID   string
	QuestionText string
	Responses    response.Histogram
	Score        float64
}

// ReadHistogramCSV parses a histogram export back into per-role section
// rollups, preserving row order.
func ReadHistogramCSV(r io.Reader) (map[survey.Role][]aggregate.SectionRollup, []HistogramRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(HistogramHeader)
	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if strings.Join(header, ",") != strings.Join(HistogramHeader, ",") {
		return nil, nil, fmt.Errorf("%w: unexpected header", ErrMalformedCSV)
	}

	out := map[survey.Role][]aggregate.SectionRollup{}
	var rows []HistogramRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		row, err := parseHistogramRow(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}
		rows = append(rows, row)

		sections := out[row.Role]
		idx := -1
		for i := range sections {
			if sections[i].ID == row.SectionID {
				idx = i
				break
			}
		}
		if idx < 0 {
			sections = append(sections, aggregate.SectionRollup{ID: row.SectionID, Title: row.SectionTitle})
			idx = len(sections) - 1
		}
		sections[idx].Questions = append(sections[idx].Questions, aggregate.QuestionRollup{
			QuestionID:   row.QuestionID,
			QuestionText: row.QuestionText,
			Responses:    row.Responses,
		})
		out[row.Role] = sections
	}
	return out, rows, nil
}

func parseHistogramRow(rec []string) (HistogramRow, error) {
	role, err := survey.ParseRole(rec[0])
	if err != nil || !role.Aggregated() {
		return HistogramRow{}, fmt.Errorf("invalid role %q", rec[0])
	}
	counts := make([]int, 5)
	for i := range counts {
		n, err := strconv.Atoi(rec[5+i])
		if err != nil || n < 0 {
			return HistogramRow{}, fmt.Errorf("invalid count %q", rec[5+i])
		}
		counts[i] = n
	}
	sc, err := strconv.ParseFloat(rec[10], 64)
	if err != nil {
		return HistogramRow{}, fmt.Errorf("invalid score %q", rec[10])
	}
	return HistogramRow{
		Role:         role,
		SectionID:    rec[1],
		SectionTitle: rec[2],
		QuestionID:   rec[3],
		QuestionText: rec[4],
		Responses: response.Histogram{
			Never: counts[0], Rarely: counts[1], Sometimes: counts[2], Often: counts[3], Always: counts[4],
		},
		Score: sc,
	}, nil
}

// ManagerReport is the JSON form of a manager export.
type ManagerReport struct {
	Aggregated aggregate.AggregatedSubmission `json:"aggregated"`
	Comparison compare.Comparison             `json:"comparison"`
}

func WriteManagerJSON(w io.Writer, agg aggregate.AggregatedSubmission) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ManagerReport{Aggregated: agg, Comparison: compare.Build(agg)})
}

func WriteManager(w io.Writer, f Format, agg aggregate.AggregatedSubmission) error {
	if f == FormatJSON {
		return WriteManagerJSON(w, agg)
	}
	return WriteHistogramCSV(w, agg)
}
