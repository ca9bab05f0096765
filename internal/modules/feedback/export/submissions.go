// Package export writes submissions and aggregated histograms as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	types "github.com/yungbote/feedback360-backend/internal/domain"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

var SubmissionHeader = []string{"ID", "Anonymous ID", "Manager Name", "Role", "Date Submitted", "Status", "Comments"}

// WriteSubmissionsCSV writes one row per submission.
func WriteSubmissionsCSV(w io.Writer, subs []*types.Submission) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SubmissionHeader); err != nil {
		return err
	}
	for _, s := range subs {
		if s == nil {
			continue
		}
		row := []string{
			s.ID.String(),
			s.AnonymousID(),
			s.ManagerName,
			string(s.Role),
			s.SubmittedAt.UTC().Format("2006-01-02"),
			s.Status,
			s.Comments,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type submissionRecord struct {
	*types.Submission
	AnonymousID string `json:"anonymous_id"`
}

// WriteSubmissionsJSON writes an indented JSON array.
func WriteSubmissionsJSON(w io.Writer, subs []*types.Submission) error {
	out := make([]submissionRecord, 0, len(subs))
	for _, s := range subs {
		if s == nil {
			continue
		}
		out = append(out, submissionRecord{Submission: s, AnonymousID: s.AnonymousID()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func WriteSubmissions(w io.Writer, f Format, subs []*types.Submission) error {
	if f == FormatJSON {
		return WriteSubmissionsJSON(w, subs)
	}
	return WriteSubmissionsCSV(w, subs)
}
