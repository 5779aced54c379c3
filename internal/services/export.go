package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/soaringjerry/Pulse/internal/models"
)

// LongRow is one answer in the long export.
type LongRow struct {
	FeedbackID   string
	QuestionID   string
	QuestionText string
	QuestionType models.QuestionType
	Value        string
	SubmittedAt  string // RFC3339
}

// ExportLongCSV renders one row per answer.
func ExportLongCSV(rows []LongRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"feedback_id", "question_id", "question_text", "question_type", "value", "submitted_at"})
	for _, r := range rows {
		rec := []string{
			r.FeedbackID,
			r.QuestionID,
			csvCell(r.QuestionText),
			string(r.QuestionType),
			r.Value,
			r.SubmittedAt,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportWideCSV renders one row per response and one column per question, in question order.
// Unanswered cells are empty.
func ExportWideCSV(questions []*models.Question, responses []*models.FeedbackResponse) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := make([]string, 0, 2+len(questions))
	header = append(header, "feedback_id", "submitted_at")
	for _, q := range questions {
		header = append(header, csvCell(q.Text))
	}
	_ = w.Write(header)
	for _, resp := range responses {
		values := make(map[string]string, len(resp.Answers))
		for _, a := range resp.Answers {
			values[a.QuestionID] = answerValue(a)
		}
		row := make([]string, 0, len(header))
		row = append(row, resp.ID, resp.CreatedAt.UTC().Format(time.RFC3339))
		for _, q := range questions {
			row = append(row, values[q.ID])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// LongRows flattens responses into export rows, skipping answers whose question is unknown.
func LongRows(questions []*models.Question, responses []*models.FeedbackResponse) []LongRow {
	byID := make(map[string]*models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	var rows []LongRow
	for _, resp := range responses {
		for _, a := range resp.Answers {
			q, ok := byID[a.QuestionID]
			if !ok {
				continue
			}
			rows = append(rows, LongRow{
				FeedbackID:   resp.ID,
				QuestionID:   q.ID,
				QuestionText: q.Text,
				QuestionType: q.Type,
				Value:        answerValue(a),
				SubmittedAt:  resp.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
	}
	return rows
}

func answerValue(a *models.Answer) string {
	switch {
	case a.SelectedOption != nil:
		if *a.SelectedOption {
			return "Yes"
		}
		return "No"
	case a.Rating != nil:
		return strconv.Itoa(*a.Rating)
	case a.ResponseText != nil:
		return csvCell(*a.ResponseText)
	}
	return ""
}

// csvCell neutralizes free text that a spreadsheet would evaluate as a formula.
func csvCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
