package db

import (
	"context"
	"database/sql"

	"github.com/soaringjerry/Pulse/internal/models"
)

// SaveFeedback writes the response row and then each answer; any failure rolls back all of them.
func (s *SQLStore) SaveFeedback(ctx context.Context, resp *models.FeedbackResponse, answers []*models.Answer) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx, "insert feedback response",
			`INSERT INTO feedback_responses (id, session_id, created_at) VALUES (?, ?, ?)`,
			resp.ID, resp.SessionID, resp.CreatedAt.UTC()); err != nil {
			return err
		}
		for _, a := range answers {
			if _, err := s.exec(ctx, tx, "insert answer",
				`INSERT INTO answers (id, feedback_id, question_id, selected_option, rating, response_text)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				a.ID, resp.ID, a.QuestionID, a.SelectedOption, a.Rating, a.ResponseText); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLStore) ListFeedbackResponses(ctx context.Context, sessionID string) ([]*models.FeedbackResponse, error) {
	rows, err := s.query(ctx, s.db, "list feedback responses",
		`SELECT id, session_id, created_at FROM feedback_responses WHERE session_id = ? ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.FeedbackResponse{}
	byID := map[string]*models.FeedbackResponse{}
	for rows.Next() {
		r := &models.FeedbackResponse{Answers: []*models.Answer{}}
		if err := rows.Scan(&r.ID, &r.SessionID, &r.CreatedAt); err != nil {
			return nil, s.fail("list feedback responses", err)
		}
		r.CreatedAt = r.CreatedAt.UTC()
		byID[r.ID] = r
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list feedback responses", err)
	}
	rows.Close()

	answers, err := s.ListAnswersBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, a := range answers {
		if r, ok := byID[a.FeedbackID]; ok {
			r.Answers = append(r.Answers, a)
		}
	}
	return out, nil
}

// ListAnswersBySession returns every answer to the session's responses, each carrying its question.
func (s *SQLStore) ListAnswersBySession(ctx context.Context, sessionID string) ([]*models.Answer, error) {
	rows, err := s.query(ctx, s.db, "list answers",
		`SELECT a.id, a.feedback_id, a.question_id, a.selected_option, a.rating, a.response_text,
		        q.id, q.session_id, q.text, q.type, q.is_required, q.sort_order, q.created_at
		 FROM answers a
		 JOIN feedback_responses f ON f.id = a.feedback_id
		 JOIN questions q ON q.id = a.question_id
		 WHERE f.session_id = ?
		 ORDER BY f.created_at, f.id, q.sort_order, a.id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Answer
	for rows.Next() {
		var (
			a        models.Answer
			q        models.Question
			typ      string
			selected sql.NullBool
			rating   sql.NullInt64
			text     sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.FeedbackID, &a.QuestionID, &selected, &rating, &text,
			&q.ID, &q.SessionID, &q.Text, &typ, &q.IsRequired, &q.Position, &q.CreatedAt); err != nil {
			return nil, s.fail("list answers", err)
		}
		if selected.Valid {
			v := selected.Bool
			a.SelectedOption = &v
		}
		if rating.Valid {
			v := int(rating.Int64)
			a.Rating = &v
		}
		a.ResponseText = nullString(text)
		q.Type = models.QuestionType(typ)
		q.CreatedAt = q.CreatedAt.UTC()
		a.Question = &q
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list answers", err)
	}
	return out, nil
}

func (s *SQLStore) CountFeedbackResponses(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM feedback_responses WHERE session_id = ?`), sessionID).Scan(&n)
	if err != nil {
		return 0, s.fail("count feedback responses", err)
	}
	return n, nil
}
