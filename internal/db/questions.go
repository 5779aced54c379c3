package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/soaringjerry/Pulse/internal/models"
)

const questionColumns = `id, session_id, text, type, is_required, sort_order, created_at`

func scanQuestion(row interface{ Scan(...any) error }) (*models.Question, error) {
	var q models.Question
	var typ string
	if err := row.Scan(&q.ID, &q.SessionID, &q.Text, &typ, &q.IsRequired, &q.Position, &q.CreatedAt); err != nil {
		return nil, err
	}
	q.Type = models.QuestionType(typ)
	q.CreatedAt = q.CreatedAt.UTC()
	return &q, nil
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+questionColumns+` FROM questions WHERE id = ?`), id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get question", err)
	}
	return q, nil
}

func (s *SQLStore) ListQuestions(ctx context.Context, sessionID string) ([]*models.Question, error) {
	rows, err := s.query(ctx, s.db, "list questions",
		`SELECT `+questionColumns+` FROM questions WHERE session_id = ? ORDER BY sort_order, created_at, id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, s.fail("list questions", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list questions", err)
	}
	return out, nil
}

// InsertQuestions appends questions to their sessions in one transaction.
func (s *SQLStore) InsertQuestions(ctx context.Context, qs []*models.Question) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.insertQuestions(ctx, tx, qs)
	})
}

func (s *SQLStore) insertQuestions(ctx context.Context, tx *sql.Tx, qs []*models.Question) error {
	for _, q := range qs {
		var pos int
		err := tx.QueryRowContext(ctx, s.rebind(`SELECT COALESCE(MAX(sort_order), 0) + 1 FROM questions WHERE session_id = ?`),
			q.SessionID).Scan(&pos)
		if err != nil {
			return s.fail("next question position", err)
		}
		if _, err := s.exec(ctx, tx, "insert question",
			`INSERT INTO questions (`+questionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			q.ID, q.SessionID, q.Text, string(q.Type), q.IsRequired, pos, q.CreatedAt.UTC()); err != nil {
			return err
		}
		q.Position = pos
	}
	return nil
}

// DeleteQuestion removes a question and every answer referencing it.
func (s *SQLStore) DeleteQuestion(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx, "delete answers", `DELETE FROM answers WHERE question_id = ?`, id); err != nil {
			return err
		}
		_, err := s.exec(ctx, tx, "delete question", `DELETE FROM questions WHERE id = ?`, id)
		return err
	})
}
