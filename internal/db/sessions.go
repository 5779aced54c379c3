package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/soaringjerry/Pulse/internal/models"
)

const sessionColumns = `id, title, description, date, admin_id, created_at`

func (s *SQLStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`), id).
		Scan(&sess.ID, &sess.Title, &sess.Description, &sess.Date, &sess.AdminID, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get session", err)
	}
	sess.Date = sess.Date.UTC()
	sess.CreatedAt = sess.CreatedAt.UTC()
	return &sess, nil
}

// CreateSession inserts the session and its initial questions in one transaction.
func (s *SQLStore) CreateSession(ctx context.Context, sess *models.Session, qs []*models.Question) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx, "insert session",
			`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			sess.ID, sess.Title, sess.Description, sess.Date.UTC(), sess.AdminID, sess.CreatedAt.UTC()); err != nil {
			return err
		}
		return s.insertQuestions(ctx, tx, qs)
	})
}

const listingQuery = `
SELECT s.id, s.title, s.description, s.date, s.admin_id, s.created_at, a.name, a.email,
       (SELECT COUNT(*) FROM questions q WHERE q.session_id = s.id),
       (SELECT COUNT(*) FROM feedback_responses f WHERE f.session_id = s.id)
FROM sessions s
JOIN admins a ON a.id = s.admin_id`

func (s *SQLStore) ListSessions(ctx context.Context) ([]*models.SessionListing, error) {
	return s.listSessions(ctx, "list sessions", listingQuery+` ORDER BY s.created_at DESC, s.id`)
}

func (s *SQLStore) ListSessionsByAdmin(ctx context.Context, adminID string) ([]*models.SessionListing, error) {
	return s.listSessions(ctx, "list sessions by admin",
		listingQuery+` WHERE s.admin_id = ? ORDER BY s.created_at DESC, s.id`, adminID)
}

func (s *SQLStore) listSessions(ctx context.Context, op, query string, args ...any) ([]*models.SessionListing, error) {
	rows, err := s.query(ctx, s.db, op, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.SessionListing{}
	for rows.Next() {
		var l models.SessionListing
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.Date, &l.AdminID, &l.CreatedAt,
			&l.Admin.Name, &l.Admin.Email, &l.Count.Questions, &l.Count.Responses); err != nil {
			return nil, s.fail(op, err)
		}
		l.Admin.ID = l.AdminID
		l.Date = l.Date.UTC()
		l.CreatedAt = l.CreatedAt.UTC()
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(op, err)
	}
	return out, nil
}
