package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/soaringjerry/Pulse/internal/models"
)

const contactColumns = `id, session_id, admin_id, name, email, mobile, description, created_at`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	var c models.Contact
	if err := row.Scan(&c.ID, &c.SessionID, &c.AdminID, &c.Name, &c.Email, &c.Mobile, &c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func (s *SQLStore) FindContact(ctx context.Context, sessionID, email string) (*models.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+contactColumns+` FROM contacts WHERE session_id = ? AND email = ?`), sessionID, email)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("find contact", err)
	}
	return c, nil
}

// InsertContact returns an error wrapping models.ErrDuplicate when the session/email pair exists.
func (s *SQLStore) InsertContact(ctx context.Context, c *models.Contact) error {
	_, err := s.exec(ctx, s.db, "insert contact",
		`INSERT INTO contacts (`+contactColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.SessionID, c.AdminID, c.Name, c.Email, c.Mobile, c.Description, c.CreatedAt.UTC())
	return err
}

func (s *SQLStore) ListContactsByAdmin(ctx context.Context, adminID string) ([]*models.Contact, error) {
	rows, err := s.query(ctx, s.db, "list contacts",
		`SELECT `+contactColumns+` FROM contacts WHERE admin_id = ? ORDER BY created_at DESC, id`, adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, s.fail("list contacts", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list contacts", err)
	}
	return out, nil
}
