package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/soaringjerry/Pulse/internal/models"
)

const adminColumns = `id, name, email, password_hash, mobile_number, bio, created_at`

func scanAdmin(row interface{ Scan(...any) error }) (*models.Admin, error) {
	var (
		a      models.Admin
		hash   string
		mobile sql.NullString
		bio    sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &hash, &mobile, &bio, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.PasswordHash = []byte(hash)
	a.MobileNumber = nullString(mobile)
	a.Bio = nullString(bio)
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}

func (s *SQLStore) getAdmin(ctx context.Context, op, where string, arg any) (*models.Admin, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+adminColumns+` FROM admins WHERE `+where), arg)
	a, err := scanAdmin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail(op, err)
	}
	return a, nil
}

func (s *SQLStore) GetAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	return s.getAdmin(ctx, "get admin", `id = ?`, id)
}

func (s *SQLStore) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return s.getAdmin(ctx, "get admin by email", `email = ?`, email)
}

func (s *SQLStore) CreateAdmin(ctx context.Context, a *models.Admin) error {
	_, err := s.exec(ctx, s.db, "insert admin",
		`INSERT INTO admins (`+adminColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, string(a.PasswordHash), a.MobileNumber, a.Bio, a.CreatedAt.UTC())
	return err
}

func (s *SQLStore) UpdateAdminProfile(ctx context.Context, a *models.Admin) error {
	_, err := s.exec(ctx, s.db, "update admin profile",
		`UPDATE admins SET name = ?, email = ?, mobile_number = ?, bio = ? WHERE id = ?`,
		a.Name, a.Email, a.MobileNumber, a.Bio, a.ID)
	return err
}

func (s *SQLStore) UpdateAdminPassword(ctx context.Context, id string, hash []byte) error {
	_, err := s.exec(ctx, s.db, "update admin password",
		`UPDATE admins SET password_hash = ? WHERE id = ?`, string(hash), id)
	return err
}
