package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/soaringjerry/Pulse/internal/models"
)

type AuthStore interface {
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetAdminByID(ctx context.Context, id string) (*models.Admin, error)
	CreateAdmin(ctx context.Context, a *models.Admin) error
	UpdateAdminProfile(ctx context.Context, a *models.Admin) error
	UpdateAdminPassword(ctx context.Context, id string, hash []byte) error
}

type TokenSigner func(adminID, email string, ttl time.Duration) (string, error)

type AuthService struct {
	store     AuthStore
	now       func() time.Time
	idGen     func() string
	signToken TokenSigner
	tokenTTL  time.Duration
	hashCost  int
}

// AdminView is the public shape of an admin account.
type AdminView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	MobileNumber *string `json:"mobileNumber"`
	Bio          *string `json:"bio"`
}

type AuthResult struct {
	Token string    `json:"token"`
	Admin AdminView `json:"admin"`
}

type RegisterInput struct {
	Name         string  `json:"name" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required"`
	MobileNumber *string `json:"mobileNumber"`
	Bio          *string `json:"bio"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type ProfileInput struct {
	Name         string  `json:"name" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	MobileNumber *string `json:"mobileNumber"`
	Bio          *string `json:"bio"`
}

func NewAuthService(store AuthStore, signer TokenSigner, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 10 * time.Hour
	}
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     uuid.NewString,
		signToken: signer,
		tokenTTL:  tokenTTL,
		hashCost:  bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in, nil); err != nil {
		return nil, err
	}
	existing, err := s.store.GetAdminByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, wrapError(ErrorConflict, ErrEmailTaken, "Email already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{
		ID:           s.idGen(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		MobileNumber: trimOptional(in.MobileNumber),
		Bio:          trimOptional(in.Bio),
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, wrapError(ErrorConflict, ErrEmailTaken, "Email already registered")
		}
		return nil, err
	}
	return s.issue(admin)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in, nil); err != nil {
		return nil, err
	}
	admin, err := s.store.GetAdminByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, wrapError(ErrorUnauthorized, ErrInvalidCredentials, "Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(in.Password)) != nil {
		return nil, wrapError(ErrorUnauthorized, ErrInvalidCredentials, "Invalid credentials")
	}
	return s.issue(admin)
}

func (s *AuthService) ChangePassword(ctx context.Context, adminID string, in ChangePasswordInput) error {
	if err := validateInput(in, nil); err != nil {
		return err
	}
	admin, err := s.admin(ctx, adminID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(in.OldPassword)) != nil {
		return wrapError(ErrorUnauthorized, ErrInvalidCredentials, "Old password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.hashCost)
	if err != nil {
		return err
	}
	return s.store.UpdateAdminPassword(ctx, admin.ID, hash)
}

func (s *AuthService) Profile(ctx context.Context, adminID string) (*AdminView, error) {
	admin, err := s.admin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	view := viewAdmin(admin)
	return &view, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, adminID string, in ProfileInput) (*AdminView, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in, nil); err != nil {
		return nil, err
	}
	admin, err := s.admin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if in.Email != admin.Email {
		other, err := s.store.GetAdminByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != admin.ID {
			return nil, wrapError(ErrorConflict, ErrEmailTaken, "Email already registered")
		}
	}
	admin.Name = in.Name
	admin.Email = in.Email
	admin.MobileNumber = trimOptional(in.MobileNumber)
	admin.Bio = trimOptional(in.Bio)
	if err := s.store.UpdateAdminProfile(ctx, admin); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, wrapError(ErrorConflict, ErrEmailTaken, "Email already registered")
		}
		return nil, err
	}
	view := viewAdmin(admin)
	return &view, nil
}

func (s *AuthService) admin(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := s.store.GetAdminByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, wrapError(ErrorNotFound, ErrAdminNotFound, "Admin not found")
	}
	return admin, nil
}

func (s *AuthService) issue(admin *models.Admin) (*AuthResult, error) {
	if s.signToken == nil {
		return nil, errors.New("token signer not configured")
	}
	token, err := s.signToken(admin.ID, admin.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Admin: viewAdmin(admin)}, nil
}

func viewAdmin(a *models.Admin) AdminView {
	return AdminView{ID: a.ID, Name: a.Name, Email: a.Email, MobileNumber: a.MobileNumber, Bio: a.Bio}
}

// trimOptional drops blank optional strings so they are stored as NULL.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
