package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/soaringjerry/Pulse/internal/models"
)

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorForbidden    ErrorCode = "forbidden"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
)

// ServiceError carries a client-facing message and the category the API maps to a status.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Unwrap() error { return e.Err }

func NewInvalidError(msg string) error { return &ServiceError{Code: ErrorInvalid, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrAdminNotFound         = errors.New("admin not found")
	ErrNotOwner              = errors.New("not the session owner")
	ErrInvalidQuestion       = errors.New("invalid question")
	ErrMissingRequiredAnswer = errors.New("missing required answer")
	ErrTypeMismatch          = errors.New("answer type mismatch")
	ErrUnknownQuestion       = errors.New("unknown question")
	ErrAlreadyContacted      = errors.New("already contacted")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	// ErrUnauthenticated and ErrInvalidToken are reported by the auth middleware.
	ErrUnauthenticated = errors.New("authentication token required")
	ErrInvalidToken    = errors.New("invalid or expired token")
)

func wrapError(code ErrorCode, sentinel error, format string, args ...any) error {
	return &ServiceError{Code: code, Message: fmt.Sprintf(format, args...), Err: sentinel}
}

type sessionGetter interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
}

// ownedSession loads a session and checks that adminID owns it.
func ownedSession(ctx context.Context, store sessionGetter, adminID, sessionID string) (*models.Session, error) {
	sess, err := existingSession(ctx, store, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.AdminID != adminID {
		return nil, wrapError(ErrorForbidden, ErrNotOwner, "Unauthorized access to this session")
	}
	return sess, nil
}

func existingSession(ctx context.Context, store sessionGetter, sessionID string) (*models.Session, error) {
	sess, err := store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, wrapError(ErrorNotFound, ErrSessionNotFound, "Session not found")
	}
	return sess, nil
}
