package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soaringjerry/Pulse/internal/models"
)

type ContactStore interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
	FindContact(ctx context.Context, sessionID, email string) (*models.Contact, error)
	InsertContact(ctx context.Context, c *models.Contact) error
	ListContactsByAdmin(ctx context.Context, adminID string) ([]*models.Contact, error)
}

type ContactService struct {
	store ContactStore
	now   func() time.Time
	idGen func() string
}

type ContactInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Mobile      string `json:"mobile"`
	Description string `json:"description"`
}

func NewContactService(store ContactStore) *ContactService {
	return &ContactService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: uuid.NewString,
	}
}

// Submit records a contact request. At most one request is kept per session and email.
func (s *ContactService) Submit(ctx context.Context, sessionID string, in ContactInput) (*models.Contact, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in, nil); err != nil {
		return nil, err
	}
	sess, err := existingSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.FindContact(ctx, sessionID, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, alreadyContacted()
	}
	c := &models.Contact{
		ID:          s.idGen(),
		SessionID:   sessionID,
		AdminID:     sess.AdminID,
		Name:        in.Name,
		Email:       in.Email,
		Mobile:      strings.TrimSpace(in.Mobile),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   s.now(),
	}
	if err := s.store.InsertContact(ctx, c); err != nil {
		// a concurrent submission won the unique constraint
		if errors.Is(err, models.ErrDuplicate) {
			return nil, alreadyContacted()
		}
		return nil, err
	}
	return c, nil
}

func alreadyContacted() error {
	return wrapError(ErrorConflict, ErrAlreadyContacted, "You have already contacted us.")
}

func (s *ContactService) ListByAdmin(ctx context.Context, adminID string) ([]*models.Contact, error) {
	out, err := s.store.ListContactsByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*models.Contact{}
	}
	return out, nil
}
