package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soaringjerry/Pulse/internal/models"
)

type SessionStore interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
	GetAdminByID(ctx context.Context, id string) (*models.Admin, error)
	CreateSession(ctx context.Context, sess *models.Session, qs []*models.Question) error
	ListQuestions(ctx context.Context, sessionID string) ([]*models.Question, error)
	ListFeedbackResponses(ctx context.Context, sessionID string) ([]*models.FeedbackResponse, error)
	ListSessions(ctx context.Context) ([]*models.SessionListing, error)
	ListSessionsByAdmin(ctx context.Context, adminID string) ([]*models.SessionListing, error)
}

// ShareConfig controls the links handed out for a session.
type ShareConfig struct {
	// PublicURL is the respondent-facing origin, e.g. https://pulse.example.com.
	PublicURL string
	// QRServiceURL renders a QR image for a `data` query parameter.
	QRServiceURL string
	QRSize       int
}

type SessionService struct {
	store SessionStore
	share ShareConfig
	now   func() time.Time
	idGen func() string
}

type CreateSessionInput struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Date        string          `json:"date" validate:"required"`
	Questions   []QuestionInput `json:"questions"`
}

type CreatedSession struct {
	models.Session
	Questions []*models.Question `json:"questions"`
}

// SessionDetail is a session with its owner, questions and every response.
type SessionDetail struct {
	models.Session
	Admin     models.AdminSummary        `json:"admin"`
	Questions []*models.Question         `json:"questions"`
	Responses []*models.FeedbackResponse `json:"responses"`
}

type ShareLink struct {
	SessionID   string `json:"sessionId"`
	FeedbackURL string `json:"feedbackUrl"`
	QRCodeURL   string `json:"qrCodeUrl"`
}

func NewSessionService(store SessionStore, share ShareConfig) *SessionService {
	if share.QRSize <= 0 {
		share.QRSize = 200
	}
	return &SessionService{
		store: store,
		share: share,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: uuid.NewString,
	}
}

func (s *SessionService) CreateSession(ctx context.Context, adminID string, in CreateSessionInput) (*CreatedSession, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Date = strings.TrimSpace(in.Date)
	if err := validateInput(in, nil); err != nil {
		return nil, err
	}
	date, err := parseSessionDate(in.Date)
	if err != nil {
		return nil, err
	}
	now := s.now()
	sess := &models.Session{
		ID:          s.idGen(),
		Title:       in.Title,
		Description: in.Description,
		Date:        date,
		AdminID:     adminID,
		CreatedAt:   now,
	}
	qs, err := NormalizeQuestions(sess.ID, in.Questions, now, s.idGen)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateSession(ctx, sess, qs); err != nil {
		return nil, err
	}
	return &CreatedSession{Session: *sess, Questions: qs}, nil
}

var sessionDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

func parseSessionDate(v string) (time.Time, error) {
	for _, layout := range sessionDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, NewInvalidError("date must be an RFC3339 timestamp or YYYY-MM-DD")
}

func (s *SessionService) GetSession(ctx context.Context, adminID, sessionID string) (*SessionDetail, error) {
	sess, err := ownedSession(ctx, s.store, adminID, sessionID)
	if err != nil {
		return nil, err
	}
	detail := &SessionDetail{Session: *sess, Admin: models.AdminSummary{ID: sess.AdminID}}
	owner, err := s.store.GetAdminByID(ctx, sess.AdminID)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		detail.Admin = models.AdminSummary{ID: owner.ID, Name: owner.Name, Email: owner.Email}
	}
	if detail.Questions, err = s.store.ListQuestions(ctx, sessionID); err != nil {
		return nil, err
	}
	if detail.Responses, err = s.store.ListFeedbackResponses(ctx, sessionID); err != nil {
		return nil, err
	}
	if detail.Questions == nil {
		detail.Questions = []*models.Question{}
	}
	if detail.Responses == nil {
		detail.Responses = []*models.FeedbackResponse{}
	}
	return detail, nil
}

func (s *SessionService) ListSessions(ctx context.Context) ([]*models.SessionListing, error) {
	out, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*models.SessionListing{}
	}
	return out, nil
}

func (s *SessionService) ListSessionsByAdmin(ctx context.Context, callerID, adminID string) ([]*models.SessionListing, error) {
	if callerID != adminID {
		return nil, wrapError(ErrorForbidden, ErrNotOwner, "You can only list your own sessions")
	}
	out, err := s.store.ListSessionsByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*models.SessionListing{}
	}
	return out, nil
}

// ShareSession builds the public feedback link and a QR image URL encoding it.
func (s *SessionService) ShareSession(ctx context.Context, adminID, sessionID string) (*ShareLink, error) {
	sess, err := ownedSession(ctx, s.store, adminID, sessionID)
	if err != nil {
		return nil, err
	}
	feedbackURL := strings.TrimRight(s.share.PublicURL, "/") + "/feedback/" + url.PathEscape(sess.ID)
	link := &ShareLink{SessionID: sess.ID, FeedbackURL: feedbackURL}
	if s.share.QRServiceURL != "" {
		qr, err := url.Parse(s.share.QRServiceURL)
		if err != nil {
			return nil, err
		}
		q := qr.Query()
		size := strconv.Itoa(s.share.QRSize)
		q.Set("size", size+"x"+size)
		q.Set("data", feedbackURL)
		qr.RawQuery = q.Encode()
		link.QRCodeURL = qr.String()
	}
	return link, nil
}
