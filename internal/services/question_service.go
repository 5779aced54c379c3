package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soaringjerry/Pulse/internal/models"
)

type QuestionStore interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	ListQuestions(ctx context.Context, sessionID string) ([]*models.Question, error)
	InsertQuestions(ctx context.Context, qs []*models.Question) error
	DeleteQuestion(ctx context.Context, id string) error
}

type QuestionService struct {
	store QuestionStore
	now   func() time.Time
	idGen func() string
}

// QuestionInput is a candidate question before normalization. The type is case-insensitive
// and isRequired defaults to true when absent.
type QuestionInput struct {
	Text       string `json:"text" validate:"required"`
	Type       string `json:"type" validate:"required,question_type"`
	IsRequired *bool  `json:"isRequired"`
}

// QuestionView adds the display options a respondent form renders.
type QuestionView struct {
	*models.Question
	Options []any `json:"options,omitempty"`
}

func NewQuestionService(store QuestionStore) *QuestionService {
	return &QuestionService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: uuid.NewString,
	}
}

// NormalizeQuestions validates candidates and converts them into questions bound to sessionID.
// Any invalid candidate rejects the whole batch.
func NormalizeQuestions(sessionID string, in []QuestionInput, now time.Time, idGen func() string) ([]*models.Question, error) {
	out := make([]*models.Question, 0, len(in))
	for i := range in {
		c := in[i]
		c.Text = strings.TrimSpace(c.Text)
		c.Type = strings.ToUpper(strings.TrimSpace(c.Type))
		if err := validateInput(c, ErrInvalidQuestion); err != nil {
			se, _ := AsServiceError(err)
			se.Message = "Each question must have text and a valid type: " + se.Message
			return nil, se
		}
		required := true
		if c.IsRequired != nil {
			required = *c.IsRequired
		}
		out = append(out, &models.Question{
			ID:         idGen(),
			SessionID:  sessionID,
			Text:       c.Text,
			Type:       models.QuestionType(c.Type),
			IsRequired: required,
			CreatedAt:  now,
		})
	}
	return out, nil
}

func (s *QuestionService) AddQuestions(ctx context.Context, adminID, sessionID string, in []QuestionInput) ([]*models.Question, error) {
	if len(in) == 0 {
		return nil, wrapError(ErrorInvalid, ErrInvalidQuestion, "At least one question is required")
	}
	if _, err := ownedSession(ctx, s.store, adminID, sessionID); err != nil {
		return nil, err
	}
	qs, err := NormalizeQuestions(sessionID, in, s.now(), s.idGen)
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertQuestions(ctx, qs); err != nil {
		return nil, err
	}
	return qs, nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, adminID, questionID string) error {
	q, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if q == nil {
		return wrapError(ErrorNotFound, ErrQuestionNotFound, "Question not found")
	}
	if _, err := ownedSession(ctx, s.store, adminID, q.SessionID); err != nil {
		return err
	}
	return s.store.DeleteQuestion(ctx, questionID)
}

// ListQuestions is public: respondents load it to render the feedback form.
func (s *QuestionService) ListQuestions(ctx context.Context, sessionID string) ([]QuestionView, error) {
	qs, err := s.store.ListQuestions(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, wrapError(ErrorNotFound, ErrQuestionNotFound, "No questions found for this session")
	}
	out := make([]QuestionView, 0, len(qs))
	for _, q := range qs {
		out = append(out, QuestionView{Question: q, Options: displayOptions(q.Type)})
	}
	return out, nil
}

func displayOptions(t models.QuestionType) []any {
	switch t {
	case models.QuestionYesNo:
		return []any{"Yes", "No"}
	case models.QuestionRating:
		return []any{1, 2, 3, 4, 5}
	}
	return nil
}
