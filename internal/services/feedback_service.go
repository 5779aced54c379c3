package services

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soaringjerry/Pulse/internal/models"
)

type FeedbackStore interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
	ListQuestions(ctx context.Context, sessionID string) ([]*models.Question, error)
	// SaveFeedback writes the response and all of its answers in one transaction.
	SaveFeedback(ctx context.Context, resp *models.FeedbackResponse, answers []*models.Answer) error
	ListFeedbackResponses(ctx context.Context, sessionID string) ([]*models.FeedbackResponse, error)
}

type FeedbackService struct {
	store FeedbackStore
	now   func() time.Time
	idGen func() string
}

// AnswerInput is one submitted answer. Value is kept raw so its JSON type can be checked
// against the question type.
type AnswerInput struct {
	QuestionID string          `json:"questionId"`
	Value      json.RawMessage `json:"value"`
}

type SubmitResult struct {
	Message            string `json:"message"`
	FeedbackResponseID string `json:"feedbackResponseId"`
}

func NewFeedbackService(store FeedbackStore) *FeedbackService {
	return &FeedbackService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: uuid.NewString,
	}
}

// Submit validates answers against the session's questions and persists them atomically.
// Nothing is written when any check fails.
func (s *FeedbackService) Submit(ctx context.Context, sessionID string, answers []AnswerInput) (*SubmitResult, error) {
	if len(answers) == 0 {
		return nil, NewInvalidError("Answers array is required and cannot be empty")
	}
	if _, err := existingSession(ctx, s.store, sessionID); err != nil {
		return nil, err
	}
	questions, err := s.store.ListQuestions(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	supplied := make(map[string]bool, len(answers))
	for _, a := range answers {
		if _, ok := byID[a.QuestionID]; !ok {
			return nil, wrapError(ErrorInvalid, ErrUnknownQuestion,
				"Question with ID %s not found in session", a.QuestionID)
		}
		if supplied[a.QuestionID] {
			return nil, NewInvalidError("Question " + a.QuestionID + " was answered more than once")
		}
		supplied[a.QuestionID] = true
	}
	for _, q := range questions {
		if q.IsRequired && !supplied[q.ID] {
			return nil, wrapError(ErrorInvalid, ErrMissingRequiredAnswer,
				"Required question '%s' was not answered.", q.Text)
		}
	}

	resp := &models.FeedbackResponse{ID: s.idGen(), SessionID: sessionID, CreatedAt: s.now()}
	rows := make([]*models.Answer, 0, len(answers))
	for _, a := range answers {
		q := byID[a.QuestionID]
		ans, err := decodeAnswer(q, a.Value)
		if err != nil {
			return nil, err
		}
		ans.ID = s.idGen()
		ans.FeedbackID = resp.ID
		rows = append(rows, ans)
	}

	if err := s.store.SaveFeedback(ctx, resp, rows); err != nil {
		return nil, err
	}
	return &SubmitResult{Message: "Feedback submitted successfully", FeedbackResponseID: resp.ID}, nil
}

// decodeAnswer maps a raw value onto the answer field selected by the question type.
func decodeAnswer(q *models.Question, raw json.RawMessage) (*models.Answer, error) {
	ans := &models.Answer{QuestionID: q.ID}
	raw = bytes.TrimSpace(raw)
	switch q.Type {
	case models.QuestionYesNo:
		switch string(raw) {
		case "true", "false":
			v := string(raw) == "true"
			ans.SelectedOption = &v
			return ans, nil
		}
		return nil, mismatch(q, "a boolean")
	case models.QuestionRating:
		v, ok := coerceInteger(raw)
		if !ok {
			return nil, mismatch(q, "an integer")
		}
		ans.Rating = &v
		return ans, nil
	case models.QuestionText:
		var v string
		if len(raw) == 0 || raw[0] != '"' || json.Unmarshal(raw, &v) != nil {
			return nil, mismatch(q, "a string")
		}
		ans.ResponseText = &v
		return ans, nil
	}
	return nil, wrapError(ErrorInvalid, ErrTypeMismatch, "Unsupported question type: %s", q.Type)
}

func mismatch(q *models.Question, want string) error {
	return wrapError(ErrorInvalid, ErrTypeMismatch,
		"Answer for question '%s' (ID: %s) must be %s for %s type.", q.Text, q.ID, want, q.Type)
}

// coerceInteger accepts a JSON number or numeric string holding a finite whole number.
// Booleans, null and fractional values are rejected.
func coerceInteger(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = v
	case 't', 'f', 'n', '[', '{':
		return 0, false
	default:
		if err := json.Unmarshal(raw, &f); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func (s *FeedbackService) ListResponses(ctx context.Context, adminID, sessionID string) ([]*models.FeedbackResponse, error) {
	if _, err := ownedSession(ctx, s.store, adminID, sessionID); err != nil {
		return nil, err
	}
	out, err := s.store.ListFeedbackResponses(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*models.FeedbackResponse{}
	}
	return out, nil
}
