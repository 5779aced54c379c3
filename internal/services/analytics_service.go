package services

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/soaringjerry/Pulse/internal/models"
)

type AnalyticsStore interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
	ListQuestions(ctx context.Context, sessionID string) ([]*models.Question, error)
	ListAnswersBySession(ctx context.Context, sessionID string) ([]*models.Answer, error)
	CountFeedbackResponses(ctx context.Context, sessionID string) (int, error)
}

type AnalyticsService struct {
	store AnalyticsStore
}

// Average is a mean rounded to two decimals that always serializes with two fraction digits.
type Average float64

func (a Average) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'f', 2, 64)), nil
}

type YesNoAnalysis struct {
	Yes        int `json:"yes"`
	No         int `json:"no"`
	Unanswered int `json:"unanswered"`
}

type RatingAnalysis struct {
	Average      *Average    `json:"average"`
	Min          *int        `json:"min"`
	Max          *int        `json:"max"`
	Distribution map[int]int `json:"distribution"`
}

type TextAnalysis struct {
	Count     int      `json:"count"`
	Responses []string `json:"responses"`
}

type UnsupportedAnalysis struct {
	Message string `json:"message"`
}

// QuestionAnalytics summarizes the answers to one question. Analysis holds one of the
// *Analysis types above, chosen by Type.
type QuestionAnalytics struct {
	QuestionID   string              `json:"questionId"`
	Text         string              `json:"text"`
	Type         models.QuestionType `json:"type"`
	TotalAnswers int                 `json:"totalAnswers"`
	Analysis     any                 `json:"analysis"`
}

// SessionAnalytics is computed once and rendered by QuestionsReport or SessionReport.
type SessionAnalytics struct {
	SessionID              string
	SessionTitle           string
	TotalFeedbackResponses int
	Questions              []QuestionAnalytics
}

type QuestionsReport struct {
	SessionID     string              `json:"sessionId"`
	SessionTitle  string              `json:"sessionTitle"`
	QuestionCount int                 `json:"questionCount"`
	Questions     []QuestionAnalytics `json:"questions"`
}

type SessionReport struct {
	SessionID              string              `json:"sessionId"`
	SessionTitle           string              `json:"sessionTitle"`
	TotalFeedbackResponses int                 `json:"totalFeedbackResponses"`
	QuestionAnalytics      []QuestionAnalytics `json:"questionAnalytics"`
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

func (s *AnalyticsService) Aggregate(ctx context.Context, adminID, sessionID string) (*SessionAnalytics, error) {
	sess, err := ownedSession(ctx, s.store, adminID, sessionID)
	if err != nil {
		return nil, err
	}
	questions, err := s.store.ListQuestions(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	answers, err := s.store.ListAnswersBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountFeedbackResponses(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionAnalytics{
		SessionID:              sess.ID,
		SessionTitle:           sess.Title,
		TotalFeedbackResponses: total,
		Questions:              AggregateQuestions(questions, answers),
	}, nil
}

func (a *SessionAnalytics) QuestionsReport() QuestionsReport {
	return QuestionsReport{
		SessionID:     a.SessionID,
		SessionTitle:  a.SessionTitle,
		QuestionCount: len(a.Questions),
		Questions:     a.Questions,
	}
}

func (a *SessionAnalytics) SessionReport() SessionReport {
	return SessionReport{
		SessionID:              a.SessionID,
		SessionTitle:           a.SessionTitle,
		TotalFeedbackResponses: a.TotalFeedbackResponses,
		QuestionAnalytics:      a.Questions,
	}
}

// AggregateQuestions groups answers by question and summarizes each in question order.
func AggregateQuestions(questions []*models.Question, answers []*models.Answer) []QuestionAnalytics {
	byQuestion := make(map[string][]*models.Answer, len(questions))
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}
	out := make([]QuestionAnalytics, 0, len(questions))
	for _, q := range questions {
		qa := byQuestion[q.ID]
		item := QuestionAnalytics{
			QuestionID:   q.ID,
			Text:         q.Text,
			Type:         q.Type,
			TotalAnswers: len(qa),
		}
		switch q.Type {
		case models.QuestionYesNo:
			item.Analysis = yesNo(qa)
		case models.QuestionRating:
			item.Analysis = rating(qa)
		case models.QuestionText:
			item.Analysis = text(qa)
		default:
			item.Analysis = UnsupportedAnalysis{Message: "Unsupported question type"}
		}
		out = append(out, item)
	}
	return out
}

func yesNo(answers []*models.Answer) YesNoAnalysis {
	var res YesNoAnalysis
	for _, a := range answers {
		switch {
		case a.SelectedOption == nil:
			res.Unanswered++
		case *a.SelectedOption:
			res.Yes++
		default:
			res.No++
		}
	}
	return res
}

func rating(answers []*models.Answer) RatingAnalysis {
	res := RatingAnalysis{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	var sum, n int
	lo, hi := 0, 0
	for _, a := range answers {
		if a.Rating == nil {
			continue
		}
		r := *a.Rating
		if n == 0 || r < lo {
			lo = r
		}
		if n == 0 || r > hi {
			hi = r
		}
		sum += r
		n++
		// out-of-range ratings count toward average/min/max only
		if _, ok := res.Distribution[r]; ok {
			res.Distribution[r]++
		}
	}
	if n > 0 {
		avg := Average(math.Round(float64(sum)/float64(n)*100) / 100)
		res.Average = &avg
		res.Min = &lo
		res.Max = &hi
	}
	return res
}

func text(answers []*models.Answer) TextAnalysis {
	res := TextAnalysis{Responses: []string{}}
	for _, a := range answers {
		if a.ResponseText == nil || strings.TrimSpace(*a.ResponseText) == "" {
			continue
		}
		res.Responses = append(res.Responses, *a.ResponseText)
	}
	res.Count = len(res.Responses)
	return res
}
