package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/soaringjerry/Pulse/internal/models"
)

// fakeStore is an in-memory store satisfying every service store interface.
type fakeStore struct {
	admins    map[string]*models.Admin
	sessions  map[string]*models.Session
	questions []*models.Question
	responses []*models.FeedbackResponse
	answers   []*models.Answer
	contacts  []*models.Contact

	saveErr    error
	insertErr  error
	saveCalls  int
	lastAnswer []*models.Answer
}

func newFakeStore() *fakeStore {
	return &fakeStore{admins: map[string]*models.Admin{}, sessions: map[string]*models.Session{}}
}

func (s *fakeStore) GetAdminByEmail(_ context.Context, email string) (*models.Admin, error) {
	for _, a := range s.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) GetAdminByID(_ context.Context, id string) (*models.Admin, error) {
	if a, ok := s.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (s *fakeStore) CreateAdmin(ctx context.Context, a *models.Admin) error {
	if existing, _ := s.GetAdminByEmail(ctx, a.Email); existing != nil {
		return fmt.Errorf("insert admin: %w", models.ErrDuplicate)
	}
	cp := *a
	s.admins[a.ID] = &cp
	return nil
}

func (s *fakeStore) UpdateAdminProfile(_ context.Context, a *models.Admin) error {
	cp := *a
	s.admins[a.ID] = &cp
	return nil
}

func (s *fakeStore) UpdateAdminPassword(_ context.Context, id string, hash []byte) error {
	a, ok := s.admins[id]
	if !ok {
		return errors.New("admin missing")
	}
	a.PasswordHash = hash
	return nil
}

func (s *fakeStore) addSession(id, adminID, title string) *models.Session {
	sess := &models.Session{ID: id, AdminID: adminID, Title: title, CreatedAt: time.Unix(int64(len(s.sessions)), 0).UTC()}
	s.sessions[id] = sess
	return sess
}

func (s *fakeStore) addQuestion(id, sessionID, text string, typ models.QuestionType, required bool) *models.Question {
	q := &models.Question{ID: id, SessionID: sessionID, Text: text, Type: typ, IsRequired: required}
	_ = s.InsertQuestions(context.Background(), []*models.Question{q})
	return q
}

func (s *fakeStore) GetSession(_ context.Context, id string) (*models.Session, error) {
	if sess, ok := s.sessions[id]; ok {
		cp := *sess
		return &cp, nil
	}
	return nil, nil
}

func (s *fakeStore) CreateSession(ctx context.Context, sess *models.Session, qs []*models.Question) error {
	cp := *sess
	s.sessions[sess.ID] = &cp
	return s.InsertQuestions(ctx, qs)
}

func (s *fakeStore) listings(filter func(*models.Session) bool) []*models.SessionListing {
	var out []*models.SessionListing
	for _, sess := range s.sessions {
		if !filter(sess) {
			continue
		}
		l := &models.SessionListing{Session: *sess}
		if a, ok := s.admins[sess.AdminID]; ok {
			l.Admin = models.AdminSummary{ID: a.ID, Name: a.Name, Email: a.Email}
		}
		for _, q := range s.questions {
			if q.SessionID == sess.ID {
				l.Count.Questions++
			}
		}
		for _, r := range s.responses {
			if r.SessionID == sess.ID {
				l.Count.Responses++
			}
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *fakeStore) ListSessions(_ context.Context) ([]*models.SessionListing, error) {
	return s.listings(func(*models.Session) bool { return true }), nil
}

func (s *fakeStore) ListSessionsByAdmin(_ context.Context, adminID string) ([]*models.SessionListing, error) {
	return s.listings(func(sess *models.Session) bool { return sess.AdminID == adminID }), nil
}

func (s *fakeStore) GetQuestion(_ context.Context, id string) (*models.Question, error) {
	for _, q := range s.questions {
		if q.ID == id {
			cp := *q
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListQuestions(_ context.Context, sessionID string) ([]*models.Question, error) {
	var out []*models.Question
	for _, q := range s.questions {
		if q.SessionID == sessionID {
			cp := *q
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertQuestions(_ context.Context, qs []*models.Question) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	for _, q := range qs {
		pos := 0
		for _, existing := range s.questions {
			if existing.SessionID == q.SessionID && existing.Position > pos {
				pos = existing.Position
			}
		}
		q.Position = pos + 1
		cp := *q
		s.questions = append(s.questions, &cp)
	}
	return nil
}

func (s *fakeStore) DeleteQuestion(_ context.Context, id string) error {
	kept := s.answers[:0]
	for _, a := range s.answers {
		if a.QuestionID != id {
			kept = append(kept, a)
		}
	}
	s.answers = kept
	qs := s.questions[:0]
	for _, q := range s.questions {
		if q.ID != id {
			qs = append(qs, q)
		}
	}
	s.questions = qs
	return nil
}

func (s *fakeStore) SaveFeedback(_ context.Context, resp *models.FeedbackResponse, answers []*models.Answer) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *resp
	s.responses = append(s.responses, &cp)
	s.answers = append(s.answers, answers...)
	s.lastAnswer = answers
	return nil
}

func (s *fakeStore) ListFeedbackResponses(_ context.Context, sessionID string) ([]*models.FeedbackResponse, error) {
	var out []*models.FeedbackResponse
	for _, r := range s.responses {
		if r.SessionID != sessionID {
			continue
		}
		cp := *r
		cp.Answers = nil
		for _, a := range s.answers {
			if a.FeedbackID == r.ID {
				cp.Answers = append(cp.Answers, a)
			}
		}
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeStore) ListAnswersBySession(_ context.Context, sessionID string) ([]*models.Answer, error) {
	ids := map[string]bool{}
	for _, r := range s.responses {
		if r.SessionID == sessionID {
			ids[r.ID] = true
		}
	}
	var out []*models.Answer
	for _, a := range s.answers {
		if ids[a.FeedbackID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeStore) CountFeedbackResponses(_ context.Context, sessionID string) (int, error) {
	n := 0
	for _, r := range s.responses {
		if r.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) FindContact(_ context.Context, sessionID, email string) (*models.Contact, error) {
	for _, c := range s.contacts {
		if c.SessionID == sessionID && strings.EqualFold(c.Email, email) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) InsertContact(_ context.Context, c *models.Contact) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	cp := *c
	s.contacts = append(s.contacts, &cp)
	return nil
}

func (s *fakeStore) ListContactsByAdmin(_ context.Context, adminID string) ([]*models.Contact, error) {
	var out []*models.Contact
	for i := len(s.contacts) - 1; i >= 0; i-- {
		if s.contacts[i].AdminID == adminID {
			out = append(out, s.contacts[i])
		}
	}
	return out, nil
}

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func fixedNow() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
