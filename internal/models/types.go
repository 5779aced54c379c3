package models

import (
	"errors"
	"time"
)

// ErrDuplicate is returned by stores when a write violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// QuestionType selects which answer field is populated and how a question is aggregated.
type QuestionType string

const (
	QuestionText   QuestionType = "TEXT"
	QuestionYesNo  QuestionType = "YES_NO"
	QuestionRating QuestionType = "RATING"
)

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionYesNo, QuestionRating:
		return true
	}
	return false
}

// Admin owns sessions. The password hash never leaves the service layer.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	MobileNumber *string
	Bio          *string
	CreatedAt    time.Time
}

// AdminSummary is the owner block embedded in session payloads.
type AdminSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	AdminID     string    `json:"adminId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SessionCounts mirrors the `_count` block of session listings.
type SessionCounts struct {
	Questions int `json:"questions"`
	Responses int `json:"responses"`
}

// SessionListing is a session row joined with its owner and child counts.
type SessionListing struct {
	Session
	Admin AdminSummary  `json:"admin"`
	Count SessionCounts `json:"_count"`
}

type Question struct {
	ID         string       `json:"id"`
	SessionID  string       `json:"sessionId"`
	Text       string       `json:"text"`
	Type       QuestionType `json:"type"`
	IsRequired bool         `json:"isRequired"`
	// Position orders questions within a session; assigned by the store on insert.
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedbackResponse is one anonymous submission.
type FeedbackResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	Answers   []*Answer `json:"answers"`
}

// Answer holds exactly one populated value field, chosen by the question type.
type Answer struct {
	ID             string    `json:"id"`
	FeedbackID     string    `json:"feedbackId"`
	QuestionID     string    `json:"questionId"`
	SelectedOption *bool     `json:"selectedOption"`
	Rating         *int      `json:"rating"`
	ResponseText   *string   `json:"responseText"`
	Question       *Question `json:"question,omitempty"`
}

// Contact is a respondent's request to be contacted by a session's owner.
type Contact struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	AdminID     string    `json:"adminId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ErrorResponse is the JSON body of every non-2xx API reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
