package services

import (
	"context"
	"fmt"

	"github.com/soaringjerry/Pulse/internal/models"
)

type ExportStore interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
	ListQuestions(ctx context.Context, sessionID string) ([]*models.Question, error)
	ListFeedbackResponses(ctx context.Context, sessionID string) ([]*models.FeedbackResponse, error)
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportService struct {
	store ExportStore
}

func NewExportService(store ExportStore) *ExportService {
	return &ExportService{store: store}
}

// ExportResponses renders a session's responses as CSV. format is "long" (default) or "wide".
func (s *ExportService) ExportResponses(ctx context.Context, adminID, sessionID, format string) (*ExportResult, error) {
	if format == "" {
		format = "long"
	}
	if format != "long" && format != "wide" {
		return nil, NewInvalidError("format must be long or wide")
	}
	if _, err := ownedSession(ctx, s.store, adminID, sessionID); err != nil {
		return nil, err
	}
	questions, err := s.store.ListQuestions(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	responses, err := s.store.ListFeedbackResponses(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case "wide":
		data, err = ExportWideCSV(questions, responses)
	default:
		data, err = ExportLongCSV(LongRows(questions, responses))
	}
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("session_%s_%s.csv", sessionID, format),
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}
