package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/soaringjerry/Pulse/internal/middleware"
	"github.com/soaringjerry/Pulse/internal/services"
)

// decodeQuestions accepts {questions: [...]}, a bare array, or a single question object.
func decodeQuestions(body []byte) ([]services.QuestionInput, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []services.QuestionInput
		err := json.Unmarshal(trimmed, &list)
		return list, err
	}
	var wrapped struct {
		Questions []services.QuestionInput `json:"questions"`
		services.QuestionInput
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Questions != nil {
		return wrapped.Questions, nil
	}
	if wrapped.Text == "" && wrapped.Type == "" {
		return nil, nil
	}
	return []services.QuestionInput{wrapped.QuestionInput}, nil
}

// POST /api/questions/{sessionId}
func (rt *Router) handleAddQuestions(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	in, err := decodeQuestions(body)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	added, err := rt.questions.AddQuestions(r.Context(), callerID(r), r.PathValue("sessionId"), in)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, map[string]any{
		"message":   "Questions added successfully",
		"questions": added,
	})
}

// DELETE /api/questions/{questionId}
func (rt *Router) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := rt.questions.DeleteQuestion(r.Context(), callerID(r), r.PathValue("questionId")); err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, messageResponse{Message: "Question removed successfully"})
}

// GET /api/questions/{sessionId} is open to respondents.
func (rt *Router) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	list, err := rt.questions.ListQuestions(r.Context(), r.PathValue("sessionId"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}
