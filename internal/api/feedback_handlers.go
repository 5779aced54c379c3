package api

import (
	"net/http"

	"github.com/soaringjerry/Pulse/internal/middleware"
	"github.com/soaringjerry/Pulse/internal/services"
)

// POST /api/feedback/{sessionId}
// { answers: [{questionId, value}] }
func (rt *Router) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers []services.AnswerInput `json:"answers"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := rt.feedback.Submit(r.Context(), r.PathValue("sessionId"), req.Answers)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, res)
}

// GET /api/feedback/{sessionId}
func (rt *Router) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	list, err := rt.feedback.ListResponses(r.Context(), callerID(r), r.PathValue("sessionId"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// GET /api/feedback/{sessionId}/export?format=long|wide
func (rt *Router) handleExportFeedback(w http.ResponseWriter, r *http.Request) {
	res, err := rt.exports.ExportResponses(r.Context(), callerID(r), r.PathValue("sessionId"), r.URL.Query().Get("format"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+res.Filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

// GET /api/analytics/sessions/{sessionId}/questions
func (rt *Router) handleQuestionAnalytics(w http.ResponseWriter, r *http.Request) {
	agg, err := rt.analytics.Aggregate(r.Context(), callerID(r), r.PathValue("sessionId"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, agg.QuestionsReport())
}
