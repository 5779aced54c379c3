package api

import (
	"net/http"

	"github.com/soaringjerry/Pulse/internal/middleware"
	"github.com/soaringjerry/Pulse/internal/services"
)

// POST /api/sessions
// { title, description, date, questions?: [{text, type, isRequired?}] }
func (rt *Router) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var in services.CreateSessionInput
	if !decodeJSON(w, r, &in) {
		return
	}
	created, err := rt.sessions.CreateSession(r.Context(), callerID(r), in)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, map[string]any{
		"message": "Session created successfully",
		"session": created,
	})
}

// GET /api/sessions
func (rt *Router) handleListSessions(w http.ResponseWriter, r *http.Request) {
	list, err := rt.sessions.ListSessions(r.Context())
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// GET /api/sessions/{sessionId}
func (rt *Router) handleGetSession(w http.ResponseWriter, r *http.Request) {
	detail, err := rt.sessions.GetSession(r.Context(), callerID(r), r.PathValue("sessionId"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, detail)
}

// GET /api/sessions/admin/{adminId}
func (rt *Router) handleListSessionsByAdmin(w http.ResponseWriter, r *http.Request) {
	list, err := rt.sessions.ListSessionsByAdmin(r.Context(), callerID(r), r.PathValue("adminId"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// GET /api/sessions/analytics/{sessionId}
func (rt *Router) handleSessionAnalytics(w http.ResponseWriter, r *http.Request) {
	agg, err := rt.analytics.Aggregate(r.Context(), callerID(r), r.PathValue("sessionId"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, agg.SessionReport())
}

// GET /api/share/{sessionId}
func (rt *Router) handleShareSession(w http.ResponseWriter, r *http.Request) {
	link, err := rt.sessions.ShareSession(r.Context(), callerID(r), r.PathValue("sessionId"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, link)
}
