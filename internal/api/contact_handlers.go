package api

import (
	"net/http"

	"github.com/soaringjerry/Pulse/internal/middleware"
	"github.com/soaringjerry/Pulse/internal/services"
)

// POST /api/contact/{sessionId}
func (rt *Router) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var in services.ContactInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := rt.contacts.Submit(r.Context(), r.PathValue("sessionId"), in)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, c)
}

// GET /api/contact/{adminId}
func (rt *Router) handleListContacts(w http.ResponseWriter, r *http.Request) {
	list, err := rt.contacts.ListByAdmin(r.Context(), r.PathValue("adminId"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}
