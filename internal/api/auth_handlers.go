package api

import (
	"net/http"

	"github.com/soaringjerry/Pulse/internal/middleware"
	"github.com/soaringjerry/Pulse/internal/services"
)

type authResponse struct {
	Message string `json:"message"`
	*services.AuthResult
}

// POST /api/auth/register-admin
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := rt.auth.Register(r.Context(), in)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, authResponse{Message: "Admin registered successfully", AuthResult: res})
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := rt.auth.Login(r.Context(), in)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, authResponse{Message: "Login successful", AuthResult: res})
}

// PUT /api/auth/change-password
func (rt *Router) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var in services.ChangePasswordInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := rt.auth.ChangePassword(r.Context(), callerID(r), in); err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, messageResponse{Message: "Password changed successfully"})
}

// GET /api/auth/profile
func (rt *Router) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	view, err := rt.auth.Profile(r.Context(), callerID(r))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}

// PUT /api/auth/profile
func (rt *Router) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in services.ProfileInput
	if !decodeJSON(w, r, &in) {
		return
	}
	view, err := rt.auth.UpdateProfile(r.Context(), callerID(r), in)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}
