package api

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/soaringjerry/Pulse/internal/middleware"
	"github.com/soaringjerry/Pulse/internal/services"
)

type Options struct {
	Tokens   *middleware.TokenIssuer
	TokenTTL time.Duration
	Share    services.ShareConfig
	Logger   log.FieldLogger
}

type Router struct {
	auth      *services.AuthService
	sessions  *services.SessionService
	questions *services.QuestionService
	feedback  *services.FeedbackService
	analytics *services.AnalyticsService
	contacts  *services.ContactService
	exports   *services.ExportService
	tokens    *middleware.TokenIssuer
	log       log.FieldLogger
}

func NewRouter(store Store, opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Router{
		auth:      services.NewAuthService(store, opts.Tokens.Sign, opts.TokenTTL),
		sessions:  services.NewSessionService(store, opts.Share),
		questions: services.NewQuestionService(store),
		feedback:  services.NewFeedbackService(store),
		analytics: services.NewAnalyticsService(store),
		contacts:  services.NewContactService(store),
		exports:   services.NewExportService(store),
		tokens:    opts.Tokens,
		log:       logger,
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	// auth
	mux.HandleFunc("POST /api/auth/register-admin", rt.handleRegister)
	mux.HandleFunc("POST /api/auth/login", rt.handleLogin)
	mux.Handle("PUT /api/auth/change-password", rt.protect(rt.handleChangePassword))
	mux.Handle("GET /api/auth/profile", rt.protect(rt.handleGetProfile))
	mux.Handle("PUT /api/auth/profile", rt.protect(rt.handleUpdateProfile))

	// sessions
	mux.Handle("POST /api/sessions", rt.protect(rt.handleCreateSession))
	mux.Handle("GET /api/sessions", rt.protect(rt.handleListSessions))
	mux.Handle("GET /api/sessions/{sessionId}", rt.protect(rt.handleGetSession))
	mux.Handle("GET /api/sessions/admin/{adminId}", rt.protect(rt.handleListSessionsByAdmin))
	mux.Handle("GET /api/sessions/analytics/{sessionId}", rt.protect(rt.handleSessionAnalytics))
	mux.Handle("GET /api/share/{sessionId}", rt.protect(rt.handleShareSession))

	// questions
	mux.Handle("POST /api/questions/{sessionId}", rt.protect(rt.handleAddQuestions))
	mux.Handle("DELETE /api/questions/{questionId}", rt.protect(rt.handleDeleteQuestion))
	mux.HandleFunc("GET /api/questions/{sessionId}", rt.handleListQuestions)

	// feedback
	mux.HandleFunc("POST /api/feedback/{sessionId}", rt.handleSubmitFeedback)
	mux.Handle("GET /api/feedback/{sessionId}", rt.protect(rt.handleListFeedback))
	mux.Handle("GET /api/feedback/{sessionId}/export", rt.protect(rt.handleExportFeedback))

	// analytics
	mux.Handle("GET /api/analytics/sessions/{sessionId}/questions", rt.protect(rt.handleQuestionAnalytics))

	// contacts
	mux.HandleFunc("POST /api/contact/{sessionId}", rt.handleSubmitContact)
	mux.HandleFunc("GET /api/contact/{adminId}", rt.handleListContacts)
}

// protect runs h only for requests carrying a valid admin token.
func (rt *Router) protect(h http.HandlerFunc) http.Handler {
	return middleware.WithAuth(rt.tokens)(middleware.RequireAuth(h))
}

// callerID returns the authenticated admin id; protect guarantees it is present.
func callerID(r *http.Request) string {
	id, _ := middleware.AdminIDFromContext(r.Context())
	return id
}
