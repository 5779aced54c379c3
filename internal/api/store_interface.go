package api

import "github.com/soaringjerry/Pulse/internal/services"

// Store is everything the router's services need from persistence.
type Store interface {
	services.AuthStore
	services.SessionStore
	services.QuestionStore
	services.FeedbackStore
	services.AnalyticsStore
	services.ContactStore
	services.ExportStore
}
