package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/civicdocs/formportal/internal/auth"
	"github.com/civicdocs/formportal/internal/handler"
	mw "github.com/civicdocs/formportal/internal/middleware"
)

func New(
	jwtSecret string,
	authH *handler.AuthHandler,
	formH *handler.FormHandler,
	draftH *handler.DraftHandler,
	subH *handler.SubmissionHandler,
	valH *handler.ValidationHandler,
	notifH *handler.NotificationHandler,
	searchH *handler.SearchHandler,
	dashH *handler.DashboardHandler,
	adminH *handler.AdminHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/register", authH.Register)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret))

			// Auth
			r.Get("/auth/me", authH.Me)

			// Form catalog (read-only)
			r.Get("/forms", formH.List)
			r.Get("/forms/{formId}", formH.Get)

			// Drafts
			r.Get("/drafts", draftH.List)
			r.Post("/drafts", draftH.Create)
			r.Get("/drafts/{draftId}", draftH.Get)
			r.Put("/drafts/{draftId}", draftH.Autosave)
			r.Post("/drafts/{draftId}/submit", draftH.Submit)

			// Submissions
			r.Get("/submissions", subH.List)
			r.Get("/submissions/{subId}", subH.Get)

			// Document validations
			r.Get("/validations", valH.History)
			r.Post("/validations", valH.Record)
			r.Get("/validations/{recordId}/document", valH.Download)

			// Reviewer/admin surface
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole("admin"))

				r.Get("/dashboard", dashH.Dashboard)
				r.Get("/review/queue", subH.Queue)
				r.Patch("/review/{subId}/status", subH.UpdateStatus)
				r.Post("/notifications", notifH.Send)
				r.Post("/search", searchH.Search)
				r.Get("/admin/indexes", adminH.ListIndexes)
				r.Post("/admin/compact", adminH.Compact)
			})
		})
	})

	return r
}
