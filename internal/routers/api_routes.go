package routers

import (
	"mockprep/platform/internal/handlers"
	"mockprep/platform/internal/middleware"
	"mockprep/platform/internal/models"

	"github.com/go-chi/chi/v5"
)

func APIRoutes(router *chi.Mux, authHandler *handlers.AuthHandler, interviewHandler *handlers.InterviewHandler) {
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.ValidateRequest[*models.SignUpRequest]()).Post("/sign-up", authHandler.SignUpHandler)
			r.With(middleware.ValidateRequest[*models.SignInRequest]()).Post("/sign-in", authHandler.SignInHandler)
			r.With(middleware.ValidateRequest[*models.SignInRequest]()).Post("/admin-sign-in", authHandler.AdminSignInHandler)
			r.Post("/sign-out", authHandler.SignOutHandler)
			r.Get("/me", authHandler.MeHandler)
		})

		r.Get("/interviews/{id}", interviewHandler.GetInterviewHandler)
		r.Get("/interviews/{id}/feedback", interviewHandler.GetInterviewFeedbackHandler)
		r.With(middleware.ValidateRequest[*models.GenerateFeedbackRequest]()).Post("/interviews/{id}/feedback", interviewHandler.GenerateFeedbackHandler)

		r.Get("/feedback/{id}", interviewHandler.GetFeedbackHandler)
		r.Post("/feedback/{id}/finalize", interviewHandler.RetryFinalizeHandler)

		r.Get("/admin/anomalies", interviewHandler.AnomaliesHandler)
	})
}
