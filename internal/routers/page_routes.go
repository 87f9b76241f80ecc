package routers

import (
	"mockprep/platform/internal/handlers"
	"mockprep/platform/internal/middleware"
	"mockprep/platform/internal/models"

	"github.com/go-chi/chi/v5"
)

func PageRoutes(router *chi.Mux, pageHandler *handlers.PageHandler) {
	router.Get("/", pageHandler.HomeHandler)
	router.Get("/sign-in", pageHandler.AuthPageHandler("sign-in"))
	router.Get("/sign-up", pageHandler.AuthPageHandler("sign-up"))
	router.Get("/admin-sign-in", pageHandler.AuthPageHandler("admin-sign-in"))

	router.Get("/dashboard", pageHandler.DashboardHandler)
	router.Get("/take-interview", pageHandler.TakeInterviewHandler)
	router.Get("/my-feedbacks", pageHandler.MyFeedbacksHandler)
	router.Get("/candidate/dashboard", pageHandler.CandidateDashboardHandler)

	router.Route("/admin", func(r chi.Router) {
		r.Get("/dashboard", pageHandler.AdminDashboardHandler)
		r.Get("/feedbacks", pageHandler.AdminFeedbacksHandler)
		r.Get("/create-interview", pageHandler.CreateInterviewFormHandler)
		r.With(middleware.ValidateRequest[*models.CreateInterviewRequest]()).Post("/create-interview", pageHandler.CreateInterviewHandler)
	})
}
