package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	mux := chi.NewRouter()
	mux.Use(mw.Recover, mw.Cors, mw.Log)

	mux.Route("/console", func(r chi.Router) {
		r.Use(mw.Tab)

		r.Get("/health", h.Health)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/session", h.Session)

		r.Route("/superadmin", func(r chi.Router) {
			r.Use(mw.Guard)

			r.Get("/counts", h.Counts)
			r.Get("/profile", h.Profile)

			r.Route("/staff", func(r chi.Router) {
				r.Get("/", h.Staffs)
				r.Post("/", h.CreateStaff)
				r.Put("/{id}", h.UpdateStaff)
				r.Delete("/{id}", h.DeleteStaff)
				r.Get("/{id}/permissions", h.Permissions)
				r.Put("/{id}/permissions", h.UpdatePermissions)
				r.Post("/clear-error", h.ClearStaffError)
			})

			r.Route("/students", func(r chi.Router) {
				r.Get("/", h.Students)
				r.Post("/", h.CreateStudent)
				r.Put("/{id}", h.UpdateStudent)
				r.Delete("/{id}", h.DeleteStudent)
				r.Post("/clear-error", h.ClearStudentError)
			})
		})

		r.Route("/staff", func(r chi.Router) {
			r.Use(mw.Guard)

			r.Get("/profile", h.Profile)

			r.Route("/students", func(r chi.Router) {
				r.Get("/", h.StaffStudents)
				r.Post("/", h.CreateStaffStudent)
				r.Put("/{id}", h.UpdateStaffStudent)
				r.Delete("/{id}", h.DeleteStaffStudent)
				r.Get("/completion", h.StaffStudentCompletion)
				r.Post("/clear-messages", h.ClearStaffStudentMessages)
			})
		})
	})

	return mux
}
