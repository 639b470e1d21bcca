package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/classdesk/classdesk/pkg/classdesk"
	"github.com/classdesk/classdesk/pkg/classdesk/auth"
)

// NewRouter assembles the full HTTP API. Signup, login, and module
// creation are open; everything else sits behind the bearer token gate.
func NewRouter(service classdesk.Service, tokens *auth.Tokens) http.Handler {
	accounts := NewAccountsHandler(service, tokens)
	modules := NewModulesHandler(service)
	exercises := NewResourcesHandler(service, classdesk.KindExercise)
	materials := NewResourcesHandler(service, classdesk.KindStudyMaterial)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		// Account creation and login issue the tokens the rest of the
		// API requires, so they stay open.
		r.Post("/students", accounts.RegisterStudent)
		r.Post("/teachers", accounts.RegisterTeacher)
		r.Post("/teachers/login", accounts.LoginTeacher)
		r.Post("/modules", modules.CreateModule)

		r.Group(func(r chi.Router) {
			r.Use(tokens.Verifier())
			r.Use(tokens.Authenticator())

			r.Get("/students", accounts.ListStudents)
			r.Get("/teachers", accounts.ListTeachers)

			r.Get("/modules", modules.ListModules)
			r.Route("/modules/{moduleID}", func(r chi.Router) {
				r.Get("/members", modules.ListMembers)
				r.Post("/members/{studentID}", modules.AddMember)
				r.Delete("/members/{studentID}", modules.RemoveMember)

				mountModuleResourceRoutes(r, "/exercises", exercises)
				mountModuleResourceRoutes(r, "/study-materials", materials)
			})

			mountResourceRoutes(r, "/exercises", exercises)
			mountResourceRoutes(r, "/study-materials", materials)
		})
	})

	return r
}

// mountResourceRoutes wires the kind-level collection endpoints
func mountResourceRoutes(r chi.Router, prefix string, h *ResourcesHandler) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", h.ListGrouped)
		r.Post("/", h.Upload)
		r.Put("/{resourceID}", h.Edit)
		r.Delete("/{resourceID}", h.Delete)
	})
}

// mountModuleResourceRoutes wires the module-scoped endpoints; the
// moduleID URL param comes from the enclosing route
func mountModuleResourceRoutes(r chi.Router, prefix string, h *ResourcesHandler) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", h.ListByModule)
		r.Get("/{resourceID}/download", h.Download)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
