package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/dkomarev/afisha/internal/config"
	"github.com/dkomarev/afisha/internal/transport/http/handlers"
	authmw "github.com/dkomarev/afisha/internal/transport/http/middleware"
)

type Handlers struct {
	Events       *handlers.EventsHandler
	Requests     *handlers.RequestsHandler
	Comments     *handlers.CommentsHandler
	Categories   *handlers.CategoriesHandler
	Users        *handlers.UsersHandler
	Compilations *handlers.CompilationsHandler
	Health       *handlers.HealthHandler
}

func New(h Handlers, auth *authmw.AuthMiddleware, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(authmw.RequestID)
	r.Use(authmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(authmw.AccessLog)

	r.Get("/healthz", h.Health.Healthz)

	// Public surface, rate limited per IP.
	r.Group(func(r chi.Router) {
		if cfg.RLEnabled {
			r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
		}

		r.Get("/events", h.Events.SearchPublic)
		r.Get("/events/{event_id}", h.Events.GetPublic)
		r.Get("/events/{event_id}/comments", h.Comments.ListPublic)

		r.Get("/categories", h.Categories.List)
		r.Get("/categories/{cat_id}", h.Categories.Get)

		r.Get("/compilations", h.Compilations.List)
		r.Get("/compilations/{comp_id}", h.Compilations.Get)
	})

	// Authenticated user surface.
	r.Route("/users/{user_id}", func(r chi.Router) {
		r.Use(auth.Require)

		r.Route("/events", func(r chi.Router) {
			r.Post("/", h.Events.Create)
			r.Get("/", h.Events.ListMine)
			r.Get("/{event_id}", h.Events.GetMine)
			r.Patch("/{event_id}", h.Events.UpdateMine)
			r.Get("/{event_id}/requests", h.Events.EventRequests)
			r.Patch("/{event_id}/requests", h.Events.ResolveRequests)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", h.Requests.Create)
			r.Get("/", h.Requests.List)
			r.Patch("/{request_id}/cancel", h.Requests.Cancel)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Post("/", h.Comments.Create)
			r.Get("/", h.Comments.ListMine)
			r.Patch("/{comment_id}", h.Comments.Update)
			r.Delete("/{comment_id}", h.Comments.Delete)
		})
	})

	// Moderation surface.
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin)

		r.Get("/events", h.Events.SearchAdmin)
		r.Patch("/events/{event_id}", h.Events.UpdateAdmin)

		r.Post("/categories", h.Categories.Create)
		r.Patch("/categories/{cat_id}", h.Categories.Update)
		r.Delete("/categories/{cat_id}", h.Categories.Delete)

		r.Post("/users", h.Users.Create)
		r.Get("/users", h.Users.List)
		r.Delete("/users/{user_id}", h.Users.Delete)

		r.Post("/compilations", h.Compilations.Create)
		r.Patch("/compilations/{comp_id}", h.Compilations.Update)
		r.Delete("/compilations/{comp_id}", h.Compilations.Delete)

		r.Get("/comments", h.Comments.ListAdmin)
		r.Patch("/comments/{comment_id}", h.Comments.Moderate)
	})

	return r
}
