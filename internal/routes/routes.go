package routes

import (
	"log/slog"

	"github.com/AnshRaj112/codinglearn-backend/internal/handlers"
	"github.com/AnshRaj112/codinglearn-backend/internal/logging"
	"github.com/AnshRaj112/codinglearn-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Options controls the middleware stack built by NewRouter.
type Options struct {
	AllowedOrigins []string
	Production     bool
	// Logger enables request logging when set.
	Logger *slog.Logger
	// CredentialLimiter rate limits register and login when set.
	CredentialLimiter *middleware.IPRateLimiter
}

// NewRouter assembles the middleware stack and the route table.
func NewRouter(api *handlers.API, tokens middleware.TokenVerifier, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if opts.Logger != nil {
		r.Use(logging.RequestLogger(opts.Logger))
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Production {
		r.Use(middleware.SecurityHeaders)
	}

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	SetupRoutes(r, api, tokens, opts.CredentialLimiter)
	return r
}

func SetupRoutes(r chi.Router, api *handlers.API, tokens middleware.TokenVerifier, limiter *middleware.IPRateLimiter) {
	r.Get("/health", api.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", api.Health)

		// Public
		r.Post("/leads", api.SubmitLead)
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Post("/auth/register", api.Register)
			r.Post("/auth/login", api.Login)
		})

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Get("/auth/me", api.GetMe)
			r.Patch("/users/me", api.UpdateMe)
			r.Post("/users/me/tasks", api.AddTask)
			r.Post("/users/me/tasks/{taskID}/toggle", api.ToggleTask)
			r.Delete("/users/me/tasks/{taskID}", api.RemoveTask)
		})
	})
}
