package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/standard-backend/userapi/internal/api/handlers"
	mw "github.com/standard-backend/userapi/internal/api/middleware"
)

type Dependencies struct {
	Tokens         mw.TokenParser
	AuthHandler    *handlers.AuthHandler
	UsersHandler   *handlers.UsersHandler
	HealthHandler  *handlers.HealthHandler
	RateLimitRPS   float64
	RateLimitBurst int
	TrustProxy     bool
	EnableDocs     bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	if dep.TrustProxy {
		r.Use(chimid.RealIP)
	}
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	if dep.RateLimitRPS > 0 {
		r.Use(mw.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))
	}
	r.Use(chimid.Compress(5))

	// Health endpoints
	r.Get("/healthz", dep.HealthHandler.Liveness)
	r.Get("/readyz", dep.HealthHandler.Readiness)

	if dep.EnableDocs {
		r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", dep.AuthHandler.Register)
			ar.Post("/login", dep.AuthHandler.Login)
		})

		api.Route("/users", func(ur chi.Router) {
			ur.Post("/", dep.UsersHandler.Create)

			ur.Group(func(protected chi.Router) {
				protected.Use(mw.Auth(dep.Tokens))
				protected.Get("/", dep.UsersHandler.List)
				protected.Get("/{id}", dep.UsersHandler.Get)
				protected.Put("/{id}", dep.UsersHandler.Update)
				protected.Delete("/{id}", dep.UsersHandler.Delete)
			})
		})
	})

	return r
}
