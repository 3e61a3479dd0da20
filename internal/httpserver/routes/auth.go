package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/webspot/webspot/internal/httpserver/deps"
	"github.com/webspot/webspot/internal/httpserver/handlers"
	"github.com/webspot/webspot/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:           d.AuthRateBurst,
		RefillPerMinute: d.AuthRateRefill,
		TrustProxy:      d.TrustProxy,
	})

	r.With(limit).Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", handlers.SignUp(d))
		r.Post("/signin", handlers.SignIn(d))
		r.Post("/signout", handlers.SignOut(d))
		r.Post("/guest", handlers.SignInAsGuest(d))
	})
}
