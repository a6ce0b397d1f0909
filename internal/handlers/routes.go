package handlers

import (
	"net/http"

	"github.com/andestrip/registration-api/internal/auth"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(r *chi.Mux, authHandler *auth.AuthHandler, choiceHandler *ChoiceHandler, registrationHandler *RegistrationHandler, pricingHandler *PricingHandler, adminHandler *AdminHandler) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Trip Registration API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, config)

	// Operations declaring cookieAuth security are gated here; the
	// rest pass through.
	api.UseMiddleware(auth.NewAuthMiddleware(api, authHandler))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	huma.Post(api, "/auth/login", authHandler.HandleLogin)

	// Protected routes
	withAuth := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}
	huma.Get(api, "/me", authHandler.HandleMe, withAuth)
	huma.Post(api, "/choices", choiceHandler.HandleRecordChoice, withAuth)
	huma.Get(api, "/choices", choiceHandler.HandleEffectiveChoices, withAuth)
	huma.Get(api, "/pricing", pricingHandler.HandleSummary, withAuth)
	huma.Post(api, "/register", registrationHandler.HandleRegister, withAuth)
	huma.Post(api, "/admin/reconcile", adminHandler.HandleReconcile, withAuth)
}
