/**
 * @description
 * This file sets up the HTTP router for the dashboard backend using the
 * `chi` routing library. All GUI-facing endpoints live under /api; the
 * webhook receiver shares the same surface because Dwolla sandbox tunnels
 * deliver to the same host.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: The routing library.
 * - github.com/go-chi/cors: CORS for the separately served GUI.
 */
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/paylab/dwolla-dashboard/internal/app"
	"github.com/paylab/dwolla-dashboard/internal/config"
)

// NewRouter creates and configures a new HTTP router.
func NewRouter(cfg *config.Config, service *app.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	configHandler := NewConfigHandler(service)
	customerHandler := NewCustomerHandler(service)
	accountHandler := NewAccountHandler(service)
	transferHandler := NewTransferHandler(service)
	webhookHandler := NewWebhookHandler(service, cfg.WebhookSecret)

	r.Route("/api", func(r chi.Router) {
		r.Post("/config", configHandler.Configure)
		r.Get("/config/status", configHandler.Status)

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", customerHandler.Create)
			r.Get("/", customerHandler.List)
			r.Get("/eligible", customerHandler.Eligible)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", customerHandler.Get)
				r.Post("/verify", customerHandler.Verify)
				r.Post("/funding-sources", customerHandler.AddFundingSource)
				r.Get("/funding-sources", customerHandler.ListFundingSources)
				r.Post("/iav-token", customerHandler.IAVToken)
			})
		})

		r.Get("/me", accountHandler.Me)
		r.Get("/me/funding-sources", accountHandler.FundingSources)
		r.Get("/me/balance", accountHandler.Balance)

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", transferHandler.Create)
			r.Get("/", transferHandler.List)
			r.Get("/{id}", transferHandler.Get)
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/", webhookHandler.Receive)
			r.Get("/", webhookHandler.List)
			r.Delete("/", webhookHandler.Clear)
		})
	})

	return r
}
