package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"voyage/internal/api"
	"voyage/internal/auth"
	"voyage/internal/catalog"
	"voyage/internal/wizard"
	"voyage/pkg/config"
)

type Dependencies struct {
	Cfg     config.Config
	Catalog catalog.Provider
	Wizard  *wizard.Service
	Now     func() time.Time
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// The storefront frontend is served from its own origin.
	r.Use(api.CORSMiddleware(api.CORSOptions{
		AllowedOrigins: deps.Cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Customer-ID"},
		MaxAgeSeconds:  600,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authHandlers := auth.Handlers{Cfg: deps.Cfg, Now: deps.Now}
	catalogHandlers := catalog.Handlers{Provider: deps.Catalog}
	wizardHandlers := wizard.NewHandlers(deps.Wizard)

	// v1
	r.Route("/v1", func(r chi.Router) {
		// Dev-only token issuer standing in for the storefront auth provider.
		r.Get("/auth/login", authHandlers.Login)

		// Public catalog
		r.Get("/destinations", catalogHandlers.ListDestinations)
		r.Get("/destinations/{id}", catalogHandlers.GetDestination)
		r.Get("/tours", catalogHandlers.ListTours)

		// Booking wizard (customer session required)
		r.Route("/bookings/wizard", func(r chi.Router) {
			// Production: storefront session token.
			// Dev: falls back to X-Customer-ID if Authorization is missing.
			r.Use(api.CustomerAuth(deps.Cfg, deps.Now))

			r.Post("/", wizardHandlers.Create)
			r.Get("/{id}", wizardHandlers.Get)
			r.Post("/{id}/back", wizardHandlers.Back)
			r.Get("/{id}/events", wizardHandlers.Events)

			// 1. destination + travelers
			r.Get("/{id}/destination", wizardHandlers.DestinationOptions)
			r.Post("/{id}/destination", wizardHandlers.SelectDestination)

			// 2. duration
			r.Get("/{id}/durations", wizardHandlers.Durations)
			r.Post("/{id}/duration", wizardHandlers.SelectDuration)

			// 3. date + offer
			r.Get("/{id}/calendar", wizardHandlers.Calendar)
			r.Post("/{id}/date", wizardHandlers.SelectDate)
			r.Post("/{id}/offer", wizardHandlers.SelectOffer)

			// 4. review
			r.Get("/{id}/review", wizardHandlers.Review)
			r.Post("/{id}/review/continue", wizardHandlers.ContinueReview)

			// 5. preferences
			r.Get("/{id}/preferences", wizardHandlers.Preferences)
			r.Post("/{id}/preferences", wizardHandlers.SubmitPreferences)

			// 6. documents
			r.Get("/{id}/documents", wizardHandlers.Documents)
			r.Post("/{id}/documents/confirm", wizardHandlers.ConfirmDocuments)

			// 7. payment (simulated)
			r.Get("/{id}/payment", wizardHandlers.PaymentQuote)
			r.Post("/{id}/payment", wizardHandlers.Pay)

			// 8. confirmation; voucher, calendar and email actions are stubs
			r.Get("/{id}/confirmation", wizardHandlers.Confirmation)
			r.Post("/{id}/confirmation/{action}", wizardHandlers.ConfirmationAction)
		})
	})

	return r
}
