package api

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"voyage/internal/customer"
	"voyage/pkg/authtoken"
	"voyage/pkg/config"
)

// ReturnToBooking is the marker a login page uses to send the user back into the wizard.
const ReturnToBooking = "booking"

// CustomerAuth requires a storefront customer session token.
//
// Expected header:
//   - Authorization: Bearer <JWT>
//
// Outside prod, X-Customer-ID is accepted instead so the wizard can be driven
// without an auth provider.
func CustomerAuth(cfg config.Config, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	loginURL := LoginURL(cfg.Auth.LoginURL)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token := strings.TrimSpace(authz[7:])
				vs, err := authtoken.Verify(token, cfg.Auth.Audience, cfg.Auth.TokenSecret, now())
				if err != nil {
					WriteLoginRequired(w, loginURL)
					return
				}
				c := &customer.Customer{ID: vs.CustomerID, Email: vs.Email, Name: vs.Name}
				next.ServeHTTP(w, r.WithContext(WithCustomer(r.Context(), c)))
				return
			}

			// Dev fallback
			if !cfg.IsProd() {
				if id := strings.TrimSpace(r.Header.Get("X-Customer-ID")); id != "" {
					c := &customer.Customer{ID: id}
					next.ServeHTTP(w, r.WithContext(WithCustomer(r.Context(), c)))
					return
				}
			}

			WriteLoginRequired(w, loginURL)
		})
	}
}

// LoginURL appends the booking return marker to the configured login entry point.
func LoginURL(base string) string {
	if base == "" {
		base = "/v1/auth/login"
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("redirect", ReturnToBooking)
	u.RawQuery = q.Encode()
	return u.String()
}
