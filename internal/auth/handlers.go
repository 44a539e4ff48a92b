package auth

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"voyage/internal/api"
	"voyage/pkg/authtoken"
	"voyage/pkg/config"
)

const devTokenTTL = 12 * time.Hour

type Handlers struct {
	Cfg config.Config
	Now func() time.Time
}

type LoginResponse struct {
	Token      string    `json:"token"`
	CustomerID string    `json:"customerId"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Redirect   string    `json:"redirect,omitempty"`
}

// Login is the development login entry point. It mints a customer session
// token without checking credentials and echoes the return marker so the
// client can resume the wizard. It does not exist in prod.
func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if h.Cfg.IsProd() {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "not found")
		return
	}
	if h.Cfg.Auth.TokenSecret == "" {
		api.WriteError(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "AUTH_TOKEN_SECRET is not configured")
		return
	}

	qs := r.URL.Query()
	customerID := strings.TrimSpace(qs.Get("customer"))
	if customerID == "" {
		customerID = "dev-" + randomHex(4)
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	issuedAt := now()
	token, err := authtoken.Issue(customerID, qs.Get("email"), qs.Get("name"), h.Cfg.Auth.Audience, h.Cfg.Auth.TokenSecret, devTokenTTL, issuedAt)
	if err != nil {
		log.Printf("[auth/handlers] issue dev token failed customer=%s err=%v", customerID, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:      token,
		CustomerID: customerID,
		ExpiresAt:  issuedAt.Add(devTokenTTL),
		Redirect:   qs.Get("redirect"),
	})
}

func randomHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
