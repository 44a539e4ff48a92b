package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage/pkg/authtoken"
	"voyage/pkg/config"
)

func authConfig(env string) config.Config {
	return config.Config{
		AppEnv: env,
		Auth:   config.AuthConfig{TokenSecret: "s3cret", Audience: "voyage-storefront", LoginURL: "/v1/auth/login"},
	}
}

func echoCustomer() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := CustomerFromContext(r.Context())
		_, _ = w.Write([]byte(c.ID))
	})
}

func TestCustomerAuth_Bearer(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tok, err := authtoken.Issue("cust-1", "", "", "voyage-storefront", "s3cret", time.Hour, now)
	require.NoError(t, err)

	h := CustomerAuth(authConfig("prod"), func() time.Time { return now })(echoCustomer())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cust-1", rec.Body.String())
}

func TestCustomerAuth_MissingTokenRedirectsToLogin(t *testing.T) {
	h := CustomerAuth(authConfig("prod"), nil)(echoCustomer())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Customer-ID", "cust-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/v1/auth/login?redirect=booking", rec.Header().Get("Location"))

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "LOGIN_REQUIRED", env.Error.Code)
	assert.Equal(t, "/v1/auth/login?redirect=booking", env.Error.Redirect)
}

func TestCustomerAuth_DevHeaderFallback(t *testing.T) {
	h := CustomerAuth(authConfig("dev"), nil)(echoCustomer())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Customer-ID", "cust-dev")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cust-dev", rec.Body.String())
}

func TestLoginURL_KeepsExistingQuery(t *testing.T) {
	assert.Equal(t, "https://id.example.com/login?lang=en&redirect=booking", LoginURL("https://id.example.com/login?lang=en"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	h := CORSMiddleware(CORSOptions{AllowedOrigins: []string{"http://localhost:5173"}})(echoCustomer())
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}
