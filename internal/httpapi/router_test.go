package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage/internal/catalog"
	"voyage/internal/payment"
	"voyage/internal/wizard"
	"voyage/pkg/config"
)

var testNow = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	var cfg config.Config
	cfg.AppEnv = "dev"
	cfg.Auth.LoginURL = "/v1/auth/login"
	cfg.Auth.TokenSecret = "test-secret"

	cat := catalog.NewMock()
	svc := wizard.NewService(cat, wizard.NewStore(time.Hour))
	svc.Now = func() time.Time { return testNow }
	svc.Payments = payment.NewProcessor(func(context.Context, time.Duration) error { return nil })

	return NewRouter(Dependencies{
		Cfg:     cfg,
		Catalog: cat,
		Wizard:  svc,
		Now:     svc.Now,
	})
}

type client struct {
	t       *testing.T
	handler http.Handler
	headers map[string]string
}

func (c client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

type sessionBody struct {
	Session struct {
		ID       string `json:"id"`
		Step     int    `json:"step"`
		StepName string `json:"stepName"`
		Booking  struct {
			Duration         int     `json:"duration"`
			TotalPrice       *string `json:"totalPrice"`
			StartDate        *string `json:"startDate"`
			EndDate          *string `json:"endDate"`
			BookingReference string  `json:"bookingReference"`
			PaymentStatus    string  `json:"paymentStatus"`
		} `json:"booking"`
	} `json:"session"`
}

type errorBody struct {
	Error struct {
		Code     string `json:"code"`
		Redirect string `json:"redirect"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestWizard_RequiresLogin(t *testing.T) {
	c := client{t: t, handler: newTestRouter(t)}
	rec := c.do(http.MethodPost, "/v1/bookings/wizard", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "LOGIN_REQUIRED", body.Error.Code)
	assert.Equal(t, "/v1/auth/login?redirect=booking", body.Error.Redirect)
}

func TestWizard_FullFlowOverHTTP(t *testing.T) {
	c := client{t: t, handler: newTestRouter(t), headers: map[string]string{"X-Customer-ID": "cust-1"}}

	rec := c.do(http.MethodPost, "/v1/bookings/wizard", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	s := decode[sessionBody](t, rec)
	id := s.Session.ID
	assert.Equal(t, 1, s.Session.Step)
	base := "/v1/bookings/wizard/" + id

	rec = c.do(http.MethodPost, base+"/destination", map[string]any{"destinationId": 3, "adults": 2, "children": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decode[sessionBody](t, rec).Session.Step)

	rec = c.do(http.MethodGet, base+"/durations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"7 Days"`)

	rec = c.do(http.MethodPost, base+"/duration", map[string]any{"tourId": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, base+"/calendar?month=2026-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"date":"2026-10-21","day":21,"selectable":true`)

	rec = c.do(http.MethodPost, base+"/date", map[string]any{"date": "2026-10-21"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"id":"1-20261021"`)

	rec = c.do(http.MethodPost, base+"/offer", map[string]any{"offerId": "1-20261021"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s = decode[sessionBody](t, rec)
	assert.Equal(t, 4, s.Session.Step)
	require.NotNil(t, s.Session.Booking.TotalPrice)
	assert.Equal(t, "1360", *s.Session.Booking.TotalPrice)
	assert.Equal(t, 7, s.Session.Booking.Duration)

	rec = c.do(http.MethodGet, base+"/review", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodPost, base+"/review/continue", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, base+"/preferences", map[string]any{
		"accommodation":   "luxury",
		"mealPlan":        "half-board",
		"roomType":        "twin",
		"specialRequests": []string{"Quiet room"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, base+"/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passport")

	rec = c.do(http.MethodPost, base+"/documents/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, base+"/payment?method=installments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amountToPay":"408"`)

	rec = c.do(http.MethodPost, base+"/payment", map[string]any{
		"method": "card",
		"card":   map[string]string{"number": "4242 4242 4242 4242", "name": "A Traveler", "expiry": "12/29", "cvv": "123"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s = decode[sessionBody](t, rec)
	assert.Equal(t, 8, s.Session.Step)
	assert.Equal(t, "confirmation", s.Session.StepName)
	assert.Regexp(t, regexp.MustCompile(`^VYG-\d+-[A-Z0-9]{9}$`), s.Session.Booking.BookingReference)
	assert.Equal(t, "completed", s.Session.Booking.PaymentStatus)

	rec = c.do(http.MethodGet, base+"/confirmation", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"customer":{"id":"cust-1"}`)

	rec = c.do(http.MethodPost, base+"/confirmation/voucher", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = c.do(http.MethodGet, base+"/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAYMENT_COMPLETED")
}

func TestWizard_ErrorMapping(t *testing.T) {
	c := client{t: t, handler: newTestRouter(t), headers: map[string]string{"X-Customer-ID": "cust-1"}}

	rec := c.do(http.MethodPost, "/v1/bookings/wizard", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/v1/bookings/wizard/" + decode[sessionBody](t, rec).Session.ID

	rec = c.do(http.MethodPost, base+"/back", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NO_BACK_FROM_FIRST_STEP", decode[errorBody](t, rec).Error.Code)

	rec = c.do(http.MethodPost, base+"/date", map[string]any{"date": "2026-10-21"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "STEP_MISMATCH", decode[errorBody](t, rec).Error.Code)

	rec = c.do(http.MethodPost, base+"/destination", map[string]any{"adults": 2})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decode[errorBody](t, rec).Error.Code)

	rec = c.do(http.MethodPost, base+"/destination", map[string]any{"destinationId": 99})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "DESTINATION_NOT_FOUND", decode[errorBody](t, rec).Error.Code)

	req := httptest.NewRequest(http.MethodPost, base+"/destination", bytes.NewBufferString("{"))
	req.Header.Set("X-Customer-ID", "cust-1")
	raw := httptest.NewRecorder()
	c.handler.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)

	rec = c.do(http.MethodGet, "/v1/bookings/wizard/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	other := client{t: t, handler: c.handler, headers: map[string]string{"X-Customer-ID": "cust-2"}}
	rec = other.do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWizard_TravelerCountsAreClamped(t *testing.T) {
	c := client{t: t, handler: newTestRouter(t), headers: map[string]string{"X-Customer-ID": "cust-1"}}

	rec := c.do(http.MethodPost, "/v1/bookings/wizard", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/v1/bookings/wizard/" + decode[sessionBody](t, rec).Session.ID

	rec = c.do(http.MethodPost, base+"/destination", map[string]any{"destinationId": 3, "adults": 11, "children": -1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"travelers":{"adults":10,"children":0}`)
}

func TestCatalogRoutes(t *testing.T) {
	c := client{t: t, handler: newTestRouter(t)}

	rec := c.do(http.MethodGet, "/v1/destinations/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thailand")

	rec = c.do(http.MethodGet, "/v1/tours?destination_id=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Chiang Rai")
}
