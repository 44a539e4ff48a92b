package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage/pkg/catalogapi"
)

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"$680":     "680",
		"$1,280":   "1280",
		" 950 ":    "950",
		"$2,499.5": "2499.5",
	}
	for in, want := range cases {
		got, err := ParsePrice(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s -> %s", in, got)
	}

	_, err := ParsePrice("on request")
	assert.Error(t, err)
}

func TestParseDays(t *testing.T) {
	n, err := ParseDays("7 days")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = ParseDays("12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = ParseDays("a week")
	assert.Error(t, err)
	_, err = ParseDays("")
	assert.Error(t, err)
}

func TestActiveToursFor(t *testing.T) {
	got := ActiveToursFor(MockTours, 3)
	require.Len(t, got, 2)
	for _, tour := range got {
		assert.Equal(t, 3, tour.DestinationID)
		assert.Equal(t, StatusActive, tour.Status)
	}
}

func TestFilterTours(t *testing.T) {
	assert.Len(t, FilterTours(MockTours, 0, ""), len(MockTours))
	assert.Len(t, FilterTours(MockTours, 3, ""), 3)
	assert.Len(t, FilterTours(MockTours, 3, StatusInactive), 1)
}

func TestStatic_ReturnsCopies(t *testing.T) {
	s := NewMock()
	ctx := context.Background()

	d, err := s.Destination(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Thailand", d.Name)
	d.Name = "changed"

	again, _ := s.Destination(ctx, 3)
	assert.Equal(t, "Thailand", again.Name)

	_, err = s.Destination(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockTours_AllReadable(t *testing.T) {
	for _, tour := range MockTours {
		_, err := ParsePrice(tour.Price)
		assert.NoError(t, err, "tour %d", tour.ID)
		_, err = ParseDays(tour.Days)
		assert.NoError(t, err, "tour %d", tour.ID)
	}
}

func TestRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/destinations":
			_ = json.NewEncoder(w).Encode(MockDestinations)
		case "/destinations/3":
			_ = json.NewEncoder(w).Encode(MockDestinations[2])
		case "/tours":
			_ = json.NewEncoder(w).Encode(MockTours)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	rem := NewRemote(catalogapi.Client{BaseURL: srv.URL, APIKey: "secret"})
	ctx := context.Background()

	dests, err := rem.Destinations(ctx)
	require.NoError(t, err)
	assert.Len(t, dests, len(MockDestinations))

	d, err := rem.Destination(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Thailand", d.Name)

	_, err = rem.Destination(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	tours, err := rem.Tours(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, tours[0].DestinationID)
}

func TestRemote_ItemsEnvelope(t *testing.T) {
	srv := httptest.NewServer(newCatalogRouter())
	defer srv.Close()

	rem := NewRemote(catalogapi.Client{BaseURL: srv.URL})
	ctx := context.Background()

	dests, err := rem.Destinations(ctx)
	require.NoError(t, err)
	assert.Len(t, dests, len(MockDestinations))

	tours, err := rem.Tours(ctx)
	require.NoError(t, err)
	assert.Len(t, tours, len(MockTours))
}

func TestDecodeList(t *testing.T) {
	got, err := decodeList[Destination](json.RawMessage(` [{"id":1,"name":"Japan"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Japan", got[0].Name)

	got, err = decodeList[Destination](json.RawMessage(`{"items":[{"id":2},{"id":3}]}`))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = decodeList[Destination](json.RawMessage(`"nope"`))
	assert.Error(t, err)
}

func newCatalogRouter() http.Handler {
	h := Handlers{Provider: NewMock()}
	r := chi.NewRouter()
	r.Get("/destinations", h.ListDestinations)
	r.Get("/destinations/{id}", h.GetDestination)
	r.Get("/tours", h.ListTours)
	return r
}

func TestHandlers(t *testing.T) {
	r := newCatalogRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tours?destination_id=3&status=active", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []Tour `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Items, 2)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tours?status=archived", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/destinations/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/destinations/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/destinations", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thailand")
}
