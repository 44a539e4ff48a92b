package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"voyage/internal/api"
	"voyage/internal/booking"
	"voyage/internal/customer"
	"voyage/internal/payment"
)

type Handlers struct {
	Service  *Service
	Validate *validator.Validate
}

func NewHandlers(svc *Service) Handlers {
	return Handlers{Service: svc, Validate: NewValidator()}
}

// NewValidator reports field errors under their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type CreateRequest struct {
	DestinationID int `json:"destinationId" validate:"gte=0"`
}

// DestinationRequest leaves traveler counts unbounded; the service clamps
// them to the picker limits.
type DestinationRequest struct {
	DestinationID int  `json:"destinationId" validate:"required,gt=0"`
	Adults        *int `json:"adults"`
	Children      *int `json:"children"`
}

type DurationRequest struct {
	TourID int `json:"tourId" validate:"required,gt=0"`
}

type DateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type OfferRequest struct {
	OfferID string `json:"offerId" validate:"required"`
}

type PreferencesRequest struct {
	Accommodation       string   `json:"accommodation" validate:"omitempty,oneof=budget standard luxury"`
	MealPlan            string   `json:"mealPlan" validate:"omitempty,oneof=breakfast half-board full-board all-inclusive"`
	RoomType            string   `json:"roomType" validate:"omitempty,oneof=single double twin family"`
	DietaryRestrictions []string `json:"dietaryRestrictions" validate:"max=6,dive,required"`
	SpecialRequests     []string `json:"specialRequests" validate:"max=6,dive,required"`
	MobilityNote        string   `json:"mobilityNote" validate:"max=2000"`
	InsuranceRequired   *bool    `json:"insuranceRequired"`
}

func (p PreferencesRequest) form() booking.PreferencesForm {
	return booking.PreferencesForm{
		Accommodation:       booking.Accommodation(p.Accommodation),
		MealPlan:            booking.MealPlan(p.MealPlan),
		RoomType:            booking.RoomType(p.RoomType),
		DietaryRestrictions: p.DietaryRestrictions,
		SpecialRequests:     p.SpecialRequests,
		MobilityNote:        p.MobilityNote,
		InsuranceRequired:   p.InsuranceRequired,
	}
}

type PaymentRequest struct {
	Method string              `json:"method" validate:"required,oneof=card bank-transfer installments"`
	Card   payment.CardDetails `json:"card"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	var req CreateRequest
	if !h.decode(w, r, &req, true) {
		return
	}
	v, err := h.Service.Create(r.Context(), c.ID, req.DestinationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"session": v})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, h.Service.Get)
}

func (h Handlers) Back(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, h.Service.Back)
}

func (h Handlers) Events(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	items, err := h.Service.Timeline(r.Context(), c.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) DestinationOptions(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	out, err := h.Service.DestinationOptions(r.Context(), c.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, out)
}

func (h Handlers) SelectDestination(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	var req DestinationRequest
	if !h.decode(w, r, &req, false) {
		return
	}
	t := booking.Travelers{Adults: booking.MinAdults, Children: booking.MinChildren}
	if req.Adults != nil {
		t.Adults = *req.Adults
	}
	if req.Children != nil {
		t.Children = *req.Children
	}
	v, err := h.Service.SelectDestination(r.Context(), c.ID, chi.URLParam(r, "id"), req.DestinationID, t)
	writeView(w, v, err)
}

func (h Handlers) Durations(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	out, err := h.Service.Durations(r.Context(), c.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, out)
}

func (h Handlers) SelectDuration(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	var req DurationRequest
	if !h.decode(w, r, &req, false) {
		return
	}
	v, err := h.Service.SelectDuration(r.Context(), c.ID, chi.URLParam(r, "id"), req.TourID)
	writeView(w, v, err)
}

func (h Handlers) Calendar(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	cal, err := h.Service.Calendar(r.Context(), c.ID, chi.URLParam(r, "id"), r.URL.Query().Get("month"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, cal)
}

func (h Handlers) SelectDate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	var req DateRequest
	if !h.decode(w, r, &req, false) {
		return
	}
	out, err := h.Service.SelectDate(r.Context(), c.ID, chi.URLParam(r, "id"), req.Date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, out)
}

func (h Handlers) SelectOffer(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	var req OfferRequest
	if !h.decode(w, r, &req, false) {
		return
	}
	v, err := h.Service.SelectOffer(r.Context(), c.ID, chi.URLParam(r, "id"), req.OfferID)
	writeView(w, v, err)
}

func (h Handlers) Review(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	out, err := h.Service.Review(r.Context(), c.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, out)
}

func (h Handlers) ContinueReview(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, h.Service.ContinueReview)
}

func (h Handlers) Preferences(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	out, err := h.Service.PreferencesOptions(r.Context(), c.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, out)
}

func (h Handlers) SubmitPreferences(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	var req PreferencesRequest
	if !h.decode(w, r, &req, true) {
		return
	}
	v, err := h.Service.SubmitPreferences(r.Context(), c.ID, chi.URLParam(r, "id"), req.form())
	writeView(w, v, err)
}

func (h Handlers) Documents(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	docs, err := h.Service.Documents(r.Context(), c.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": docs})
}

func (h Handlers) ConfirmDocuments(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, h.Service.ConfirmDocuments)
}

func (h Handlers) PaymentQuote(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	q, err := h.Service.PaymentQuote(r.Context(), c.ID, chi.URLParam(r, "id"), r.URL.Query().Get("method"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, q)
}

func (h Handlers) Pay(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	var req PaymentRequest
	if !h.decode(w, r, &req, false) {
		return
	}
	v, err := h.Service.Pay(r.Context(), c.ID, chi.URLParam(r, "id"), req.Method, req.Card)
	writeView(w, v, err)
}

func (h Handlers) Confirmation(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	out, err := h.Service.Confirmation(r.Context(), c.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"confirmation": out,
		"customer":     c,
	})
}

func (h Handlers) ConfirmationAction(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	err := h.Service.ConfirmationAction(r.Context(), c.ID, chi.URLParam(r, "id"), chi.URLParam(r, "action"))
	writeServiceError(w, err)
}

type viewOp func(ctx context.Context, customerID, id string) (View, error)

func (h Handlers) view(w http.ResponseWriter, r *http.Request, op viewOp) {
	c, ok := h.customer(w, r)
	if !ok {
		return
	}
	v, err := op(r.Context(), c.ID, chi.URLParam(r, "id"))
	writeView(w, v, err)
}

func (h Handlers) customer(w http.ResponseWriter, r *http.Request) (*customer.Customer, bool) {
	c := api.CustomerFromContext(r.Context())
	if c == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing customer identity")
		return nil, false
	}
	return c, true
}

// decode reads and validates a JSON body. An empty body is accepted when
// optional is set.
func (h Handlers) decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if !(optional && errors.Is(err, io.EOF)) {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
			return false
		}
	}
	if err := h.Validate.Struct(dst); err != nil {
		api.WriteError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

func writeView(w http.ResponseWriter, v View, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"session": v})
}

func writeServiceError(w http.ResponseWriter, err error) {
	var se StateError
	var ve booking.ValidationError
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.As(err, &se):
		api.WriteError(w, http.StatusConflict, se.Code, se.Message)
	case errors.As(err, &ve):
		api.WriteError(w, http.StatusUnprocessableEntity, ve.Code, ve.Message)
	case errors.Is(err, ErrSessionNotFound):
		api.WriteError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "booking session not found")
	case errors.Is(err, ErrNotImplemented):
		api.WriteError(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "not implemented")
	default:
		log.Printf("[wizard/handlers] internal error: %v", err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
