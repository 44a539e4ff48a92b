// Package wizard runs the eight-step booking flow: destination, duration,
// date and offer, review, preferences, documents, payment and confirmation.
//
// A session only moves one step at a time. Every step operation checks that
// the session is on that step, so a client cannot skip ahead.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"voyage/internal/booking"
	"voyage/internal/catalog"
	"voyage/internal/events"
	"voyage/internal/notify"
	"voyage/internal/offer"
	"voyage/internal/payment"
)

type Service struct {
	Catalog   catalog.Provider
	Offers    *offer.Synthesizer
	Payments  *payment.Processor
	Events    events.Recorder
	Publisher notify.Publisher
	Store     *Store
	Now       func() time.Time
	Location  *time.Location
}

func NewService(cat catalog.Provider, store *Store) *Service {
	return &Service{
		Catalog:   cat,
		Offers:    offer.NewSynthesizer(nil),
		Payments:  payment.NewProcessor(nil),
		Events:    events.NewMemory(),
		Publisher: notify.Nop{},
		Store:     store,
		Now:       time.Now,
		Location:  time.UTC,
	}
}

// today is the current time in the wizard's calendar location.
func (s *Service) today() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return s.Now().In(loc)
}

func (s *Service) session(customerID, id string) (*Session, error) {
	sess, err := s.Store.Get(id, s.Now())
	if err != nil {
		return nil, err
	}
	if sess.CustomerID != customerID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// do runs fn with the session locked and returns the resulting view.
func (s *Service) do(customerID, id string, fn func(sess *Session) error) (View, error) {
	sess, err := s.session(customerID, id)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := fn(sess); err != nil {
		return View{}, err
	}
	return sess.view(), nil
}

func (s *Service) record(ctx context.Context, sess *Session, eventType, summary string, data any) {
	if s.Events == nil {
		return
	}
	err := s.Events.Record(ctx, events.Event{
		SessionID:  sess.ID,
		EventType:  eventType,
		Summary:    summary,
		Actor:      sess.CustomerID,
		OccurredAt: s.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		log.Printf("[wizard/service] record %s failed session=%s err=%v", eventType, sess.ID, err)
	}
}

func (s *Service) move(ctx context.Context, sess *Session, to Step) {
	from := sess.Step
	sess.Step = to
	sess.UpdatedAt = s.Now()
	s.record(ctx, sess, events.TypeStepChanged, fmt.Sprintf("Moved from %s to %s", from.Name(), to.Name()),
		map[string]any{"from": int(from), "to": int(to)})
}

func (s *Service) next(ctx context.Context, sess *Session) error {
	to, ok := sess.Step.Next()
	if !ok || !CanTransition(sess.Step, to) {
		return StateError{Code: CodeNoNextFromLastStep, Message: "the booking is already complete"}
	}
	s.move(ctx, sess, to)
	return nil
}

func (s *Service) destination(ctx context.Context, id int) (*catalog.Destination, error) {
	d, err := s.Catalog.Destination(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, booking.ValidationError{Code: "DESTINATION_NOT_FOUND", Message: fmt.Sprintf("destination %d does not exist", id)}
	}
	if err != nil {
		return nil, fmt.Errorf("load destination %d: %w", id, err)
	}
	return d, nil
}

func (s *Service) tours(ctx context.Context) ([]catalog.Tour, error) {
	tours, err := s.Catalog.Tours(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tours: %w", err)
	}
	return tours, nil
}

func requireDestination(sess *Session) error {
	if sess.Destination == nil {
		return StateError{Code: CodeNoDestinationSelected, Message: "choose a destination first"}
	}
	return nil
}

func requireTour(sess *Session) error {
	if sess.Tour == nil {
		return StateError{Code: CodeNoTourSelected, Message: "no tour has been selected"}
	}
	return nil
}

// Create starts a session on the destination step. A non-zero destinationID
// pre-selects that destination without confirming it.
func (s *Service) Create(ctx context.Context, customerID string, destinationID int) (View, error) {
	var pre *catalog.Destination
	if destinationID != 0 {
		d, err := s.destination(ctx, destinationID)
		if err != nil {
			return View{}, err
		}
		pre = d
	}

	sess := s.Store.Create(customerID, s.Now())
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.Destination = pre
	s.record(ctx, sess, events.TypeSessionCreated, "Booking started", map[string]any{"destinationId": destinationID})
	log.Printf("[wizard/service] session created id=%s customer=%s", sess.ID, customerID)
	return sess.view(), nil
}

func (s *Service) Get(ctx context.Context, customerID, id string) (View, error) {
	return s.do(customerID, id, func(*Session) error { return nil })
}

// Back returns to the previous step without touching the booking data.
func (s *Service) Back(ctx context.Context, customerID, id string) (View, error) {
	return s.do(customerID, id, func(sess *Session) error {
		if err := sess.expect(sess.Step); err != nil {
			return err
		}
		to, ok := sess.Step.Prev()
		if !ok || !CanTransition(sess.Step, to) {
			return StateError{Code: CodeNoBackFromFirstStep, Message: "already on the first step"}
		}
		s.move(ctx, sess, to)
		return nil
	})
}

// Timeline returns the session events, oldest first.
func (s *Service) Timeline(ctx context.Context, customerID, id string) ([]events.Event, error) {
	if _, err := s.session(customerID, id); err != nil {
		return nil, err
	}
	if s.Events == nil {
		return []events.Event{}, nil
	}
	return s.Events.ListBySession(ctx, id)
}

// Step 1

type DestinationStep struct {
	Destinations []catalog.Destination `json:"destinations"`
	Selected     *catalog.Destination  `json:"selected"`
	Travelers    booking.Travelers     `json:"travelers"`
	Limits       TravelerLimits        `json:"limits"`
}

type TravelerLimits struct {
	MinAdults   int `json:"minAdults"`
	MaxAdults   int `json:"maxAdults"`
	MinChildren int `json:"minChildren"`
	MaxChildren int `json:"maxChildren"`
}

var travelerLimits = TravelerLimits{
	MinAdults:   booking.MinAdults,
	MaxAdults:   booking.MaxAdults,
	MinChildren: booking.MinChildren,
	MaxChildren: booking.MaxChildren,
}

func (s *Service) DestinationOptions(ctx context.Context, customerID, id string) (DestinationStep, error) {
	var out DestinationStep
	_, err := s.do(customerID, id, func(sess *Session) error {
		if err := sess.at(StepDestination); err != nil {
			return err
		}
		dests, err := s.Catalog.Destinations(ctx)
		if err != nil {
			return fmt.Errorf("load destinations: %w", err)
		}
		out = DestinationStep{
			Destinations: dests,
			Selected:     sess.view().Destination,
			Travelers:    sess.Data.Travelers,
			Limits:       travelerLimits,
		}
		return nil
	})
	return out, err
}

// SelectDestination confirms the destination and traveler counts. Counts
// outside the picker bounds are clamped.
func (s *Service) SelectDestination(ctx context.Context, customerID, id string, destinationID int, travelers booking.Travelers) (View, error) {
	return s.do(customerID, id, func(sess *Session) error {
		if err := sess.expect(StepDestination); err != nil {
			return err
		}
		if destinationID == 0 {
			return booking.ValidationError{Code: "DESTINATION_REQUIRED", Message: "choose a destination"}
		}
		d, err := s.destination(ctx, destinationID)
		if err != nil {
			return err
		}

		travelers = travelers.Clamped()
		reducers := []booking.Reducer{booking.WithDestination(d.ID, d.Name, travelers)}
		// Offers and the priced trip belong to the old destination and party.
		if sess.Destination == nil || sess.Destination.ID != d.ID || sess.Data.Travelers != travelers {
			sess.dropOffers()
			reducers = append(reducers, booking.WithoutTrip())
		}
		sess.Destination = d
		sess.apply(s.Now(), reducers...)
		return s.next(ctx, sess)
	})
}

// Step 2

type DurationStep struct {
	Duration int                    `json:"duration"`
	Options  []offer.DurationOption `json:"options"`
}

func (s *Service) Durations(ctx context.Context, customerID, id string) (DurationStep, error) {
	var out DurationStep
	_, err := s.do(customerID, id, func(sess *Session) error {
		if err := sess.at(StepDuration); err != nil {
			return err
		}
		if err := requireDestination(sess); err != nil {
			return err
		}
		tours, err := s.tours(ctx)
		if err != nil {
			return err
		}
		out = DurationStep{
			Duration: sess.Data.Duration,
			Options:  offer.DurationOptions(tours, sess.Destination.ID),
		}
		return nil
	})
	return out, err
}

// SelectDuration records the day count of the chosen option. It does not
// pin a tour: offers on the next step are built for every active tour.
func (s *Service) SelectDuration(ctx context.Context, customerID, id string, tourID int) (View, error) {
	return s.do(customerID, id, func(sess *Session) error {
		if err := sess.expect(StepDuration); err != nil {
			return err
		}
		if err := requireDestination(sess); err != nil {
			return err
		}
		tours, err := s.tours(ctx)
		if err != nil {
			return err
		}
		opts := offer.DurationOptions(tours, sess.Destination.ID)
		i := slices.IndexFunc(opts, func(o offer.DurationOption) bool { return o.TourID == tourID })
		if i < 0 {
			return booking.ValidationError{Code: "DURATION_NOT_FOUND", Message: fmt.Sprintf("no duration option for tour %d", tourID)}
		}
		sess.apply(s.Now(), booking.WithDuration(opts[i].Days))
		return s.next(ctx, sess)
	})
}

// Step 3

const monthLayout = "2006-01"

// Calendar lays out month (YYYY-MM, default: the current month) with the
// eligible start dates marked.
func (s *Service) Calendar(ctx context.Context, customerID, id, month string) (offer.Calendar, error) {
	var out offer.Calendar
	_, err := s.do(customerID, id, func(sess *Session) error {
		if err := sess.at(StepDate); err != nil {
			return err
		}
		today := s.today()
		year, mon := today.Year(), today.Month()
		if month != "" {
			m, err := time.ParseInLocation(monthLayout, month, today.Location())
			if err != nil {
				return booking.ValidationError{Code: "MONTH_INVALID", Message: "month must be YYYY-MM"}
			}
			year, mon = m.Year(), m.Month()
		}
		out = offer.MonthCalendar(today, year, mon)
		return nil
	})
	return out, err
}

type DateResult struct {
	Date    string        `json:"date"`
	Offers  []offer.Offer `json:"offers"`
	Message string        `json:"message,omitempty"`
}

const noOffersMessage = "No tours are available for this date. Try another date or go back to pick a different destination."

// SelectDate builds fresh offers for date. The session stays on the date
// step until an offer is chosen.
func (s *Service) SelectDate(ctx context.Context, customerID, id, date string) (DateResult, error) {
	var out DateResult
	_, err := s.do(customerID, id, func(sess *Session) error {
		if err := sess.expect(StepDate); err != nil {
			return err
		}
		if err := requireDestination(sess); err != nil {
			return err
		}
		today := s.today()
		start, err := time.ParseInLocation(offer.DateLayout, date, today.Location())
		if err != nil {
			return booking.ValidationError{Code: "DATE_INVALID", Message: "date must be YYYY-MM-DD"}
		}
		if !offer.IsEligible(today, start) {
			return booking.ValidationError{Code: "DATE_NOT_ELIGIBLE", Message: fmt.Sprintf("%s is not a departure date", date)}
		}
		tours, err := s.tours(ctx)
		if err != nil {
			return err
		}

		offers := s.Offers.Synthesize(*sess.Destination, tours, start)
		sess.dropOffers()
		sess.Offers = offers
		sess.OffersDate = &start
		sess.UpdatedAt = s.Now()
		s.record(ctx, sess, events.TypeOffersGenerated, fmt.Sprintf("%d offers for %s", len(offers), date),
			map[string]any{"date": date, "count": len(offers)})

		out = DateResult{Date: date, Offers: slices.Clone(offers)}
		if len(offers) == 0 {
			out.Offers = []offer.Offer{}
			out.Message = noOffersMessage
		}
		return nil
	})
	return out, err
}

// SelectOffer takes one of the offers generated for the chosen date and
// prices it for the travelers.
func (s *Service) SelectOffer(ctx context.Context, customerID, id, offerID string) (View, error) {
	return s.do(customerID, id, func(sess *Session) error {
		if err := sess.expect(StepDate); err != nil {
			return err
		}
		o, ok := sess.findOffer(offerID)
		if !ok {
			return booking.ValidationError{Code: "OFFER_NOT_FOUND", Message: fmt.Sprintf("offer %q is not available", offerID)}
		}
		sess.Tour = &o
		sess.apply(s.Now(), booking.WithTrip(o.StartDate, o.EndDate, o.Days, o.Price))
		return s.next(ctx, sess)
	})
}

// Step 4

type Review struct {
	Tour       offer.Offer       `json:"tour"`
	Travelers  booking.Travelers `json:"travelers"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	Booking    booking.Data      `json:"booking"`
}

func (s *Service) Review(ctx context.Context, customerID, id string) (Review, error) {
	var out Review
	_, err := s.do(customerID, id, func(sess *Session) error {
		if err := sess.at(StepReview); err != nil {
			return err
		}
		if err := requireTour(sess); err != nil {
			return err
		}
		out = Review{
			Tour:       *sess.Tour,
			Travelers:  sess.Data.Travelers,
			TotalPrice: booking.TotalPrice(sess.Tour.Price, sess.Data.Travelers),
			Booking:    sess.Data.Apply(),
		}
		return nil
	})
	return out, err
}

func (s *Service) ContinueReview(ctx context.Context, customerID, id string) (View, error) {
	return s.do(customerID, id, func(sess *Session) error {
		if err := sess.expect(StepReview); err != nil {
			return err
		}
		if err := requireTour(sess); err != nil {
			return err
		}
		return s.next(ctx, sess)
	})
}

// Step 5

type PreferenceOptions struct {
	Accommodations  []booking.Accommodation `json:"accommodations"`
	MealPlans       []booking.MealPlan      `json:"mealPlans"`
	RoomTypes       []booking.RoomType      `json:"roomTypes"`
	Dietary         []string                `json:"dietaryRestrictions"`
	SpecialRequests []string                `json:"specialRequests"`
}

type PreferencesStep struct {
	Options            PreferenceOptions   `json:"options"`
	Current            booking.Preferences `json:"current"`
	InsurancePerPerson decimal.Decimal     `json:"insurancePerPerson"`
	InsuranceTotal     decimal.Decimal     `json:"insuranceTotal"`
}

func (s *Service) PreferencesOptions(ctx context.Context, customerID, id string) (PreferencesStep, error) {
	var out PreferencesStep
	_, err := s.do(customerID, id, func(sess *Session) error {
		if err := sess.at(StepPreferences); err != nil {
			return err
		}
		current, err := booking.DefaultPreferencesForm().Build()
		if err != nil {
			return err
		}
		if p := sess.Data.Apply().Preferences; p != nil {
			current = *p
		}
		out = PreferencesStep{
			Options: PreferenceOptions{
				Accommodations:  slices.Clone(booking.Accommodations),
				MealPlans:       slices.Clone(booking.MealPlans),
				RoomTypes:       slices.Clone(booking.RoomTypes),
				Dietary:         slices.Clone(booking.DietaryOptions),
				SpecialRequests: slices.Clone(booking.SpecialRequestOptions),
			},
			Current:            current,
			InsurancePerPerson: booking.InsurancePerPerson,
			InsuranceTotal:     booking.InsuranceQuote(sess.Data.Travelers),
		}
		return nil
	})
	return out, err
}

func (s *Service) SubmitPreferences(ctx context.Context, customerID, id string, form booking.PreferencesForm) (View, error) {
	return s.do(customerID, id, func(sess *Session) error {
		if err := sess.expect(StepPreferences); err != nil {
			return err
		}
		p, err := form.Build()
		if err != nil {
			return err
		}
		sess.apply(s.Now(), booking.WithPreferences(p))
		return s.next(ctx, sess)
	})
}

// Step 6

func (s *Service) Documents(ctx context.Context, customerID, id string) ([]Document, error) {
	var out []Document
	_, err := s.do(customerID, id, func(sess *Session) error {
		if err := sess.at(StepDocuments); err != nil {
			return err
		}
		out = documents()
		return nil
	})
	return out, err
}

func (s *Service) ConfirmDocuments(ctx context.Context, customerID, id string) (View, error) {
	return s.do(customerID, id, func(sess *Session) error {
		if err := sess.expect(StepDocuments); err != nil {
			return err
		}
		return s.next(ctx, sess)
	})
}

// Step 7

func parseMethod(method string) (payment.Method, error) {
	m, err := payment.ParseMethod(method)
	if err != nil {
		return "", booking.ValidationError{Code: "PAYMENT_METHOD_INVALID", Message: err.Error()}
	}
	return m, nil
}

// PaymentQuote prices the booking for method, card when empty.
func (s *Service) PaymentQuote(ctx context.Context, customerID, id, method string) (payment.Quote, error) {
	if method == "" {
		method = string(payment.MethodCard)
	}
	m, err := parseMethod(method)
	if err != nil {
		return payment.Quote{}, err
	}

	var out payment.Quote
	_, err = s.do(customerID, id, func(sess *Session) error {
		if err := sess.at(StepPayment); err != nil {
			return err
		}
		if err := requireTour(sess); err != nil {
			return err
		}
		out = payment.NewQuote(sess.Data.TotalPrice, m)
		return nil
	})
	return out, err
}

// Pay runs the simulated checkout and moves the session to confirmation.
//
// The phases run without the session lock so the current phase can be read
// through Get. A second Pay while one is running fails with
// PAYMENT_IN_PROGRESS. The checkout cannot be cancelled: it keeps running
// after the caller goes away.
func (s *Service) Pay(ctx context.Context, customerID, id, method string, card payment.CardDetails) (View, error) {
	m, err := parseMethod(method)
	if err != nil {
		return View{}, err
	}
	sess, err := s.session(customerID, id)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	if err := sess.expect(StepPayment); err != nil {
		sess.mu.Unlock()
		return View{}, err
	}
	if err := requireTour(sess); err != nil {
		sess.mu.Unlock()
		return View{}, err
	}
	sess.paying = true
	sess.PaymentMethod = m
	quote := payment.NewQuote(sess.Data.TotalPrice, m)
	sess.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	res, err := s.Payments.Run(ctx, func(ph payment.Phase) {
		sess.mu.Lock()
		sess.PaymentPhase = ph.Status
		sess.UpdatedAt = s.Now()
		sess.mu.Unlock()
		s.record(ctx, sess, events.TypePaymentPhase, ph.Status, map[string]any{"phase": ph.Name})
	})

	sess.mu.Lock()
	sess.paying = false
	sess.PaymentPhase = ""
	if err != nil {
		sess.mu.Unlock()
		return View{}, fmt.Errorf("payment: %w", err)
	}
	sess.apply(s.Now(), booking.WithPayment(string(m), res.Reference))
	s.record(ctx, sess, events.TypePaymentCompleted, "Payment completed", map[string]any{
		"bookingReference": res.Reference,
		"method":           string(m),
		"amountPaid":       quote.AmountToPay.StringFixed(2),
		"cardLast4":        card.Last4(),
	})
	if err := s.next(ctx, sess); err != nil {
		sess.mu.Unlock()
		return View{}, err
	}
	view := sess.view()
	msg := notify.CompletedBooking{
		SessionID:        sess.ID,
		CustomerID:       sess.CustomerID,
		BookingReference: res.Reference,
		PaymentMethod:    string(m),
		TourID:           sess.Tour.TourID,
		TourName:         sess.Tour.Name,
		Booking:          sess.Data.Apply(),
		CompletedAt:      s.Now().UTC(),
	}
	sess.mu.Unlock()

	log.Printf("[wizard/service] payment completed session=%s ref=%s method=%s", sess.ID, res.Reference, m)
	if s.Publisher != nil {
		if err := s.Publisher.BookingCompleted(ctx, msg); err != nil {
			log.Printf("[wizard/service] publish booking failed ref=%s err=%v", res.Reference, err)
		}
	}
	return view, nil
}

// Step 8

var ConfirmationActions = []string{"voucher", "calendar", "email"}

type Confirmation struct {
	Booking     booking.Data         `json:"booking"`
	Tour        *offer.Offer         `json:"tour"`
	Destination *catalog.Destination `json:"destination"`
	Actions     []string             `json:"actions"`
}

func (s *Service) Confirmation(ctx context.Context, customerID, id string) (Confirmation, error) {
	var out Confirmation
	_, err := s.do(customerID, id, func(sess *Session) error {
		if err := sess.at(StepConfirmation); err != nil {
			return err
		}
		v := sess.view()
		out = Confirmation{
			Booking:     v.Booking,
			Tour:        v.Tour,
			Destination: v.Destination,
			Actions:     slices.Clone(ConfirmationActions),
		}
		return nil
	})
	return out, err
}

// ConfirmationAction always ends in ErrNotImplemented for a known action.
func (s *Service) ConfirmationAction(ctx context.Context, customerID, id, action string) error {
	_, err := s.do(customerID, id, func(sess *Session) error {
		if err := sess.at(StepConfirmation); err != nil {
			return err
		}
		if !slices.Contains(ConfirmationActions, action) {
			return booking.ValidationError{Code: "ACTION_INVALID", Message: fmt.Sprintf("unknown action %q", action)}
		}
		return ErrNotImplemented
	})
	return err
}
