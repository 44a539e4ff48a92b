package wizard

import (
	"slices"
	"sync"
	"time"

	"voyage/internal/booking"
	"voyage/internal/catalog"
	"voyage/internal/offer"
	"voyage/internal/payment"
)

// Session is one customer's pass through the wizard. All fields are guarded
// by mu; only the Service touches them.
type Session struct {
	mu sync.Mutex

	ID         string
	CustomerID string
	Step       Step
	Data       booking.Data

	Destination *catalog.Destination
	Tour        *offer.Offer

	// Offers are the ones generated for OffersDate and are dropped whenever
	// the destination or the date changes.
	Offers     []offer.Offer
	OffersDate *time.Time

	PaymentMethod payment.Method
	PaymentPhase  string
	paying        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSession(id, customerID string, now time.Time) *Session {
	return &Session{
		ID:         id,
		CustomerID: customerID,
		Step:       FirstStep,
		Data:       booking.New(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// expect fails unless the session is idle on step want. A paid booking is
// final and accepts no further changes.
func (s *Session) expect(want Step) error {
	if s.paying {
		return StateError{Code: CodePaymentInProgress, Message: "payment is still being processed"}
	}
	if s.Data.Completed() {
		return StateError{Code: CodeBookingCompleted, Message: "the booking is already paid"}
	}
	if s.Step != want {
		return stepMismatch(s.Step, want)
	}
	return nil
}

func (s *Session) apply(now time.Time, reducers ...booking.Reducer) {
	s.Data = s.Data.Apply(reducers...)
	s.UpdatedAt = now
}

func (s *Session) dropOffers() {
	s.Offers = nil
	s.OffersDate = nil
	s.Tour = nil
}

func (s *Session) findOffer(id string) (offer.Offer, bool) {
	for _, o := range s.Offers {
		if o.ID == id {
			return o, true
		}
	}
	return offer.Offer{}, false
}

// View is a consistent snapshot of a session for the API.
type View struct {
	ID                string               `json:"id"`
	Step              Step                 `json:"step"`
	StepName          string               `json:"stepName"`
	CanGoBack         bool                 `json:"canGoBack"`
	Booking           booking.Data         `json:"booking"`
	Destination       *catalog.Destination `json:"selectedDestination"`
	Tour              *offer.Offer         `json:"selectedTour"`
	Offers            []offer.Offer        `json:"offers"`
	PaymentMethod     payment.Method       `json:"paymentMethod,omitempty"`
	PaymentInProgress bool                 `json:"paymentInProgress"`
	PaymentPhase      string               `json:"paymentPhase,omitempty"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

func (s *Session) view() View {
	_, canBack := s.Step.Prev()
	v := View{
		ID:                s.ID,
		Step:              s.Step,
		StepName:          s.Step.Name(),
		CanGoBack:         canBack && !s.paying && !s.Data.Completed(),
		Booking:           s.Data.Apply(),
		Offers:            slices.Clone(s.Offers),
		PaymentMethod:     s.PaymentMethod,
		PaymentInProgress: s.paying,
		PaymentPhase:      s.PaymentPhase,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if v.Offers == nil {
		v.Offers = []offer.Offer{}
	}
	if s.Destination != nil {
		d := *s.Destination
		v.Destination = &d
	}
	if s.Tour != nil {
		t := *s.Tour
		v.Tour = &t
	}
	return v
}

// at fails unless the session is on step want. Reads use it so a step can
// still be rendered while a payment runs.
func (s *Session) at(want Step) error {
	if s.Step != want {
		return stepMismatch(s.Step, want)
	}
	return nil
}
