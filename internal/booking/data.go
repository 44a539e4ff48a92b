// Package booking holds the booking state shared by every wizard step.
//
// Data is a value type. Steps never mutate it in place; they produce a Reducer
// and the wizard applies it to its single authoritative copy.
package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultDuration = 7

	MinAdults   = 1
	MaxAdults   = 10
	MinChildren = 0
	MaxChildren = 8

	PaymentStatusCompleted = "completed"
)

type Travelers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// Count is the number of people travelling, children included.
func (t Travelers) Count() int {
	return t.Adults + t.Children
}

// Clamped bounds the counters the way the traveler pickers do.
func (t Travelers) Clamped() Travelers {
	return Travelers{
		Adults:   clamp(t.Adults, MinAdults, MaxAdults),
		Children: clamp(t.Children, MinChildren, MaxChildren),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type Data struct {
	Duration        int              `json:"duration"`
	Travelers       Travelers        `json:"travelers"`
	StartDate       *time.Time       `json:"startDate,omitempty"`
	EndDate         *time.Time       `json:"endDate,omitempty"`
	DestinationID   int              `json:"destinationId,omitempty"`
	DestinationName string           `json:"destinationName,omitempty"`
	TotalPrice      *decimal.Decimal `json:"totalPrice,omitempty"`
	Preferences     *Preferences     `json:"preferences,omitempty"`
	PaymentMethod   string           `json:"paymentMethod,omitempty"`

	// Set by the payment step only.
	BookingReference string `json:"bookingReference,omitempty"`
	PaymentStatus    string `json:"paymentStatus,omitempty"`
}

// New returns the state a fresh wizard starts from.
func New() Data {
	return Data{
		Duration:  DefaultDuration,
		Travelers: Travelers{Adults: 1, Children: 0},
	}
}

// Reducer derives the next booking state from the current one.
type Reducer func(Data) Data

// Apply runs reducers in order against a copy of d.
func (d Data) Apply(reducers ...Reducer) Data {
	next := d.clone()
	for _, r := range reducers {
		next = r(next)
	}
	return next
}

// clone copies the pointer fields so a reducer can never reach into a
// previous state.
func (d Data) clone() Data {
	out := d
	if d.StartDate != nil {
		v := *d.StartDate
		out.StartDate = &v
	}
	if d.EndDate != nil {
		v := *d.EndDate
		out.EndDate = &v
	}
	if d.TotalPrice != nil {
		v := *d.TotalPrice
		out.TotalPrice = &v
	}
	if d.Preferences != nil {
		p := d.Preferences.clone()
		out.Preferences = &p
	}
	return out
}

// Completed reports whether the payment step has finished.
func (d Data) Completed() bool {
	return d.PaymentStatus == PaymentStatusCompleted && d.BookingReference != ""
}

func WithDestination(id int, name string, travelers Travelers) Reducer {
	return func(d Data) Data {
		d.DestinationID = id
		d.DestinationName = name
		d.Travelers = travelers
		return d
	}
}

func WithDuration(days int) Reducer {
	return func(d Data) Data {
		d.Duration = days
		return d
	}
}

// WithTrip records the chosen offer dates and the price for the current
// travelers.
func WithTrip(start, end time.Time, days int, unitPrice decimal.Decimal) Reducer {
	return func(d Data) Data {
		total := TotalPrice(unitPrice, d.Travelers)
		d.StartDate = &start
		d.EndDate = &end
		d.Duration = days
		d.TotalPrice = &total
		return d
	}
}

// WithoutTrip forgets the chosen dates and price.
func WithoutTrip() Reducer {
	return func(d Data) Data {
		d.StartDate = nil
		d.EndDate = nil
		d.TotalPrice = nil
		return d
	}
}

func WithPreferences(p Preferences) Reducer {
	return func(d Data) Data {
		c := p.clone()
		d.Preferences = &c
		return d
	}
}

func WithPayment(method, reference string) Reducer {
	return func(d Data) Data {
		d.PaymentMethod = method
		d.BookingReference = reference
		d.PaymentStatus = PaymentStatusCompleted
		return d
	}
}
