// Package notify hands completed bookings to the booking-submission service
// over NATS JetStream.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"voyage/internal/booking"
)

const StreamName = "BOOKINGS"

// CompletedBooking is the message body published once payment finishes.
type CompletedBooking struct {
	SessionID        string       `json:"sessionId"`
	CustomerID       string       `json:"customerId"`
	BookingReference string       `json:"bookingReference"`
	PaymentMethod    string       `json:"paymentMethod"`
	TourID           int          `json:"tourId"`
	TourName         string       `json:"tourName"`
	Booking          booking.Data `json:"booking"`
	CompletedAt      time.Time    `json:"completedAt"`
}

type Publisher interface {
	BookingCompleted(ctx context.Context, b CompletedBooking) error
}

// Nop is used when no NATS connection is configured.
type Nop struct{}

func (Nop) BookingCompleted(context.Context, CompletedBooking) error { return nil }

type JetStream struct {
	js     jetstream.JetStream
	prefix string
}

// NewJetStream ensures the BOOKINGS stream exists and returns a publisher
// writing under <prefix>.bookings.
func NewJetStream(ctx context.Context, nc *nats.Conn, prefix string) (*JetStream, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{prefix + ".bookings.>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   30 * 24 * time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("create stream %s: %w", StreamName, err)
	}
	return &JetStream{js: js, prefix: prefix}, nil
}

func (p *JetStream) CompletedSubject() string {
	return p.prefix + ".bookings.completed"
}

func (p *JetStream) BookingCompleted(ctx context.Context, b CompletedBooking) error {
	body, err := json.Marshal(b)
	if err != nil {
		return err
	}
	// Deduplicate redeliveries of the same booking on the server side.
	ack, err := p.js.Publish(ctx, p.CompletedSubject(), body, jetstream.WithMsgID(b.BookingReference))
	if err != nil {
		return fmt.Errorf("publish %s: %w", b.BookingReference, err)
	}
	log.Printf("[notify/publisher] booking published ref=%s seq=%d", b.BookingReference, ack.Sequence)
	return nil
}
