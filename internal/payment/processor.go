// Package payment simulates the checkout step. No money moves: the processor
// walks through fixed timed phases and always succeeds.
package payment

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Phase is one named stage of the simulated checkout.
type Phase struct {
	Name   string        `json:"name"`
	Status string        `json:"status"`
	Delay  time.Duration `json:"-"`
}

var DefaultPhases = []Phase{
	{Name: "validating", Status: "Validating card details...", Delay: 1000 * time.Millisecond},
	{Name: "processing", Status: "Processing payment...", Delay: 1500 * time.Millisecond},
	{Name: "reference", Status: "Generating booking reference...", Delay: 500 * time.Millisecond},
}

// DelayFunc waits for d or until ctx is done.
type DelayFunc func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ScaledSleep stretches or compresses every delay by scale. Zero skips waiting.
func ScaledSleep(scale float64) DelayFunc {
	return func(ctx context.Context, d time.Duration) error {
		return Sleep(ctx, time.Duration(float64(d)*scale))
	}
}

// Rand supplies the random reference suffix.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.Intn(n) }

// CardDetails are captured for display only and never checked against a payment rail.
type CardDetails struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// Last4 is the only part of a card that is ever recorded.
func (c CardDetails) Last4() string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, c.Number)
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}

type Result struct {
	Reference string `json:"bookingReference"`
	Status    string `json:"paymentStatus"`
}

type Processor struct {
	Phases []Phase
	Delay  DelayFunc
	Now    func() time.Time
	Rand   Rand
}

func NewProcessor(delay DelayFunc) *Processor {
	if delay == nil {
		delay = Sleep
	}
	return &Processor{
		Phases: DefaultPhases,
		Delay:  delay,
		Now:    time.Now,
		Rand:   globalRand{},
	}
}

// Run walks the phases in order, reporting each one before waiting on it, and
// then issues a booking reference. It only returns an error if ctx ends
// mid-phase.
func (p *Processor) Run(ctx context.Context, onPhase func(Phase)) (Result, error) {
	for _, ph := range p.Phases {
		if onPhase != nil {
			onPhase(ph)
		}
		if err := p.Delay(ctx, ph.Delay); err != nil {
			return Result{}, err
		}
	}
	return Result{
		Reference: NewReference(p.Now(), p.Rand),
		Status:    "completed",
	}, nil
}

const (
	ReferencePrefix   = "VYG-"
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceSuffix   = 9
)

// NewReference formats VYG-<unix millis>-<9 uppercase alphanumerics>.
func NewReference(now time.Time, r Rand) string {
	if r == nil {
		r = globalRand{}
	}
	var b strings.Builder
	b.WriteString(ReferencePrefix)
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('-')
	for i := 0; i < referenceSuffix; i++ {
		b.WriteByte(referenceAlphabet[r.IntN(len(referenceAlphabet))])
	}
	return b.String()
}
