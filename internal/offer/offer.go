// Package offer derives bookable tour offers from the static catalog.
//
// An offer combines a tour template with a chosen start date. Offers are
// ephemeral: they are rebuilt whenever the destination or the date changes.
package offer

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"voyage/internal/catalog"
)

const (
	MinSpots = 3
	MaxSpots = 17

	descriptionExcerpt = 100
)

// Rand is the only non-deterministic input of offer synthesis.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.Intn(n) }

// DefaultRand draws from math/rand's shared source, which is safe for concurrent use.
var DefaultRand Rand = globalRand{}

type DayItinerary struct {
	Day           int      `json:"day"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Meals         []string `json:"meals"`
	Accommodation string   `json:"accommodation,omitempty"`
	Activities    []string `json:"activities"`
}

type Offer struct {
	ID             string          `json:"id"`
	TourID         int             `json:"tourId"`
	Name           string          `json:"name"`
	Destination    string          `json:"destination"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	AvailableSpots int             `json:"availableSpots"`
	Price          decimal.Decimal `json:"price"`
	Days           int             `json:"days"`
	Description    string          `json:"description"`
	Includes       []string        `json:"includes"`
	Excludes       []string        `json:"excludes"`
	Highlights     []string        `json:"highlights"`
	Itinerary      []DayItinerary  `json:"itinerary"`
}

type Synthesizer struct {
	Rand Rand
}

func NewSynthesizer(r Rand) *Synthesizer {
	if r == nil {
		r = DefaultRand
	}
	return &Synthesizer{Rand: r}
}

// Synthesize builds one offer per active tour of the destination starting on
// start. Tours with an unreadable price or length are skipped.
func (s *Synthesizer) Synthesize(dest catalog.Destination, tours []catalog.Tour, start time.Time) []Offer {
	active := catalog.ActiveToursFor(tours, dest.ID)
	out := make([]Offer, 0, len(active))
	for _, t := range active {
		o, err := s.build(dest, t, start)
		if err != nil {
			log.Printf("[offer/offer] skip tour %d: %v", t.ID, err)
			continue
		}
		out = append(out, o)
	}
	return out
}

func (s *Synthesizer) build(dest catalog.Destination, t catalog.Tour, start time.Time) (Offer, error) {
	days, err := catalog.ParseDays(t.Days)
	if err != nil {
		return Offer{}, err
	}
	if days <= 0 {
		return Offer{}, fmt.Errorf("tour length %d is not positive", days)
	}
	price, err := catalog.ParsePrice(t.Price)
	if err != nil {
		return Offer{}, err
	}

	return Offer{
		ID:             ID(t.ID, start),
		TourID:         t.ID,
		Name:           t.Name,
		Destination:    fmt.Sprintf("%s, %s", t.Location, dest.Name),
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, days),
		AvailableSpots: MinSpots + s.Rand.IntN(MaxSpots-MinSpots+1),
		Price:          price,
		Days:           days,
		Description:    t.Description,
		Includes:       includes(t.Location),
		Excludes:       excludes(),
		Highlights:     Highlights(dest.Name, t.Location),
		Itinerary:      Itinerary(t.Location, t.Description, days),
	}, nil
}

// ID identifies an offer by its tour and start date.
func ID(tourID int, start time.Time) string {
	return fmt.Sprintf("%d-%s", tourID, start.Format("20060102"))
}

// Itinerary lays out arrival on day one, departure on the last day and
// sightseeing in between.
func Itinerary(location, description string, days int) []DayItinerary {
	out := make([]DayItinerary, 0, days)
	for day := 1; day <= days; day++ {
		switch {
		case day == 1:
			out = append(out, DayItinerary{
				Day:           day,
				Title:         fmt.Sprintf("Arrival in %s", location),
				Description:   fmt.Sprintf("Arrive in %s, meet your guide for the transfer to the hotel and check in. Welcome briefing in the evening.", location),
				Meals:         []string{"Dinner"},
				Accommodation: fmt.Sprintf("Hotel in %s", location),
				Activities:    []string{"Airport transfer", "Hotel check-in", "Welcome briefing"},
			})
		case day == days:
			out = append(out, DayItinerary{
				Day:         day,
				Title:       "Departure",
				Description: "Breakfast and hotel check-out, then transfer to the airport for your flight home.",
				Meals:       []string{"Breakfast"},
				Activities:  []string{"Hotel check-out", "Airport transfer"},
			})
		default:
			out = append(out, DayItinerary{
				Day:           day,
				Title:         fmt.Sprintf("Exploring %s", location),
				Description:   fmt.Sprintf("A full day discovering %s. %s...", location, excerpt(description, descriptionExcerpt)),
				Meals:         []string{"Breakfast", "Lunch"},
				Accommodation: fmt.Sprintf("Hotel in %s", location),
				Activities:    []string{"Guided sightseeing", "Local experiences", "Free time"},
			})
		}
	}
	return out
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
