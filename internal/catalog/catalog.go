package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("catalog: not found")

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Destination struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Packages    int    `json:"packages"`
	PriceRange  string `json:"priceRange"`
	Description string `json:"description"`
}

type Tour struct {
	ID            int    `json:"id"`
	Location      string `json:"location"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	Days          string `json:"days"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	DestinationID int    `json:"destination_id"`
	Status        Status `json:"status"`
}

// Provider is the read-only catalog the wizard consumes.
type Provider interface {
	Destinations(ctx context.Context) ([]Destination, error)
	// Destination returns ErrNotFound when id is unknown.
	Destination(ctx context.Context, id int) (*Destination, error)
	Tours(ctx context.Context) ([]Tour, error)
}

// ActiveToursFor keeps the active tours of one destination, in catalog order.
func ActiveToursFor(tours []Tour, destinationID int) []Tour {
	var out []Tour
	for _, t := range tours {
		if t.DestinationID == destinationID && t.Status == StatusActive {
			out = append(out, t)
		}
	}
	return out
}

// FilterTours applies the optional query filters of the tours listing.
// Zero values disable a filter.
func FilterTours(tours []Tour, destinationID int, status Status) []Tour {
	out := make([]Tour, 0, len(tours))
	for _, t := range tours {
		if destinationID != 0 && t.DestinationID != destinationID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ParsePrice reads a display price such as "$1,280" or "680".
func ParsePrice(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", s, err)
	}
	return d, nil
}

// ParseDays reads the leading integer of a display duration such as "7 days".
func ParseDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (unicode.IsDigit(rune(s[end])) || (end == 0 && (s[0] == '-' || s[0] == '+'))) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, fmt.Errorf("parse days %q: %w", s, err)
	}
	return n, nil
}
