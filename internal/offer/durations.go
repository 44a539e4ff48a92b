package offer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"voyage/internal/catalog"
)

// DurationOption is one selectable trip length for a destination.
type DurationOption struct {
	Days        int             `json:"days"`
	Title       string          `json:"title"`
	TourName    string          `json:"tourName"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	TourID      int             `json:"tourId"`
}

// DurationOptions derives one option per active tour of the destination.
// Tours whose price or length cannot be read are left out.
func DurationOptions(tours []catalog.Tour, destinationID int) []DurationOption {
	active := catalog.ActiveToursFor(tours, destinationID)
	out := make([]DurationOption, 0, len(active))
	for _, t := range active {
		days, err := catalog.ParseDays(t.Days)
		if err != nil || days <= 0 {
			continue
		}
		price, err := catalog.ParsePrice(t.Price)
		if err != nil {
			continue
		}
		out = append(out, DurationOption{
			Days:        days,
			Title:       durationTitle(days),
			TourName:    t.Name,
			Description: t.Description,
			Price:       price,
			TourID:      t.ID,
		})
	}
	return out
}

func durationTitle(days int) string {
	if days == 1 {
		return "1 Day"
	}
	return fmt.Sprintf("%d Days", days)
}
