package catalog

import (
	"context"
	"slices"
)

// Static serves a fixed in-memory dataset. It is the mock catalog used in dev
// and tests; callers always receive copies.
type Static struct {
	destinations []Destination
	tours        []Tour
}

func NewStatic(destinations []Destination, tours []Tour) *Static {
	return &Static{
		destinations: slices.Clone(destinations),
		tours:        slices.Clone(tours),
	}
}

// NewMock returns the storefront mock dataset.
func NewMock() *Static {
	return NewStatic(MockDestinations, MockTours)
}

func (s *Static) Destinations(ctx context.Context) ([]Destination, error) {
	return slices.Clone(s.destinations), nil
}

func (s *Static) Destination(ctx context.Context, id int) (*Destination, error) {
	for _, d := range s.destinations {
		if d.ID == id {
			out := d
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Static) Tours(ctx context.Context) ([]Tour, error) {
	return slices.Clone(s.tours), nil
}

var MockDestinations = []Destination{
	{ID: 1, Name: "Japan", Image: "/images/destinations/japan.jpg", Packages: 2, PriceRange: "$1,480 - $2,100", Description: "Neon cities, quiet temples and mountain onsen towns."},
	{ID: 2, Name: "Italy", Image: "/images/destinations/italy.jpg", Packages: 2, PriceRange: "$1,290 - $1,640", Description: "Ancient ruins, Renaissance art and long lunches in the hills."},
	{ID: 3, Name: "Thailand", Image: "/images/destinations/thailand.jpg", Packages: 3, PriceRange: "$540 - $1,150", Description: "Golden temples, night markets and turquoise island water."},
	{ID: 4, Name: "Greece", Image: "/images/destinations/greece.jpg", Packages: 1, PriceRange: "$1,380", Description: "Whitewashed villages, Aegean ferries and classical sites."},
	{ID: 5, Name: "Peru", Image: "/images/destinations/peru.jpg", Packages: 1, PriceRange: "$1,720", Description: "Andean trails, Inca stonework and Lima's food scene."},
	{ID: 6, Name: "Iceland", Image: "/images/destinations/iceland.jpg", Packages: 1, PriceRange: "$2,450", Description: "Glaciers, black sand beaches and the northern lights."},
}

var MockTours = []Tour{
	{ID: 1, Location: "Bangkok", Name: "Bangkok & Chiang Mai Discovery", Price: "$680", Days: "7 days", Description: "From the Grand Palace and floating markets of Bangkok to the old city temples and night bazaar of Chiang Mai.", Image: "/images/tours/bangkok.jpg", DestinationID: 3, Status: StatusActive},
	{ID: 2, Location: "Phuket", Name: "Thai Islands Escape", Price: "$1,150", Days: "10 days", Description: "Island hopping around Phuket, Phi Phi and Krabi with snorkelling stops and long beach afternoons.", Image: "/images/tours/phuket.jpg", DestinationID: 3, Status: StatusActive},
	{ID: 3, Location: "Chiang Rai", Name: "Northern Hill Trek", Price: "$540", Days: "5 days", Description: "Guided trekking through the hill country around Chiang Rai.", Image: "/images/tours/chiang-rai.jpg", DestinationID: 3, Status: StatusInactive},
	{ID: 4, Location: "Tokyo", Name: "Classic Japan", Price: "$2,100", Days: "9 days", Description: "Tokyo, Hakone and Kyoto by bullet train, with a night in a traditional ryokan.", Image: "/images/tours/tokyo.jpg", DestinationID: 1, Status: StatusActive},
	{ID: 5, Location: "Kyoto", Name: "Kyoto Temples & Tea", Price: "$1,480", Days: "6 days", Description: "Zen gardens, a tea ceremony in Uji and the bamboo groves of Arashiyama.", Image: "/images/tours/kyoto.jpg", DestinationID: 1, Status: StatusActive},
	{ID: 6, Location: "Rome", Name: "Roman Holiday", Price: "$1,290", Days: "7 days", Description: "The Colosseum, the Vatican Museums and a day trip to the Amalfi Coast.", Image: "/images/tours/rome.jpg", DestinationID: 2, Status: StatusActive},
	{ID: 7, Location: "Florence", Name: "Tuscan Hills", Price: "$1,640", Days: "8 days", Description: "Florence, Siena and San Gimignano with vineyard lunches in Chianti.", Image: "/images/tours/florence.jpg", DestinationID: 2, Status: StatusActive},
	{ID: 8, Location: "Santorini", Name: "Greek Island Hopping", Price: "$1,380", Days: "8 days", Description: "Athens, Mykonos and Santorini by ferry, with sunset in Oia.", Image: "/images/tours/santorini.jpg", DestinationID: 4, Status: StatusActive},
	{ID: 9, Location: "Cusco", Name: "Inca Trail to Machu Picchu", Price: "$1,720", Days: "7 days", Description: "Acclimatise in Cusco, explore the Sacred Valley and hike the classic Inca Trail.", Image: "/images/tours/cusco.jpg", DestinationID: 5, Status: StatusActive},
	{ID: 10, Location: "Reykjavik", Name: "Iceland Ring Road", Price: "$2,450", Days: "10 days", Description: "A full loop of the island: waterfalls, glacier lagoons and geothermal pools.", Image: "/images/tours/reykjavik.jpg", DestinationID: 6, Status: StatusActive},
}
