package offer

import "fmt"

var highlightsByCountry = map[string][]string{
	"Thailand": {
		"Visit the Grand Palace and Wat Pho",
		"Cruise the floating markets",
		"Street food tour at a night market",
		"Elephant sanctuary visit",
	},
	"Japan": {
		"Ride the Shinkansen bullet train",
		"Traditional tea ceremony",
		"Fushimi Inari shrine gates",
		"Evening in Shibuya and Shinjuku",
	},
	"Italy": {
		"Skip-the-line Colosseum entry",
		"Vatican Museums and Sistine Chapel",
		"Pasta making class",
		"Chianti wine tasting",
	},
	"Greece": {
		"Acropolis guided visit",
		"Sunset in Oia",
		"Ferry between the Cyclades",
		"Greek taverna dinner",
	},
	"Peru": {
		"Sunrise at Machu Picchu",
		"Sacred Valley markets",
		"Cusco colonial quarter walk",
		"Peruvian cooking class",
	},
	"Mexico": {
		"Chichen Itza pyramids",
		"Swim in a cenote",
		"Mexico City street food",
		"Teotihuacan at dawn",
	},
}

// Highlights returns the highlights for an exact country name, or a generic
// list built around the tour location. Never empty.
func Highlights(country, location string) []string {
	if h, ok := highlightsByCountry[country]; ok {
		return append([]string(nil), h...)
	}
	return []string{
		fmt.Sprintf("Guided tour of %s", location),
		"Authentic local cuisine",
		"Cultural experiences",
	}
}

func includes(location string) []string {
	return []string{
		fmt.Sprintf("Accommodation in %s", location),
		"Daily breakfast",
		"Airport transfers",
		"English-speaking local guide",
		fmt.Sprintf("Entrance fees to %s attractions", location),
		"24/7 travel assistance",
	}
}

func excludes() []string {
	return []string{
		"International flights",
		"Travel insurance",
		"Personal expenses",
		"Tips and gratuities",
	}
}
