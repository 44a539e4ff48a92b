package wizard

// Document is one item of the travel-document checklist shown before payment.
type Document struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Items       []string `json:"items"`
	Required    bool     `json:"required"`
}

var RequiredDocuments = []Document{
	{
		Title:       "Passport",
		Description: "Every traveler, children included, needs a passport valid for at least six months after the return date.",
		Items: []string{
			"At least two blank pages",
			"Valid for six months beyond the end of the trip",
			"Name matches the booking exactly",
		},
		Required: true,
	},
	{
		Title:       "Visa",
		Description: "Entry rules depend on your nationality and destination. Check with the embassy well before departure.",
		Items: []string{
			"Tourist visa or visa waiver where applicable",
			"Proof of onward or return travel",
			"Proof of accommodation for the first night",
		},
		Required: true,
	},
	{
		Title:       "Travel insurance",
		Description: "We strongly recommend cover for medical emergencies and trip cancellation.",
		Items: []string{
			"Policy number and emergency phone line",
			"Coverage for planned activities",
		},
		Required: false,
	},
	{
		Title:       "Health",
		Description: "Some destinations require or recommend vaccinations. Carry prescriptions for any medication.",
		Items: []string{
			"Vaccination certificate if requested",
			"Prescriptions in original packaging",
		},
		Required: false,
	},
}

func documents() []Document {
	out := make([]Document, len(RequiredDocuments))
	copy(out, RequiredDocuments)
	return out
}
