package booking

import (
	"fmt"
	"slices"
	"strings"
)

type Accommodation string

const (
	AccommodationBudget   Accommodation = "budget"
	AccommodationStandard Accommodation = "standard"
	AccommodationLuxury   Accommodation = "luxury"
)

type MealPlan string

const (
	MealBreakfast    MealPlan = "breakfast"
	MealHalfBoard    MealPlan = "half-board"
	MealFullBoard    MealPlan = "full-board"
	MealAllInclusive MealPlan = "all-inclusive"
)

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTwin   RoomType = "twin"
	RoomFamily RoomType = "family"
)

var (
	Accommodations = []Accommodation{AccommodationBudget, AccommodationStandard, AccommodationLuxury}
	MealPlans      = []MealPlan{MealBreakfast, MealHalfBoard, MealFullBoard, MealAllInclusive}
	RoomTypes      = []RoomType{RoomSingle, RoomDouble, RoomTwin, RoomFamily}

	DietaryOptions = []string{
		"Vegetarian",
		"Vegan",
		"Gluten-free",
		"Lactose-free",
		"Halal",
		"Kosher",
	}

	SpecialRequestOptions = []string{
		"Early check-in",
		"Late check-out",
		"Airport assistance",
		"Celebration setup",
		"Quiet room",
		"Accessible room",
	}
)

type Preferences struct {
	Accommodation       Accommodation `json:"accommodation"`
	MealPlan            MealPlan      `json:"mealPlan"`
	RoomType            RoomType      `json:"roomType"`
	DietaryRestrictions []string      `json:"dietaryRestrictions"`
	SpecialRequests     string        `json:"specialRequests"`
	MobilityNote        *string       `json:"mobilityNote,omitempty"`
	InsuranceRequired   bool          `json:"insuranceRequired"`
}

func (p Preferences) clone() Preferences {
	out := p
	out.DietaryRestrictions = slices.Clone(p.DietaryRestrictions)
	if p.MobilityNote != nil {
		v := *p.MobilityNote
		out.MobilityNote = &v
	}
	return out
}

// PreferencesForm is the raw input of the preferences step.
type PreferencesForm struct {
	Accommodation       Accommodation
	MealPlan            MealPlan
	RoomType            RoomType
	DietaryRestrictions []string
	SpecialRequests     []string
	MobilityNote        string
	InsuranceRequired   *bool
}

// DefaultPreferencesForm mirrors the initial form state.
func DefaultPreferencesForm() PreferencesForm {
	insured := true
	return PreferencesForm{
		Accommodation:     AccommodationStandard,
		MealPlan:          MealBreakfast,
		RoomType:          RoomDouble,
		InsuranceRequired: &insured,
	}
}

// Build validates the form and converts it into stored preferences.
// Blank choices fall back to the form defaults.
func (f PreferencesForm) Build() (Preferences, error) {
	def := DefaultPreferencesForm()
	if f.Accommodation == "" {
		f.Accommodation = def.Accommodation
	}
	if f.MealPlan == "" {
		f.MealPlan = def.MealPlan
	}
	if f.RoomType == "" {
		f.RoomType = def.RoomType
	}
	if f.InsuranceRequired == nil {
		f.InsuranceRequired = def.InsuranceRequired
	}

	if !slices.Contains(Accommodations, f.Accommodation) {
		return Preferences{}, ValidationError{Code: "ACCOMMODATION_INVALID", Message: fmt.Sprintf("unknown accommodation %q", f.Accommodation)}
	}
	if !slices.Contains(MealPlans, f.MealPlan) {
		return Preferences{}, ValidationError{Code: "MEAL_PLAN_INVALID", Message: fmt.Sprintf("unknown meal plan %q", f.MealPlan)}
	}
	if !slices.Contains(RoomTypes, f.RoomType) {
		return Preferences{}, ValidationError{Code: "ROOM_TYPE_INVALID", Message: fmt.Sprintf("unknown room type %q", f.RoomType)}
	}
	dietary, err := pick(f.DietaryRestrictions, DietaryOptions, "DIETARY_RESTRICTION_INVALID")
	if err != nil {
		return Preferences{}, err
	}
	requests, err := pick(f.SpecialRequests, SpecialRequestOptions, "SPECIAL_REQUEST_INVALID")
	if err != nil {
		return Preferences{}, err
	}

	p := Preferences{
		Accommodation:       f.Accommodation,
		MealPlan:            f.MealPlan,
		RoomType:            f.RoomType,
		DietaryRestrictions: dietary,
		SpecialRequests:     strings.Join(requests, ", "),
		InsuranceRequired:   *f.InsuranceRequired,
	}
	if note := strings.TrimSpace(f.MobilityNote); note != "" {
		p.MobilityNote = &note
	}
	return p, nil
}

// pick keeps the first occurrence of each selected option, in selection order.
func pick(selected, allowed []string, code string) ([]string, error) {
	out := make([]string, 0, len(selected))
	for _, s := range selected {
		if !slices.Contains(allowed, s) {
			return nil, ValidationError{Code: code, Message: fmt.Sprintf("unknown option %q", s)}
		}
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out, nil
}

type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
