package offer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage/internal/catalog"
)

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

var thailand = catalog.Destination{ID: 3, Name: "Thailand"}

func TestEligibleDates(t *testing.T) {
	today := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)
	dates := EligibleDates(today)

	require.Len(t, dates, 25)
	assert.Equal(t, time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, Day(today).AddDate(0, 0, 175), dates[len(dates)-1])
	for i := 1; i < len(dates); i++ {
		assert.Equal(t, 7, daysBetween(dates[i-1], dates[i]))
	}
}

func TestIsEligible_MatchesEligibleDates(t *testing.T) {
	today := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	want := map[string]bool{}
	for _, d := range EligibleDates(today) {
		want[d.Format(DateLayout)] = true
	}

	for offset := -10; offset <= 200; offset++ {
		d := Day(today).AddDate(0, 0, offset)
		assert.Equal(t, want[d.Format(DateLayout)], IsEligible(today, d), "offset %d", offset)
	}
}

func TestIsEligible_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	today := time.Date(2026, 10, 14, 12, 0, 0, 0, loc)
	// Clocks go back on 2026-10-25; offsets must still count whole days.
	assert.True(t, IsEligible(today, time.Date(2026, 10, 28, 0, 0, 0, 0, loc)))
	assert.False(t, IsEligible(today, time.Date(2026, 10, 27, 0, 0, 0, 0, loc)))
}

func TestMonthCalendar_PaddingIsDisabled(t *testing.T) {
	today := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	cal := MonthCalendar(today, 2026, time.November)

	// 2026-11-01 is a Sunday: no padding.
	assert.Equal(t, "2026-11", cal.Month)
	assert.Len(t, cal.Cells, 30)

	cal = MonthCalendar(today, 2026, time.October)
	// 2026-10-01 is a Thursday: four padding cells.
	require.Len(t, cal.Cells, 4+31)
	for _, c := range cal.Cells[:4] {
		assert.Equal(t, 0, c.Day)
		assert.False(t, c.Selectable)
	}

	var selectable []string
	for _, c := range cal.Cells {
		if c.Selectable {
			selectable = append(selectable, c.Date)
		}
	}
	assert.Equal(t, []string{"2026-10-21", "2026-10-28"}, selectable)
}

func TestDurationOptions(t *testing.T) {
	opts := DurationOptions(catalog.MockTours, 3)

	require.Len(t, opts, 2, "inactive tour is excluded")
	assert.Equal(t, 7, opts[0].Days)
	assert.Equal(t, "7 Days", opts[0].Title)
	assert.Equal(t, 1, opts[0].TourID)
	assert.True(t, opts[0].Price.Equal(decimal.NewFromInt(680)))
	assert.True(t, opts[1].Price.Equal(decimal.NewFromInt(1150)))
}

func TestSynthesize_Deterministic(t *testing.T) {
	start := time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)
	s := NewSynthesizer(nil)

	a := s.Synthesize(thailand, catalog.MockTours, start)
	b := s.Synthesize(thailand, catalog.MockTours, start)

	require.Len(t, a, 2)
	require.Len(t, b, 2)
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.Equal(t, a[i].EndDate, b[i].EndDate)
		assert.True(t, a[i].Price.Equal(b[i].Price))
		assert.Equal(t, a[i].Days, b[i].Days)
		assert.Equal(t, a[i].Includes, b[i].Includes)
		assert.Equal(t, a[i].Excludes, b[i].Excludes)
		assert.Equal(t, len(a[i].Itinerary), len(b[i].Itinerary))
	}
}

func TestSynthesize_SpotsInRange(t *testing.T) {
	start := time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)
	s := NewSynthesizer(nil)
	for i := 0; i < 500; i++ {
		for _, o := range s.Synthesize(thailand, catalog.MockTours, start) {
			assert.GreaterOrEqual(t, o.AvailableSpots, MinSpots)
			assert.LessOrEqual(t, o.AvailableSpots, MaxSpots)
		}
	}

	lo := NewSynthesizer(fixedRand(0)).Synthesize(thailand, catalog.MockTours, start)
	hi := NewSynthesizer(fixedRand(14)).Synthesize(thailand, catalog.MockTours, start)
	assert.Equal(t, 3, lo[0].AvailableSpots)
	assert.Equal(t, 17, hi[0].AvailableSpots)
}

func TestSynthesize_OfferShape(t *testing.T) {
	start := time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)
	offers := NewSynthesizer(fixedRand(5)).Synthesize(thailand, catalog.MockTours, start)
	require.NotEmpty(t, offers)
	o := offers[0]

	assert.Equal(t, "1-20261021", o.ID)
	assert.Equal(t, "Bangkok, Thailand", o.Destination)
	assert.Equal(t, start.Add(7*24*time.Hour), o.EndDate)
	assert.Len(t, o.Includes, 6)
	assert.Contains(t, o.Includes, "Accommodation in Bangkok")
	assert.Len(t, o.Excludes, 4)
	assert.Equal(t, highlightsByCountry["Thailand"], o.Highlights)

	require.Len(t, o.Itinerary, 7)
	assert.Equal(t, "Arrival in Bangkok", o.Itinerary[0].Title)
	assert.Equal(t, "Departure", o.Itinerary[6].Title)
	for _, d := range o.Itinerary[1:6] {
		assert.Equal(t, "Exploring Bangkok", d.Title)
		assert.Contains(t, d.Description, excerpt(catalog.MockTours[0].Description, 100))
	}
}

func TestSynthesize_SkipsUnreadableTours(t *testing.T) {
	tours := []catalog.Tour{
		{ID: 1, Location: "Bangkok", Price: "call us", Days: "7 days", DestinationID: 3, Status: catalog.StatusActive},
		{ID: 2, Location: "Bangkok", Price: "$500", Days: "flexible", DestinationID: 3, Status: catalog.StatusActive},
		{ID: 3, Location: "Bangkok", Price: "$500", Days: "3 days", DestinationID: 3, Status: catalog.StatusActive},
	}
	offers := NewSynthesizer(fixedRand(0)).Synthesize(thailand, tours, time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC))
	require.Len(t, offers, 1)
	assert.Equal(t, 3, offers[0].TourID)
}

func TestSynthesize_NoToursForDestination(t *testing.T) {
	offers := NewSynthesizer(nil).Synthesize(catalog.Destination{ID: 99, Name: "Atlantis"}, catalog.MockTours, time.Now())
	assert.Empty(t, offers)
}

func TestHighlights_Fallback(t *testing.T) {
	h := Highlights("Iceland", "Reykjavik")
	assert.Equal(t, []string{"Guided tour of Reykjavik", "Authentic local cuisine", "Cultural experiences"}, h)

	h = Highlights("thailand", "Bangkok")
	assert.Len(t, h, 3, "match is exact and case-sensitive")
}

func TestItinerary_SingleDay(t *testing.T) {
	it := Itinerary("Rome", "short", 1)
	require.Len(t, it, 1)
	assert.Equal(t, "Arrival in Rome", it[0].Title)
}

func TestExcerpt_RuneSafe(t *testing.T) {
	assert.Equal(t, "ñañ", excerpt("ñañaña", 3))
	assert.Equal(t, "abc", excerpt("abc", 100))
}
