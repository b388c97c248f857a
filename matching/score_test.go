package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lensflow/inquiry"
	"lensflow/partner"
)

func weddingInquiry() inquiry.Inquiry {
	return inquiry.Inquiry{
		ID:        "inq-1",
		ClientID:  "client-1",
		Category:  "wedding",
		City:      "Mumbai",
		Budget:    &inquiry.Budget{Min: 25000, Max: 75000},
		EventDate: time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		Status:    inquiry.StatusNew,
	}
}

func featuredMumbaiPartner() partner.Profile {
	return partner.Profile{
		ID:              "p-a",
		BusinessName:    "Partner A Studios",
		Categories:      []string{"wedding"},
		ExperienceYears: 5,
		PriceRange:      partner.PriceRange{Min: 20000, Max: 60000},
		City:            "Mumbai",
		Verification:    partner.VerificationVerified,
		RatingAverage:   4.5,
		IsFeatured:      true,
		TotalBookings:   12,
		IsActive:        true,
	}
}

func TestScore_FullyLoadedPartner(t *testing.T) {
	p := featuredMumbaiPartner()
	inq := weddingInquiry()

	// 10 base + 20 featured + 22.5 rating + 10 experience + 15 city
	// + 10 overlap + 10 bookings (capped) + 5 specialization.
	// No containment: price floor 20000 sits below the budget floor 25000.
	assert.InDelta(t, 102.5, Score(p, inq, DefaultWeights()), 1e-9)
}

func TestScore_ContainedPriceBand(t *testing.T) {
	p := featuredMumbaiPartner()
	p.PriceRange = partner.PriceRange{Min: 30000, Max: 60000}

	// Same as above plus the 5-point containment bonus.
	assert.InDelta(t, 107.5, Score(p, weddingInquiry(), DefaultWeights()), 1e-9)
}

func TestScore_NoBudgetMeansNoBudgetBonuses(t *testing.T) {
	p := featuredMumbaiPartner()
	inq := weddingInquiry()

	withBudget := Score(p, inq, DefaultWeights())
	inq.Budget = nil
	withoutBudget := Score(p, inq, DefaultWeights())

	assert.InDelta(t, withBudget-10, withoutBudget, 1e-9)
}

func TestScore_BaseCreditAlwaysApplies(t *testing.T) {
	p := partner.Profile{
		Categories:   []string{"a", "b", "c", "d"},
		City:         "Delhi",
		Verification: partner.VerificationVerified,
		IsActive:     true,
	}
	inq := weddingInquiry()
	inq.Budget = nil

	assert.InDelta(t, 10.0, Score(p, inq, DefaultWeights()), 1e-9)
}

func TestScore_ExperienceCap(t *testing.T) {
	p := featuredMumbaiPartner()
	inq := weddingInquiry()
	w := DefaultWeights()

	p.ExperienceYears = 10
	atCap := Score(p, inq, w)
	p.ExperienceYears = 30
	aboveCap := Score(p, inq, w)

	assert.InDelta(t, atCap, aboveCap, 1e-9)
}

func TestScore_BookingCap(t *testing.T) {
	p := featuredMumbaiPartner()
	inq := weddingInquiry()
	w := DefaultWeights()

	p.TotalBookings = 10
	atCap := Score(p, inq, w)
	p.TotalBookings = 500
	aboveCap := Score(p, inq, w)

	assert.InDelta(t, atCap, aboveCap, 1e-9)
}

func TestScore_SpecializationBoundary(t *testing.T) {
	p := featuredMumbaiPartner()
	inq := weddingInquiry()
	w := DefaultWeights()

	p.Categories = []string{"wedding", "portrait", "event"}
	narrow := Score(p, inq, w)
	p.Categories = []string{"wedding", "portrait", "event", "fashion"}
	broad := Score(p, inq, w)

	assert.InDelta(t, w.Specialization, narrow-broad, 1e-9)
}

func TestScore_CityBonusCaseInsensitive(t *testing.T) {
	p := featuredMumbaiPartner()
	p.City = "MUMBAI"

	assert.InDelta(t, 102.5, Score(p, weddingInquiry(), DefaultWeights()), 1e-9)
}

func TestScore_CustomWeights(t *testing.T) {
	p := featuredMumbaiPartner()
	inq := weddingInquiry()

	w := Weights{Base: 1, Featured: 2, SpecializationMax: 3, Specialization: 4}
	// 1 base + 2 featured + 4 specialization; everything else weighted zero.
	assert.InDelta(t, 7.0, Score(p, inq, w), 1e-9)
}
