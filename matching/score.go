package matching

import (
	"strings"

	"lensflow/inquiry"
	"lensflow/partner"
)

// Score computes one partner's affinity for an inquiry under the given
// weights. It is a deterministic pure function; higher is better, and the
// value is only meaningful relative to other candidates scored in the same
// run. Callers are expected to have filtered with Eligible first, but Score
// itself never rejects: it prices whatever it is handed.
func Score(p partner.Profile, inq inquiry.Inquiry, w Weights) float64 {
	score := w.Base

	if p.IsFeatured {
		score += w.Featured
	}

	score += p.RatingAverage * w.RatingMultiplier

	experience := float64(p.ExperienceYears) * w.ExperiencePerYear
	if experience > w.ExperienceCap {
		experience = w.ExperienceCap
	}
	score += experience

	if strings.EqualFold(p.City, inq.City) {
		score += w.SameCity
	}

	if inq.Budget != nil && budgetsOverlap(p.PriceRange, *inq.Budget) {
		score += w.BudgetOverlap
		if budgetContains(p.PriceRange, *inq.Budget) {
			score += w.BudgetContained
		}
	}

	bookings := float64(p.TotalBookings) * w.PerBooking
	if bookings > w.BookingCap {
		bookings = w.BookingCap
	}
	score += bookings

	if len(p.Categories) <= w.SpecializationMax {
		score += w.Specialization
	}

	return score
}
