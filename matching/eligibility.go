package matching

import (
	"strings"

	"lensflow/inquiry"
	"lensflow/partner"
)

// Eligible reports whether a partner is structurally capable of serving an
// inquiry: verified, active, offering the inquiry's category in the
// inquiry's city (case-insensitive), with an overlapping price band when
// the inquiry states a budget. An inquiry without a budget never filters on
// price.
func Eligible(p partner.Profile, inq inquiry.Inquiry) bool {
	if p.Verification != partner.VerificationVerified {
		return false
	}
	if !p.IsActive {
		return false
	}
	if !p.HasCategory(inq.Category) {
		return false
	}
	if !strings.EqualFold(p.City, inq.City) {
		return false
	}
	if inq.Budget != nil && !budgetsOverlap(p.PriceRange, *inq.Budget) {
		return false
	}
	return true
}

func budgetsOverlap(pr partner.PriceRange, b inquiry.Budget) bool {
	return pr.Min <= b.Max && pr.Max >= b.Min
}

func budgetContains(pr partner.PriceRange, b inquiry.Budget) bool {
	return pr.Min >= b.Min && pr.Max <= b.Max
}
