package matching

// Weights externalizes the scoring point system so it can be tuned from
// configuration without touching scorer logic. All bonuses are additive and
// independent; absolute scores carry no meaning outside one ranking pass.
type Weights struct {
	// Base is credited to every partner that cleared eligibility.
	Base float64 `mapstructure:"base"`
	// Featured is added for partners with the featured flag set.
	Featured float64 `mapstructure:"featured"`
	// RatingMultiplier scales the partner's average rating (0..5).
	RatingMultiplier float64 `mapstructure:"rating_multiplier"`
	// ExperiencePerYear credits each year of experience up to ExperienceCap.
	ExperiencePerYear float64 `mapstructure:"experience_per_year"`
	ExperienceCap     float64 `mapstructure:"experience_cap"`
	// SameCity rewards an exact city match. Eligibility already requires the
	// cities to match; the bonus is kept anyway for compatibility with the
	// established ranking behavior.
	SameCity float64 `mapstructure:"same_city"`
	// BudgetOverlap applies when the partner's price band overlaps the
	// inquiry budget; BudgetContained additionally when the band sits fully
	// inside it. Both contribute zero when the inquiry has no budget.
	BudgetOverlap   float64 `mapstructure:"budget_overlap"`
	BudgetContained float64 `mapstructure:"budget_contained"`
	// PerBooking credits track record up to BookingCap.
	PerBooking float64 `mapstructure:"per_booking"`
	BookingCap float64 `mapstructure:"booking_cap"`
	// Specialization rewards partners listing at most SpecializationMax
	// service categories.
	Specialization    float64 `mapstructure:"specialization"`
	SpecializationMax int     `mapstructure:"specialization_max"`
}

// DefaultWeights returns the production point system.
func DefaultWeights() Weights {
	return Weights{
		Base:              10,
		Featured:          20,
		RatingMultiplier:  5,
		ExperiencePerYear: 2,
		ExperienceCap:     20,
		SameCity:          15,
		BudgetOverlap:     10,
		BudgetContained:   5,
		PerBooking:        1,
		BookingCap:        10,
		Specialization:    5,
		SpecializationMax: 3,
	}
}

// IsZero reports whether no weight has been configured at all.
func (w Weights) IsZero() bool {
	return w == Weights{}
}
