package partner

import (
	"strings"
	"time"
)

// Category enumerates the photography service types a partner can offer.
type Category string

const (
	CategoryWedding    Category = "wedding"
	CategoryPortrait   Category = "portrait"
	CategoryEvent      Category = "event"
	CategoryCommercial Category = "commercial"
	CategoryFashion    Category = "fashion"
	CategoryMaternity  Category = "maternity"
	CategoryProduct    Category = "product"
)

// Categories returns all known service types.
func Categories() []Category {
	return []Category{
		CategoryWedding, CategoryPortrait, CategoryEvent, CategoryCommercial,
		CategoryFashion, CategoryMaternity, CategoryProduct,
	}
}

// IsValidCategory reports whether c is one of the known service types.
func IsValidCategory(c Category) bool {
	switch c {
	case CategoryWedding, CategoryPortrait, CategoryEvent, CategoryCommercial,
		CategoryFashion, CategoryMaternity, CategoryProduct:
		return true
	default:
		return false
	}
}

// VerificationStatus tracks the document-verification state of a partner.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// PriceRange is the partner's stated price band in whole currency units.
type PriceRange struct {
	Min int64
	Max int64
}

// Profile is the domain representation of a service-provider business.
// It mirrors the partners table and carries the read-only attributes the
// matching engine consumes; the engine never mutates a profile.
type Profile struct {
	ID              string
	UserID          string
	BusinessName    string
	Categories      []string
	ExperienceYears int
	PriceRange      PriceRange
	City            string
	State           string
	Verification    VerificationStatus
	RatingAverage   float64
	RatingCount     int
	IsFeatured      bool
	TotalBookings   int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasCategory reports whether the profile lists the given service type.
// Stored categories are canonical lowercase; the check tolerates any case
// on the input.
func (p Profile) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}
