package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lensflow/inquiry"
	"lensflow/partner"
)

func TestEligible(t *testing.T) {
	base := featuredMumbaiPartner()
	inq := weddingInquiry()

	cases := []struct {
		name   string
		mutate func(*partner.Profile, *inquiry.Inquiry)
		want   bool
	}{
		{"verified active match", func(p *partner.Profile, i *inquiry.Inquiry) {}, true},
		{"city differs only by case", func(p *partner.Profile, i *inquiry.Inquiry) {
			p.City = "mumbai"
			i.City = "MUMBAI"
		}, true},
		{"pending verification", func(p *partner.Profile, i *inquiry.Inquiry) {
			p.Verification = partner.VerificationPending
		}, false},
		{"rejected verification", func(p *partner.Profile, i *inquiry.Inquiry) {
			p.Verification = partner.VerificationRejected
		}, false},
		{"inactive", func(p *partner.Profile, i *inquiry.Inquiry) {
			p.IsActive = false
		}, false},
		{"category not offered", func(p *partner.Profile, i *inquiry.Inquiry) {
			p.Categories = []string{"portrait", "fashion"}
		}, false},
		{"different city", func(p *partner.Profile, i *inquiry.Inquiry) {
			p.City = "Delhi"
		}, false},
		{"price band above budget", func(p *partner.Profile, i *inquiry.Inquiry) {
			p.PriceRange = partner.PriceRange{Min: 80000, Max: 120000}
		}, false},
		{"price band below budget", func(p *partner.Profile, i *inquiry.Inquiry) {
			p.PriceRange = partner.PriceRange{Min: 1000, Max: 20000}
		}, false},
		{"price band touches budget floor", func(p *partner.Profile, i *inquiry.Inquiry) {
			p.PriceRange = partner.PriceRange{Min: 10000, Max: 25000}
		}, true},
		{"price band touches budget ceiling", func(p *partner.Profile, i *inquiry.Inquiry) {
			p.PriceRange = partner.PriceRange{Min: 75000, Max: 90000}
		}, true},
		{"no budget skips price filter", func(p *partner.Profile, i *inquiry.Inquiry) {
			p.PriceRange = partner.PriceRange{Min: 80000, Max: 120000}
			i.Budget = nil
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := base
			i := inq
			tc.mutate(&p, &i)
			assert.Equal(t, tc.want, Eligible(p, i))
		})
	}
}
