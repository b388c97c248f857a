package review

import (
	"context"
	"fmt"
)

// Service exposes review operations with input validation on top of the
// repository.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and records a review.
func (s *Service) Create(ctx context.Context, params CreateParams) (Record, error) {
	if params.InquiryID == "" || params.ClientID == "" {
		return Record{}, fmt.Errorf("review: missing ids")
	}
	if params.Stars < 1 || params.Stars > 5 {
		return Record{}, fmt.Errorf("review: stars must be between 1 and 5")
	}
	return s.repo.Create(ctx, params)
}

// ListForPartner returns a partner's reviews.
func (s *Service) ListForPartner(ctx context.Context, partnerID string) ([]Record, error) {
	return s.repo.ListForPartner(ctx, partnerID)
}
