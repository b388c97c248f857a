package partner

import "context"

// DirectoryReader abstracts repository operations for the service.
type DirectoryReader interface {
	GetByID(ctx context.Context, id string) (Profile, error)
	List(ctx context.Context, limit int) ([]Profile, error)
}

// Service exposes business-level partner-directory operations.
type Service struct {
	repo DirectoryReader
}

// NewService builds a Service using the provided repository.
func NewService(repo DirectoryReader) *Service {
	return &Service{repo: repo}
}

// GetByID returns the partner profile for the given identifier.
func (s *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns up to limit partner profiles.
func (s *Service) List(ctx context.Context, limit int) ([]Profile, error) {
	return s.repo.List(ctx, limit)
}
