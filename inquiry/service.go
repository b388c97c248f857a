package inquiry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lensflow/partner"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Matcher runs one matching pass for a freshly created inquiry and commits
// the resulting distribution. It returns the assigned partner ids; an empty
// slice means no eligible partner existed, which is not an error.
type Matcher interface {
	MatchAndDistribute(ctx context.Context, inq Inquiry) ([]string, error)
}

// Service handles inquiry business logic.
type Service struct {
	pool        TxBeginner
	repo        Repository
	matcher     Matcher
	log         *zap.Logger
	idGenerator func() string
	now         func() time.Time
}

// CreateParams enumerates the fields a client supplies for a new inquiry.
type CreateParams struct {
	ClientID      string
	Category      string
	City          string
	State         string
	Budget        *Budget
	EventDate     time.Time
	DurationHours int
}

// ListResult bundles a page of inquiries with the unpaged total.
type ListResult struct {
	Items []Inquiry
	Total int
}

// NewService builds an inquiry service over the pgx-backed repository.
func NewService(pool TxBeginner, repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		pool:        pool,
		repo:        repo,
		log:         log,
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

// WithMatcher attaches the lead-distribution engine invoked after creation.
func (s *Service) WithMatcher(m Matcher) *Service {
	s.matcher = m
	return s
}

// WithIDGenerator overrides id generation, mainly for tests.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

// WithClock overrides the time source, mainly for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create persists a new inquiry and then runs lead distribution
// best-effort: a matching or distribution failure is logged and swallowed,
// never rolling back or failing the already-persisted inquiry.
func (s *Service) Create(ctx context.Context, params CreateParams) (Inquiry, error) {
	if params.ClientID == "" {
		return Inquiry{}, fmt.Errorf("inquiry: missing client id")
	}
	if !partner.IsValidCategory(partner.Category(params.Category)) {
		return Inquiry{}, fmt.Errorf("inquiry: invalid category %q", params.Category)
	}
	if params.City == "" {
		return Inquiry{}, fmt.Errorf("inquiry: city required")
	}
	if params.Budget != nil {
		if params.Budget.Min < 0 || params.Budget.Max < 0 || params.Budget.Min > params.Budget.Max {
			return Inquiry{}, fmt.Errorf("inquiry: invalid budget range")
		}
	}
	if params.EventDate.IsZero() {
		return Inquiry{}, fmt.Errorf("inquiry: event date required")
	}
	if params.DurationHours < 0 {
		return Inquiry{}, fmt.Errorf("inquiry: invalid duration")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	inq := Inquiry{
		ID:            s.idGenerator(),
		ClientID:      params.ClientID,
		Category:      params.Category,
		City:          params.City,
		State:         params.State,
		Budget:        params.Budget,
		EventDate:     params.EventDate,
		DurationHours: params.DurationHours,
		Status:        StatusNew,
	}

	created, err := s.repo.Create(ctx, tx, inq)
	if err != nil {
		return Inquiry{}, err
	}

	if err := enqueueOutbox(ctx, tx, "inquiry.created", map[string]any{
		"inquiry_id": created.ID,
		"category":   created.Category,
		"city":       created.City,
	}); err != nil {
		return Inquiry{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: commit tx: %w", err)
	}

	if s.matcher != nil {
		assigned, err := s.matcher.MatchAndDistribute(ctx, created)
		switch {
		case err != nil:
			// Best-effort: the inquiry stays in state new and can be
			// redistributed manually.
			s.log.Error("lead distribution failed",
				zap.String("inquiry_id", created.ID),
				zap.Error(err))
		case len(assigned) == 0:
			s.log.Warn("no eligible partners for inquiry",
				zap.String("inquiry_id", created.ID),
				zap.String("category", created.Category),
				zap.String("city", created.City))
		default:
			created.Status = StatusAssigned
			s.log.Info("inquiry distributed",
				zap.String("inquiry_id", created.ID),
				zap.Int("partners", len(assigned)))
		}
	}

	return created, nil
}

// Get returns one inquiry by id.
func (s *Service) Get(ctx context.Context, id string) (Inquiry, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a filtered page of inquiries.
func (s *Service) List(ctx context.Context, filters Filters) (ListResult, error) {
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

// Assignments returns the inquiry's assignment list in stable order.
func (s *Service) Assignments(ctx context.Context, inquiryID string) ([]Assignment, error) {
	return s.repo.ListAssignments(ctx, inquiryID)
}

func enqueueOutbox(ctx context.Context, tx pgx.Tx, topic string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("inquiry: marshal outbox payload: %w", err)
	}
	const q = `INSERT INTO outbox (topic, payload) VALUES ($1, $2::jsonb)`
	if _, err := tx.Exec(ctx, q, topic, body); err != nil {
		return fmt.Errorf("inquiry: enqueue outbox: %w", err)
	}
	return nil
}
