package matching

import (
	"context"
	"fmt"
	"sort"
	"time"

	"lensflow/inquiry"
	"lensflow/metrics"
	"lensflow/partner"

	"go.uber.org/zap"
)

const (
	// DefaultFanOutLimit caps how many partners one distribution pass may
	// offer a lead to.
	DefaultFanOutLimit = 5
	// DefaultCandidatePool caps the store-side candidate query.
	DefaultCandidatePool = 25
)

// Candidate pairs a partner with its computed score for a single matching
// run. Candidates are never persisted.
type Candidate struct {
	Partner partner.Profile
	Score   float64
}

// PartnerSource supplies the candidate pool for one run.
type PartnerSource interface {
	ListCandidates(ctx context.Context, q partner.CandidateQuery) ([]partner.Profile, error)
}

// LeadStore commits a distribution onto the inquiry record.
type LeadStore interface {
	AssignPartners(ctx context.Context, inquiryID string, partnerIDs []string) (int, error)
}

// Distribution reports the outcome of one committed lead distribution.
type Distribution struct {
	InquiryID     string
	AssignedCount int
	PartnerIDs    []string
}

// Engine selects a ranked subset of eligible partners for a new inquiry and
// distributes the lead to them. Each invocation is independent and
// stateless; the engine only reads partner data and writes a single inquiry
// record, so concurrent runs on distinct inquiries never interfere.
type Engine struct {
	partners PartnerSource
	leads    LeadStore
	weights  Weights
	fanOut   int
	pool     uint64
	log      *zap.Logger
	now      func() time.Time
}

// NewEngine wires an engine with the default weights and limits.
func NewEngine(partners PartnerSource, leads LeadStore, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		partners: partners,
		leads:    leads,
		weights:  DefaultWeights(),
		fanOut:   DefaultFanOutLimit,
		pool:     DefaultCandidatePool,
		log:      log,
		now:      time.Now,
	}
}

// WithWeights overrides the scoring point system.
func (e *Engine) WithWeights(w Weights) *Engine {
	if !w.IsZero() {
		e.weights = w
	}
	return e
}

// WithFanOutLimit overrides the default distribution size.
func (e *Engine) WithFanOutLimit(n int) *Engine {
	if n >= 1 {
		e.fanOut = n
	}
	return e
}

// WithCandidatePool overrides the store-side candidate query cap.
func (e *Engine) WithCandidatePool(n int) *Engine {
	if n >= 1 {
		e.pool = uint64(n)
	}
	return e
}

// WithClock overrides the time source, mainly for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// FindMatchingPartners returns up to limit partner ids ranked by affinity
// for the inquiry. It may return fewer than limit, or none at all — an
// empty result is a valid outcome, not an error. Errors are only returned
// for underlying data-access failures.
func (e *Engine) FindMatchingPartners(ctx context.Context, inq inquiry.Inquiry, limit int) ([]string, error) {
	start := e.now()
	if limit < 1 {
		limit = e.fanOut
	}

	query := partner.CandidateQuery{
		Category: inq.Category,
		City:     inq.City,
		Limit:    e.poolSize(limit),
	}
	if inq.Budget != nil {
		query.BudgetMin = &inq.Budget.Min
		query.BudgetMax = &inq.Budget.Max
	}

	population, err := e.partners.ListCandidates(ctx, query)
	if err != nil {
		metrics.MatchRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("matching: list candidates: %w", err)
	}

	candidates := make([]Candidate, 0, len(population))
	for _, p := range population {
		if !Eligible(p, inq) {
			continue
		}
		candidates = append(candidates, Candidate{Partner: p, Score: Score(p, inq, e.weights)})
	}

	// Stable sort so ties keep the store's featured/rating/bookings order;
	// that ordering is the documented tie-break.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Partner.ID)
	}

	metrics.MatchDuration.Observe(time.Since(start).Seconds())
	if len(ids) == 0 {
		metrics.MatchRuns.WithLabelValues("empty").Inc()
	} else {
		metrics.MatchRuns.WithLabelValues("matched").Inc()
	}

	e.log.Debug("matching run complete",
		zap.String("inquiry_id", inq.ID),
		zap.Int("population", len(population)),
		zap.Int("selected", len(ids)))

	return ids, nil
}

// DistributeInquiry commits the selected partner set onto the inquiry: the
// assignment list is replaced and the inquiry moves to assigned, atomically
// and only while it is still new. Partner records are never touched.
func (e *Engine) DistributeInquiry(ctx context.Context, inquiryID string, partnerIDs []string) (Distribution, error) {
	if inquiryID == "" {
		return Distribution{}, fmt.Errorf("matching: distribute missing inquiry id")
	}
	if len(partnerIDs) == 0 {
		return Distribution{}, fmt.Errorf("matching: distribute requires at least one partner id")
	}

	assigned, err := e.leads.AssignPartners(ctx, inquiryID, partnerIDs)
	if err != nil {
		return Distribution{}, err
	}

	metrics.LeadsDistributed.Add(float64(assigned))
	e.log.Info("lead distributed",
		zap.String("inquiry_id", inquiryID),
		zap.Int("partners", assigned))

	return Distribution{
		InquiryID:     inquiryID,
		AssignedCount: assigned,
		PartnerIDs:    partnerIDs,
	}, nil
}

// MatchAndDistribute runs one full pass for a freshly created inquiry. An
// empty candidate set short-circuits to a no-op distribution and returns
// nil ids without error.
func (e *Engine) MatchAndDistribute(ctx context.Context, inq inquiry.Inquiry) ([]string, error) {
	ids, err := e.FindMatchingPartners(ctx, inq, e.fanOut)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if _, err := e.DistributeInquiry(ctx, inq.ID, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// CheckPartnerAvailability is a placeholder for a future booking-calendar
// integration; every partner is currently reported available for any date.
func (e *Engine) CheckPartnerAvailability(ctx context.Context, partnerID string, eventDate time.Time) (bool, error) {
	return true, nil
}

func (e *Engine) poolSize(limit int) uint64 {
	size := uint64(limit * 4)
	if size < e.pool {
		size = e.pool
	}
	return size
}
