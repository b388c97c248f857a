package inquiry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

func validCreateParams() CreateParams {
	return CreateParams{
		ClientID:      "client-1",
		Category:      "wedding",
		City:          "Austin",
		State:         "TX",
		Budget:        &Budget{Min: 500, Max: 3000},
		EventDate:     fixedClock().Add(30 * 24 * time.Hour),
		DurationHours: 4,
	}
}

func TestService_CreateDistributes(t *testing.T) {
	pool := &fakePool{}
	repo := &fakeRepository{}
	matcher := &fakeMatcher{ids: []string{"p-1", "p-2"}}
	svc := NewService(pool, repo, zap.NewNop()).
		WithMatcher(matcher).
		WithIDGenerator(func() string { return "inq-1" }).
		WithClock(fixedClock)

	created, err := svc.Create(context.Background(), validCreateParams())
	if err != nil {
		t.Fatalf("create: unexpected error: %v", err)
	}

	if pool.tx == nil || !pool.tx.committed {
		t.Fatal("expected creation transaction to commit")
	}
	if len(pool.tx.outboxTopics) != 1 || pool.tx.outboxTopics[0] != "inquiry.created" {
		t.Fatalf("expected inquiry.created outbox message, got %v", pool.tx.outboxTopics)
	}
	if matcher.calls != 1 {
		t.Fatalf("expected one matching pass, got %d", matcher.calls)
	}
	if created.Status != StatusAssigned {
		t.Fatalf("expected status %s after distribution, got %s", StatusAssigned, created.Status)
	}
	if created.ID != "inq-1" {
		t.Fatalf("expected generated id inq-1, got %s", created.ID)
	}
}

func TestService_CreateSurvivesMatcherFailure(t *testing.T) {
	pool := &fakePool{}
	repo := &fakeRepository{}
	matcher := &fakeMatcher{err: errors.New("candidate store down")}
	svc := NewService(pool, repo, zap.NewNop()).WithMatcher(matcher)

	created, err := svc.Create(context.Background(), validCreateParams())
	if err != nil {
		t.Fatalf("create must not fail when distribution fails, got %v", err)
	}
	if created.Status != StatusNew {
		t.Fatalf("expected inquiry to stay %s, got %s", StatusNew, created.Status)
	}
	if !pool.tx.committed {
		t.Fatal("expected inquiry to be persisted before the matching pass")
	}
}

func TestService_CreateNoEligiblePartners(t *testing.T) {
	pool := &fakePool{}
	repo := &fakeRepository{}
	matcher := &fakeMatcher{}
	svc := NewService(pool, repo, zap.NewNop()).WithMatcher(matcher)

	created, err := svc.Create(context.Background(), validCreateParams())
	if err != nil {
		t.Fatalf("create: unexpected error: %v", err)
	}
	if created.Status != StatusNew {
		t.Fatalf("expected status %s when nobody matches, got %s", StatusNew, created.Status)
	}
	if matcher.calls != 1 {
		t.Fatalf("expected matcher to run once, got %d", matcher.calls)
	}
}

func TestService_CreateWithoutMatcher(t *testing.T) {
	pool := &fakePool{}
	repo := &fakeRepository{}
	svc := NewService(pool, repo, zap.NewNop())

	created, err := svc.Create(context.Background(), validCreateParams())
	if err != nil {
		t.Fatalf("create: unexpected error: %v", err)
	}
	if created.Status != StatusNew {
		t.Fatalf("expected status %s, got %s", StatusNew, created.Status)
	}
}

func TestService_CreateValidation(t *testing.T) {
	svc := NewService(&fakePool{}, &fakeRepository{}, zap.NewNop())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"missing client", func(p *CreateParams) { p.ClientID = "" }},
		{"unknown category", func(p *CreateParams) { p.Category = "astrophotography" }},
		{"missing city", func(p *CreateParams) { p.City = "" }},
		{"negative budget", func(p *CreateParams) { p.Budget = &Budget{Min: -1, Max: 100} }},
		{"inverted budget", func(p *CreateParams) { p.Budget = &Budget{Min: 900, Max: 100} }},
		{"missing event date", func(p *CreateParams) { p.EventDate = time.Time{} }},
		{"negative duration", func(p *CreateParams) { p.DurationHours = -2 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validCreateParams()
			tc.mutate(&params)
			if _, err := svc.Create(ctx, params); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestService_CreateRollsBackOnRepoError(t *testing.T) {
	pool := &fakePool{}
	repo := &fakeRepository{createErr: errors.New("insert failed")}
	svc := NewService(pool, repo, zap.NewNop())

	if _, err := svc.Create(context.Background(), validCreateParams()); err == nil {
		t.Fatal("expected create to propagate repository error")
	}
	if pool.tx.committed {
		t.Fatal("expected commit to be skipped on repository error")
	}
	if !pool.tx.rolled {
		t.Fatal("expected rollback after repository error")
	}
}

type fakeMatcher struct {
	ids   []string
	err   error
	calls int
	last  Inquiry
}

func (f *fakeMatcher) MatchAndDistribute(ctx context.Context, inq Inquiry) ([]string, error) {
	f.calls++
	f.last = inq
	return f.ids, f.err
}

type fakeRepository struct {
	createErr error
	created   []Inquiry
}

func (f *fakeRepository) Create(ctx context.Context, tx pgx.Tx, inq Inquiry) (Inquiry, error) {
	if f.createErr != nil {
		return Inquiry{}, f.createErr
	}
	now := fixedClock()
	inq.CreatedAt = now
	inq.UpdatedAt = now
	f.created = append(f.created, inq)
	return inq, nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (Inquiry, error) {
	for _, inq := range f.created {
		if inq.ID == id {
			return inq, nil
		}
	}
	return Inquiry{}, ErrNotFound
}

func (f *fakeRepository) List(ctx context.Context, filters Filters) ([]Inquiry, int, error) {
	return f.created, len(f.created), nil
}

func (f *fakeRepository) ListAssignments(ctx context.Context, inquiryID string) ([]Assignment, error) {
	return nil, nil
}

func (f *fakeRepository) AssignPartners(ctx context.Context, inquiryID string, partnerIDs []string) (int, error) {
	return len(partnerIDs), nil
}

type fakePool struct {
	tx *fakeTx
}

func (f *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	f.tx = &fakeTx{}
	return f.tx, nil
}

type fakeTx struct {
	rolled       bool
	committed    bool
	outboxTopics []string
}

func (f *fakeTx) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("fakeTx does not support nested transactions")
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolled = true
	return nil
}

func (f *fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}

func (f *fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}

func (f *fakeTx) LargeObjects() pgx.LargeObjects {
	panic("not implemented")
}

func (f *fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if strings.Contains(sql, "INSERT INTO outbox") && len(args) > 0 {
		if topic, ok := args[0].(string); ok {
			f.outboxTopics = append(f.outboxTopics, topic)
		}
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not implemented")
}

func (f *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("not implemented")
}

func (f *fakeTx) Conn() *pgx.Conn {
	return nil
}
