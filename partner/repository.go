package partner

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the requested partner does not exist.
var ErrNotFound = errors.New("partner: not found")

const profileColumns = `id, user_id, business_name, categories, experience_years,
	price_min, price_max, city, state, verification::text,
	rating_avg, rating_count, is_featured, total_bookings, is_active,
	created_at, updated_at`

// CandidateQuery narrows the partner population for one matching run.
// BudgetMin/BudgetMax are set together when the inquiry states a budget;
// without them no price filtering happens.
type CandidateQuery struct {
	Category  string
	City      string
	BudgetMin *int64
	BudgetMax *int64
	Limit     uint64
}

// Repository provides read access to partner profiles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID fetches a partner profile by its primary key.
func (r *Repository) GetByID(ctx context.Context, id string) (Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM partners WHERE id = $1`, profileColumns)

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("partner: query by id: %w", err)
	}
	return profile, nil
}

// List fetches up to limit partner profiles ordered by business name.
func (r *Repository) List(ctx context.Context, limit int) ([]Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	query := fmt.Sprintf(`SELECT %s FROM partners ORDER BY business_name ASC LIMIT $1`, profileColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("partner: list: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows)
}

// ListCandidates returns the store-side candidate pool for a matching run:
// verified active partners in the inquiry's city offering its category, with
// an overlapping price band when a budget is given. Results are pre-ordered
// by featured flag, rating, bookings and recency; the engine re-scores and
// re-ranks them rather than trusting this ordering alone.
func (r *Repository) ListCandidates(ctx context.Context, q CandidateQuery) ([]Profile, error) {
	if q.Category == "" {
		return nil, fmt.Errorf("partner: candidate query missing category")
	}
	if q.City == "" {
		return nil, fmt.Errorf("partner: candidate query missing city")
	}
	if q.Limit == 0 {
		q.Limit = 25
	}

	builder := sq.Select(profileColumns).
		From("partners").
		Where(sq.Eq{"verification": string(VerificationVerified)}).
		Where(sq.Eq{"is_active": true}).
		Where("? = ANY(categories)", q.Category).
		Where("lower(city) = lower(?)", q.City).
		OrderBy("is_featured DESC", "rating_avg DESC", "total_bookings DESC", "created_at DESC").
		Limit(q.Limit).
		PlaceholderFormat(sq.Dollar)

	if q.BudgetMin != nil && q.BudgetMax != nil {
		builder = builder.
			Where(sq.LtOrEq{"price_min": *q.BudgetMax}).
			Where(sq.GtOrEq{"price_max": *q.BudgetMin})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("partner: build candidate query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("partner: list candidates: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows)
}

func collectProfiles(rows pgx.Rows) ([]Profile, error) {
	out := make([]Profile, 0, 8)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("partner: scan profile: %w", err)
		}
		out = append(out, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("partner: iterate profiles: %w", err)
	}
	return out, nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var (
		p          Profile
		categories []string
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.BusinessName,
		&categories,
		&p.ExperienceYears,
		&p.PriceRange.Min,
		&p.PriceRange.Max,
		&p.City,
		&p.State,
		&p.Verification,
		&p.RatingAverage,
		&p.RatingCount,
		&p.IsFeatured,
		&p.TotalBookings,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return Profile{}, err
	}
	p.Categories = categories
	return p, nil
}
