package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("review: not found")
	ErrForbidden = errors.New("review: forbidden")
	ErrDuplicate = errors.New("review: inquiry already reviewed")
)

// CreateParams enumerates the fields required to insert a review.
type CreateParams struct {
	InquiryID string
	ClientID  string
	Stars     int
	Comment   *string
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a review for a booked or closed inquiry owned by the
// client and folds the stars into the partner's rating aggregate in the
// same transaction. The INSERT..SELECT guard doubles as the ownership and
// state check: zero rows means the client may not review this inquiry.
func (r *Repository) Create(ctx context.Context, params CreateParams) (Record, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("review: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertSQL = `
		INSERT INTO reviews (inquiry_id, partner_id, client_id, stars, comment)
		SELECT i.id, i.selected_partner_id, $2, $3, $4
		FROM inquiries i
		WHERE i.id = $1
		  AND i.client_id = $2
		  AND i.status IN ('booked', 'closed')
		  AND i.selected_partner_id IS NOT NULL
		RETURNING id, inquiry_id, partner_id, client_id, stars, comment, created_at
	`

	var rec Record
	err = tx.QueryRow(ctx, insertSQL, params.InquiryID, params.ClientID, params.Stars, params.Comment).
		Scan(&rec.ID, &rec.InquiryID, &rec.PartnerID, &rec.ClientID, &rec.Stars, &rec.Comment, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrForbidden
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Record{}, ErrDuplicate
		}
		return Record{}, fmt.Errorf("review: create: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE partners
		SET rating_avg = ((rating_avg * rating_count) + $2) / (rating_count + 1),
		    rating_count = rating_count + 1,
		    updated_at = get_tx_timestamp()
		WHERE id = $1
	`, rec.PartnerID, rec.Stars); err != nil {
		return Record{}, fmt.Errorf("review: fold rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, fmt.Errorf("review: commit: %w", err)
	}

	return rec, nil
}

// ListForPartner returns a partner's reviews, newest first.
func (r *Repository) ListForPartner(ctx context.Context, partnerID string) ([]Record, error) {
	const query = `
		SELECT id, inquiry_id, partner_id, client_id, stars, comment, created_at
		FROM reviews
		WHERE partner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, partnerID)
	if err != nil {
		return nil, fmt.Errorf("review: list for partner: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, 8)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.InquiryID, &rec.PartnerID, &rec.ClientID, &rec.Stars, &rec.Comment, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("review: scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("review: iterate: %w", err)
	}
	return out, nil
}
