package actors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"lensflow/inquiry"
	"lensflow/matching"
	"lensflow/review"
)

var cities = []string{"Austin", "austin", "AUSTIN"}

// InquiryCreator creates inquiries through the service so every creation
// runs the full matching and distribution pass.
func InquiryCreator(ctx context.Context, svc *inquiry.Service, clientID, category string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		budget := &inquiry.Budget{Min: 500, Max: int64(1000 + rand.Intn(4000))}
		if rand.Intn(4) == 0 {
			budget = nil
		}
		_, err := svc.Create(ctx, inquiry.CreateParams{
			ClientID:      clientID,
			Category:      category,
			City:          cities[rand.Intn(len(cities))],
			State:         "TX",
			Budget:        budget,
			EventDate:     time.Now().Add(30 * 24 * time.Hour),
			DurationHours: 1 + rand.Intn(8),
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("creator: %w", err)
		}
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Distributor hammers DistributeInquiry for one inquiry id so competing
// runs race the status-conditional update. Exactly one call may win; the
// rest must see the already-distributed error.
func Distributor(ctx context.Context, engine *matching.Engine, inquiryID string, partnerIDs []string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		_, err := engine.DistributeInquiry(ctx, inquiryID, partnerIDs)
		if err != nil &&
			!errors.Is(err, inquiry.ErrAlreadyDistributed) &&
			!errors.Is(err, inquiry.ErrNotFound) &&
			!errors.Is(err, context.Canceled) {
			return fmt.Errorf("distributor: %w", err)
		}
		time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
	}
}

// Responder picks a random open assignment and submits a quote for it.
// Domain rejections (stale state, duplicate response) are expected under
// contention and ignored.
func Responder(ctx context.Context, pool *pgxpool.Pool, svc *inquiry.Service, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		var inquiryID, partnerID string
		err := pool.QueryRow(ctx, `
			SELECT a.inquiry_id, a.partner_id
			FROM inquiry_assignments a
			JOIN inquiries i ON i.id = a.inquiry_id
			WHERE i.status IN ('assigned', 'responded') AND a.responded_at IS NULL
			ORDER BY random() LIMIT 1
		`).Scan(&inquiryID, &partnerID)
		if err == nil {
			_, err = svc.Respond(ctx, inquiry.RespondParams{
				InquiryID: inquiryID,
				PartnerID: partnerID,
				Message:   "Available on that date, portfolio attached.",
				Quotation: int64(800 + rand.Intn(2000)),
			})
			if err != nil && !domainError(err) && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("responder: %w", err)
			}
		}
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Booker accepts a random responded quote on behalf of the owning client.
func Booker(ctx context.Context, pool *pgxpool.Pool, svc *inquiry.Service, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		var inquiryID, clientID, partnerID string
		err := pool.QueryRow(ctx, `
			SELECT i.id, i.client_id, a.partner_id
			FROM inquiries i
			JOIN inquiry_assignments a ON a.inquiry_id = i.id
			WHERE i.status = 'responded' AND a.responded_at IS NOT NULL
			ORDER BY random() LIMIT 1
		`).Scan(&inquiryID, &clientID, &partnerID)
		if err == nil {
			_, err = svc.Book(ctx, inquiry.BookParams{
				InquiryID: inquiryID,
				ClientID:  clientID,
				PartnerID: partnerID,
			})
			if err != nil && !domainError(err) && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("booker: %w", err)
			}
		}
		time.Sleep(time.Duration(30+rand.Intn(50)) * time.Millisecond)
	}
}

// Reviewer leaves a rating for a random booked inquiry; one review per
// inquiry is enforced by the store so duplicates are expected rejections.
func Reviewer(ctx context.Context, pool *pgxpool.Pool, svc *review.Service, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		var inquiryID, clientID string
		err := pool.QueryRow(ctx, `
			SELECT id, client_id FROM inquiries
			WHERE status IN ('booked', 'closed')
			ORDER BY random() LIMIT 1
		`).Scan(&inquiryID, &clientID)
		if err == nil {
			_, err = svc.Create(ctx, review.CreateParams{
				InquiryID: inquiryID,
				ClientID:  clientID,
				Stars:     1 + rand.Intn(5),
			})
			if err != nil &&
				!errors.Is(err, review.ErrDuplicate) &&
				!errors.Is(err, review.ErrForbidden) &&
				!errors.Is(err, context.Canceled) {
				return fmt.Errorf("reviewer: %w", err)
			}
		}
		time.Sleep(time.Duration(50+rand.Intn(100)) * time.Millisecond)
	}
}

// OutboxWorker consumes pending outbox messages with SKIP LOCKED and marks
// processed, occasionally simulating a delivery failure.
func OutboxWorker(ctx context.Context, pool *pgxpool.Pool, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, `SELECT id FROM outbox WHERE status='pending' ORDER BY created_at FOR UPDATE SKIP LOCKED LIMIT 10`)
		if err != nil {
			_ = tx.Rollback(ctx)
			time.Sleep(50 * time.Millisecond)
			continue
		}
		ids := make([]int64, 0, 10)
		for rows.Next() {
			var id int64
			_ = rows.Scan(&id)
			ids = append(ids, id)
		}
		rows.Close()
		for _, id := range ids {
			if rand.Intn(10) == 0 {
				_, _ = tx.Exec(ctx, `UPDATE outbox SET attempts=attempts+1, last_attempt=NOW() WHERE id=$1`, id)
				continue
			}
			_, _ = tx.Exec(ctx, `UPDATE outbox SET status='processed', last_attempt=NOW() WHERE id=$1`, id)
		}
		_ = tx.Commit(ctx)
		time.Sleep(100 * time.Millisecond)
	}
}

func domainError(err error) bool {
	return errors.Is(err, inquiry.ErrNotFound) ||
		errors.Is(err, inquiry.ErrForbidden) ||
		errors.Is(err, inquiry.ErrInvalidState) ||
		errors.Is(err, inquiry.ErrNotAssigned) ||
		errors.Is(err, inquiry.ErrAlreadyResponded) ||
		errors.Is(err, inquiry.ErrNoResponse)
}
