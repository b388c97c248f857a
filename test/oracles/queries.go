package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_fan_out_cap",
			SQL: `SELECT inquiry_id, COUNT(*) FROM inquiry_assignments
                  GROUP BY inquiry_id HAVING COUNT(*) > 5`,
		},
		{
			Name: "O2_new_has_no_assignments",
			SQL: `SELECT i.id FROM inquiries i
                  JOIN inquiry_assignments a ON a.inquiry_id = i.id
                  WHERE i.status = 'new'`,
		},
		{
			Name: "O3_assigned_has_assignments",
			SQL: `SELECT i.id FROM inquiries i
                  WHERE i.status IN ('assigned','responded','booked')
                    AND NOT EXISTS (SELECT 1 FROM inquiry_assignments a WHERE a.inquiry_id = i.id)`,
		},
		{
			Name: "O4_response_after_assignment",
			SQL: `SELECT id FROM inquiry_assignments
                  WHERE responded_at IS NOT NULL AND responded_at < assigned_at`,
		},
		{
			Name: "O5_booked_winner_responded",
			SQL: `SELECT i.id FROM inquiries i
                  WHERE i.status IN ('booked','closed')
                    AND (i.selected_partner_id IS NULL
                         OR NOT EXISTS (
                             SELECT 1 FROM inquiry_assignments a
                             WHERE a.inquiry_id = i.id
                               AND a.partner_id = i.selected_partner_id
                               AND a.responded_at IS NOT NULL))`,
		},
		{
			Name: "O6_responded_status_backed",
			SQL: `SELECT i.id FROM inquiries i
                  WHERE i.status = 'responded'
                    AND NOT EXISTS (
                        SELECT 1 FROM inquiry_assignments a
                        WHERE a.inquiry_id = i.id AND a.responded_at IS NOT NULL)`,
		},
		{
			Name: "O7_rating_bounds",
			SQL: `SELECT id FROM partners
                  WHERE rating_avg < 0 OR rating_avg > 5 OR rating_count < 0 OR total_bookings < 0`,
		},
		{
			Name: "O8_review_backed_by_booking",
			SQL: `SELECT r.id FROM reviews r
                  JOIN inquiries i ON i.id = r.inquiry_id
                  WHERE i.status NOT IN ('booked','closed')
                     OR i.selected_partner_id IS DISTINCT FROM r.partner_id`,
		},
		{
			Name: "O9_outbox_stale",
			SQL: `SELECT id FROM outbox
                  WHERE status = 'pending' AND now() - created_at > interval '5 minutes'`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and sample row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
	}
	return "", "", nil
}
