package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals the inquiry does not exist.
	ErrNotFound = errors.New("inquiry: not found")
	// ErrAlreadyDistributed signals a repeated distribution attempt on an
	// inquiry that has already left the new state.
	ErrAlreadyDistributed = errors.New("inquiry: already distributed")
)

const inquiryColumns = `id, client_id, category, city, state, budget_min, budget_max,
	event_date, duration_hours, status::text, selected_partner_id::text, cancel_reason,
	created_at, updated_at`

// Repository handles data access for inquiries and their assignments.
type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, inq Inquiry) (Inquiry, error)
	GetByID(ctx context.Context, id string) (Inquiry, error)
	List(ctx context.Context, filters Filters) ([]Inquiry, int, error)
	ListAssignments(ctx context.Context, inquiryID string) ([]Assignment, error)
	AssignPartners(ctx context.Context, inquiryID string, partnerIDs []string) (int, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed inquiry repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, tx pgx.Tx, inq Inquiry) (Inquiry, error) {
	const query = `
		INSERT INTO inquiries (id, client_id, category, city, state, budget_min, budget_max,
			event_date, duration_hours, status)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + inquiryColumns

	var budgetMin, budgetMax *int64
	if inq.Budget != nil {
		budgetMin = &inq.Budget.Min
		budgetMax = &inq.Budget.Max
	}

	row := tx.QueryRow(ctx, query,
		inq.ID,
		inq.ClientID,
		inq.Category,
		inq.City,
		inq.State,
		budgetMin,
		budgetMax,
		inq.EventDate,
		inq.DurationHours,
		inq.Status,
	)

	created, err := scanInquiry(row)
	if err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: create: %w", err)
	}
	return created, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE id = $1`

	inq, err := scanInquiry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inquiry{}, ErrNotFound
		}
		return Inquiry{}, fmt.Errorf("inquiry: get by id: %w", err)
	}
	return inq, nil
}

func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Inquiry, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	where := []string{"1=1"}
	args := []any{}

	if filters.ClientID != "" {
		where = append(where, fmt.Sprintf("client_id=$%d", len(args)+1))
		args = append(args, filters.ClientID)
	}
	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status=$%d", len(args)+1))
		args = append(args, filters.Status)
	}
	if filters.Category != "" {
		where = append(where, fmt.Sprintf("category=$%d", len(args)+1))
		args = append(args, filters.Category)
	}
	if filters.City != "" {
		where = append(where, fmt.Sprintf("lower(city)=lower($%d)", len(args)+1))
		args = append(args, filters.City)
	}

	whereClause := " WHERE " + strings.Join(where, " AND ")
	limit := filters.PageSize
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`SELECT %s FROM inquiries%s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		inquiryColumns, whereClause, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("inquiry: query list: %w", err)
	}
	defer rows.Close()

	list := []Inquiry{}
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("inquiry: scan list: %w", err)
		}
		list = append(list, inq)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("inquiry: iterate list: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM inquiries" + whereClause
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("inquiry: count list: %w", err)
	}

	return list, total, nil
}

func (r *PGRepository) ListAssignments(ctx context.Context, inquiryID string) ([]Assignment, error) {
	const query = `
		SELECT id, inquiry_id, partner_id, assigned_at,
		       response_message, quotation, responded_at, response_accepted
		FROM inquiry_assignments
		WHERE inquiry_id = $1
		ORDER BY assigned_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("inquiry: list assignments: %w", err)
	}
	defer rows.Close()

	out := make([]Assignment, 0, 8)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("inquiry: scan assignment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inquiry: iterate assignments: %w", err)
	}
	return out, nil
}

// AssignPartners commits an initial lead distribution: the assignment list
// is written and the inquiry moves new -> assigned in one transaction. The
// status condition on the UPDATE makes the precondition a data-layer
// invariant: a concurrent or repeated distribution fails with
// ErrAlreadyDistributed instead of silently overwriting.
func (r *PGRepository) AssignPartners(ctx context.Context, inquiryID string, partnerIDs []string) (int, error) {
	if inquiryID == "" {
		return 0, fmt.Errorf("inquiry: assign missing inquiry id")
	}
	if len(partnerIDs) == 0 {
		return 0, fmt.Errorf("inquiry: assign requires at least one partner id")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("inquiry: begin assign tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE inquiries
		SET status = 'assigned'::inquiry_status,
		    updated_at = get_tx_timestamp()
		WHERE id = $1 AND status = 'new'
	`, inquiryID)
	if err != nil {
		return 0, fmt.Errorf("inquiry: mark assigned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var status string
		err := tx.QueryRow(ctx, `SELECT status::text FROM inquiries WHERE id = $1`, inquiryID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("inquiry: check status: %w", err)
		}
		return 0, fmt.Errorf("%w (status=%s)", ErrAlreadyDistributed, status)
	}

	// Initial distribution replaces any prior list.
	if _, err := tx.Exec(ctx, `DELETE FROM inquiry_assignments WHERE inquiry_id = $1`, inquiryID); err != nil {
		return 0, fmt.Errorf("inquiry: clear assignments: %w", err)
	}

	for _, partnerID := range partnerIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO inquiry_assignments (inquiry_id, partner_id)
			VALUES ($1, $2)
		`, inquiryID, partnerID); err != nil {
			return 0, fmt.Errorf("inquiry: insert assignment for %s: %w", partnerID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("inquiry: commit assign tx: %w", err)
	}

	return len(partnerIDs), nil
}

func scanInquiry(row pgx.Row) (Inquiry, error) {
	var (
		inq        Inquiry
		budgetMin  *int64
		budgetMax  *int64
		selected   *string
		cancelNote *string
	)
	err := row.Scan(
		&inq.ID,
		&inq.ClientID,
		&inq.Category,
		&inq.City,
		&inq.State,
		&budgetMin,
		&budgetMax,
		&inq.EventDate,
		&inq.DurationHours,
		&inq.Status,
		&selected,
		&cancelNote,
		&inq.CreatedAt,
		&inq.UpdatedAt,
	)
	if err != nil {
		return Inquiry{}, err
	}
	if budgetMin != nil && budgetMax != nil {
		inq.Budget = &Budget{Min: *budgetMin, Max: *budgetMax}
	}
	inq.SelectedPartnerID = selected
	inq.CancelReason = cancelNote
	return inq, nil
}

func scanAssignment(row pgx.Row) (Assignment, error) {
	var (
		a           Assignment
		message     *string
		quotation   *int64
		respondedAt *time.Time
		accepted    *bool
	)
	err := row.Scan(
		&a.ID,
		&a.InquiryID,
		&a.PartnerID,
		&a.AssignedAt,
		&message,
		&quotation,
		&respondedAt,
		&accepted,
	)
	if err != nil {
		return Assignment{}, err
	}
	if respondedAt != nil {
		resp := Response{RespondedAt: *respondedAt}
		if message != nil {
			resp.Message = *message
		}
		if quotation != nil {
			resp.Quotation = *quotation
		}
		if accepted != nil {
			resp.Accepted = *accepted
		}
		a.Response = &resp
	}
	return a, nil
}
