package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

var (
	// ErrForbidden signals the actor does not own the inquiry.
	ErrForbidden = errors.New("inquiry: forbidden")
	// ErrInvalidState signals a transition the state machine does not allow.
	ErrInvalidState = errors.New("inquiry: invalid state transition")
	// ErrNotAssigned signals the partner was never offered this lead.
	ErrNotAssigned = errors.New("inquiry: partner not assigned")
	// ErrAlreadyResponded signals a repeated response from the same partner.
	ErrAlreadyResponded = errors.New("inquiry: partner already responded")
	// ErrNoResponse signals the chosen partner never responded to the lead.
	ErrNoResponse = errors.New("inquiry: partner has not responded")
)

// RespondParams captures a partner's answer to an assigned lead.
type RespondParams struct {
	InquiryID string
	PartnerID string
	Message   string
	Quotation int64
}

// Respond records the partner's response on its assignment and moves the
// inquiry assigned -> responded on the first response received.
func (s *Service) Respond(ctx context.Context, params RespondParams) (Assignment, error) {
	if params.InquiryID == "" || params.PartnerID == "" {
		return Assignment{}, fmt.Errorf("inquiry: respond missing ids")
	}
	if strings.TrimSpace(params.Message) == "" {
		return Assignment{}, fmt.Errorf("inquiry: respond message required")
	}
	if params.Quotation <= 0 {
		return Assignment{}, fmt.Errorf("inquiry: respond quotation must be positive")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Assignment{}, fmt.Errorf("inquiry: begin respond tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var status Status
	if err := tx.QueryRow(ctx, `
		SELECT status::text FROM inquiries WHERE id = $1 FOR UPDATE
	`, params.InquiryID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Assignment{}, ErrNotFound
		}
		return Assignment{}, fmt.Errorf("inquiry: lock for respond: %w", err)
	}
	if status != StatusAssigned && status != StatusResponded {
		return Assignment{}, fmt.Errorf("%w: cannot respond in status %s", ErrInvalidState, status)
	}

	var assignmentID string
	var alreadyResponded bool
	err = tx.QueryRow(ctx, `
		SELECT id, responded_at IS NOT NULL
		FROM inquiry_assignments
		WHERE inquiry_id = $1 AND partner_id = $2
		FOR UPDATE
	`, params.InquiryID, params.PartnerID).Scan(&assignmentID, &alreadyResponded)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Assignment{}, ErrNotAssigned
		}
		return Assignment{}, fmt.Errorf("inquiry: lock assignment: %w", err)
	}
	if alreadyResponded {
		return Assignment{}, ErrAlreadyResponded
	}

	if _, err := tx.Exec(ctx, `
		UPDATE inquiry_assignments
		SET response_message = $2,
		    quotation = $3,
		    responded_at = get_tx_timestamp()
		WHERE id = $1
	`, assignmentID, strings.TrimSpace(params.Message), params.Quotation); err != nil {
		return Assignment{}, fmt.Errorf("inquiry: record response: %w", err)
	}

	if status == StatusAssigned {
		if _, err := tx.Exec(ctx, `
			UPDATE inquiries
			SET status = 'responded'::inquiry_status,
			    updated_at = get_tx_timestamp()
			WHERE id = $1 AND status = 'assigned'
		`, params.InquiryID); err != nil {
			return Assignment{}, fmt.Errorf("inquiry: mark responded: %w", err)
		}
	}

	if err := enqueueOutbox(ctx, tx, "inquiry.responded", map[string]any{
		"inquiry_id": params.InquiryID,
		"partner_id": params.PartnerID,
		"quotation":  params.Quotation,
	}); err != nil {
		return Assignment{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Assignment{}, fmt.Errorf("inquiry: commit respond: %w", err)
	}

	assignments, err := s.repo.ListAssignments(ctx, params.InquiryID)
	if err != nil {
		return Assignment{}, err
	}
	for _, a := range assignments {
		if a.ID == assignmentID {
			return a, nil
		}
	}
	return Assignment{}, ErrNotAssigned
}

// BookParams captures the client's selection of one responding partner.
type BookParams struct {
	InquiryID string
	ClientID  string
	PartnerID string
}

// Book moves the inquiry responded -> booked, flags the winning assignment
// as accepted and increments the partner's booking counter, all in one
// transaction.
func (s *Service) Book(ctx context.Context, params BookParams) (Inquiry, error) {
	if params.InquiryID == "" || params.ClientID == "" || params.PartnerID == "" {
		return Inquiry{}, fmt.Errorf("inquiry: book missing ids")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: begin book tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		clientID string
		status   Status
	)
	if err := tx.QueryRow(ctx, `
		SELECT client_id, status::text FROM inquiries WHERE id = $1 FOR UPDATE
	`, params.InquiryID).Scan(&clientID, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inquiry{}, ErrNotFound
		}
		return Inquiry{}, fmt.Errorf("inquiry: lock for book: %w", err)
	}
	if clientID != params.ClientID {
		return Inquiry{}, ErrForbidden
	}
	if !validTransition(status, StatusBooked) {
		return Inquiry{}, fmt.Errorf("%w: cannot book from status %s", ErrInvalidState, status)
	}

	var assignmentID string
	var responded bool
	err = tx.QueryRow(ctx, `
		SELECT id, responded_at IS NOT NULL
		FROM inquiry_assignments
		WHERE inquiry_id = $1 AND partner_id = $2
		FOR UPDATE
	`, params.InquiryID, params.PartnerID).Scan(&assignmentID, &responded)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inquiry{}, ErrNotAssigned
		}
		return Inquiry{}, fmt.Errorf("inquiry: lock winning assignment: %w", err)
	}
	if !responded {
		return Inquiry{}, ErrNoResponse
	}

	if _, err := tx.Exec(ctx, `
		UPDATE inquiries
		SET status = 'booked'::inquiry_status,
		    selected_partner_id = $2,
		    updated_at = get_tx_timestamp()
		WHERE id = $1
	`, params.InquiryID, params.PartnerID); err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: mark booked: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE inquiry_assignments
		SET response_accepted = true
		WHERE id = $1
	`, assignmentID); err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: accept response: %w", err)
	}

	// Booking confirmation is the one place partner stats move.
	if _, err := tx.Exec(ctx, `
		UPDATE partners
		SET total_bookings = total_bookings + 1,
		    updated_at = get_tx_timestamp()
		WHERE id = $1
	`, params.PartnerID); err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: bump partner bookings: %w", err)
	}

	if err := enqueueOutbox(ctx, tx, "inquiry.booked", map[string]any{
		"inquiry_id": params.InquiryID,
		"partner_id": params.PartnerID,
	}); err != nil {
		return Inquiry{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: commit book: %w", err)
	}

	return s.repo.GetByID(ctx, params.InquiryID)
}

// CancelParams identifies the inquiry and the acting user.
type CancelParams struct {
	InquiryID string
	ActorID   string
	ActorRole string
	Reason    *string
}

// Cancel moves an inquiry to cancelled. Clients may cancel their own
// inquiries; admins may cancel any. Allowed from new, assigned and
// responded only.
func (s *Service) Cancel(ctx context.Context, params CancelParams) (Inquiry, error) {
	if params.InquiryID == "" {
		return Inquiry{}, fmt.Errorf("inquiry: cancel missing inquiry id")
	}
	if params.ActorID == "" {
		return Inquiry{}, fmt.Errorf("inquiry: cancel missing actor id")
	}

	actorRole := strings.ToLower(params.ActorRole)
	if actorRole != "client" && actorRole != "admin" {
		return Inquiry{}, ErrForbidden
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: begin cancel tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		clientID string
		status   Status
	)
	if err := tx.QueryRow(ctx, `
		SELECT client_id, status::text FROM inquiries WHERE id = $1 FOR UPDATE
	`, params.InquiryID).Scan(&clientID, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inquiry{}, ErrNotFound
		}
		return Inquiry{}, fmt.Errorf("inquiry: lock for cancel: %w", err)
	}
	if actorRole != "admin" && clientID != params.ActorID {
		return Inquiry{}, ErrForbidden
	}
	if !validTransition(status, StatusCancelled) {
		return Inquiry{}, fmt.Errorf("%w: cannot cancel from status %s", ErrInvalidState, status)
	}

	var reason *string
	if params.Reason != nil {
		trimmed := strings.TrimSpace(*params.Reason)
		if trimmed != "" {
			reason = &trimmed
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE inquiries
		SET status = 'cancelled'::inquiry_status,
		    cancel_reason = $2,
		    updated_at = get_tx_timestamp()
		WHERE id = $1
	`, params.InquiryID, reason); err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: mark cancelled: %w", err)
	}

	payload := map[string]any{"inquiry_id": params.InquiryID}
	if reason != nil {
		payload["reason"] = *reason
	}
	if err := enqueueOutbox(ctx, tx, "inquiry.cancelled", payload); err != nil {
		return Inquiry{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: commit cancel: %w", err)
	}

	return s.repo.GetByID(ctx, params.InquiryID)
}

// Close moves a booked inquiry to closed once the shoot is done.
func (s *Service) Close(ctx context.Context, inquiryID, actorID string) (Inquiry, error) {
	if inquiryID == "" || actorID == "" {
		return Inquiry{}, fmt.Errorf("inquiry: close missing ids")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: begin close tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		clientID string
		status   Status
	)
	if err := tx.QueryRow(ctx, `
		SELECT client_id, status::text FROM inquiries WHERE id = $1 FOR UPDATE
	`, inquiryID).Scan(&clientID, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inquiry{}, ErrNotFound
		}
		return Inquiry{}, fmt.Errorf("inquiry: lock for close: %w", err)
	}
	if clientID != actorID {
		return Inquiry{}, ErrForbidden
	}
	if !validTransition(status, StatusClosed) {
		return Inquiry{}, fmt.Errorf("%w: cannot close from status %s", ErrInvalidState, status)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE inquiries
		SET status = 'closed'::inquiry_status,
		    updated_at = get_tx_timestamp()
		WHERE id = $1
	`, inquiryID); err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: mark closed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Inquiry{}, fmt.Errorf("inquiry: commit close: %w", err)
	}

	return s.repo.GetByID(ctx, inquiryID)
}
