package review

import "time"

// Record mirrors the reviews table: one client review per booked inquiry.
type Record struct {
	ID        string
	InquiryID string
	PartnerID string
	ClientID  string
	Stars     int
	Comment   *string
	CreatedAt time.Time
}
