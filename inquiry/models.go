package inquiry

import "time"

// Status is the lifecycle state of an inquiry.
type Status string

const (
	StatusNew       Status = "new"
	StatusAssigned  Status = "assigned"
	StatusResponded Status = "responded"
	StatusBooked    Status = "booked"
	StatusClosed    Status = "closed"
	StatusCancelled Status = "cancelled"
)

// validTransition encodes the inquiry state machine:
// new -> assigned -> responded -> booked -> closed, with cancellation
// allowed from new, assigned and responded only.
func validTransition(from, to Status) bool {
	switch to {
	case StatusAssigned:
		return from == StatusNew
	case StatusResponded:
		return from == StatusAssigned
	case StatusBooked:
		return from == StatusResponded
	case StatusClosed:
		return from == StatusBooked
	case StatusCancelled:
		return from == StatusNew || from == StatusAssigned || from == StatusResponded
	default:
		return false
	}
}

// Budget is the client's stated price band for the shoot.
type Budget struct {
	Min int64
	Max int64
}

// Inquiry is a client's request for photography services.
type Inquiry struct {
	ID                string
	ClientID          string
	Category          string
	City              string
	State             string
	Budget            *Budget
	EventDate         time.Time
	DurationHours     int
	Status            Status
	SelectedPartnerID *string
	CancelReason      *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Assignment records one partner being offered this inquiry. It is owned
// by its parent inquiry and never referenced independently.
type Assignment struct {
	ID         string
	InquiryID  string
	PartnerID  string
	AssignedAt time.Time
	Response   *Response
}

// Response is the partner's answer to an assigned lead.
type Response struct {
	Message     string
	Quotation   int64
	RespondedAt time.Time
	Accepted    bool
}

// Filters narrows inquiry listings.
type Filters struct {
	ClientID string
	Status   Status
	Category string
	City     string
	Page     int
	PageSize int
}
