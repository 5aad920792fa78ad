package models

import "time"

// Feedback kinds
const (
	KindSuccess     = "success"
	KindFailure     = "failure"
	KindDecodeError = "decode_error"
)

// Failure reasons
const (
	ReasonNetworkError   = "network_error"
	ReasonRemoteRejected = "remote_rejected"
)

// Gate states
const (
	StateArmed  = "armed"
	StateLocked = "locked"
)

// Domain types

// TicketIdentity is the decoded content of a ticket QR code.
type TicketIdentity struct {
	TicketID int64 `json:"ticketId"`
	OwnerID  int64 `json:"ownerId"`
}

// Feedback is what the scan gate reports for a single admitted scan.
type Feedback struct {
	Kind     string          `json:"kind"`
	Reason   string          `json:"reason,omitempty"` // failure only
	Message  string          `json:"message"`
	Payload  string          `json:"payload"`
	Identity *TicketIdentity `json:"identity,omitempty"` // nil when decoding failed
	At       time.Time       `json:"at"`
}

type GateStatus struct {
	State        string    `json:"state"`
	Active       bool      `json:"active"`
	AwaitingAck  bool      `json:"awaiting_ack"`
	InFlight     bool      `json:"in_flight"`
	LastFeedback *Feedback `json:"last_feedback,omitempty"`
}

type ScanRecord struct {
	ID        string    `json:"id"`
	Payload   string    `json:"payload"`
	TicketID  *int64    `json:"ticket_id,omitempty"`
	OwnerID   *int64    `json:"owner_id,omitempty"`
	Kind      string    `json:"kind"`
	Reason    string    `json:"reason,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Age       string    `json:"age,omitempty"` // humanized, filled by handlers
}

type ScanStats struct {
	Total        int `json:"total"`
	Success      int `json:"success"`
	Failure      int `json:"failure"`
	DecodeErrors int `json:"decode_errors"`
}

// Backend types (events backend wire format)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Event struct {
	ID                    int64     `json:"id"`
	UUID                  string    `json:"uuid,omitempty"`
	Name                  string    `json:"name"`
	Location              string    `json:"location"`
	TotalTicketsPurchased int       `json:"totalTicketsPurchased"`
	TotalTicketsEntered   int       `json:"totalTicketsEntered"`
	StartDate             string    `json:"startDate"`
	EndDate               string    `json:"endDate"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

type EventRequest struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ValidateTicketRequest struct {
	TicketID int64 `json:"ticketId"`
	OwnerID  int64 `json:"ownerId"`
}

// Request types

type ScanRequest struct {
	Payload string `json:"payload"`
}

// Response types

type ScanResponse struct {
	Admitted bool       `json:"admitted"`
	Status   GateStatus `json:"status"`
}

type DemoResponse struct {
	Queued bool `json:"queued"`
}

type SessionResponse struct {
	LoggedIn bool  `json:"logged_in"`
	User     *User `json:"user,omitempty"`
}

type HistoryResponse struct {
	Records []ScanRecord `json:"records"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
