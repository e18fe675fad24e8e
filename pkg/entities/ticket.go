package entities

import (
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/porter/pkg/custom"
)

// TicketStatus is the lifecycle state of a ticket. Tickets only ever move
// from open to closed; there is no reopen path.
type TicketStatus string

const (
	// TicketStatusOpen is the state of a ticket that is awaiting or under
	// treatment.
	TicketStatusOpen TicketStatus = "open"

	// TicketStatusClosed is the terminal state of a ticket.
	TicketStatusClosed TicketStatus = "closed"
)

// Urgency is the urgency level of a ticket.
type Urgency string

const (
	UrgencyLow    Urgency = "baixa"
	UrgencyMedium Urgency = "média"
	UrgencyHigh   Urgency = "alta"
)

// ParseUrgency validates a user supplied urgency value. Matching is case
// insensitive; anything outside the three accepted values is rejected.
func ParseUrgency(s string) (Urgency, error) {
	switch Urgency(strings.ToLower(strings.TrimSpace(s))) {
	case UrgencyLow:
		return UrgencyLow, nil
	case UrgencyMedium:
		return UrgencyMedium, nil
	case UrgencyHigh:
		return UrgencyHigh, nil
	default:
		return "", fmt.Errorf("invalid urgency %q", s)
	}
}

// Ticket is a support ticket. The backing channel and the document are 1:1;
// a channel ID maps to at most one ticket.
type Ticket struct {
	// TicketID is the display number of the ticket. It is used to build the
	// channel name, e.g. number 17 names the channel "ticket-0017".
	TicketID int `json:"ticket_id" bson:"ticket_id"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// ChannelID is the ID of the private channel backing the ticket.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// UserID is the ID of the user that opened the ticket.
	UserID string `json:"user_id" bson:"user_id"`

	// Category is the ticket category label, e.g. "suporte".
	Category string `json:"category" bson:"category"`

	// Reason is the short reason given on creation.
	Reason string `json:"reason" bson:"reason"`

	// Description is the detailed description given on creation.
	Description string `json:"description" bson:"description"`

	// Urgency is the urgency level chosen on creation.
	Urgency Urgency `json:"urgency" bson:"urgency"`

	// ClaimedBy is the ID of the staff member currently responsible for the
	// ticket. Empty when unclaimed.
	ClaimedBy string `json:"claimed_by" bson:"claimed_by"`

	// Status is the lifecycle state of the ticket.
	Status TicketStatus `json:"status" bson:"status"`

	// CreatedAt is the time the ticket was created.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`

	// ClosedAt is the time the ticket was closed. Nil while open.
	ClosedAt *custom.Datetime `json:"closed_at,omitempty" bson:"closed_at,omitempty"`

	// CloseReason is the reason given when the ticket was closed.
	CloseReason string `json:"close_reason,omitempty" bson:"close_reason,omitempty"`
}

// Name returns the channel name for the ticket.
func (t *Ticket) Name() string {
	return fmt.Sprintf("ticket-%04d", t.TicketID)
}
