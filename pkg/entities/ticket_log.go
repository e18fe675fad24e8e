package entities

import "github.com/Jacobbrewer1/porter/pkg/custom"

// LogAction tags an entry in a ticket's audit trail.
type LogAction string

const (
	LogActionCreated    LogAction = "created"
	LogActionClaimed    LogAction = "claimed"
	LogActionDisclaimed LogAction = "disclaimed"
	LogActionClosed     LogAction = "closed"
	LogActionDeleted    LogAction = "deleted"
	LogActionMessage    LogAction = "message"
)

// TicketLog is one entry in a ticket's append only audit trail. Entries are
// never mutated or deleted.
type TicketLog struct {
	// TicketID is the display number of the ticket the entry belongs to.
	TicketID int `json:"ticket_id" bson:"ticket_id"`

	// GuildID is the ID of the guild the ticket is in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// UserID is the ID of the user that performed the action.
	UserID string `json:"user_id" bson:"user_id"`

	// Action is the action tag.
	Action LogAction `json:"action" bson:"action"`

	// Details is free text detail about the action.
	Details string `json:"details,omitempty" bson:"details,omitempty"`

	// Timestamp is the time the action happened.
	Timestamp custom.Datetime `json:"timestamp" bson:"timestamp"`
}
