package ticketing

import (
	"errors"
	"fmt"
)

var (
	// ErrTicketNotFound is returned when the acting channel is not bound to a
	// ticket. It guards every mutating operation.
	ErrTicketNotFound = errors.New("no ticket is associated with this channel")

	// ErrTicketClosed is returned when an operation is attempted on a ticket
	// that has already been closed.
	ErrTicketClosed = errors.New("ticket is already closed")

	// ErrNotClaimed is returned when disclaiming a ticket nobody has claimed.
	ErrNotClaimed = errors.New("ticket is not claimed")

	// ErrNotClaimant is returned when someone other than the current claimant
	// tries to release a claim. Administrators are not special cased.
	ErrNotClaimant = errors.New("only the current claimant can release the ticket")
)

// DuplicateTicketError is returned when a user already holds an open ticket
// in the guild. It carries the channels of the existing tickets so the caller
// can point the user at them.
type DuplicateTicketError struct {
	// ChannelIDs are the channels of the user's existing open tickets.
	ChannelIDs []string
}

func (e *DuplicateTicketError) Error() string {
	return fmt.Sprintf("user already has %d open ticket(s)", len(e.ChannelIDs))
}

// AlreadyClaimedError is returned when claiming a ticket that has a claimant.
type AlreadyClaimedError struct {
	// ClaimedBy is the user currently holding the claim.
	ClaimedBy string
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("ticket is already claimed by %s", e.ClaimedBy)
}
