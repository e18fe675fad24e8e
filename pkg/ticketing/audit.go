package ticketing

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/porter/pkg/custom"
	"github.com/Jacobbrewer1/porter/pkg/dataaccess"
	"github.com/Jacobbrewer1/porter/pkg/entities"
)

// externalDeletionReason is the close reason recorded when a ticket channel
// is removed outside of the lifecycle manager.
const externalDeletionReason = "Deletado manualmente"

// RecordMessage appends a message activity entry to the audit trail of the
// ticket bound to the channel. Channels that are not tickets are ignored, as
// are failures to resolve them; passive auditing never disturbs the guild.
func (m *Manager) RecordMessage(ctx context.Context, channelID, authorID string, contentLength int) error {
	ticket, err := m.tickets.GetTicketByChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("error getting ticket: %w", err)
	}

	m.appendLog(ctx, ticket, authorID, entities.LogActionMessage,
		fmt.Sprintf("Mensagem enviada: %d caracteres", contentLength))
	return nil
}

// HandleExternalDeletion reconciles a channel deletion that happened outside
// the system. A bound open ticket is marked closed with an explanatory
// reason and returned for the caller to report; anything else returns nil.
func (m *Manager) HandleExternalDeletion(ctx context.Context, channelID string) (*entities.Ticket, error) {
	ticket, err := m.tickets.GetTicketByChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	if ticket.Status != entities.TicketStatusOpen {
		return nil, nil
	}

	closedAt := custom.Now()
	if err := m.tickets.CloseTicket(ctx, channelID, externalDeletionReason, closedAt); err != nil {
		if errors.Is(err, dataaccess.ErrNotModified) {
			// Already closed through the regular path.
			return nil, nil
		}
		return nil, fmt.Errorf("error closing externally deleted ticket: %w", err)
	}
	ticket.Status = entities.TicketStatusClosed
	ticket.ClosedAt = &closedAt
	ticket.CloseReason = externalDeletionReason

	m.appendLog(ctx, ticket, ticket.UserID, entities.LogActionClosed, externalDeletionReason)

	return ticket, nil
}
