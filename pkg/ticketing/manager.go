package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/porter/pkg/custom"
	"github.com/Jacobbrewer1/porter/pkg/dataaccess"
	"github.com/Jacobbrewer1/porter/pkg/entities"
	"github.com/Jacobbrewer1/porter/pkg/logging"
	"github.com/Jacobbrewer1/porter/pkg/permissions"
)

// NumberingMode selects how ticket display numbers are allocated.
type NumberingMode string

const (
	// NumberingSequential draws numbers from a per guild monotonic counter.
	NumberingSequential NumberingMode = "sequential"

	// NumberingRandom draws a random number between 1 and 9999 per ticket.
	// Collisions on the display number are accepted in this mode; the channel
	// ID remains the real key.
	NumberingRandom NumberingMode = "random"
)

// randomNumberCeiling bounds random display numbers so they still fit the
// four digit channel name.
const randomNumberCeiling = 9999

// Config is the static configuration of a Manager.
type Config struct {
	// Numbering selects the display number allocation mode.
	Numbering NumberingMode

	// BotUserID resolves the bot's own user ID. It is a function because the
	// ID is only known once the gateway session is open.
	BotUserID func() string

	// RenderLogEmbed renders the summary embed mirrored to the guild's log
	// channel. Nil disables log mirroring entirely.
	RenderLogEmbed func(action entities.LogAction, ticket *entities.Ticket) *discordgo.MessageEmbed
}

// Manager coordinates the ticket lifecycle: channel creation, claim and
// disclaim exclusivity, closing, and deletion with transcript capture. It
// holds no state across calls; the store is re-read on every operation.
type Manager struct {
	// l is the logger.
	l *slog.Logger

	// s is the discord session slice.
	s Session

	// guilds is the guild configuration store.
	guilds dataaccess.GuildConfigDal

	// tickets is the ticket store.
	tickets dataaccess.TicketDal

	// logs is the ticket audit trail store.
	logs dataaccess.TicketLogDal

	// cfg is the manager configuration.
	cfg Config

	// randInt draws random numbers for the random numbering mode.
	randInt func(n int) int
}

// NewManager creates a new ticket lifecycle manager.
func NewManager(l *slog.Logger, s Session, guilds dataaccess.GuildConfigDal, tickets dataaccess.TicketDal, logs dataaccess.TicketLogDal, cfg Config) *Manager {
	if cfg.Numbering == "" {
		cfg.Numbering = NumberingSequential
	}
	return &Manager{
		l:       l,
		s:       s,
		guilds:  guilds,
		tickets: tickets,
		logs:    logs,
		cfg:     cfg,
		randInt: rand.Intn,
	}
}

// guildConfig gets the guild configuration, treating an unconfigured guild as
// an empty configuration.
func (m *Manager) guildConfig(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	cfg, err := m.guilds.GetGuildConfig(ctx, guildID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return &entities.GuildConfig{GuildID: guildID}, nil
		}
		return nil, fmt.Errorf("error getting guild config: %w", err)
	}
	return cfg, nil
}

// CreateTicket opens a ticket for a user: validates the urgency, rejects
// duplicate open tickets, creates the private channel and only then writes
// the ticket row and the created log entry. A channel creation failure leaves
// the store untouched.
func (m *Manager) CreateTicket(ctx context.Context, guildID, userID, category, reason, description, urgency string) (*entities.Ticket, error) {
	// Validation happens before anything is written.
	parsedUrgency, err := entities.ParseUrgency(urgency)
	if err != nil {
		return nil, err
	}

	// Anti spam guard: one open ticket per user per guild.
	open, err := m.tickets.ListOpenTickets(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing open tickets: %w", err)
	}
	if len(open) > 0 {
		channels := make([]string, 0, len(open))
		for _, t := range open {
			channels = append(channels, t.ChannelID)
		}
		return nil, &DuplicateTicketError{ChannelIDs: channels}
	}

	cfg, err := m.guildConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}

	number, err := m.nextNumber(ctx, guildID)
	if err != nil {
		return nil, err
	}

	ticket := &entities.Ticket{
		TicketID:    number,
		GuildID:     guildID,
		ChannelID:   "",
		UserID:      userID,
		Category:    category,
		Reason:      reason,
		Description: description,
		Urgency:     parsedUrgency,
		Status:      entities.TicketStatusOpen,
		CreatedAt:   custom.Now(),
	}

	overwrites := permissions.TicketOverwrites(guildID, userID, m.cfg.BotUserID(), cfg.StaffRoleID)

	channel, err := m.s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 ticket.Name(),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("Ticket de <@%s> | Categoria: %s", userID, category),
		PermissionOverwrites: overwrites,
		ParentID:             cfg.OpenCategoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}

	ticket.ChannelID = channel.ID

	if err := m.tickets.CreateTicket(ctx, ticket); err != nil {
		// The channel exists but the row does not; there is no automatic
		// reconciliation for this.
		m.l.Error("Ticket channel created but row insert failed",
			slog.String(logging.KeyChannelID, channel.ID),
			slog.String(logging.KeyError, err.Error()),
		)
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}

	m.appendLog(ctx, ticket, userID, entities.LogActionCreated,
		fmt.Sprintf("Categoria: %s, Urgência: %s", category, parsedUrgency))

	return ticket, nil
}

// nextNumber allocates a display number in the configured mode.
func (m *Manager) nextNumber(ctx context.Context, guildID string) (int, error) {
	if m.cfg.Numbering == NumberingRandom {
		return m.randInt(randomNumberCeiling) + 1, nil
	}
	n, err := m.tickets.NextTicketNumber(ctx, guildID)
	if err != nil {
		return 0, fmt.Errorf("error allocating ticket number: %w", err)
	}
	return n, nil
}

// Claim assigns the acting user as the ticket's responder. The store applies
// the claim as a conditional update, so concurrent claimers race safely: the
// loser is told who won.
func (m *Manager) Claim(ctx context.Context, channelID, userID string) (*entities.Ticket, error) {
	ticket, err := m.getOpenTicket(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if ticket.ClaimedBy != "" {
		return nil, &AlreadyClaimedError{ClaimedBy: ticket.ClaimedBy}
	}

	if err := m.tickets.ClaimTicket(ctx, channelID, userID); err != nil {
		if errors.Is(err, dataaccess.ErrNotModified) {
			// Lost the race; re-read to report the winner.
			return nil, m.claimConflict(ctx, channelID)
		}
		return nil, fmt.Errorf("error claiming ticket: %w", err)
	}
	ticket.ClaimedBy = userID

	m.appendLog(ctx, ticket, userID, entities.LogActionClaimed,
		fmt.Sprintf("Assumido por <@%s>", userID))

	return ticket, nil
}

// claimConflict classifies a failed conditional claim.
func (m *Manager) claimConflict(ctx context.Context, channelID string) error {
	ticket, err := m.tickets.GetTicketByChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return ErrTicketNotFound
		}
		return fmt.Errorf("error getting ticket: %w", err)
	}
	if ticket.Status == entities.TicketStatusClosed {
		return ErrTicketClosed
	}
	return &AlreadyClaimedError{ClaimedBy: ticket.ClaimedBy}
}

// Disclaim releases the acting user's claim. Only the current claimant may
// release their own claim.
func (m *Manager) Disclaim(ctx context.Context, channelID, userID string) (*entities.Ticket, error) {
	ticket, err := m.getOpenTicket(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if ticket.ClaimedBy == "" {
		return nil, ErrNotClaimed
	}
	if ticket.ClaimedBy != userID {
		return nil, ErrNotClaimant
	}

	if err := m.tickets.DisclaimTicket(ctx, channelID, userID); err != nil {
		if errors.Is(err, dataaccess.ErrNotModified) {
			// The claim changed under us; report against the fresh state.
			return nil, m.claimConflict(ctx, channelID)
		}
		return nil, fmt.Errorf("error disclaiming ticket: %w", err)
	}
	ticket.ClaimedBy = ""

	m.appendLog(ctx, ticket, userID, entities.LogActionDisclaimed,
		fmt.Sprintf("Liberado por <@%s>", userID))

	return ticket, nil
}

// Close marks the ticket closed, moves the channel to the closed category
// when one is configured, and strips the requester's view of the channel.
// Staff and the bot keep visibility so the ticket can still be read and
// deleted.
func (m *Manager) Close(ctx context.Context, channelID, closerID, reason string) (*entities.Ticket, error) {
	ticket, err := m.getOpenTicket(ctx, channelID)
	if err != nil {
		return nil, err
	}

	closedAt := custom.Now()
	if err := m.tickets.CloseTicket(ctx, channelID, reason, closedAt); err != nil {
		if errors.Is(err, dataaccess.ErrNotModified) {
			// Someone closed it first; a repeated close is a soft failure.
			return nil, ErrTicketClosed
		}
		return nil, fmt.Errorf("error closing ticket: %w", err)
	}
	ticket.Status = entities.TicketStatusClosed
	ticket.ClosedAt = &closedAt
	ticket.CloseReason = reason

	m.appendLog(ctx, ticket, closerID, entities.LogActionClosed, reason)

	cfg, err := m.guildConfig(ctx, ticket.GuildID)
	if err != nil {
		return nil, err
	}

	if cfg.ClosedCategoryID != "" {
		if _, err := m.s.ChannelEditComplex(channelID, &discordgo.ChannelEdit{
			ParentID: cfg.ClosedCategoryID,
		}); err != nil {
			return nil, fmt.Errorf("error moving ticket to closed category: %w", err)
		}
	}

	// Only the requester loses access; everyone else's overwrites are left
	// untouched.
	if err := m.s.ChannelPermissionSet(channelID, ticket.UserID, discordgo.PermissionOverwriteTypeMember, 0, discordgo.PermissionViewChannel); err != nil {
		return nil, fmt.Errorf("error revoking requester access: %w", err)
	}

	return ticket, nil
}

// Delete captures a transcript, mirrors it to the log channel, records the
// deletion and irreversibly removes the channel. Confirmation is the
// presentation layer's responsibility; the manager does not debounce.
func (m *Manager) Delete(ctx context.Context, channelID, deleterID string) (*entities.Ticket, error) {
	ticket, err := m.tickets.GetTicketByChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}

	transcript, err := m.Transcript(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("error generating transcript: %w", err)
	}

	if err := m.MirrorLog(ctx, ticket, entities.LogActionDeleted, transcript.File()); err != nil {
		// The transcript is lost if this fails, so deletion does not proceed.
		return nil, fmt.Errorf("error mirroring transcript: %w", err)
	}

	m.appendLog(ctx, ticket, deleterID, entities.LogActionDeleted, "Canal deletado")

	if _, err := m.s.ChannelDelete(channelID); err != nil {
		return nil, fmt.Errorf("error deleting channel: %w", err)
	}

	return ticket, nil
}

// getOpenTicket is the universal guard: resolve the ticket bound to the
// channel and reject operations on closed tickets.
func (m *Manager) getOpenTicket(ctx context.Context, channelID string) (*entities.Ticket, error) {
	ticket, err := m.tickets.GetTicketByChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	if ticket.Status == entities.TicketStatusClosed {
		return nil, ErrTicketClosed
	}
	return ticket, nil
}

// appendLog records an audit entry. Audit failures are logged and swallowed;
// they never fail the operation that triggered them.
func (m *Manager) appendLog(ctx context.Context, ticket *entities.Ticket, userID string, action entities.LogAction, details string) {
	err := m.logs.AppendLog(ctx, &entities.TicketLog{
		TicketID:  ticket.TicketID,
		GuildID:   ticket.GuildID,
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: custom.Now(),
	})
	if err != nil {
		m.l.Error("Error appending ticket log",
			slog.Int(logging.KeyTicketID, ticket.TicketID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}

// MirrorLog posts a summary embed (plus any attached files) for a lifecycle
// event to the guild's configured log channel. It is a no-op when no log
// channel is configured or no embed renderer was supplied.
func (m *Manager) MirrorLog(ctx context.Context, ticket *entities.Ticket, action entities.LogAction, files ...*discordgo.File) error {
	if m.cfg.RenderLogEmbed == nil {
		return nil
	}

	cfg, err := m.guildConfig(ctx, ticket.GuildID)
	if err != nil {
		return err
	}
	if cfg.LogChannelID == "" {
		return nil
	}

	_, err = m.s.ChannelMessageSendComplex(cfg.LogChannelID, &discordgo.MessageSend{
		Embed: m.cfg.RenderLogEmbed(action, ticket),
		Files: files,
	})
	if err != nil {
		return fmt.Errorf("error sending log message: %w", err)
	}
	return nil
}
