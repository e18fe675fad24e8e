package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/porter/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/porter/pkg/dataaccess"
	"github.com/Jacobbrewer1/porter/pkg/logging"
)

func guildJoinedHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		a.Log().Info(fmt.Sprintf("Joined guild %s", g.Name))

		// Increment the total number of guilds.
		monitoring.TotalDiscordGuilds.Inc()
	}
}

func guildLeaveHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		a.Log().Info(fmt.Sprintf("Left guild %s", g.Name))

		// Decrement the total number of guilds.
		monitoring.TotalDiscordGuilds.Dec()
	}
}

// messageCreateHandler feeds ticket channel activity into the audit trail.
// Bots and DMs are ignored.
func messageCreateHandler(a IApp) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot || m.GuildID == "" {
			return
		}

		if err := a.Tickets().RecordMessage(context.Background(), m.ChannelID, m.Author.ID, len(m.Content)); err != nil {
			a.Log().Error("Error recording ticket message",
				slog.String(logging.KeyChannelID, m.ChannelID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}
}

// channelDeleteHandler reconciles ticket channels removed outside the bot.
// The bound ticket is closed and the removal is reported to the log channel.
func channelDeleteHandler(a IApp) func(s *discordgo.Session, c *discordgo.ChannelDelete) {
	return func(_ *discordgo.Session, c *discordgo.ChannelDelete) {
		ticket, err := a.Tickets().HandleExternalDeletion(context.Background(), c.ID)
		if err != nil {
			a.Log().Error("Error handling external channel deletion",
				slog.String(logging.KeyChannelID, c.ID),
				slog.String(logging.KeyError, err.Error()),
			)
			return
		}
		if ticket == nil {
			// Not a ticket channel, or already closed.
			return
		}

		a.Log().Warn("Ticket channel deleted externally",
			slog.String(logging.KeyGuildID, ticket.GuildID),
			slog.String(logging.KeyChannelID, c.ID),
			slog.Int(logging.KeyTicketID, ticket.TicketID),
		)

		cfg, err := a.GuildConfigDal().GetGuildConfig(context.Background(), ticket.GuildID)
		if err != nil {
			if !errors.Is(err, dataaccess.ErrNotFound) {
				a.Log().Error("Error getting guild config",
					slog.String(logging.KeyGuildID, ticket.GuildID),
					slog.String(logging.KeyError, err.Error()),
				)
			}
			return
		}
		if cfg.LogChannelID == "" {
			return
		}

		embed := errorEmbed(fmt.Sprintf(
			"O canal do ticket **%s** foi deletado manualmente, sem passar pelo bot. O ticket foi marcado como fechado, mas nenhuma transcrição pôde ser salva.",
			ticket.Name(),
		))
		embed.Title = "⚠️ Ticket Deletado Manualmente"

		if _, err := a.Session().ChannelMessageSendComplex(cfg.LogChannelID, &discordgo.MessageSend{
			Embed: embed,
		}); err != nil {
			a.Log().Error("Error reporting external deletion",
				slog.String(logging.KeyChannelID, cfg.LogChannelID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}
}
