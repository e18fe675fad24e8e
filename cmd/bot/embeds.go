package main

import (
	"fmt"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/porter/cmd/bot/config"
	"github.com/Jacobbrewer1/porter/pkg/entities"
)

// actionTitles are the embed titles per lifecycle action.
var actionTitles = map[entities.LogAction]string{
	entities.LogActionCreated:    "✅ Ticket Criado",
	entities.LogActionClaimed:    "\U0001F3AB Ticket Assumido",
	entities.LogActionDisclaimed: "\U0001F513 Ticket Liberado",
	entities.LogActionClosed:     "\U0001F510 Ticket Fechado",
	entities.LogActionDeleted:    "❌ Ticket Deletado",
}

// actionColors are the embed accent colours per lifecycle action.
var actionColors = map[entities.LogAction]int{
	entities.LogActionCreated:    0x00FF00,
	entities.LogActionClaimed:    0x0099FF,
	entities.LogActionDisclaimed: 0xFFFF00,
	entities.LogActionClosed:     0xFF9900,
	entities.LogActionDeleted:    0xFF0000,
}

// urgencyColor maps the ticket urgency to its accent colour.
func urgencyColor(u entities.Urgency) int {
	switch u {
	case entities.UrgencyLow:
		return 0x00FF00
	case entities.UrgencyMedium:
		return 0xFFFF00
	case entities.UrgencyHigh:
		return 0xFF0000
	default:
		return config.CurrentSettings().EmbedColor
	}
}

// embedFooter builds the standard footer for a section of the bot.
func embedFooter(section string) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("%s • %s", config.CurrentSettings().BotName, section),
	}
}

// ticketEmbed is the welcome embed posted into a freshly opened ticket
// channel.
func ticketEmbed(ticket *entities.Ticket) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("\U0001F3AB Ticket #%04d", ticket.TicketID),
		Description: fmt.Sprintf("Olá <@%s>! A equipe foi notificada e irá atendê-lo em breve.", ticket.UserID),
		Color:       urgencyColor(ticket.Urgency),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Categoria",
				Value:  ticket.Category,
				Inline: true,
			},
			{
				Name:   "Urgência",
				Value:  string(ticket.Urgency),
				Inline: true,
			},
			{
				Name:  "Motivo",
				Value: ticket.Reason,
			},
			{
				Name:  "Descrição",
				Value: ticket.Description,
			},
		},
		Footer:    embedFooter("Tickets"),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// logEmbed is the summary embed mirrored to the guild's log channel for a
// lifecycle event.
func logEmbed(action entities.LogAction, ticket *entities.Ticket) *discordgo.MessageEmbed {
	title, ok := actionTitles[action]
	if !ok {
		title = string(action)
	}
	color, ok := actionColors[action]
	if !ok {
		color = config.CurrentSettings().EmbedColor
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Ticket",
				Value:  ticket.Name(),
				Inline: true,
			},
			{
				Name:   "Usuário",
				Value:  fmt.Sprintf("<@%s>", ticket.UserID),
				Inline: true,
			},
			{
				Name:   "Categoria",
				Value:  ticket.Category,
				Inline: true,
			},
		},
		Footer:    embedFooter("Logs"),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if ticket.ClaimedBy != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Responsável",
			Value:  fmt.Sprintf("<@%s>", ticket.ClaimedBy),
			Inline: true,
		})
	}
	if ticket.CloseReason != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Motivo do fechamento",
			Value: ticket.CloseReason,
		})
	}

	return embed
}

// panelEmbed is the embed posted as a ticket opening panel.
func panelEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       config.CurrentSettings().EmbedColor,
		Footer:      embedFooter("Painel"),
	}
}

func errorEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Erro",
		Description: description,
		Color:       0xFF0000,
		Footer:      embedFooter("Tickets"),
	}
}

func successEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       0x00FF00,
		Footer:      embedFooter("Tickets"),
	}
}

func infoEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       config.CurrentSettings().EmbedColor,
		Footer:      embedFooter("Tickets"),
	}
}
