package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/porter/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/porter/pkg/dataaccess"
	"github.com/Jacobbrewer1/porter/pkg/entities"
	"github.com/Jacobbrewer1/porter/pkg/logging"
	"github.com/Jacobbrewer1/porter/pkg/messages"
	"github.com/Jacobbrewer1/porter/pkg/permissions"
	"github.com/Jacobbrewer1/porter/pkg/ticketing"
)

const (
	// TicketModalID is the ID for the ticket opening form. The chosen
	// category travels as the custom ID argument.
	TicketModalID = "ticket_modal"

	// CloseTicketModalID is the ID for the close reason form.
	CloseTicketModalID = "ticket_close_modal"

	// ClaimTicketButtonID is the ID for the claim button.
	ClaimTicketButtonID = "ticket_claim"

	// DisclaimTicketButtonID is the ID for the disclaim button.
	DisclaimTicketButtonID = "ticket_disclaim"

	// CloseTicketButtonID is the ID for the close button.
	CloseTicketButtonID = "ticket_close"

	// DeleteTicketButtonID is the ID for the delete button.
	DeleteTicketButtonID = "ticket_delete"

	// DeleteConfirmButtonID is the ID for the delete confirmation button.
	// The issue time travels as the custom ID argument.
	DeleteConfirmButtonID = "ticket_delete_confirm"

	// DeleteCancelButtonID is the ID for the delete cancel button.
	DeleteCancelButtonID = "ticket_delete_cancel"
)

const (
	// reasonInputID is the ID of the reason field on the ticket form.
	reasonInputID = "ticket_reason"

	// descriptionInputID is the ID of the description field on the ticket form.
	descriptionInputID = "ticket_description"

	// urgencyInputID is the ID of the urgency field on the ticket form.
	urgencyInputID = "ticket_urgency"

	// closeReasonInputID is the ID of the reason field on the close form.
	closeReasonInputID = "ticket_close_reason"
)

const (
	// ClaimEmoji is the emoji used on the claim button. (Ticket)
	ClaimEmoji = "\U0001F3AB"

	// DisclaimEmoji is the emoji used on the disclaim button. (Open padlock)
	DisclaimEmoji = "\U0001F513"

	// CloseEmoji is the emoji used on the close button. (Padlock)
	CloseEmoji = "\U0001F510"

	// DeleteEmoji is the emoji used on the delete button. (Cross)
	DeleteEmoji = "❌"
)

// deleteConfirmWindow is how long a delete confirmation stays valid.
const deleteConfirmWindow = 60 * time.Second

// defaultCategory is the category used when the user does not pick one.
const defaultCategory = "suporte"

// ticketCmdController resolves the /ticket command. Anyone can open a
// ticket, so there is no permission gate here.
func ticketCmdController(_ IApp, _ *discordgo.InteractionCreate) (commandProcessor, error) {
	return openTicketForm, nil
}

// openTicketForm shows the ticket opening form with the chosen category
// carried in the modal's custom ID.
func openTicketForm(a IApp, i *discordgo.InteractionCreate) error {
	category := defaultCategory
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == categoryOptionName {
			category = opt.StringValue()
		}
	}
	return openTicketFormForCategory(a, i, category)
}

func openTicketFormForCategory(a IApp, i *discordgo.InteractionCreate, category string) error {
	return respondModal(a, i, fmt.Sprintf("%s:%s", TicketModalID, category), "Abrir Ticket", []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    reasonInputID,
					Label:       "Motivo do ticket",
					Style:       discordgo.TextInputShort,
					Placeholder: "Resuma o seu problema",
					Required:    true,
					MaxLength:   100,
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    descriptionInputID,
					Label:       "Descrição detalhada",
					Style:       discordgo.TextInputParagraph,
					Placeholder: "Descreva o seu problema com detalhes",
					Required:    true,
					MaxLength:   1000,
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    urgencyInputID,
					Label:       "Urgência (baixa, média ou alta)",
					Style:       discordgo.TextInputShort,
					Placeholder: "baixa",
					Required:    true,
					MaxLength:   10,
				},
			},
		},
	})
}

// modalInput extracts the value of a text input from a submitted modal.
func modalInput(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, component := range actionsRow.Components {
			input, ok := component.(*discordgo.TextInput)
			if !ok {
				continue
			}
			if input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}

// ticketModalHandler creates the ticket from the submitted form.
func ticketModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	userID := i.Member.User.ID

	if !a.AllowTicketCreation(userID) {
		return respondEphemeral(a, i, "Você está criando tickets rápido demais. Aguarde um pouco e tente novamente.")
	}

	data := i.ModalSubmitData()
	category := customIDArg(data.CustomID)
	if category == "" {
		category = defaultCategory
	}

	reason := modalInput(data, reasonInputID)
	description := modalInput(data, descriptionInputID)
	urgency := modalInput(data, urgencyInputID)

	if _, err := entities.ParseUrgency(urgency); err != nil {
		return respondEphemeral(a, i, messages.ErrInvalidUrgency)
	}

	ticket, err := a.Tickets().CreateTicket(context.Background(), i.GuildID, userID, category, reason, description, urgency)
	if err != nil {
		dupErr := new(ticketing.DuplicateTicketError)
		if errors.As(err, &dupErr) {
			return respondEphemeral(a, i, fmt.Sprintf("Você já possui um ticket aberto: <#%s>", dupErr.ChannelIDs[0]))
		}
		return fmt.Errorf("error creating ticket: %w", err)
	}

	monitoring.TicketOperations.WithLabelValues(string(entities.LogActionCreated)).Inc()

	// The welcome message carries the lifecycle buttons the staff use.
	if _, err := a.Session().ChannelMessageSendComplex(ticket.ChannelID, &discordgo.MessageSend{
		Content:    fmt.Sprintf("<@%s>", userID),
		Embed:      ticketEmbed(ticket),
		Components: ticketControlComponents(),
	}); err != nil {
		a.Log().Error("Error sending ticket welcome message",
			slog.String(logging.KeyChannelID, ticket.ChannelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	if err := a.Tickets().MirrorLog(context.Background(), ticket, entities.LogActionCreated); err != nil {
		a.Log().Error("Error mirroring ticket creation",
			slog.String(logging.KeyChannelID, ticket.ChannelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	return respondEmbedEphemeral(a, i, successEmbed(
		"✅ Ticket Criado",
		fmt.Sprintf("Seu ticket foi criado em <#%s>.", ticket.ChannelID),
	))
}

// ticketControlComponents are the lifecycle buttons on the welcome message.
func ticketControlComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    fmt.Sprintf("%s Assumir", ClaimEmoji),
					Style:    discordgo.PrimaryButton,
					CustomID: ClaimTicketButtonID,
				},
				discordgo.Button{
					Label:    fmt.Sprintf("%s Liberar", DisclaimEmoji),
					Style:    discordgo.SecondaryButton,
					CustomID: DisclaimTicketButtonID,
				},
				discordgo.Button{
					Label:    fmt.Sprintf("%s Fechar", CloseEmoji),
					Style:    discordgo.SecondaryButton,
					CustomID: CloseTicketButtonID,
				},
				discordgo.Button{
					Label:    fmt.Sprintf("%s Deletar", DeleteEmoji),
					Style:    discordgo.DangerButton,
					CustomID: DeleteTicketButtonID,
				},
			},
		},
	}
}

// requireStaff gates an interaction on the acting member being staff or an
// administrator. It responds to the interaction itself on rejection and
// reports whether the caller may proceed.
func requireStaff(a IApp, i *discordgo.InteractionCreate) (bool, error) {
	if permissions.IsAdministrator(i.Member) {
		return true, nil
	}

	cfg, err := a.GuildConfigDal().GetGuildConfig(context.Background(), i.GuildID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return false, respondEphemeral(a, i, messages.ErrStaffOnly)
		}
		return false, fmt.Errorf("error getting guild config: %w", err)
	}

	if !permissions.IsStaff(i.Member, permissions.StaffRoleID(cfg)) {
		return false, respondEphemeral(a, i, messages.ErrStaffOnly)
	}
	return true, nil
}

func claimTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ok, err := requireStaff(a, i)
	if err != nil || !ok {
		return err
	}

	userID := i.Member.User.ID
	ticket, err := a.Tickets().Claim(context.Background(), i.ChannelID, userID)
	if err != nil {
		claimedErr := new(ticketing.AlreadyClaimedError)
		switch {
		case errors.As(err, &claimedErr):
			return respondEphemeral(a, i, fmt.Sprintf("Este ticket já foi assumido por <@%s>.", claimedErr.ClaimedBy))
		case errors.Is(err, ticketing.ErrTicketNotFound):
			return respondEphemeral(a, i, messages.ErrTicketNotFound)
		case errors.Is(err, ticketing.ErrTicketClosed):
			return respondEphemeral(a, i, "Este ticket já está fechado.")
		default:
			return fmt.Errorf("error claiming ticket: %w", err)
		}
	}

	monitoring.TicketOperations.WithLabelValues(string(entities.LogActionClaimed)).Inc()

	if err := a.Tickets().MirrorLog(context.Background(), ticket, entities.LogActionClaimed); err != nil {
		a.Log().Error("Error mirroring ticket claim", slog.String(logging.KeyError, err.Error()))
	}

	return respondEmbed(a, i, infoEmbed(
		fmt.Sprintf("%s Ticket Assumido", ClaimEmoji),
		fmt.Sprintf("<@%s> assumiu este ticket e será o responsável pelo atendimento.", userID),
	))
}

func disclaimTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ok, err := requireStaff(a, i)
	if err != nil || !ok {
		return err
	}

	userID := i.Member.User.ID
	ticket, err := a.Tickets().Disclaim(context.Background(), i.ChannelID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ticketing.ErrNotClaimed):
			return respondEphemeral(a, i, "Este ticket não foi assumido por ninguém.")
		case errors.Is(err, ticketing.ErrNotClaimant):
			return respondEphemeral(a, i, "Apenas o responsável atual pode liberar este ticket.")
		case errors.Is(err, ticketing.ErrTicketNotFound):
			return respondEphemeral(a, i, messages.ErrTicketNotFound)
		case errors.Is(err, ticketing.ErrTicketClosed):
			return respondEphemeral(a, i, "Este ticket já está fechado.")
		default:
			return fmt.Errorf("error disclaiming ticket: %w", err)
		}
	}

	monitoring.TicketOperations.WithLabelValues(string(entities.LogActionDisclaimed)).Inc()

	if err := a.Tickets().MirrorLog(context.Background(), ticket, entities.LogActionDisclaimed); err != nil {
		a.Log().Error("Error mirroring ticket disclaim", slog.String(logging.KeyError, err.Error()))
	}

	return respondEmbed(a, i, infoEmbed(
		fmt.Sprintf("%s Ticket Liberado", DisclaimEmoji),
		fmt.Sprintf("<@%s> liberou este ticket. Outro membro da equipe pode assumi-lo.", userID),
	))
}

func closeTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ok, err := requireStaff(a, i)
	if err != nil || !ok {
		return err
	}

	return respondModal(a, i, CloseTicketModalID, "Fechar Ticket", []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    closeReasonInputID,
					Label:       "Motivo do fechamento",
					Style:       discordgo.TextInputParagraph,
					Placeholder: "Resolvido",
					Required:    false,
					MaxLength:   500,
				},
			},
		},
	})
}

func closeTicketModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	reason := modalInput(i.ModalSubmitData(), closeReasonInputID)
	if reason == "" {
		reason = "Resolvido"
	}

	userID := i.Member.User.ID
	ticket, err := a.Tickets().Close(context.Background(), i.ChannelID, userID, reason)
	if err != nil {
		switch {
		case errors.Is(err, ticketing.ErrTicketNotFound):
			return respondEphemeral(a, i, messages.ErrTicketNotFound)
		case errors.Is(err, ticketing.ErrTicketClosed):
			return respondEphemeral(a, i, "Este ticket já está fechado.")
		default:
			return fmt.Errorf("error closing ticket: %w", err)
		}
	}

	monitoring.TicketOperations.WithLabelValues(string(entities.LogActionClosed)).Inc()

	if err := a.Tickets().MirrorLog(context.Background(), ticket, entities.LogActionClosed); err != nil {
		a.Log().Error("Error mirroring ticket close", slog.String(logging.KeyError, err.Error()))
	}

	return respondEmbed(a, i, infoEmbed(
		fmt.Sprintf("%s Ticket Fechado", CloseEmoji),
		fmt.Sprintf("Ticket fechado por <@%s>.\n**Motivo:** %s", userID, reason),
	))
}

func deleteTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ok, err := requireStaff(a, i)
	if err != nil || !ok {
		return err
	}

	issued := time.Now().UTC().Unix()
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:  discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{errorEmbed("Tem certeza que deseja deletar este ticket? Esta ação é **irreversível**. Uma transcrição será salva no canal de logs.")},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    "Confirmar",
							Style:    discordgo.DangerButton,
							CustomID: fmt.Sprintf("%s:%d", DeleteConfirmButtonID, issued),
						},
						discordgo.Button{
							Label:    "Cancelar",
							Style:    discordgo.SecondaryButton,
							CustomID: DeleteCancelButtonID,
						},
					},
				},
			},
		},
	})
}

func deleteTicketConfirmationHandler(a IApp, i *discordgo.InteractionCreate) error {
	ok, err := requireStaff(a, i)
	if err != nil || !ok {
		return err
	}

	issuedUnix, err := strconv.ParseInt(customIDArg(i.MessageComponentData().CustomID), 10, 64)
	if err != nil {
		return fmt.Errorf("error parsing confirmation timestamp: %w", err)
	}
	if time.Since(time.Unix(issuedUnix, 0)) > deleteConfirmWindow {
		return respondEphemeral(a, i, messages.ErrConfirmationExpired)
	}

	// Respond before deleting; the channel (and the interaction with it) is
	// gone afterwards.
	if err := respondEphemeral(a, i, "\U0001F5D1 Deletando o ticket e salvando a transcrição..."); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	if _, err := a.Tickets().Delete(context.Background(), i.ChannelID, i.Member.User.ID); err != nil {
		if errors.Is(err, ticketing.ErrTicketNotFound) {
			return nil
		}
		return fmt.Errorf("error deleting ticket: %w", err)
	}

	monitoring.TicketOperations.WithLabelValues(string(entities.LogActionDeleted)).Inc()
	return nil
}

func deleteTicketCancelHandler(a IApp, i *discordgo.InteractionCreate) error {
	return respondEphemeral(a, i, "Operação cancelada.")
}
