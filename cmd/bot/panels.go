package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/porter/pkg/custom"
	"github.com/Jacobbrewer1/porter/pkg/dataaccess"
	"github.com/Jacobbrewer1/porter/pkg/entities"
	"github.com/Jacobbrewer1/porter/pkg/logging"
)

const (
	// PanelCreateTicketButtonID is the ID of the open ticket button on panels.
	PanelCreateTicketButtonID = "panel_create_ticket"

	// PanelCategorySelectID is the ID of the category select menu on panels.
	PanelCategorySelectID = "panel_category_select"
)

// defaultPanelTitle and defaultPanelDescription are used when the publisher
// does not customise the panel.
const (
	defaultPanelTitle       = "\U0001F4E9 Central de Atendimento"
	defaultPanelDescription = "Precisa de ajuda? Abra um ticket e a equipe irá atendê-lo em um canal privado."
)

// panelCmdController resolves the /painel sub command. Publishing panels is
// restricted to staff.
func panelCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	ok, err := requireStaff(a, i)
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, nil
	}

	subCmd := i.ApplicationCommandData().Options[0].Name

	switch subCmd {
	case PanelCreateCmdName:
		return panelCreateController, nil
	case PanelCategoryCmdName:
		return panelCategoryController, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// panelOptions holds the options shared by the panel sub commands.
type panelOptions struct {
	channel     *discordgo.Channel
	panelType   string
	category    string
	title       string
	description string
}

// parsePanelOptions extracts the options of a panel sub command.
func parsePanelOptions(a IApp, i *discordgo.InteractionCreate) panelOptions {
	opts := panelOptions{
		title:       defaultPanelTitle,
		description: defaultPanelDescription,
	}

	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case channelOptionName:
			opts.channel = opt.ChannelValue(a.Session())
		case typeOptionName:
			opts.panelType = opt.StringValue()
		case categoryOptionName:
			opts.category = opt.StringValue()
		case titleOptionName:
			opts.title = opt.StringValue()
		case descriptionOptionName:
			opts.description = opt.StringValue()
		}
	}
	return opts
}

// registerPanel sends the panel message and records it so interactions on it
// can be verified later.
func registerPanel(a IApp, i *discordgo.InteractionCreate, channel *discordgo.Channel, panelType string, message *discordgo.MessageSend) error {
	if channel.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, "O painel deve ser publicado em um canal de texto.")
	}

	msg, err := a.Session().ChannelMessageSendComplex(channel.ID, message)
	if err != nil {
		return fmt.Errorf("error sending panel message: %w", err)
	}

	if err := a.PanelDal().CreatePanel(context.Background(), &entities.Panel{
		GuildID:   i.GuildID,
		ChannelID: channel.ID,
		MessageID: msg.ID,
		PanelType: panelType,
		CreatedAt: custom.Now(),
	}); err != nil {
		return fmt.Errorf("error saving panel: %w", err)
	}

	return respondEmbedEphemeral(a, i, successEmbed(
		"✅ Painel Publicado",
		fmt.Sprintf("Painel publicado em <#%s>.", channel.ID),
	))
}

// openTicketButtonRow is the single button row used by simple and category
// preset panels.
func openTicketButtonRow() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "\U0001F4E9 Abrir Ticket",
					Style:    discordgo.PrimaryButton,
					CustomID: PanelCreateTicketButtonID,
				},
			},
		},
	}
}

func panelCreateController(a IApp, i *discordgo.InteractionCreate) error {
	opts := parsePanelOptions(a, i)

	if opts.panelType != "categorias" {
		return registerPanel(a, i, opts.channel, entities.PanelTypeSimple, &discordgo.MessageSend{
			Embed:      panelEmbed(opts.title, opts.description),
			Components: openTicketButtonRow(),
		})
	}

	categories := a.Settings().Categories
	values := make([]string, 0, len(categories))
	for value := range categories {
		values = append(values, value)
	}
	sort.Strings(values)

	options := make([]discordgo.SelectMenuOption, 0, len(values))
	for _, value := range values {
		category := categories[value]
		options = append(options, discordgo.SelectMenuOption{
			Label: category.Label,
			Value: value,
			Emoji: discordgo.ComponentEmoji{Name: category.Emoji},
		})
	}

	return registerPanel(a, i, opts.channel, entities.PanelTypeCategories, &discordgo.MessageSend{
		Embed: panelEmbed(opts.title, opts.description),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    PanelCategorySelectID,
						Placeholder: "Escolha a categoria do atendimento",
						Options:     options,
					},
				},
			},
		},
	})
}

// panelCategoryController publishes a panel fixed to a single category.
// Tickets opened from it skip the category choice entirely.
func panelCategoryController(a IApp, i *discordgo.InteractionCreate) error {
	opts := parsePanelOptions(a, i)

	return registerPanel(a, i, opts.channel, entities.PanelTypeCategoryPrefix+opts.category, &discordgo.MessageSend{
		Embed:      panelEmbed(opts.title, opts.description),
		Components: openTicketButtonRow(),
	})
}

// verifyPanel checks that the interacted message is a registered panel. An
// unregistered message means the component was forged or the panel row was
// lost; either way the interaction is refused.
func verifyPanel(a IApp, i *discordgo.InteractionCreate) (*entities.Panel, error) {
	panel, err := a.PanelDal().GetPanel(context.Background(), i.Message.ID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting panel: %w", err)
	}
	return panel, nil
}

func panelCreateTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	panel, err := verifyPanel(a, i)
	if err != nil {
		return err
	}
	if panel == nil {
		a.Log().Warn("Ignoring interaction on unregistered panel", slog.String(logging.KeyChannelID, i.ChannelID))
		return respondSlashError(a, i)
	}

	category := defaultCategory
	if strings.HasPrefix(panel.PanelType, entities.PanelTypeCategoryPrefix) {
		category = strings.TrimPrefix(panel.PanelType, entities.PanelTypeCategoryPrefix)
	}

	return openTicketFormForCategory(a, i, category)
}

func panelCategorySelectHandler(a IApp, i *discordgo.InteractionCreate) error {
	panel, err := verifyPanel(a, i)
	if err != nil {
		return err
	}
	if panel == nil {
		a.Log().Warn("Ignoring interaction on unregistered panel", slog.String(logging.KeyChannelID, i.ChannelID))
		return respondSlashError(a, i)
	}

	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return respondSlashError(a, i)
	}

	return openTicketFormForCategory(a, i, values[0])
}
