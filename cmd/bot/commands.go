package main

import (
	"github.com/Jacobbrewer1/discordgo"
)

const (
	// TicketCmdName is the command for opening a ticket.
	TicketCmdName = "ticket"

	// ConfigCmdName is the command for per guild configuration.
	ConfigCmdName = "config"

	// SetupCmdName is the command for the one shot guild setup.
	SetupCmdName = "setup"

	// PanelCmdName is the command for publishing ticket panels.
	PanelCmdName = "painel"
)

const (
	// ConfigStaffCmdName sets the staff role.
	ConfigStaffCmdName = "staff"

	// ConfigLogsCmdName sets the log channel.
	ConfigLogsCmdName = "logs"

	// ConfigOpenCategoryCmdName sets the category for open tickets.
	ConfigOpenCategoryCmdName = "categoria-abertos"

	// ConfigClosedCategoryCmdName sets the category for closed tickets.
	ConfigClosedCategoryCmdName = "categoria-fechados"

	// ConfigViewCmdName shows the current configuration.
	ConfigViewCmdName = "ver"
)

const (
	// PanelCreateCmdName publishes a simple open ticket panel.
	PanelCreateCmdName = "criar"

	// PanelCategoryCmdName publishes a panel with a category select menu.
	PanelCategoryCmdName = "categoria"
)

const (
	// roleOptionName is the name of role options.
	roleOptionName = "cargo"

	// channelOptionName is the name of channel options.
	channelOptionName = "canal"

	// categoryOptionName is the name of the category option.
	categoryOptionName = "categoria"

	// typeOptionName is the name of the panel type option.
	typeOptionName = "tipo"

	// titleOptionName is the name of the panel title option.
	titleOptionName = "titulo"

	// descriptionOptionName is the name of the panel description option.
	descriptionOptionName = "descricao"
)

var (
	// ticketCmd opens the ticket form.
	ticketCmd = &discordgo.ApplicationCommand{
		Name:        TicketCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Abre um formulário para criar um ticket de atendimento.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        categoryOptionName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "A categoria do atendimento.",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Suporte", Value: "suporte"},
					{Name: "Compras", Value: "compras"},
					{Name: "Denúncia", Value: "denuncia"},
					{Name: "Parcerias", Value: "parcerias"},
					{Name: "Customizado", Value: "customizado"},
				},
			},
		},
	}

	// configCmd is the per guild configuration command.
	configCmd = &discordgo.ApplicationCommand{
		Name:        ConfigCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Configura o sistema de tickets do servidor.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        ConfigStaffCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Define o cargo da equipe de atendimento.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        roleOptionName,
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "O cargo da equipe.",
						Required:    true,
					},
				},
			},
			{
				Name:        ConfigLogsCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Define o canal de logs dos tickets.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        channelOptionName,
						Type:        discordgo.ApplicationCommandOptionChannel,
						Description: "O canal de logs.",
						Required:    true,
					},
				},
			},
			{
				Name:        ConfigOpenCategoryCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Define a categoria dos tickets abertos.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        channelOptionName,
						Type:        discordgo.ApplicationCommandOptionChannel,
						Description: "A categoria dos tickets abertos.",
						Required:    true,
					},
				},
			},
			{
				Name:        ConfigClosedCategoryCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Define a categoria dos tickets fechados.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        channelOptionName,
						Type:        discordgo.ApplicationCommandOptionChannel,
						Description: "A categoria dos tickets fechados.",
						Required:    true,
					},
				},
			},
			{
				Name:        ConfigViewCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Mostra a configuração atual do servidor.",
			},
		},
	}

	// setupCmd bootstraps a guild in one command.
	setupCmd = &discordgo.ApplicationCommand{
		Name:        SetupCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Configura o servidor de uma vez: cargo, logs e categorias.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        roleOptionName,
				Type:        discordgo.ApplicationCommandOptionRole,
				Description: "O cargo da equipe de atendimento.",
				Required:    true,
			},
			{
				Name:        channelOptionName,
				Type:        discordgo.ApplicationCommandOptionChannel,
				Description: "O canal de logs dos tickets.",
				Required:    true,
			},
		},
	}

	// panelCmd publishes ticket opening panels.
	panelCmd = &discordgo.ApplicationCommand{
		Name:        PanelCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Publica painéis de abertura de tickets.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        PanelCreateCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Publica um painel de abertura de tickets.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        channelOptionName,
						Type:        discordgo.ApplicationCommandOptionChannel,
						Description: "O canal onde o painel será publicado.",
						Required:    true,
					},
					{
						Name:        typeOptionName,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "O tipo do painel.",
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "Simples (um botão)", Value: "simples"},
							{Name: "Categorias (menu de seleção)", Value: "categorias"},
						},
					},
					{
						Name:        titleOptionName,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "O título do painel.",
					},
					{
						Name:        descriptionOptionName,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "A descrição do painel.",
					},
				},
			},
			{
				Name:        PanelCategoryCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Publica um painel fixo de uma única categoria.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        categoryOptionName,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "A categoria do painel.",
						Required:    true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "Suporte", Value: "suporte"},
							{Name: "Compras", Value: "compras"},
							{Name: "Denúncia", Value: "denuncia"},
							{Name: "Parcerias", Value: "parcerias"},
							{Name: "Customizado", Value: "customizado"},
						},
					},
					{
						Name:        channelOptionName,
						Type:        discordgo.ApplicationCommandOptionChannel,
						Description: "O canal onde o painel será publicado.",
						Required:    true,
					},
					{
						Name:        titleOptionName,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "O título do painel.",
					},
					{
						Name:        descriptionOptionName,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "A descrição do painel.",
					},
				},
			},
		},
	}
)

// slashCommands are all commands registered per guild.
func slashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		ticketCmd,
		configCmd,
		setupCmd,
		panelCmd,
	}
}
