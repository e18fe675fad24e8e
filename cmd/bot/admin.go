package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/porter/pkg/dataaccess"
	"github.com/Jacobbrewer1/porter/pkg/entities"
	"github.com/Jacobbrewer1/porter/pkg/messages"
	"github.com/Jacobbrewer1/porter/pkg/permissions"
)

// configCmdController resolves the /config sub command. Configuration is
// administrator only.
func configCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	if !permissions.IsAdministrator(i.Member) {
		if err := respondEphemeral(a, i, messages.ErrAdministratorOnly); err != nil {
			return nil, fmt.Errorf("error responding to interaction: %w", err)
		}
		return nil, nil
	}

	subCmd := i.ApplicationCommandData().Options[0].Name

	switch subCmd {
	case ConfigStaffCmdName:
		return configStaffController, nil
	case ConfigLogsCmdName:
		return configLogsController, nil
	case ConfigOpenCategoryCmdName:
		return configOpenCategoryController, nil
	case ConfigClosedCategoryCmdName:
		return configClosedCategoryController, nil
	case ConfigViewCmdName:
		return configViewController, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

func configStaffController(a IApp, i *discordgo.InteractionCreate) error {
	role := i.ApplicationCommandData().Options[0].Options[0].RoleValue(a.Session(), i.GuildID)

	if err := a.GuildConfigDal().SaveGuildConfig(context.Background(), i.GuildID, entities.GuildConfigPatch{
		StaffRoleID: &role.ID,
	}); err != nil {
		return fmt.Errorf("error saving guild config: %w", err)
	}

	return respondEmbedEphemeral(a, i, successEmbed(
		"✅ Configuração Salva",
		fmt.Sprintf("Cargo da equipe definido como <@&%s>.", role.ID),
	))
}

func configLogsController(a IApp, i *discordgo.InteractionCreate) error {
	channel := i.ApplicationCommandData().Options[0].Options[0].ChannelValue(a.Session())

	if channel.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, "O canal de logs deve ser um canal de texto.")
	}

	if err := a.GuildConfigDal().SaveGuildConfig(context.Background(), i.GuildID, entities.GuildConfigPatch{
		LogChannelID: &channel.ID,
	}); err != nil {
		return fmt.Errorf("error saving guild config: %w", err)
	}

	// Post a test embed so the administrator can see the wiring works.
	if _, err := a.Session().ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embed: infoEmbed("\U0001F4CB Canal de Logs", "Este canal foi configurado para receber os logs dos tickets."),
	}); err != nil {
		return respondEphemeral(a, i, "Não consegui enviar mensagens nesse canal. Verifique as permissões do bot.")
	}

	return respondEmbedEphemeral(a, i, successEmbed(
		"✅ Configuração Salva",
		fmt.Sprintf("Canal de logs definido como <#%s>.", channel.ID),
	))
}

func configOpenCategoryController(a IApp, i *discordgo.InteractionCreate) error {
	return configCategoryController(a, i, true)
}

func configClosedCategoryController(a IApp, i *discordgo.InteractionCreate) error {
	return configCategoryController(a, i, false)
}

func configCategoryController(a IApp, i *discordgo.InteractionCreate, open bool) error {
	channel := i.ApplicationCommandData().Options[0].Options[0].ChannelValue(a.Session())

	if channel.Type != discordgo.ChannelTypeGuildCategory {
		return respondEphemeral(a, i, "Você deve escolher uma categoria, não um canal.")
	}

	patch := entities.GuildConfigPatch{}
	label := "fechados"
	if open {
		patch.OpenCategoryID = &channel.ID
		label = "abertos"
	} else {
		patch.ClosedCategoryID = &channel.ID
	}

	if err := a.GuildConfigDal().SaveGuildConfig(context.Background(), i.GuildID, patch); err != nil {
		return fmt.Errorf("error saving guild config: %w", err)
	}

	return respondEmbedEphemeral(a, i, successEmbed(
		"✅ Configuração Salva",
		fmt.Sprintf("Categoria de tickets %s definida como **%s**.", label, channel.Name),
	))
}

func configViewController(a IApp, i *discordgo.InteractionCreate) error {
	cfg, err := a.GuildConfigDal().GetGuildConfig(context.Background(), i.GuildID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return respondEphemeral(a, i, "Este servidor ainda não foi configurado. Use /setup para começar.")
		}
		return fmt.Errorf("error getting guild config: %w", err)
	}

	display := func(format, id string) string {
		if id == "" {
			return "não configurado"
		}
		return fmt.Sprintf(format, id)
	}

	embed := infoEmbed("⚙️ Configuração do Servidor", "")
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   "Cargo da equipe",
			Value:  display("<@&%s>", cfg.StaffRoleID),
			Inline: true,
		},
		{
			Name:   "Canal de logs",
			Value:  display("<#%s>", cfg.LogChannelID),
			Inline: true,
		},
		{
			Name:   "Categoria de abertos",
			Value:  display("<#%s>", cfg.OpenCategoryID),
			Inline: true,
		},
		{
			Name:   "Categoria de fechados",
			Value:  display("<#%s>", cfg.ClosedCategoryID),
			Inline: true,
		},
	}

	return respondEmbedEphemeral(a, i, embed)
}

// setupCmdController resolves the /setup command, which bootstraps the whole
// guild configuration in one pass.
func setupCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	if !permissions.IsAdministrator(i.Member) {
		if err := respondEphemeral(a, i, messages.ErrAdministratorOnly); err != nil {
			return nil, fmt.Errorf("error responding to interaction: %w", err)
		}
		return nil, nil
	}
	return setupController, nil
}

func setupController(a IApp, i *discordgo.InteractionCreate) error {
	role := i.ApplicationCommandData().Options[0].RoleValue(a.Session(), i.GuildID)
	logChannel := i.ApplicationCommandData().Options[1].ChannelValue(a.Session())

	if logChannel.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, "O canal de logs deve ser um canal de texto.")
	}

	// Create the two ticket categories, staff visible only.
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   i.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    role.ID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel,
		},
	}

	openCategory, err := a.Session().GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 "Tickets Abertos",
		Type:                 discordgo.ChannelTypeGuildCategory,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return fmt.Errorf("error creating open tickets category: %w", err)
	}

	closedCategory, err := a.Session().GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 "Tickets Fechados",
		Type:                 discordgo.ChannelTypeGuildCategory,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return fmt.Errorf("error creating closed tickets category: %w", err)
	}

	if err := a.GuildConfigDal().SaveGuildConfig(context.Background(), i.GuildID, entities.GuildConfigPatch{
		StaffRoleID:      &role.ID,
		LogChannelID:     &logChannel.ID,
		OpenCategoryID:   &openCategory.ID,
		ClosedCategoryID: &closedCategory.ID,
	}); err != nil {
		return fmt.Errorf("error saving guild config: %w", err)
	}

	if _, err := a.Session().ChannelMessageSendComplex(logChannel.ID, &discordgo.MessageSend{
		Embed: infoEmbed("\U0001F4CB Canal de Logs", "Este canal foi configurado para receber os logs dos tickets."),
	}); err != nil {
		return respondEphemeral(a, i, "Configuração salva, mas não consegui enviar mensagens no canal de logs. Verifique as permissões do bot.")
	}

	return respondEmbedEphemeral(a, i, successEmbed(
		"✅ Servidor Configurado",
		fmt.Sprintf("Cargo da equipe: <@&%s>\nCanal de logs: <#%s>\nCategorias **%s** e **%s** criadas.",
			role.ID, logChannel.ID, openCategory.Name, closedCategory.Name),
	))
}
