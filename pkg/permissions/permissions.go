// Package permissions decides staff and administrator eligibility and
// computes the access control map applied to every ticket channel. It is the
// only place channel level authorisation is computed, so a ticket channel is
// private by construction.
package permissions

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/porter/pkg/entities"
)

const (
	// memberAllow is the permission set granted to the ticket requester.
	memberAllow = discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionReadMessageHistory |
		discordgo.PermissionAttachFiles |
		discordgo.PermissionEmbedLinks

	// staffAllow is the permission set granted to the configured staff role.
	staffAllow = memberAllow | discordgo.PermissionManageMessages

	// botAllow is the permission set granted to the bot itself, so that the
	// bot can always manage and eventually delete the channel.
	botAllow = staffAllow | discordgo.PermissionManageChannels
)

// IsAdministrator reports whether the member holds the administrator
// capability. Administrative commands require this explicitly, distinct from
// the staff role check.
func IsAdministrator(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	return member.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}

// IsStaff reports whether the member is staff: an administrator, or a holder
// of the guild's configured staff role. With no staff role configured, only
// administrators are staff.
func IsStaff(member *discordgo.Member, staffRoleID string) bool {
	if member == nil {
		return false
	}
	if IsAdministrator(member) {
		return true
	}
	if staffRoleID == "" {
		return false
	}
	for _, r := range member.Roles {
		if r == staffRoleID {
			return true
		}
	}
	return false
}

// StaffRoleID returns the staff role configured for a guild, or the empty
// string when the guild has no configuration.
func StaffRoleID(cfg *entities.GuildConfig) string {
	if cfg == nil {
		return ""
	}
	return cfg.StaffRoleID
}

// TicketOverwrites builds the permission overwrites for a new ticket channel:
// @everyone is denied visibility, the requester and the bot are granted
// access, and the staff role is granted access when configured.
func TicketOverwrites(guildID, userID, botID, staffRoleID string) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		// The requester of the ticket can see and use the ticket.
		{
			ID:    userID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberAllow,
			Deny:  discordgo.PermissionMentionEveryone,
		},
		// The bot manages the channel for its whole lifetime.
		{
			ID:    botID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: botAllow,
		},
	}

	if staffRoleID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    staffRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: staffAllow,
			Deny:  discordgo.PermissionMentionEveryone,
		})
	}

	return overwrites
}
