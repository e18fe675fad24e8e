package ticketing

import (
	"github.com/Jacobbrewer1/discordgo"
)

// Session is the slice of the discord session the lifecycle manager needs.
// *discordgo.Session satisfies it; tests substitute a fake.
type Session interface {
	// Channel gets a channel by ID.
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)

	// GuildChannelCreateComplex creates a channel in a guild.
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)

	// ChannelEditComplex edits an existing channel.
	ChannelEditComplex(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)

	// ChannelPermissionSet sets a permission overwrite on a channel.
	ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error

	// ChannelDelete deletes a channel.
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)

	// ChannelMessages gets messages from a channel.
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)

	// ChannelMessageSendComplex sends a message to a channel.
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}
