package entities

import "github.com/Jacobbrewer1/porter/pkg/custom"

// Panel types. Category specific panels use the "category_<name>" form.
const (
	PanelTypeSimple     = "simple"
	PanelTypeCategories = "categories"

	// PanelTypeCategoryPrefix prefixes the type of a panel bound to a single
	// category.
	PanelTypeCategoryPrefix = "category_"
)

// Panel is a standing message offering ticket creation affordances. Panels
// are registered once and never updated or deleted by the bot; if the
// underlying message is removed externally the row simply goes stale.
type Panel struct {
	// GuildID is the ID of the guild that the panel is in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// ChannelID is the ID of the channel that the panel message was sent to.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// MessageID is the ID of the panel message. Unique per panel.
	MessageID string `json:"message_id" bson:"message_id"`

	// PanelType is one of the panel type constants above.
	PanelType string `json:"panel_type" bson:"panel_type"`

	// CreatedAt is the time the panel was registered.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`
}
