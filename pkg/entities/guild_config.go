package entities

// GuildConfig is the per guild configuration for the ticketing system. There
// is at most one document per guild; it is created on first write and only
// ever updated after that.
type GuildConfig struct {
	// GuildID is the ID of the guild that the configuration belongs to.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// StaffRoleID is the ID of the role that handles tickets. Empty when no
	// staff role has been configured.
	StaffRoleID string `json:"staff_role_id" bson:"staff_role_id"`

	// LogChannelID is the ID of the channel that lifecycle logs are mirrored
	// to. Empty disables log mirroring.
	LogChannelID string `json:"log_channel_id" bson:"log_channel_id"`

	// OpenCategoryID is the ID of the category that new tickets are created
	// under. Empty creates tickets at the guild root.
	OpenCategoryID string `json:"open_category_id" bson:"open_category_id"`

	// ClosedCategoryID is the ID of the category that closed tickets are
	// moved to. Empty leaves closed tickets where they are.
	ClosedCategoryID string `json:"closed_category_id" bson:"closed_category_id"`

	// Settings is a free form settings blob.
	Settings map[string]any `json:"settings,omitempty" bson:"settings,omitempty"`
}

// GuildConfigPatch is a partial update of a GuildConfig. Nil fields are left
// untouched by the store.
type GuildConfigPatch struct {
	StaffRoleID      *string
	LogChannelID     *string
	OpenCategoryID   *string
	ClosedCategoryID *string
	Settings         map[string]any
}
