package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/porter/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/porter/pkg/entities"
	"github.com/Jacobbrewer1/porter/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const guildConfigDalName = "guild_config_dal"

type GuildConfigDal interface {
	// SaveGuildConfig upserts a guild's configuration. Only the fields set on
	// the patch are written; the document is created when it does not exist.
	SaveGuildConfig(ctx context.Context, guildID string, patch entities.GuildConfigPatch) error

	// GetGuildConfig gets a guild's configuration. ErrNotFound is returned
	// when the guild has never been configured.
	GetGuildConfig(ctx context.Context, guildID string) (*entities.GuildConfig, error)
}

type guildConfigDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewGuildConfigDal creates a new guild configuration data access layer.
func NewGuildConfigDal() GuildConfigDal {
	l := slog.Default().With(slog.String(logging.KeyDal, guildConfigDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &guildConfigDalImpl{
		l:      l,
		client: MongoDB,
	}
}

func (g *guildConfigDalImpl) SaveGuildConfig(ctx context.Context, guildID string, patch entities.GuildConfigPatch) error {
	collection := g.client.Database(mongoDatabase).Collection(collectionGuildConfigs)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(guildConfigDalName, "save_guild_config", mongoDatabase, collectionGuildConfigs).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildConfigDalName, "save_guild_config", mongoDatabase, collectionGuildConfigs))
	defer t.ObserveDuration()

	set := bson.M{"guild_id": guildID}
	if patch.StaffRoleID != nil {
		set["staff_role_id"] = *patch.StaffRoleID
	}
	if patch.LogChannelID != nil {
		set["log_channel_id"] = *patch.LogChannelID
	}
	if patch.OpenCategoryID != nil {
		set["open_category_id"] = *patch.OpenCategoryID
	}
	if patch.ClosedCategoryID != nil {
		set["closed_category_id"] = *patch.ClosedCategoryID
	}
	if patch.Settings != nil {
		set["settings"] = patch.Settings
	}

	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx, bson.M{"guild_id": guildID}, bson.M{"$set": set}, opts)
	if err != nil {
		return fmt.Errorf("error updating guild config: %w", err)
	}
	return nil
}

func (g *guildConfigDalImpl) GetGuildConfig(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	collection := g.client.Database(mongoDatabase).Collection(collectionGuildConfigs)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(guildConfigDalName, "get_guild_config", mongoDatabase, collectionGuildConfigs).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildConfigDalName, "get_guild_config", mongoDatabase, collectionGuildConfigs))
	defer t.ObserveDuration()

	config := new(entities.GuildConfig)
	err := collection.FindOne(ctx, bson.M{"guild_id": guildID}).Decode(config)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting guild config: %w", err)
	}
	return config, nil
}
