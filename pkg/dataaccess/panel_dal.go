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
)

const panelDalName = "panel_dal"

type PanelDal interface {
	// CreatePanel registers a panel message.
	CreatePanel(ctx context.Context, panel *entities.Panel) error

	// GetPanel gets a panel by its message ID. ErrNotFound when the message
	// is not a registered panel.
	GetPanel(ctx context.Context, messageID string) (*entities.Panel, error)
}

type panelDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewPanelDal creates a new panel data access layer.
func NewPanelDal() PanelDal {
	l := slog.Default().With(slog.String(logging.KeyDal, panelDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &panelDalImpl{
		l:      l,
		client: MongoDB,
	}
}

func (d *panelDalImpl) CreatePanel(ctx context.Context, panel *entities.Panel) error {
	collection := d.client.Database(mongoDatabase).Collection(collectionPanels)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(panelDalName, "create_panel", mongoDatabase, collectionPanels).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(panelDalName, "create_panel", mongoDatabase, collectionPanels))
	defer t.ObserveDuration()

	if _, err := collection.InsertOne(ctx, panel); err != nil {
		return fmt.Errorf("error inserting panel: %w", err)
	}
	return nil
}

func (d *panelDalImpl) GetPanel(ctx context.Context, messageID string) (*entities.Panel, error) {
	collection := d.client.Database(mongoDatabase).Collection(collectionPanels)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(panelDalName, "get_panel", mongoDatabase, collectionPanels).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(panelDalName, "get_panel", mongoDatabase, collectionPanels))
	defer t.ObserveDuration()

	panel := new(entities.Panel)
	err := collection.FindOne(ctx, bson.M{"message_id": messageID}).Decode(panel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting panel: %w", err)
	}
	return panel, nil
}
