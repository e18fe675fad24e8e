package dataaccess

import (
	"context"
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

const ticketLogDalName = "ticket_log_dal"

type TicketLogDal interface {
	// AppendLog appends an entry to a ticket's audit trail.
	AppendLog(ctx context.Context, log *entities.TicketLog) error

	// ListLogs lists a ticket's audit trail ordered by timestamp ascending.
	ListLogs(ctx context.Context, ticketID int) ([]*entities.TicketLog, error)
}

type ticketLogDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewTicketLogDal creates a new ticket log data access layer.
func NewTicketLogDal() TicketLogDal {
	l := slog.Default().With(slog.String(logging.KeyDal, ticketLogDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &ticketLogDalImpl{
		l:      l,
		client: MongoDB,
	}
}

func (d *ticketLogDalImpl) AppendLog(ctx context.Context, log *entities.TicketLog) error {
	collection := d.client.Database(mongoDatabase).Collection(collectionTicketLogs)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketLogDalName, "append_log", mongoDatabase, collectionTicketLogs).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketLogDalName, "append_log", mongoDatabase, collectionTicketLogs))
	defer t.ObserveDuration()

	if _, err := collection.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("error inserting ticket log: %w", err)
	}
	return nil
}

func (d *ticketLogDalImpl) ListLogs(ctx context.Context, ticketID int) ([]*entities.TicketLog, error) {
	collection := d.client.Database(mongoDatabase).Collection(collectionTicketLogs)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketLogDalName, "list_logs", mongoDatabase, collectionTicketLogs).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketLogDalName, "list_logs", mongoDatabase, collectionTicketLogs))
	defer t.ObserveDuration()

	opts := options.Find().SetSort(bson.M{"timestamp": 1})

	cursor, err := collection.Find(ctx, bson.M{"ticket_id": ticketID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing ticket logs: %w", err)
	}

	var logs []*entities.TicketLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("error decoding ticket logs: %w", err)
	}
	return logs, nil
}
