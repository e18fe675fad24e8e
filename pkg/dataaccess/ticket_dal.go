package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/porter/pkg/custom"
	"github.com/Jacobbrewer1/porter/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/porter/pkg/entities"
	"github.com/Jacobbrewer1/porter/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ticketDalName = "ticket_dal"

type TicketDal interface {
	// CreateTicket inserts a new ticket. The unique index on channel_id
	// guarantees a channel backs at most one ticket.
	CreateTicket(ctx context.Context, ticket *entities.Ticket) error

	// GetTicketByChannel gets the ticket backed by the given channel.
	// ErrNotFound is returned when the channel is not a ticket channel.
	GetTicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error)

	// ListOpenTickets lists the open tickets a user holds in a guild.
	ListOpenTickets(ctx context.Context, guildID, userID string) ([]*entities.Ticket, error)

	// ClaimTicket sets the claimant of an open, unclaimed ticket. The check
	// and the write are a single conditional update, so two concurrent
	// claimers cannot both succeed; the loser gets ErrNotModified.
	ClaimTicket(ctx context.Context, channelID, userID string) error

	// DisclaimTicket clears the claimant of an open ticket, conditional on
	// userID being the current claimant. ErrNotModified otherwise.
	DisclaimTicket(ctx context.Context, channelID, userID string) error

	// CloseTicket marks an open ticket closed with the given reason and
	// timestamp. Closing an already closed ticket returns ErrNotModified.
	CloseTicket(ctx context.Context, channelID, reason string, at custom.Datetime) error

	// NextTicketNumber atomically advances and returns the guild's ticket
	// counter.
	NextTicketNumber(ctx context.Context, guildID string) (int, error)
}

type ticketDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewTicketDal creates a new ticket data access layer.
func NewTicketDal() TicketDal {
	l := slog.Default().With(slog.String(logging.KeyDal, ticketDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &ticketDalImpl{
		l:      l,
		client: MongoDB,
	}
}

func (d *ticketDalImpl) CreateTicket(ctx context.Context, ticket *entities.Ticket) error {
	collection := d.client.Database(mongoDatabase).Collection(collectionTickets)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "create_ticket", mongoDatabase, collectionTickets).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "create_ticket", mongoDatabase, collectionTickets))
	defer t.ObserveDuration()

	if _, err := collection.InsertOne(ctx, ticket); err != nil {
		return fmt.Errorf("error inserting ticket: %w", err)
	}
	return nil
}

func (d *ticketDalImpl) GetTicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error) {
	collection := d.client.Database(mongoDatabase).Collection(collectionTickets)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "get_ticket_by_channel", mongoDatabase, collectionTickets).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "get_ticket_by_channel", mongoDatabase, collectionTickets))
	defer t.ObserveDuration()

	ticket := new(entities.Ticket)
	err := collection.FindOne(ctx, bson.M{"channel_id": channelID}).Decode(ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	return ticket, nil
}

func (d *ticketDalImpl) ListOpenTickets(ctx context.Context, guildID, userID string) ([]*entities.Ticket, error) {
	collection := d.client.Database(mongoDatabase).Collection(collectionTickets)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "list_open_tickets", mongoDatabase, collectionTickets).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "list_open_tickets", mongoDatabase, collectionTickets))
	defer t.ObserveDuration()

	cursor, err := collection.Find(ctx, bson.M{
		"guild_id": guildID,
		"user_id":  userID,
		"status":   entities.TicketStatusOpen,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing open tickets: %w", err)
	}

	var tickets []*entities.Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("error decoding open tickets: %w", err)
	}
	return tickets, nil
}

func (d *ticketDalImpl) ClaimTicket(ctx context.Context, channelID, userID string) error {
	collection := d.client.Database(mongoDatabase).Collection(collectionTickets)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "claim_ticket", mongoDatabase, collectionTickets).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "claim_ticket", mongoDatabase, collectionTickets))
	defer t.ObserveDuration()

	res, err := collection.UpdateOne(ctx, bson.M{
		"channel_id": channelID,
		"status":     entities.TicketStatusOpen,
		"claimed_by": "",
	}, bson.M{"$set": bson.M{"claimed_by": userID}})
	if err != nil {
		return fmt.Errorf("error claiming ticket: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotModified
	}
	return nil
}

func (d *ticketDalImpl) DisclaimTicket(ctx context.Context, channelID, userID string) error {
	collection := d.client.Database(mongoDatabase).Collection(collectionTickets)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "disclaim_ticket", mongoDatabase, collectionTickets).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "disclaim_ticket", mongoDatabase, collectionTickets))
	defer t.ObserveDuration()

	res, err := collection.UpdateOne(ctx, bson.M{
		"channel_id": channelID,
		"status":     entities.TicketStatusOpen,
		"claimed_by": userID,
	}, bson.M{"$set": bson.M{"claimed_by": ""}})
	if err != nil {
		return fmt.Errorf("error disclaiming ticket: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotModified
	}
	return nil
}

func (d *ticketDalImpl) CloseTicket(ctx context.Context, channelID, reason string, at custom.Datetime) error {
	collection := d.client.Database(mongoDatabase).Collection(collectionTickets)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "close_ticket", mongoDatabase, collectionTickets).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "close_ticket", mongoDatabase, collectionTickets))
	defer t.ObserveDuration()

	res, err := collection.UpdateOne(ctx, bson.M{
		"channel_id": channelID,
		"status":     entities.TicketStatusOpen,
	}, bson.M{"$set": bson.M{
		"status":       entities.TicketStatusClosed,
		"closed_at":    &at,
		"close_reason": reason,
	}})
	if err != nil {
		return fmt.Errorf("error closing ticket: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotModified
	}
	return nil
}

func (d *ticketDalImpl) NextTicketNumber(ctx context.Context, guildID string) (int, error) {
	collection := d.client.Database(mongoDatabase).Collection(collectionCounters)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "next_ticket_number", mongoDatabase, collectionCounters).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "next_ticket_number", mongoDatabase, collectionCounters))
	defer t.ObserveDuration()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		GuildID string `bson:"guild_id"`
		Seq     int    `bson:"seq"`
	}
	err := collection.FindOneAndUpdate(ctx,
		bson.M{"guild_id": guildID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("error advancing ticket counter: %w", err)
	}
	return counter.Seq, nil
}
