package logging

import (
	"fmt"
	"log/slog"
	"os"
)

const (
	// KeyError is the key used for errors in log attributes.
	KeyError = "err"

	// KeyDal is the key used for the data access layer name.
	KeyDal = "dal"

	// KeyGuildID is the key used for guild IDs.
	KeyGuildID = "guild_id"

	// KeyChannelID is the key used for channel IDs.
	KeyChannelID = "channel_id"

	// KeyUserID is the key used for user IDs.
	KeyUserID = "user_id"

	// KeyTicketID is the key used for ticket display numbers.
	KeyTicketID = "ticket_id"
)

// Name is the name of the application that the logger is for.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// name is the name of the application.
	name Name
}

// NewConfig creates a new logger configuration.
func NewConfig(name Name) *Config {
	return &Config{
		name: name,
	}
}

// CommonLogger creates the logger used across the application. The returned
// logger is also set as the slog default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c == nil {
		return nil, fmt.Errorf("nil logging config")
	}

	l := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})).With(
		slog.String("app", string(c.name)),
	)

	slog.SetDefault(l)

	return l, nil
}
