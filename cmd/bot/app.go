package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/porter/cmd/bot/config"
	"github.com/Jacobbrewer1/porter/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/porter/pkg/dataaccess"
	"github.com/Jacobbrewer1/porter/pkg/logging"
	"github.com/Jacobbrewer1/porter/pkg/request"
	"github.com/Jacobbrewer1/porter/pkg/ticketing"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Tickets returns the ticket lifecycle manager.
	Tickets() *ticketing.Manager

	// GuildConfigDal returns the guild configuration store.
	GuildConfigDal() dataaccess.GuildConfigDal

	// PanelDal returns the panel store.
	PanelDal() dataaccess.PanelDal

	// Settings returns the active settings snapshot.
	Settings() *config.Settings

	// AllowTicketCreation reports whether the user is within the ticket
	// creation rate limit.
	AllowTicketCreation(userID string) bool
}

type App struct {
	// is the logger.
	*slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// tickets is the ticket lifecycle manager.
	tickets *ticketing.Manager

	// guildConfigs is the guild configuration store.
	guildConfigs dataaccess.GuildConfigDal

	// panels is the panel store.
	panels dataaccess.PanelDal

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	// limitersMu guards limiters.
	limitersMu sync.Mutex

	// limiters holds the per user ticket creation limiters.
	limiters map[string]*rate.Limiter
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		Logger:   l,
		r:        r,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (a *App) Run() error {
	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.guildConfigs = dataaccess.NewGuildConfigDal()
	a.panels = dataaccess.NewPanelDal()
	a.tickets = ticketing.NewManager(
		a.Logger,
		a.s,
		a.guildConfigs,
		dataaccess.NewTicketDal(),
		dataaccess.NewTicketLogDal(),
		ticketing.Config{
			Numbering:      ticketing.NumberingMode(config.TicketNumbering),
			BotUserID:      func() string { return a.s.State.User.ID },
			RenderLogEmbed: logEmbed,
		},
	)

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
		if err := s.UpdateWatchStatus(0, "tickets"); err != nil {
			a.Warn("Error setting presence", slog.String(logging.KeyError, err.Error()))
		}
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Process shutdown signal.
	for sig := range c {
		a.Info("Received shutdown signal", slog.String("signal", sig.String()))
		if err := a.ShutdownHook(); err != nil {
			a.Error("Error shutting down application", slog.String(logging.KeyError, err.Error()))
		}
		os.Exit(0)
	}
	return nil
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		return fmt.Errorf("error unregistering slash commands: %w", err)
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAll)

	if a.eventNotifier == nil {
		// Create event notifier. This is used to runServer events. It is buffered to prevent blocking.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg
	return nil
}

func (a *App) runServer() {
	go func() {
		slog.Info("Starting monitoring server")
		if err := a.svr.ListenAndServe(); err != nil {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	// PathMetrics is the path for metrics.
	a.r.HandleFunc(PathMetrics, middlewareHttp(promhttp.Handler().ServeHTTP, authOptionNone, a)).Methods(http.MethodGet)

	// PathHealth is the path for health check.
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), authOptionNone, a)).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:    ":" + config.MonitoringPort,
		Handler: a.r,
	}
}

func (a *App) GetJoinedGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := a.s.UserGuilds(0, "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting guilds: %w", err)
	}
	return guilds, nil
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Messages sent in ticket channels.
	a.s.AddHandler(messageCreateHandler(a))

	// Ticket channels removed outside the bot.
	a.s.AddHandler(channelDeleteHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash Controllers
		map[string]commandController{
			ticketCmd.Name: ticketCmdController,
			configCmd.Name: configCmdController,
			setupCmd.Name:  setupCmdController,
			panelCmd.Name:  panelCmdController,
		},
		// Component Controllers
		map[string]commandProcessor{
			ClaimTicketButtonID:       claimTicketHandler,
			DisclaimTicketButtonID:    disclaimTicketHandler,
			CloseTicketButtonID:       closeTicketHandler,
			DeleteTicketButtonID:      deleteTicketHandler,
			DeleteConfirmButtonID:     deleteTicketConfirmationHandler,
			DeleteCancelButtonID:      deleteTicketCancelHandler,
			PanelCreateTicketButtonID: panelCreateTicketHandler,
			PanelCategorySelectID:     panelCategorySelectHandler,
		},
		// Modal Controllers
		map[string]commandProcessor{
			TicketModalID:      ticketModalHandler,
			CloseTicketModalID: closeTicketModalHandler,
		}))
	return nil
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

func (a *App) registerSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Register slash commands for each guild.
	for _, g := range guilds {
		for _, cmd := range slashCommands() {
			if _, err := a.Session().ApplicationCommandCreate(config.ApplicationId, g.ID, cmd); err != nil {
				return fmt.Errorf("error creating %s command for guild %s: %w", cmd.Name, g.ID, err)
			}
		}
	}
	return nil
}

func (a *App) unregisterSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Delete slash commands for each guild.
	for _, guild := range guilds {
		cmds, err := a.s.ApplicationCommands(config.ApplicationId, guild.ID)
		if err != nil {
			return fmt.Errorf("error getting commands for guild %s: %w", guild.ID, err)
		}
		for _, cmd := range cmds {
			if err := a.s.ApplicationCommandDelete(config.ApplicationId, guild.ID, cmd.ID); err != nil {
				return fmt.Errorf("error deleting %s command for guild %s: %w", cmd.Name, guild.ID, err)
			}
		}
	}
	return nil
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Tickets() *ticketing.Manager {
	return a.tickets
}

func (a *App) GuildConfigDal() dataaccess.GuildConfigDal {
	return a.guildConfigs
}

func (a *App) PanelDal() dataaccess.PanelDal {
	return a.panels
}

func (a *App) Settings() *config.Settings {
	return config.CurrentSettings()
}

// AllowTicketCreation applies a per user rate limit to ticket creation so a
// user cannot hammer the form. One ticket per thirty seconds with a burst of
// two is generous for humans and hostile to scripts.
func (a *App) AllowTicketCreation(userID string) bool {
	a.limitersMu.Lock()
	defer a.limitersMu.Unlock()

	limiter, ok := a.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(30*time.Second), 2)
		a.limiters[userID] = limiter
	}
	return limiter.Allow()
}
