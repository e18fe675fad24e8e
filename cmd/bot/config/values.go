package config

const (
	// AppName is the name of the application.
	AppName = "porter"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvTicketNumbering is the environment variable for the ticket number
	// allocation mode ("sequential" or "random").
	EnvTicketNumbering = `TICKET_NUMBERING`

	// EnvSettingsPath is the environment variable for the path of the
	// settings file.
	EnvSettingsPath = `SETTINGS_PATH`
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string

	// TicketNumbering is the ticket number allocation mode.
	TicketNumbering string

	// SettingsPath is the path of the settings file.
	SettingsPath string
)
