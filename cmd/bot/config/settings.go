package config

import (
	"log/slog"
	"sync/atomic"

	"github.com/Jacobbrewer1/porter/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Category is a ticket category offered on the opening form and panels.
type Category struct {
	// Label is the display label of the category.
	Label string `mapstructure:"label"`

	// Emoji decorates the category on panels.
	Emoji string `mapstructure:"emoji"`
}

// Settings is the presentational configuration of the bot. It is loaded from
// the settings file and can be replaced at runtime when the file changes.
type Settings struct {
	// BotName is the display name used in embed footers.
	BotName string `mapstructure:"bot_name"`

	// EmbedColor is the default embed accent colour.
	EmbedColor int `mapstructure:"embed_color"`

	// Categories are the ticket categories, keyed by their value.
	Categories map[string]Category `mapstructure:"categories"`
}

// settings is the active settings snapshot. Readers take the whole snapshot
// so a reload mid operation cannot hand them a mix of old and new values.
var settings atomic.Pointer[Settings]

// CurrentSettings returns the active settings snapshot.
func CurrentSettings() *Settings {
	return settings.Load()
}

// defaultSettings are the settings used when no settings file is present.
func defaultSettings() *Settings {
	return &Settings{
		BotName:    "Ticket Bot",
		EmbedColor: 0x5865F2,
		Categories: map[string]Category{
			"suporte":     {Label: "Suporte", Emoji: "\U0001F527"},
			"compras":     {Label: "Compras", Emoji: "\U0001F6D2"},
			"denuncia":    {Label: "Denúncia", Emoji: "\U0001F6A8"},
			"parcerias":   {Label: "Parcerias", Emoji: "\U0001F91D"},
			"customizado": {Label: "Customizado", Emoji: "⚙️"},
		},
	}
}

// LoadSettings loads the settings file and installs a watcher that reloads
// the snapshot when the file changes. Operations already in flight keep the
// snapshot they started with.
func LoadSettings(l *slog.Logger) {
	settings.Store(defaultSettings())

	v := viper.New()
	v.SetConfigName("settings")
	v.SetConfigType("json")
	if SettingsPath != "" {
		v.SetConfigFile(SettingsPath)
	} else {
		v.AddConfigPath(".")
	}

	v.SetDefault("bot_name", defaultSettings().BotName)
	v.SetDefault("embed_color", defaultSettings().EmbedColor)

	if err := v.ReadInConfig(); err != nil {
		l.Info("No settings file found, using defaults", slog.String(logging.KeyError, err.Error()))
		return
	}

	apply := func() {
		s := defaultSettings()
		if err := v.Unmarshal(s); err != nil {
			l.Error("Error parsing settings file", slog.String(logging.KeyError, err.Error()))
			return
		}
		settings.Store(s)
	}

	apply()

	v.OnConfigChange(func(_ fsnotify.Event) {
		l.Info("Settings file changed, reloading")
		apply()
	})
	v.WatchConfig()

	l.Debug("Loaded settings file", slog.String("file", v.ConfigFileUsed()))
}
