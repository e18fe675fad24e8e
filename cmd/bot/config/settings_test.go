package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Jacobbrewer1/porter/pkg/logging"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err)

	SettingsPath = filepath.Join(t.TempDir(), "settings.json")
	t.Cleanup(func() { SettingsPath = "" })

	LoadSettings(l)

	s := CurrentSettings()
	require.Equal(t, "Ticket Bot", s.BotName)
	require.Equal(t, 0x5865F2, s.EmbedColor)
	require.Contains(t, s.Categories, "suporte")
}

func TestLoadSettingsFromFile(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err)

	dir := t.TempDir()
	SettingsPath = filepath.Join(dir, "settings.json")
	t.Cleanup(func() { SettingsPath = "" })

	contents := `{
		"bot_name": "Atendimento",
		"embed_color": 255,
		"categories": {
			"suporte": {"label": "Suporte Técnico", "emoji": "🔧"}
		}
	}`
	require.NoError(t, os.WriteFile(SettingsPath, []byte(contents), 0o600))

	LoadSettings(l)

	s := CurrentSettings()
	require.Equal(t, "Atendimento", s.BotName)
	require.Equal(t, 255, s.EmbedColor)
	require.Equal(t, "Suporte Técnico", s.Categories["suporte"].Label)

	// Categories absent from the file keep their defaults.
	require.Contains(t, s.Categories, "compras")
}
