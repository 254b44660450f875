package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookYAML = `
bot:
  token: "123:abc"
  mode: webhook
  webhook_url: "https://bot.example.com/webhook"

server:
  port: ":8080"

gateway:
  url: "https://api.tinpesa.com/api/v1/express/initialize"
  api_key: "test-key"
  username: "Donga"
  account_number: "DONGALTD"
`

const pollingYAML = `
bot:
  token: "123:abc"
  mode: polling

gateway:
  url: "https://api.tinpesa.com/api/v1/express/initialize"
  api_key: "test-key"
  username: "Donga"
  account_number: "DONGALTD"
`

func writeConfig(t *testing.T, yaml string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "development.yaml"), []byte(yaml), 0o600))
	t.Setenv("APP_ENV", "development")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// The webhook listener and the health/metrics server must never share an
// address, or one of the two fails to bind.
func TestLoad_WebhookListenerHasOwnAddress(t *testing.T) {
	writeConfig(t, webhookYAML)

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8443", cfg.Bot.Listen)
	assert.NotEqual(t, cfg.Server.Port, cfg.Bot.Listen)
}

func TestLoad_Defaults(t *testing.T) {
	writeConfig(t, pollingYAML)

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.Deposit.MinAmount)
	assert.Equal(t, 10, cfg.Deposit.PhoneLength)
	assert.Equal(t, "07", cfg.Deposit.PhonePrefix)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "en", cfg.I18N.DefaultLang)
}

func TestLoad_RejectsUnknownMode(t *testing.T) {
	writeConfig(t, `
bot:
  token: "123:abc"
  mode: carrier-pigeon

gateway:
  url: "https://api.tinpesa.com/api/v1/express/initialize"
  api_key: "test-key"
  username: "Donga"
  account_number: "DONGALTD"
`)

	_, _, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}
