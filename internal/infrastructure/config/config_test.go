package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

const validYAML = `
server:
  port: 9090
  base_url: https://shop.example.com
database:
  driver: sqlite
  database: /tmp/checkout.db
klarna:
  username: PK123
  password: secret
  purchase_country: se
  allowed_customer_types: [person, organization]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaultsAndFile(t *testing.T) {
	cfg, err := Load("test", writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "sv-se", cfg.Klarna.Locale)
	assert.Equal(t, "test", cfg.Klarna.Mode)
	assert.True(t, cfg.Klarna.IsTestMode())
	assert.True(t, cfg.Klarna.UpdateBillingProfile)
	assert.False(t, cfg.Klarna.Capture)
	assert.Equal(t, []string{"person", "organization"}, cfg.Klarna.AllowedCustomerTypes)
	assert.Equal(t, 30*time.Second, cfg.Klarna.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Klarna.RetryWait)
	assert.Equal(t, "/api/checkout/push?klarna_order_id={checkout.order_id}", cfg.Klarna.MerchantURLs.Push)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("KCO_KLARNA_MODE", "live")
	t.Setenv("KCO_KLARNA_CAPTURE", "true")

	cfg, err := Load("", writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.False(t, cfg.Klarna.IsTestMode())
	assert.True(t, cfg.Klarna.Capture)
}

func TestLoad_MissingCredentialsIsConfigurationError(t *testing.T) {
	body := `
database:
  driver: sqlite
  database: ":memory:"
klarna:
  purchase_country: SE
`
	_, err := Load("test", writeConfig(t, body))
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "Username")
	assert.Contains(t, err.Error(), "Password")
}

func TestLoad_RejectsUnknownCustomerType(t *testing.T) {
	cfg, err := Load("test", writeConfig(t, validYAML))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	cfg.Klarna.AllowedCustomerTypes = []string{"company"}
	err = Validate(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestValidate_EmailAlertRequiresAddress(t *testing.T) {
	cfg, err := Load("test", writeConfig(t, validYAML))
	require.NoError(t, err)

	cfg.Email.Enabled = true
	cfg.Email.AlertAddress = ""
	assert.True(t, errors.IsConfigurationError(Validate(cfg)))

	cfg.Email.AlertAddress = "ops@example.com"
	assert.NoError(t, Validate(cfg))
}
