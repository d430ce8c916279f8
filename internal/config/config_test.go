package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/nuvei"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, nuvei.SandboxBaseURL, cfg.PPPBaseURL)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, nuvei.FallbackNotifyURL, cfg.NotifyURL())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("APP_URL", "https://catalog.example\n")
	t.Setenv("NUVEI_PPP_BASE_URL", "https://secure.nuvei.com")

	cfg := Load()
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "https://catalog.example/api/notify", cfg.NotifyURL())
	assert.Equal(t, nuvei.ProductionBaseURL, cfg.PPPBaseURL)
	assert.Equal(t, "https://secure.nuvei.com", cfg.UpstreamOrigin())
}

func TestDemoCredentials_Missing(t *testing.T) {
	cfg := Load()
	cfg.SetDemoCredentials(Credentials{MerchantID: "m1", MerchantSiteID: "s1"})
	_, err := cfg.DemoCredentials()
	assert.ErrorIs(t, err, ErrDemoCredentialsMissing)
}

func TestDemoCredentials_SanitizedFromEnv(t *testing.T) {
	t.Setenv("NUVEI_MERCHANT_ID", "m1\n")
	t.Setenv("NUVEI_MERCHANT_SITE_ID", " s1 ")
	t.Setenv("NUVEI_SECRET_KEY", "k1\r\n")

	cfg := Load()
	creds, err := cfg.DemoCredentials()
	require.NoError(t, err)
	assert.Equal(t, Credentials{MerchantID: "m1", MerchantSiteID: "s1", SecretKey: "k1"}, creds)
}

func TestDatabaseURL_FallbackOrder(t *testing.T) {
	t.Setenv("DATABASE_PUBLIC_URL", "postgres://public")
	t.Setenv("POSTGRES_URL", "postgres://generic")

	cfg := Load()
	assert.Equal(t, "postgres://public", cfg.DatabaseURL)
}
