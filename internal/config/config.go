// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/nuvei"
)

// ErrDemoCredentialsMissing reports unconfigured demo credentials. Handlers
// map it to 503: signing must never fall through to an empty secret.
var ErrDemoCredentialsMissing = errors.New("demo credentials not configured (NUVEI_* env vars)")

// Credentials are the demo merchant credentials held by the server. The
// secret never leaves the process.
type Credentials struct {
	MerchantID     string
	MerchantSiteID string
	SecretKey      string
}

type Config struct {
	HTTPPort string
	// AppURL is this deployment's public base URL, used to derive notify_url.
	AppURL string
	// PPPBaseURL is the hosted-page endpoint (sandbox or production).
	PPPBaseURL string
	// DatabaseURL switches the theme store to Postgres when set.
	DatabaseURL string
	// DataDir holds the JSON stores and captured screenshots in file mode.
	DataDir string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	creds Credentials
}

// Load reads configuration from the environment. All string values are
// sanitized (trim + CR/LF strip); hosting dashboards are a known source of
// pasted trailing newlines.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("NUVEI_PPP_BASE_URL", nuvei.SandboxBaseURL)

	return &Config{
		HTTPPort:        nuvei.Sanitize(v.GetString("HTTP_PORT")),
		AppURL:          nuvei.Sanitize(v.GetString("APP_URL")),
		PPPBaseURL:      nuvei.NormalizeBaseURL(v.GetString("NUVEI_PPP_BASE_URL")),
		DatabaseURL:     firstDatabaseURL(v),
		DataDir:         nuvei.Sanitize(v.GetString("DATA_DIR")),
		RequestTimeout:  90 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		creds: Credentials{
			MerchantID:     nuvei.Sanitize(v.GetString("NUVEI_MERCHANT_ID")),
			MerchantSiteID: nuvei.Sanitize(v.GetString("NUVEI_MERCHANT_SITE_ID")),
			SecretKey:      nuvei.Sanitize(v.GetString("NUVEI_SECRET_KEY")),
		},
	}
}

// firstDatabaseURL mirrors the original deployment's lookup order across the
// env var names different Postgres add-ons expose.
func firstDatabaseURL(v *viper.Viper) string {
	for _, key := range []string{
		"DATABASE_URL",
		"DATABASE_PRIVATE_URL",
		"DATABASE_PUBLIC_URL",
		"POSTGRES_URL",
		"POSTGRES_PRIVATE_URL",
	} {
		if url := nuvei.Sanitize(v.GetString(key)); url != "" {
			return url
		}
	}
	return ""
}

// DemoCredentials returns the server-held demo credentials, or
// ErrDemoCredentialsMissing if any of the three values is blank.
func (c *Config) DemoCredentials() (Credentials, error) {
	cr := c.creds
	if cr.MerchantID == "" || cr.MerchantSiteID == "" || cr.SecretKey == "" {
		return Credentials{}, ErrDemoCredentialsMissing
	}
	return cr, nil
}

// SetDemoCredentials overrides the demo credentials (tests).
func (c *Config) SetDemoCredentials(cr Credentials) {
	c.creds = Credentials{
		MerchantID:     nuvei.Sanitize(cr.MerchantID),
		MerchantSiteID: nuvei.Sanitize(cr.MerchantSiteID),
		SecretKey:      nuvei.Sanitize(cr.SecretKey),
	}
}

// NotifyURL is the callback URL handed to the hosted page.
func (c *Config) NotifyURL() string {
	if c.AppURL == "" {
		return nuvei.FallbackNotifyURL
	}
	return c.AppURL + nuvei.DefaultNotifyPath
}

// UpstreamOrigin is the bare provider origin for the resource proxy.
func (c *Config) UpstreamOrigin() string {
	return nuvei.UpstreamOrigin(c.PPPBaseURL)
}
