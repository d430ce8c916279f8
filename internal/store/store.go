// Package store persists the theme catalog, simulated customers and
// settings. Two implementations exist: a JSON file store for local use and a
// Postgres store selected when a database URL is configured.
package store

import (
	"context"
	"errors"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/domain"
)

// Common errors returned by the store
var (
	ErrThemeNotFound    = errors.New("theme not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// Store defines the catalog storage operations.
type Store interface {
	// GetAllThemes returns every theme, ordered by name.
	GetAllThemes(ctx context.Context) ([]domain.ThemeRecord, error)

	// GetTheme returns the theme with the given catalog ID.
	GetTheme(ctx context.Context, id string) (*domain.ThemeRecord, error)

	// GetThemeByThemeID returns the theme with the given provider theme_id.
	GetThemeByThemeID(ctx context.Context, themeID string) (*domain.ThemeRecord, error)

	// CreateTheme inserts a theme, assigning an ID when blank.
	CreateTheme(ctx context.Context, theme domain.ThemeRecord) (*domain.ThemeRecord, error)

	// UpdateTheme applies the non-nil fields of upd to the theme.
	UpdateTheme(ctx context.Context, id string, upd domain.ThemeUpdate) (*domain.ThemeRecord, error)

	// DeleteTheme removes a theme.
	DeleteTheme(ctx context.Context, id string) error

	// GetAllCustomers returns every simulated customer.
	GetAllCustomers(ctx context.Context) ([]domain.CustomerRecord, error)

	// CreateCustomer inserts a customer, assigning an ID when blank.
	CreateCustomer(ctx context.Context, c domain.CustomerRecord) (*domain.CustomerRecord, error)

	// DeleteCustomer removes a customer.
	DeleteCustomer(ctx context.Context, id string) error

	// GetSetting returns the value for key, or "" when unset.
	GetSetting(ctx context.Context, key string) (string, error)

	// SetSetting upserts a setting; an empty value clears it.
	SetSetting(ctx context.Context, key, value string) error

	// Mode reports the storage backend ("file" or "database").
	Mode() string

	// Close releases the backing resources.
	Close() error
}
