package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/domain"
)

// PGStore persists the catalog in PostgreSQL. Schema is created on open;
// the tables are small enough that migrations are two idempotent DDL
// statements.
type PGStore struct {
	pool *pgxpool.Pool
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS themes (
	id TEXT PRIMARY KEY,
	theme_id TEXT NOT NULL,
	name TEXT NOT NULL,
	screenshot_path TEXT,
	screenshot_base64 TEXT,
	color_palette TEXT,
	custom_css TEXT,
	device_type TEXT NOT NULL DEFAULT 'desktop'
);
CREATE TABLE IF NOT EXISTS customers (
	id TEXT PRIMARY KEY,
	label TEXT NOT NULL,
	user_token_id TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT
);
`

// NewPGStore connects to databaseURL and ensures the schema exists.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

func (s *PGStore) Mode() string { return "database" }

func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

const themeColumns = "id, theme_id, name, screenshot_path, screenshot_base64, color_palette, custom_css, device_type"

func scanTheme(row pgx.Row) (*domain.ThemeRecord, error) {
	var t domain.ThemeRecord
	var palette *string
	var device string
	err := row.Scan(&t.ID, &t.ThemeID, &t.Name, &t.ScreenshotPath,
		&t.ScreenshotBase64, &palette, &t.CustomCSS, &device)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrThemeNotFound
	}
	if err != nil {
		return nil, err
	}
	t.ColorPalette = parsePalette(palette)
	t.DeviceType = domain.ParseDeviceType(device)
	return &t, nil
}

// parsePalette accepts the JSON array form or a legacy comma-separated list.
func parsePalette(raw *string) []string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	var colors []string
	if err := json.Unmarshal([]byte(*raw), &colors); err == nil {
		return colors
	}
	for _, c := range strings.Split(*raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			colors = append(colors, c)
		}
	}
	return colors
}

func encodePalette(colors []string) *string {
	if len(colors) == 0 {
		return nil
	}
	raw, err := json.Marshal(colors)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}

func (s *PGStore) GetAllThemes(ctx context.Context) ([]domain.ThemeRecord, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+themeColumns+" FROM themes ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var themes []domain.ThemeRecord
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			return nil, err
		}
		themes = append(themes, *t)
	}
	return themes, rows.Err()
}

func (s *PGStore) GetTheme(ctx context.Context, id string) (*domain.ThemeRecord, error) {
	return scanTheme(s.pool.QueryRow(ctx,
		"SELECT "+themeColumns+" FROM themes WHERE id = $1", id))
}

func (s *PGStore) GetThemeByThemeID(ctx context.Context, themeID string) (*domain.ThemeRecord, error) {
	needle := strings.TrimSpace(themeID)
	if needle == "" {
		return nil, ErrThemeNotFound
	}
	return scanTheme(s.pool.QueryRow(ctx,
		"SELECT "+themeColumns+" FROM themes WHERE TRIM(theme_id) = $1 LIMIT 1", needle))
}

func (s *PGStore) CreateTheme(ctx context.Context, theme domain.ThemeRecord) (*domain.ThemeRecord, error) {
	if theme.ID == "" {
		theme.ID = uuid.NewString()
	}
	if theme.DeviceType == "" {
		theme.DeviceType = domain.DeviceDesktop
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO themes (`+themeColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		theme.ID, theme.ThemeID, theme.Name, theme.ScreenshotPath,
		theme.ScreenshotBase64, encodePalette(theme.ColorPalette),
		theme.CustomCSS, string(theme.DeviceType))
	if err != nil {
		return nil, err
	}
	return &theme, nil
}

func (s *PGStore) UpdateTheme(ctx context.Context, id string, upd domain.ThemeUpdate) (*domain.ThemeRecord, error) {
	current, err := s.GetTheme(ctx, id)
	if err != nil {
		return nil, err
	}
	applyUpdate(current, upd)
	_, err = s.pool.Exec(ctx,
		`UPDATE themes SET theme_id=$2, name=$3, screenshot_path=$4,
			screenshot_base64=$5, color_palette=$6, custom_css=$7, device_type=$8
		 WHERE id=$1`,
		id, current.ThemeID, current.Name, current.ScreenshotPath,
		current.ScreenshotBase64, encodePalette(current.ColorPalette),
		current.CustomCSS, string(current.DeviceType))
	if err != nil {
		return nil, err
	}
	return current, nil
}

func (s *PGStore) DeleteTheme(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM themes WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrThemeNotFound
	}
	return nil
}

func (s *PGStore) GetAllCustomers(ctx context.Context) ([]domain.CustomerRecord, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, label, user_token_id FROM customers ORDER BY label")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []domain.CustomerRecord
	for rows.Next() {
		var c domain.CustomerRecord
		if err := rows.Scan(&c.ID, &c.Label, &c.UserTokenID); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *PGStore) CreateCustomer(ctx context.Context, c domain.CustomerRecord) (*domain.CustomerRecord, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx,
		"INSERT INTO customers (id, label, user_token_id) VALUES ($1,$2,$3)",
		c.ID, c.Label, c.UserTokenID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PGStore) DeleteCustomer(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (s *PGStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value *string
	err := s.pool.QueryRow(ctx, "SELECT value FROM settings WHERE key = $1", key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if value == nil {
		return "", nil
	}
	return *value, nil
}

func (s *PGStore) SetSetting(ctx context.Context, key, value string) error {
	if value == "" {
		_, err := s.pool.Exec(ctx, "DELETE FROM settings WHERE key = $1", key)
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = $2`, key, value)
	return err
}
