package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/domain"
)

const (
	themesFile    = "themes.json"
	customersFile = "customers.json"
	settingsFile  = "settings.json"
)

// FileStore keeps the catalog in JSON files under a data directory. Reads
// and writes go through a single mutex; this store serves one admin, not a
// fleet.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Mode() string { return "file" }

func (s *FileStore) Close() error { return nil }

func readJSONFile[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		// A corrupt file behaves like an empty catalog, as the original did.
		return nil, nil
	}
	return items, nil
}

func writeJSONFile[T any](path string, items []T) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func (s *FileStore) readThemes() ([]domain.ThemeRecord, error) {
	return readJSONFile[domain.ThemeRecord](filepath.Join(s.dir, themesFile))
}

func (s *FileStore) writeThemes(themes []domain.ThemeRecord) error {
	return writeJSONFile(filepath.Join(s.dir, themesFile), themes)
}

func (s *FileStore) GetAllThemes(ctx context.Context) ([]domain.ThemeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	themes, err := s.readThemes()
	if err != nil {
		return nil, err
	}
	sort.Slice(themes, func(i, j int) bool { return themes[i].Name < themes[j].Name })
	return themes, nil
}

func (s *FileStore) GetTheme(ctx context.Context, id string) (*domain.ThemeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	themes, err := s.readThemes()
	if err != nil {
		return nil, err
	}
	for i := range themes {
		if themes[i].ID == id {
			return &themes[i], nil
		}
	}
	return nil, ErrThemeNotFound
}

func (s *FileStore) GetThemeByThemeID(ctx context.Context, themeID string) (*domain.ThemeRecord, error) {
	needle := strings.TrimSpace(themeID)
	if needle == "" {
		return nil, ErrThemeNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	themes, err := s.readThemes()
	if err != nil {
		return nil, err
	}
	for i := range themes {
		if strings.TrimSpace(themes[i].ThemeID) == needle {
			return &themes[i], nil
		}
	}
	return nil, ErrThemeNotFound
}

func (s *FileStore) CreateTheme(ctx context.Context, theme domain.ThemeRecord) (*domain.ThemeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	themes, err := s.readThemes()
	if err != nil {
		return nil, err
	}
	if theme.ID == "" {
		theme.ID = uuid.NewString()
	}
	if theme.DeviceType == "" {
		theme.DeviceType = domain.DeviceDesktop
	}
	themes = append(themes, theme)
	if err := s.writeThemes(themes); err != nil {
		return nil, err
	}
	return &theme, nil
}

func (s *FileStore) UpdateTheme(ctx context.Context, id string, upd domain.ThemeUpdate) (*domain.ThemeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	themes, err := s.readThemes()
	if err != nil {
		return nil, err
	}
	for i := range themes {
		if themes[i].ID != id {
			continue
		}
		applyUpdate(&themes[i], upd)
		if err := s.writeThemes(themes); err != nil {
			return nil, err
		}
		return &themes[i], nil
	}
	return nil, ErrThemeNotFound
}

func applyUpdate(t *domain.ThemeRecord, upd domain.ThemeUpdate) {
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.ThemeID != nil {
		t.ThemeID = *upd.ThemeID
	}
	if upd.ScreenshotPath != nil {
		t.ScreenshotPath = upd.ScreenshotPath
	}
	if upd.ScreenshotBase64 != nil {
		t.ScreenshotBase64 = upd.ScreenshotBase64
	}
	if upd.ColorPalette != nil {
		t.ColorPalette = upd.ColorPalette
	}
	if upd.CustomCSS != nil {
		t.CustomCSS = upd.CustomCSS
	}
	if upd.DeviceType != nil {
		t.DeviceType = *upd.DeviceType
	}
}

func (s *FileStore) DeleteTheme(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	themes, err := s.readThemes()
	if err != nil {
		return err
	}
	kept := themes[:0]
	for _, t := range themes {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(themes) {
		return ErrThemeNotFound
	}
	return s.writeThemes(kept)
}

func (s *FileStore) GetAllCustomers(ctx context.Context) ([]domain.CustomerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readJSONFile[domain.CustomerRecord](filepath.Join(s.dir, customersFile))
}

func (s *FileStore) CreateCustomer(ctx context.Context, c domain.CustomerRecord) (*domain.CustomerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customers, err := readJSONFile[domain.CustomerRecord](filepath.Join(s.dir, customersFile))
	if err != nil {
		return nil, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	customers = append(customers, c)
	if err := writeJSONFile(filepath.Join(s.dir, customersFile), customers); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *FileStore) DeleteCustomer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	customers, err := readJSONFile[domain.CustomerRecord](filepath.Join(s.dir, customersFile))
	if err != nil {
		return err
	}
	kept := customers[:0]
	for _, c := range customers {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(customers) {
		return ErrCustomerNotFound
	}
	return writeJSONFile(filepath.Join(s.dir, customersFile), kept)
}

type settingEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *FileStore) GetSetting(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := readJSONFile[settingEntry](filepath.Join(s.dir, settingsFile))
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Key == key {
			return e.Value, nil
		}
	}
	return "", nil
}

func (s *FileStore) SetSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := readJSONFile[settingEntry](filepath.Join(s.dir, settingsFile))
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	if value != "" {
		kept = append(kept, settingEntry{Key: key, Value: value})
	}
	return writeJSONFile(filepath.Join(s.dir, settingsFile), kept)
}
