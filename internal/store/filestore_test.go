package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/domain"
)

func setupFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func TestFileStore_ThemeCRUD(t *testing.T) {
	s := setupFileStore(t)
	ctx := context.Background()

	themes, err := s.GetAllThemes(ctx)
	require.NoError(t, err)
	assert.Empty(t, themes)

	created, err := s.CreateTheme(ctx, domain.ThemeRecord{
		ThemeID:    "178113",
		Name:       "Dark Blue",
		DeviceType: domain.DeviceDesktop,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "blank id gets generated")

	got, err := s.GetTheme(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dark Blue", got.Name)
	assert.Equal(t, "178113", got.ThemeID)

	updated, err := s.UpdateTheme(ctx, created.ID, domain.ThemeUpdate{
		Name:         strPtr("Darker Blue"),
		CustomCSS:    strPtr(".btn { color: red; }"),
		ColorPalette: []string{"#112233", "#445566"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Darker Blue", updated.Name)
	require.NotNil(t, updated.CustomCSS)
	assert.Equal(t, ".btn { color: red; }", *updated.CustomCSS)
	assert.Equal(t, "178113", updated.ThemeID, "untouched field survives partial update")

	got, err = s.GetTheme(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"#112233", "#445566"}, got.ColorPalette)

	require.NoError(t, s.DeleteTheme(ctx, created.ID))
	_, err = s.GetTheme(ctx, created.ID)
	assert.ErrorIs(t, err, ErrThemeNotFound)
	assert.ErrorIs(t, s.DeleteTheme(ctx, created.ID), ErrThemeNotFound)
}

func TestFileStore_GetThemeByThemeID(t *testing.T) {
	s := setupFileStore(t)
	ctx := context.Background()

	_, err := s.CreateTheme(ctx, domain.ThemeRecord{ThemeID: " 178113 ", Name: "padded"})
	require.NoError(t, err)

	got, err := s.GetThemeByThemeID(ctx, "178113")
	require.NoError(t, err)
	assert.Equal(t, "padded", got.Name)

	got, err = s.GetThemeByThemeID(ctx, "  178113\n")
	require.NoError(t, err)
	assert.Equal(t, "padded", got.Name)

	_, err = s.GetThemeByThemeID(ctx, "")
	assert.ErrorIs(t, err, ErrThemeNotFound)

	_, err = s.GetThemeByThemeID(ctx, "999999")
	assert.ErrorIs(t, err, ErrThemeNotFound)
}

func TestFileStore_Customers(t *testing.T) {
	s := setupFileStore(t)
	ctx := context.Background()

	c, err := s.CreateCustomer(ctx, domain.CustomerRecord{Label: "VIP", UserTokenID: "vip-001"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)

	all, err := s.GetAllCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "vip-001", all[0].UserTokenID)

	require.NoError(t, s.DeleteCustomer(ctx, c.ID))
	assert.ErrorIs(t, s.DeleteCustomer(ctx, c.ID), ErrCustomerNotFound)
}

func TestFileStore_Settings(t *testing.T) {
	s := setupFileStore(t)
	ctx := context.Background()

	v, err := s.GetSetting(ctx, domain.SettingDefaultThemeID)
	require.NoError(t, err)
	assert.Empty(t, v, "missing key reads as empty, not an error")

	require.NoError(t, s.SetSetting(ctx, domain.SettingDefaultThemeID, "abc"))
	v, err = s.GetSetting(ctx, domain.SettingDefaultThemeID)
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	require.NoError(t, s.SetSetting(ctx, domain.SettingDefaultThemeID, "def"))
	v, err = s.GetSetting(ctx, domain.SettingDefaultThemeID)
	require.NoError(t, err)
	assert.Equal(t, "def", v)

	require.NoError(t, s.SetSetting(ctx, domain.SettingDefaultThemeID, ""))
	v, err = s.GetSetting(ctx, domain.SettingDefaultThemeID)
	require.NoError(t, err)
	assert.Empty(t, v, "empty value clears the key")
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewFileStore(dir)
	require.NoError(t, err)
	created, err := s1.CreateTheme(ctx, domain.ThemeRecord{ThemeID: "1", Name: "keep"})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err := s2.GetTheme(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Name)
}

func TestFileStore_CorruptFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "themes.json"), []byte("{not json"), 0o644))

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	themes, err := s.GetAllThemes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, themes)
}

func TestFileStore_Mode(t *testing.T) {
	s := setupFileStore(t)
	assert.Equal(t, "file", s.Mode())
}
