// Package domain holds the catalog's persistent record types.
package domain

// DeviceType tags which viewport a theme's screenshot was captured at.
type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceMobile  DeviceType = "mobile"
)

// ParseDeviceType maps input to a valid DeviceType, defaulting to desktop.
func ParseDeviceType(s string) DeviceType {
	if s == string(DeviceMobile) {
		return DeviceMobile
	}
	return DeviceDesktop
}

// ThemeRecord is one catalog entry for a provider-side theme. ThemeID is the
// provider's opaque theme identifier; ID is this catalog's own key.
type ThemeRecord struct {
	ID             string  `json:"id"`
	ThemeID        string  `json:"theme_id"`
	Name           string  `json:"name"`
	ScreenshotPath *string `json:"screenshot_path"`
	// Base64 PNG thumbnail; survives hosts with an ephemeral filesystem.
	ScreenshotBase64 *string    `json:"screenshot_base64,omitempty"`
	ColorPalette     []string   `json:"color_palette,omitempty"`
	CustomCSS        *string    `json:"custom_css,omitempty"`
	DeviceType       DeviceType `json:"device_type,omitempty"`
}

// ThemeUpdate carries partial updates for a theme; nil fields are left
// untouched.
type ThemeUpdate struct {
	Name             *string
	ThemeID          *string
	ScreenshotPath   *string
	ScreenshotBase64 *string
	ColorPalette     []string
	CustomCSS        *string
	DeviceType       *DeviceType
}

// CustomerRecord is a simulated customer for the test page: a label and the
// user_token_id passed to the hosted page.
type CustomerRecord struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	UserTokenID string `json:"user_token_id"`
}

// Settings keys understood by the settings store.
const (
	SettingDefaultThemeID        = "default_theme_id"
	SettingDefaultThemeCustomCSS = "default_theme_custom_css"
)
