package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/css"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/domain"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/nuvei"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/palette"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/store"
)

func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := s.store.GetAllThemes(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	if themes == nil {
		themes = []domain.ThemeRecord{}
	}
	s.respondJSON(w, http.StatusOK, themes)
}

type createThemeRequest struct {
	ThemeID        string  `json:"theme_id"`
	Name           string  `json:"name"`
	ScreenshotPath *string `json:"screenshot_path"`
	DeviceType     string  `json:"device_type"`
}

func (s *Server) handleCreateTheme(w http.ResponseWriter, r *http.Request) {
	var req createThemeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	themeID := strings.TrimSpace(req.ThemeID)
	name := strings.TrimSpace(req.Name)
	if themeID == "" || name == "" {
		s.respondError(w, http.StatusBadRequest, "missing_fields", "theme_id and name are required")
		return
	}

	created, err := s.store.CreateTheme(r.Context(), domain.ThemeRecord{
		ThemeID:        themeID,
		Name:           name,
		ScreenshotPath: req.ScreenshotPath,
		DeviceType:     domain.ParseDeviceType(req.DeviceType),
	})
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, created)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.store.GetTheme(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, theme)
}

// themeUpdateRequest keeps raw JSON per field so an explicit null (clear the
// value) is distinguishable from an absent key (leave untouched).
type themeUpdateRequest struct {
	Name             json.RawMessage `json:"name"`
	ThemeID          json.RawMessage `json:"theme_id"`
	ScreenshotPath   json.RawMessage `json:"screenshot_path"`
	ScreenshotBase64 json.RawMessage `json:"screenshot_base64"`
	CustomCSS        json.RawMessage `json:"custom_css"`
	DeviceType       string          `json:"device_type"`
	// ForceImportant rewrites every declaration in custom_css with
	// !important so injected styles win over the page's own rules.
	ForceImportant bool `json:"force_important"`
}

// optString maps absent to nil and null to a pointer to "".
func optString(raw json.RawMessage) (*string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if string(raw) == "null" {
		empty := ""
		return &empty, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Server) handleUpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req themeUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	var upd domain.ThemeUpdate
	for _, f := range []struct {
		raw json.RawMessage
		dst **string
	}{
		{req.Name, &upd.Name},
		{req.ThemeID, &upd.ThemeID},
		{req.ScreenshotPath, &upd.ScreenshotPath},
		{req.ScreenshotBase64, &upd.ScreenshotBase64},
		{req.CustomCSS, &upd.CustomCSS},
	} {
		p, err := optString(f.raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid field value")
			return
		}
		*f.dst = p
	}
	if req.ForceImportant && upd.CustomCSS != nil && *upd.CustomCSS != "" {
		forced := css.ForceImportant(*upd.CustomCSS)
		upd.CustomCSS = &forced
	}
	if dt := domain.ParseDeviceType(req.DeviceType); req.DeviceType != "" {
		upd.DeviceType = &dt
	}

	theme, err := s.store.UpdateTheme(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, theme)
}

func (s *Server) handleDeleteTheme(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTheme(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRetakeScreenshot re-renders the theme's hosted page with the demo
// credentials and refreshes the stored screenshot and palette.
func (s *Server) handleRetakeScreenshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	theme, err := s.store.GetTheme(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}

	creds, err := s.cfg.DemoCredentials()
	if err != nil {
		s.respondError(w, http.StatusServiceUnavailable, "credentials_missing",
			"Demo credentials not configured for screenshot")
		return
	}

	params := nuvei.BuildParams(nuvei.Overrides{
		MerchantID:     creds.MerchantID,
		MerchantSiteID: creds.MerchantSiteID,
		NotifyURL:      s.cfg.NotifyURL(),
		ThemeID:        theme.ThemeID,
	})
	url := nuvei.BuildHostedURL(s.cfg.PPPBaseURL, params, creds.SecretKey, nuvei.ThemeTypeDesktop)

	res, err := s.capturer.Capture(r.Context(), url, string(theme.DeviceType))
	if err != nil {
		s.log.Error("retake screenshot failed", zap.String("theme", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "screenshot_failed",
			fmt.Sprintf("Screenshot failed: %v", err))
		return
	}

	upd := domain.ThemeUpdate{
		ScreenshotBase64: &res.Base64,
		ScreenshotPath:   &res.PublicPath,
	}
	if colors := palette.FromBase64(res.Base64); len(colors) > 0 {
		upd.ColorPalette = colors
	}
	updated, err := s.store.UpdateTheme(r.Context(), id, upd)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrThemeNotFound), errors.Is(err, store.ErrCustomerNotFound):
		s.respondError(w, http.StatusNotFound, "not_found", "Not found")
	default:
		s.log.Error("store operation failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "storage_error", "storage operation failed")
	}
}
