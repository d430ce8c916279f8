package httpapi

import (
	"net/http"
	"strings"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/css"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/domain"
)

type settingsResponse struct {
	DefaultThemeID        string `json:"default_theme_id"`
	DefaultThemeCustomCSS string `json:"default_theme_custom_css"`
}

func (s *Server) readSettings(w http.ResponseWriter, r *http.Request) (settingsResponse, bool) {
	themeID, err := s.store.GetSetting(r.Context(), domain.SettingDefaultThemeID)
	if err != nil {
		s.storeError(w, err)
		return settingsResponse{}, false
	}
	customCSS, err := s.store.GetSetting(r.Context(), domain.SettingDefaultThemeCustomCSS)
	if err != nil {
		s.storeError(w, err)
		return settingsResponse{}, false
	}
	return settingsResponse{
		DefaultThemeID:        themeID,
		DefaultThemeCustomCSS: customCSS,
	}, true
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.readSettings(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

type patchSettingsRequest struct {
	DefaultThemeID        *string `json:"default_theme_id"`
	DefaultThemeCustomCSS *string `json:"default_theme_custom_css"`
	ForceImportant        bool    `json:"force_important"`
}

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var req patchSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.DefaultThemeID != nil {
		if err := s.store.SetSetting(r.Context(), domain.SettingDefaultThemeID,
			strings.TrimSpace(*req.DefaultThemeID)); err != nil {
			s.storeError(w, err)
			return
		}
	}
	if req.DefaultThemeCustomCSS != nil {
		value := *req.DefaultThemeCustomCSS
		if req.ForceImportant && value != "" {
			value = css.ForceImportant(value)
		}
		if err := s.store.SetSetting(r.Context(), domain.SettingDefaultThemeCustomCSS, value); err != nil {
			s.storeError(w, err)
			return
		}
	}

	resp, ok := s.readSettings(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// handleStorageMode is a diagnostic: where the catalog is persisted. No
// secrets, only which storage env vars are present.
func (s *Server) handleStorageMode(w http.ResponseWriter, r *http.Request) {
	mode := s.store.Mode()
	message := "Themes are saved to and read from " + s.cfg.DataDir + " (file). " +
		"Set DATABASE_URL, DATABASE_PRIVATE_URL, or DATABASE_PUBLIC_URL to use Postgres."
	if mode == "database" {
		message = "Themes are saved to and read from PostgreSQL."
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"mode":           mode,
		"message":        message,
		"databaseUrlSet": s.cfg.DatabaseURL != "",
	})
}
