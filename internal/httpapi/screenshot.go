package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/nuvei"
)

type screenshotRequest struct {
	URL        string `json:"url"`
	UseDemo    bool   `json:"useDemo"`
	ThemeID    string `json:"theme_id"`
	DeviceType string `json:"device_type"`
}

// handleScreenshot captures a hosted page either from a caller-supplied
// Nuvei URL or from a demo-signed URL for a theme id.
func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	var req screenshotRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	var targetURL string
	switch {
	case isNuveiURL(req.URL):
		targetURL = req.URL
	case req.UseDemo && strings.TrimSpace(req.ThemeID) != "":
		creds, err := s.cfg.DemoCredentials()
		if err != nil {
			s.respondError(w, http.StatusServiceUnavailable, "credentials_missing",
				"Demo credentials not configured")
			return
		}
		params := nuvei.BuildParams(nuvei.Overrides{
			MerchantID:     creds.MerchantID,
			MerchantSiteID: creds.MerchantSiteID,
			NotifyURL:      s.cfg.NotifyURL(),
			ThemeID:        strings.TrimSpace(req.ThemeID),
		})
		targetURL = nuvei.BuildHostedURL(s.cfg.PPPBaseURL, params, creds.SecretKey, nuvei.ThemeTypeDesktop)
	default:
		s.respondError(w, http.StatusBadRequest, "invalid_request",
			"Provide url (Nuvei hosted page) or useDemo + theme_id")
		return
	}

	res, err := s.capturer.Capture(r.Context(), targetURL, req.DeviceType)
	if err != nil {
		s.log.Error("screenshot failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "screenshot_failed",
			fmt.Sprintf("Screenshot failed: %v", err))
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"path":   res.PublicPath,
		"base64": res.Base64,
	})
}

// isNuveiURL accepts only the provider's own hosted-page origins.
func isNuveiURL(raw string) bool {
	return strings.HasPrefix(raw, "https://secure.nuvei.com/") ||
		strings.HasPrefix(raw, "https://ppp-test.safecharge.com/")
}
