package httpapi

import (
	"errors"
	"net/http"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/config"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/nuvei"
)

type hostedURLRequest struct {
	UseDemo     bool   `json:"useDemo"`
	ThemeID     string `json:"theme_id"`
	UserTokenID string `json:"user_token_id"`
	TotalAmount string `json:"total_amount"`
	Currency    string `json:"currency"`
	ThemeType   string `json:"themeType"`
}

type hostedURLResponse struct {
	URL string `json:"url"`
}

// handleHostedURL signs a hosted payment page URL with the server-held demo
// credentials. The secret never travels to the browser; clients holding
// their own credentials sign locally instead.
func (s *Server) handleHostedURL(w http.ResponseWriter, r *http.Request) {
	var req hostedURLRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if !req.UseDemo {
		s.respondError(w, http.StatusBadRequest, "demo_only",
			"Only demo credentials are supported by this API")
		return
	}

	creds, err := s.cfg.DemoCredentials()
	if err != nil {
		if errors.Is(err, config.ErrDemoCredentialsMissing) {
			s.respondError(w, http.StatusServiceUnavailable, "credentials_missing",
				"Demo credentials not configured (NUVEI_* env vars)")
			return
		}
		s.respondError(w, http.StatusInternalServerError, "internal_error", "credential lookup failed")
		return
	}

	params := nuvei.BuildParams(nuvei.Overrides{
		MerchantID:     creds.MerchantID,
		MerchantSiteID: creds.MerchantSiteID,
		TotalAmount:    req.TotalAmount,
		Currency:       req.Currency,
		UserTokenID:    req.UserTokenID,
		NotifyURL:      s.cfg.NotifyURL(),
		ThemeID:        req.ThemeID,
	})

	url := nuvei.BuildHostedURL(s.cfg.PPPBaseURL, params, creds.SecretKey,
		nuvei.ParseThemeType(req.ThemeType))
	s.respondJSON(w, http.StatusOK, hostedURLResponse{URL: url})
}
