package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/proxy"
)

// handleThemePreview fetches an allow-listed hosted page, rewrites it for
// same-origin framing and serves the result. GET passes the target in the
// url query parameter, POST in a JSON body.
func (s *Server) handleThemePreview(w http.ResponseWriter, r *http.Request) {
	var rawURL string
	if r.Method == http.MethodGet {
		rawURL = strings.TrimSpace(r.URL.Query().Get("url"))
	} else {
		var body struct {
			URL string `json:"url"`
		}
		if err := decodeJSON(r, &body); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
		rawURL = strings.TrimSpace(body.URL)
	}

	if rawURL == "" {
		s.respondError(w, http.StatusBadRequest, "missing_url", "Missing or disallowed url")
		return
	}

	html, err := s.preview.Fetch(r.Context(), rawURL)
	if err != nil {
		var statusErr *proxy.UpstreamStatusError
		switch {
		case errors.Is(err, proxy.ErrDisallowedURL):
			s.respondError(w, http.StatusBadRequest, "disallowed_url",
				"Missing or disallowed url (only Nuvei hosted pages allowed)")
		case errors.As(err, &statusErr):
			s.respondError(w, http.StatusBadGateway, "upstream_status",
				fmt.Sprintf("Upstream returned %d", statusErr.StatusCode))
		default:
			s.respondError(w, http.StatusBadGateway, "upstream_unreachable",
				"Failed to fetch hosted page")
		}
		return
	}

	s.preview.ResponseHeaders(w.Header())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// handleResourceProxy relays asset and API requests from the previewed page
// to the provider origin.
func (s *Server) handleResourceProxy(w http.ResponseWriter, r *http.Request) {
	subPath := chi.URLParam(r, "*")
	s.resource.Forward(w, r, subPath)
}
