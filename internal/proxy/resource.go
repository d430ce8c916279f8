package proxy

import (
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Hop-by-hop and connection-management headers are not forwarded upstream.
// Accept-Encoding stays local too: copying it disables the transport's
// transparent gzip handling, and the body must arrive here decoded because
// Content-Encoding is dropped from the relayed response.
var skipRequestHeaders = map[string]struct{}{
	"host":              {},
	"connection":        {},
	"transfer-encoding": {},
	"keep-alive":        {},
	"upgrade":           {},
	"expect":            {},
	"accept-encoding":   {},
}

// Response headers dropped before relaying. Content-Encoding goes because
// the Go transport already decompressed the body; the security headers go
// because they would block framing the mirrored page.
var skipResponseHeaders = map[string]struct{}{
	"content-encoding":        {},
	"transfer-encoding":       {},
	"connection":              {},
	"keep-alive":              {},
	"content-length":          {},
	"content-security-policy": {},
	"x-frame-options":         {},
}

// Resource is the transparent pass-through proxy for hosted-page
// sub-resources (CSS, JS, XHR and form targets the injected interceptor
// reroutes here). Method, query, headers and body are forwarded verbatim to
// the fixed upstream origin; the response is relayed with permissive CORS.
// Stateless and concurrent-safe.
type Resource struct {
	upstreamOrigin string
	client         *http.Client
	log            *zap.Logger
}

// NewResource builds a resource proxy targeting upstreamOrigin
// (e.g. "https://ppp-test.safecharge.com").
func NewResource(upstreamOrigin string, client *http.Client, log *zap.Logger) *Resource {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resource{
		upstreamOrigin: strings.TrimRight(upstreamOrigin, "/"),
		client:         client,
		log:            log,
	}
}

// Forward relays r to upstreamOrigin/subPath and writes the upstream
// response to w. OPTIONS preflights are answered locally.
func (rp *Resource) Forward(w http.ResponseWriter, r *http.Request, subPath string) {
	if r.Method == http.MethodOptions {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "*")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	target := rp.upstreamOrigin + "/" + strings.TrimLeft(subPath, "/")
	if raw := r.URL.RawQuery; raw != "" {
		target += "?" + raw
	}

	var body io.Reader
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		body = r.Body
	}
	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, body)
	if err != nil {
		http.Error(w, "invalid proxy path", http.StatusBadRequest)
		return
	}
	for key, values := range r.Header {
		if _, skip := skipRequestHeaders[strings.ToLower(key)]; skip {
			continue
		}
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := rp.client.Do(req)
	if err != nil {
		rp.log.Warn("resource proxy fetch failed", zap.String("target", target), zap.Error(err))
		http.Error(w, "proxy fetch failed", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	rp.log.Debug("resource proxied",
		zap.String("method", r.Method),
		zap.String("path", subPath),
		zap.Int("status", resp.StatusCode))

	h := w.Header()
	for key, values := range resp.Header {
		if _, skip := skipResponseHeaders[strings.ToLower(key)]; skip {
			continue
		}
		for _, v := range values {
			h.Add(key, v)
		}
	}
	h.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		rp.log.Debug("resource relay interrupted", zap.Error(err))
	}
}
