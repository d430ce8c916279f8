// Package proxy mirrors the provider's hosted payment page for iframe
// embedding: the preview proxy fetches and rewrites the page HTML, and the
// resource proxy passes the page's sub-resources through transparently.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// DefaultProxyPrefix is the route prefix the resource proxy is mounted at.
const DefaultProxyPrefix = "/api/nuvei-proxy"

// AllowedOrigins is the exact set of provider origins the preview proxy will
// fetch. Anything else is rejected before any network call (SSRF guard).
var AllowedOrigins = []string{
	"https://ppp-test.safecharge.com",
	"https://secure.nuvei.com",
}

var (
	// ErrDisallowedURL marks a missing, malformed, or non-allow-listed URL.
	ErrDisallowedURL = errors.New("missing or disallowed url (only Nuvei hosted pages allowed)")

	// ErrUpstreamUnreachable marks a transport-level failure reaching the
	// provider, as opposed to the provider answering with an error status.
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
)

// UpstreamStatusError reports a non-success status from the hosted page.
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned %d", e.StatusCode)
}

// browser-looking request headers; the hosted page serves a reduced document
// to unknown agents.
const (
	fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	fetchAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Preview fetches an allow-listed hosted-page URL and returns it rewritten
// for embedding. Stateless; one Preview per inbound request, safe for
// concurrent use.
type Preview struct {
	client  *http.Client
	prefix  string
	allowed []string
	log     *zap.Logger
}

// NewPreview builds a preview proxy over client. A nil client gets
// http.DefaultClient (which follows redirects, as required: the final URL
// after redirects decides the rewrite base).
func NewPreview(client *http.Client, log *zap.Logger) *Preview {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Preview{client: client, prefix: DefaultProxyPrefix, allowed: AllowedOrigins, log: log}
}

// Allowed reports whether rawURL parses and its origin is allow-listed.
func (p *Preview) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	origin := u.Scheme + "://" + u.Host
	for _, a := range p.allowed {
		if origin == a {
			return true
		}
	}
	return false
}

// Fetch retrieves rawURL and returns the rewritten HTML. Errors are
// ErrDisallowedURL (no fetch attempted), *UpstreamStatusError, or
// ErrUpstreamUnreachable-wrapped transport failures.
func (p *Preview) Fetch(ctx context.Context, rawURL string) (string, error) {
	if !p.Allowed(rawURL) {
		return "", ErrDisallowedURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", ErrDisallowedURL
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", fetchAccept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn("preview fetch failed", zap.String("url", rawURL), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.log.Warn("preview upstream status",
			zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
		return "", &UpstreamStatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}

	// resp.Request.URL is the final URL after redirects. Rewriting against
	// the originally requested URL would resolve relative resources against
	// the wrong base whenever the hosted page redirects.
	finalURL := resp.Request.URL
	p.log.Debug("preview fetched",
		zap.String("requested", rawURL),
		zap.Stringer("final", finalURL),
		zap.Int("bytes", len(body)))

	return RewriteHTML(string(body), finalURL, p.prefix), nil
}

// ResponseHeaders are the headers the preview response is served with:
// HTML, caching off, same-origin framing allowed.
func (p *Preview) ResponseHeaders(h http.Header) {
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	h.Set("X-Frame-Options", "SAMEORIGIN")
}
