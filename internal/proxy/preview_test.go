package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingTransport fails every request and counts attempts, to prove the
// allow-list rejects before any network call.
type countingTransport struct {
	calls atomic.Int64
}

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return nil, assertNoFetch{}
}

type assertNoFetch struct{}

func (assertNoFetch) Error() string { return "unexpected outbound fetch" }

func testPreview(client *http.Client, allowed ...string) *Preview {
	p := NewPreview(client, zap.NewNop())
	if len(allowed) > 0 {
		p.allowed = allowed
	}
	return p
}

func TestPreview_DisallowedOrigin_NoFetch(t *testing.T) {
	transport := &countingTransport{}
	p := testPreview(&http.Client{Transport: transport})

	for _, raw := range []string{
		"https://evil.example.com/x",
		"https://not-nuvei.example/page",
		"http://ppp-test.safecharge.com/ppp/purchase.do", // wrong scheme
		"https://ppp-test.safecharge.com.evil.example/x", // suffix spoof
		"not a url",
		"",
	} {
		_, err := p.Fetch(context.Background(), raw)
		assert.ErrorIs(t, err, ErrDisallowedURL, "url %q", raw)
	}
	assert.Equal(t, int64(0), transport.calls.Load())
}

func TestPreview_AllowedOrigins(t *testing.T) {
	p := testPreview(nil)
	assert.True(t, p.Allowed("https://ppp-test.safecharge.com/ppp/purchase.do?x=1"))
	assert.True(t, p.Allowed("https://secure.nuvei.com/ppp/purchase.do"))
	assert.False(t, p.Allowed("https://ppp-test.safecharge.com:8443/ppp/purchase.do"))
}

func TestPreview_FetchRewritesAgainstFinalURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ppp/purchase.do", http.StatusFound)
	})
	mux.HandleFunc("/ppp/purchase.do", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head></head><body><a href="/x">l</a></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := testPreview(srv.Client(), srv.URL)

	out, err := p.Fetch(context.Background(), srv.URL+"/start")
	require.NoError(t, err)

	// base path comes from the redirect target, not the requested /start
	assert.Contains(t, out, `<base href="/api/nuvei-proxy/ppp/" target="_self" />`)
	assert.Contains(t, out, `href="/api/nuvei-proxy/x"`)
}

func TestPreview_UpstreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := testPreview(srv.Client(), srv.URL)
	_, err := p.Fetch(context.Background(), srv.URL+"/page")

	var statusErr *UpstreamStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestPreview_UpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	origin := srv.URL
	srv.Close() // nothing listening any more

	p := testPreview(nil, origin)
	_, err := p.Fetch(context.Background(), origin+"/page")
	assert.ErrorIs(t, err, ErrUpstreamUnreachable)
}

func TestPreview_StripsCSPFromServedDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><meta http-equiv="content-security-policy" content="default-src 'none'"></head><body></body></html>`))
	}))
	defer srv.Close()

	p := testPreview(srv.Client(), srv.URL)
	out, err := p.Fetch(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.False(t, strings.Contains(strings.ToLower(out), "content-security-policy"),
		"served HTML must never contain a CSP meta tag")
}

func TestPreview_ResponseHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	testPreview(nil).ResponseHeaders(rec.Header())

	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
}
