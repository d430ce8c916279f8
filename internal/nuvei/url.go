package nuvei

import (
	"net/url"
	"strings"
)

// SandboxBaseURL is the default hosted-page endpoint (Nuvei test environment).
const SandboxBaseURL = "https://ppp-test.safecharge.com/ppp/purchase.do"

// ProductionBaseURL is the production hosted-page endpoint.
const ProductionBaseURL = "https://secure.nuvei.com/ppp/purchase.do"

// ThemeType selects the hosted page's simulated viewport class. It is
// cosmetic routing only and is never part of the checksum input.
type ThemeType string

const (
	ThemeTypeDesktop    ThemeType = "DESKTOP"
	ThemeTypeSmartphone ThemeType = "SMARTPHONE"
)

// ParseThemeType maps any input to a valid ThemeType, defaulting to DESKTOP.
func ParseThemeType(s string) ThemeType {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeTypeSmartphone)) {
		return ThemeTypeSmartphone
	}
	return ThemeTypeDesktop
}

// QueryString serializes the present parameters in signing order,
// percent-encoded. checksum is not included; see BuildHostedURL.
func QueryString(p HostedPageParams) string {
	entries := make([]string, 0, len(paramOrder))
	for _, key := range paramOrder {
		if v := p.valueFor(key); v != "" {
			entries = append(entries, url.QueryEscape(key)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(entries, "&")
}

// BuildHostedURL produces the final signed redirect URL: the ordered query
// string, the checksum, and the unsigned themeType flag.
func BuildHostedURL(base string, p HostedPageParams, secret string, themeType ThemeType) string {
	qs := QueryString(p) + "&checksum=" + url.QueryEscape(Checksum(secret, p))
	return AppendThemeType(NormalizeBaseURL(base)+"?"+qs, themeType)
}

// AppendThemeType appends themeType to rawURL, replacing any existing
// themeType parameter rather than duplicating it. The rest of the URL,
// signed portion included, is left byte-identical, so this is safe to
// apply after signing and to re-apply with a different mode.
func AppendThemeType(rawURL string, themeType ThemeType) string {
	base := rawURL
	query := ""
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		base = rawURL[:i]
		query = rawURL[i+1:]
	}
	var kept []string
	for _, part := range strings.Split(query, "&") {
		if part == "" || strings.HasPrefix(part, "themeType=") {
			continue
		}
		kept = append(kept, part)
	}
	kept = append(kept, "themeType="+string(themeType))
	return base + "?" + strings.Join(kept, "&")
}

// NormalizeBaseURL sanitizes a configured hosted-page base URL. A bare origin
// gets the standard /ppp/purchase.do path appended; anything trailing after
// purchase.do (a stray slash or query from copy-paste) is cut off.
func NormalizeBaseURL(base string) string {
	base = Sanitize(base)
	if base == "" {
		return SandboxBaseURL
	}
	base = strings.TrimRight(base, "/")
	if i := strings.Index(base, "/ppp/purchase.do"); i >= 0 {
		return base[:i] + "/ppp/purchase.do"
	}
	return base + "/ppp/purchase.do"
}

// UpstreamOrigin derives the bare origin from a hosted-page base URL, for use
// by the resource proxy.
func UpstreamOrigin(base string) string {
	n := NormalizeBaseURL(base)
	return strings.TrimSuffix(n, "/ppp/purchase.do")
}
