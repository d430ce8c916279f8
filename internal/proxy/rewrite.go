package proxy

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Rewriting is regex-based, matching the documented contract of the page
// this proxy mirrors. Unusual markup (single-quoted attributes with escaped
// quotes, attributes split across entities) can evade these patterns; the
// hosted page is machine-generated and does not produce such markup.
var (
	cspMetaRe = regexp.MustCompile(`(?i)<meta[^>]+http-equiv\s*=\s*["']Content-Security-Policy["'][^>]*>`)

	// Root-absolute references only. Protocol-relative ("//cdn...") and
	// already-absolute URLs are left alone; RE2 has no lookahead, so the
	// character after the slash is captured and re-emitted.
	rootAbsAttrRe = regexp.MustCompile(`(?i)(\s(?:href|src|action|poster)=["'])/([^/])`)

	headOpenRe = regexp.MustCompile(`(?i)<head[^>]*>`)
	htmlOpenRe = regexp.MustCompile(`(?i)<html[^>]*>`)
)

// RewriteHTML runs the rewrite passes over the upstream document, in order:
// CSP-meta strip, root-absolute attribute rewrite, head injection.
// finalURL must be the post-redirect URL the document was actually served
// from; its path directory becomes the <base> path.
func RewriteHTML(html string, finalURL *url.URL, proxyPrefix string) string {
	html = cspMetaRe.ReplaceAllString(html, "")
	html = rootAbsAttrRe.ReplaceAllString(html, "${1}"+proxyPrefix+"/${2}")
	return injectHead(html, headContent(finalURL, proxyPrefix))
}

// headContent builds the injected block: a proxy-relative <base> tag so
// relative references resolve through the proxy, the empty style placeholder
// the CSS bridge writes into, and the bridge/interceptor script.
func headContent(finalURL *url.URL, proxyPrefix string) string {
	basePath := path.Dir(finalURL.Path)
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	origin := finalURL.Scheme + "://" + finalURL.Host
	return fmt.Sprintf(`<base href="%s%s" target="_self" /><style id=%q></style><script>%s</script>`,
		proxyPrefix, basePath, StyleElementID, injectedScript(origin, proxyPrefix))
}

// injectHead places content as early as possible in <head>, synthesizing the
// missing structure for degenerate documents instead of failing.
func injectHead(html, content string) string {
	if loc := headOpenRe.FindStringIndex(html); loc != nil {
		return html[:loc[1]] + content + html[loc[1]:]
	}
	if loc := htmlOpenRe.FindStringIndex(html); loc != nil {
		return html[:loc[1]] + "<head>" + content + "</head>" + html[loc[1]:]
	}
	return content + html
}
