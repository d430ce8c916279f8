package proxy

import "strings"

// StyleElementID is the named <style> element the CSS bridge writes into.
const StyleElementID = "live-custom-css"

// injectedScriptTemplate runs inside the proxied document. It has two jobs:
//
//  1. Hold the #live-custom-css style element and replace its content
//     wholesale on every {type:"custom-css", css} message from the parent.
//     Delivery is fire-and-forget; the parent re-posts on load and after a
//     short delay, so a message lost to a mid-navigation frame is fine.
//
//  2. Reroute the page's own runtime network calls through the resource
//     proxy. fetch and XMLHttpRequest.open are patched once per document
//     load; URLs that do not match the redirect predicate are passed to the
//     original implementations untouched. jQuery loads late on some hosted
//     page variants, so an ajaxPrefilter is installed by bounded polling
//     rather than assumed present.
//
// __UPSTREAM_ORIGIN__ and __PROXY_PREFIX__ are substituted before injection.
const injectedScriptTemplate = `
(function() {
  var UPSTREAM = "__UPSTREAM_ORIGIN__";
  var PREFIX = "__PROXY_PREFIX__";

  var styleEl = document.getElementById("live-custom-css");
  if (!styleEl) {
    styleEl = document.createElement("style");
    styleEl.id = "live-custom-css";
    (document.head || document.documentElement).appendChild(styleEl);
  }
  window.addEventListener("message", function(e) {
    if (e.data && e.data.type === "custom-css" && typeof e.data.css === "string") {
      styleEl.textContent = e.data.css;
    }
  });

  function reroute(url) {
    if (typeof url !== "string") return url;
    if (url.indexOf(UPSTREAM) === 0) {
      return PREFIX + url.slice(UPSTREAM.length);
    }
    if (url.charAt(0) === "/" && url.charAt(1) !== "/" && url.indexOf(PREFIX) !== 0) {
      return PREFIX + url;
    }
    return url;
  }

  var origFetch = window.fetch;
  if (origFetch) {
    window.fetch = function(input, init) {
      if (typeof input === "string") {
        input = reroute(input);
      } else if (input && typeof input.url === "string") {
        input = new Request(reroute(input.url), input);
      }
      return origFetch.call(this, input, init);
    };
  }

  var origOpen = XMLHttpRequest.prototype.open;
  XMLHttpRequest.prototype.open = function(method, url) {
    arguments[1] = reroute(url);
    return origOpen.apply(this, arguments);
  };

  var tries = 0;
  var poll = setInterval(function() {
    tries++;
    if (window.jQuery && window.jQuery.ajaxPrefilter) {
      window.jQuery.ajaxPrefilter(function(options) {
        if (options && typeof options.url === "string") {
          options.url = reroute(options.url);
        }
      });
      clearInterval(poll);
    } else if (tries >= 20) {
      clearInterval(poll);
    }
  }, 250);
})();
`

// injectedScript substitutes the upstream origin and proxy prefix into the
// script template.
func injectedScript(upstreamOrigin, proxyPrefix string) string {
	r := strings.NewReplacer(
		"__UPSTREAM_ORIGIN__", upstreamOrigin,
		"__PROXY_PREFIX__", proxyPrefix,
	)
	return r.Replace(injectedScriptTemplate)
}
