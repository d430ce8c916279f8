package nuvei

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Checksum computes the hosted-page signature: lowercase hex SHA-256 over the
// UTF-8 bytes of secret followed by the present parameter values concatenated
// in signing order, with no delimiters. The secret gets the same trim +
// CR/LF-strip treatment as every other field, so a secret pasted with a
// trailing newline signs identically to a clean one.
//
// The browser-side signer in web/static/nuvei-client.js implements the same
// concatenation and hash via Web Crypto; both must agree bit for bit.
func Checksum(secret string, p HostedPageParams) string {
	toHash := Sanitize(secret) + strings.Join(p.orderedValues(), "")
	sum := sha256.Sum256([]byte(toHash))
	return hex.EncodeToString(sum[:])
}
