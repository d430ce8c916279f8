// Package css holds the bulk CSS transforms applied to customizer styles.
package css

import (
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	cssparse "github.com/tdewolff/parse/v2/css"
)

var commentRe = regexp.MustCompile(`/\*.*?\*/`)

// ForceImportant appends " !important" to every declaration that does not
// already carry it, so customizer CSS wins over the hosted page's native
// styles regardless of selector specificity. This is a policy transform:
// callers apply it only when the force-important mode is enabled.
//
// The input is lexed rather than pattern-matched so semicolons inside
// strings and url() values do not split declarations. The CSS is otherwise
// passed through verbatim, never validated.
func ForceImportant(styles string) string {
	lexer := cssparse.NewLexer(parse.NewInputString(styles))

	var out strings.Builder
	var decl strings.Builder
	depth := 0

	for {
		tt, data := lexer.Next()
		switch tt {
		case cssparse.ErrorToken:
			flushDecl(&out, decl.String(), depth > 0)
			return out.String()
		case cssparse.LeftBraceToken:
			out.WriteString(decl.String())
			decl.Reset()
			out.Write(data)
			depth++
		case cssparse.RightBraceToken:
			flushDecl(&out, decl.String(), depth > 0)
			decl.Reset()
			out.Write(data)
			if depth > 0 {
				depth--
			}
		case cssparse.SemicolonToken:
			flushDecl(&out, decl.String(), depth > 0)
			decl.Reset()
			out.Write(data)
		default:
			decl.Write(data)
		}
	}
}

// flushDecl writes a buffered declaration, appending !important when it is a
// real property declaration inside a block.
func flushDecl(out *strings.Builder, decl string, inBlock bool) {
	check := strings.TrimSpace(commentRe.ReplaceAllString(decl, ""))
	if !inBlock || check == "" || !strings.Contains(check, ":") ||
		strings.Contains(strings.ToLower(check), "!important") {
		out.WriteString(decl)
		return
	}
	out.WriteString(strings.TrimRight(decl, " \t\r\n"))
	out.WriteString(" !important")
}
