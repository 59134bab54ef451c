// Package prefixer adds vendor-prefixed declarations to compiled CSS.
package prefixer

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Prefixer = (*Prefixer)(nil)

// Prefixer implements ports.Prefixer.
//
// Prefixed declarations are inserted in front of the standard declaration on
// the same line, so line numbers of an existing source map stay valid. A
// prefixed form that the block already declares is not added again.
type Prefixer struct{}

// New creates a Prefixer.
func New() *Prefixer {
	return &Prefixer{}
}

type token struct {
	tt   css.TokenType
	data []byte
}

type declaration struct {
	block    int
	property string
	value    string
}

// Prefix returns css with vendor prefixes added.
func (p *Prefixer) Prefix(src []byte) ([]byte, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	decls := scan(tokens)

	seen := make(map[int]map[string]bool)
	for _, d := range decls {
		if seen[d.block] == nil {
			seen[d.block] = make(map[string]bool)
		}
		seen[d.block][d.property] = true
		base, _ := splitImportant(d.value)
		seen[d.block][d.property+":"+strings.ToLower(base)] = true
	}

	var out bytes.Buffer
	out.Grow(len(src) + len(src)/8)
	for i, t := range tokens {
		if d, ok := decls[i]; ok {
			for _, extra := range expand(d, seen[d.block]) {
				out.WriteString(extra)
				out.WriteString("; ")
			}
		}
		out.Write(t.data)
	}
	return out.Bytes(), nil
}

func tokenize(src []byte) ([]token, error) {
	lexer := css.NewLexer(parse.NewInputBytes(src))

	var tokens []token
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != io.EOF {
				return nil, zerr.Wrap(err, domain.ErrTransformFailed.Error())
			}
			return tokens, nil
		}
		tokens = append(tokens, token{tt: tt, data: data})
	}
}

// scan finds every declaration inside a block, keyed by the index of its
// property token.
func scan(tokens []token) map[int]declaration {
	decls := make(map[int]declaration)

	var blocks []int
	next := 0
	atStart := false

	for i := 0; i < len(tokens); i++ {
		switch tokens[i].tt {
		case css.LeftBraceToken:
			blocks = append(blocks, next)
			next++
			atStart = true
		case css.RightBraceToken:
			if len(blocks) > 0 {
				blocks = blocks[:len(blocks)-1]
			}
			atStart = len(blocks) > 0
		case css.SemicolonToken:
			atStart = len(blocks) > 0
		case css.WhitespaceToken, css.CommentToken:
		case css.IdentToken:
			if atStart {
				if d, end, ok := parseDeclaration(tokens, i); ok {
					d.block = blocks[len(blocks)-1]
					decls[i] = d
					i = end - 1
				}
			}
			atStart = false
		default:
			atStart = false
		}
	}

	return decls
}

// parseDeclaration reads "property: value" starting at tokens[start]. It
// returns the index of the terminating token. A block opening before the
// terminator means the tokens were a selector.
func parseDeclaration(tokens []token, start int) (declaration, int, bool) {
	i := skipBlank(tokens, start+1)
	if i >= len(tokens) || tokens[i].tt != css.ColonToken {
		return declaration{}, 0, false
	}

	valueStart := i + 1
	end := valueStart
loop:
	for ; end < len(tokens); end++ {
		switch tokens[end].tt {
		case css.SemicolonToken, css.RightBraceToken:
			break loop
		case css.LeftBraceToken:
			return declaration{}, 0, false
		}
	}

	var value strings.Builder
	for _, t := range tokens[valueStart:end] {
		value.Write(t.data)
	}

	return declaration{
		property: strings.ToLower(string(tokens[start].data)),
		value:    strings.TrimSpace(value.String()),
	}, end, true
}

func skipBlank(tokens []token, i int) int {
	for i < len(tokens) && (tokens[i].tt == css.WhitespaceToken || tokens[i].tt == css.CommentToken) {
		i++
	}
	return i
}

// expand returns the prefixed declarations for d that seen does not already hold.
func expand(d declaration, seen map[string]bool) []string {
	var out []string

	for _, prefix := range propertyPrefixes[d.property] {
		name := prefix + d.property
		if !seen[name] {
			out = append(out, name+": "+d.value)
		}
	}

	if name, ok := renamedProperties[d.property]; ok && !seen[name] {
		if value, ok := legacyGridTrack(d.value); ok {
			out = append(out, name+": "+value)
		}
	}

	if name, ok := gridPlacements[d.property]; ok {
		base, important := splitImportant(d.value)
		for _, decl := range legacyGridPlacement(name, base) {
			if !seen[decl[0]] {
				out = append(out, decl[0]+": "+decl[1]+important)
			}
		}
	}

	if name, ok := gridAlignments[d.property]; ok && !seen[name] {
		base, important := splitImportant(d.value)
		lower := strings.ToLower(base)
		if lower != "baseline" && !strings.Contains(lower, "flex-") {
			out = append(out, name+": "+base+important)
		}
	}

	if values, ok := valuePrefixes[d.property]; ok {
		base, important := splitImportant(d.value)
		if prefixed, ok := values[strings.ToLower(base)]; ok && !seen[d.property+":"+prefixed] {
			out = append(out, d.property+": "+prefixed+important)
		}
	}

	return out
}

// splitImportant separates a trailing !important from value.
func splitImportant(value string) (string, string) {
	i := strings.LastIndexByte(value, '!')
	if i < 0 || !strings.EqualFold(strings.TrimSpace(value[i+1:]), "important") {
		return value, ""
	}
	return strings.TrimSpace(value[:i]), " " + value[i:]
}

// legacyGridTrack rewrites a track list for the -ms- grid, turning
// repeat(N, X) into (X)[N]. Auto-repeated tracks have no legacy form.
func legacyGridTrack(value string) (string, bool) {
	lower := strings.ToLower(value)
	if strings.Contains(lower, "auto-fill") || strings.Contains(lower, "auto-fit") {
		return "", false
	}

	var out strings.Builder
	rest := value
	for {
		i := strings.Index(strings.ToLower(rest), "repeat(")
		if i < 0 {
			out.WriteString(rest)
			return out.String(), true
		}
		out.WriteString(rest[:i])

		args, tail, ok := splitCall(rest[i+len("repeat("):])
		if !ok {
			return "", false
		}
		count, tracks, found := strings.Cut(args, ",")
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if !found || err != nil || n < 1 {
			return "", false
		}
		out.WriteString("(" + strings.TrimSpace(tracks) + ")[" + strconv.Itoa(n) + "]")
		rest = tail
	}
}

// legacyGridPlacement turns "start / end" into a start line and a span for
// the -ms- grid. Only numeric lines and "span N" have a legacy form; a
// missing or unusable end yields the start alone.
func legacyGridPlacement(name, value string) [][2]string {
	start, end, hasEnd := strings.Cut(value, "/")
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)

	if n, ok := spanCount(start); ok {
		if hasEnd {
			return nil
		}
		return [][2]string{{name + "-span", strconv.Itoa(n)}}
	}

	s, err := strconv.Atoi(start)
	if err != nil || s < 1 {
		return nil
	}
	out := [][2]string{{name, strconv.Itoa(s)}}
	if !hasEnd {
		return out
	}

	if n, ok := spanCount(end); ok {
		return append(out, [2]string{name + "-span", strconv.Itoa(n)})
	}
	if e, err := strconv.Atoi(end); err == nil && e > s {
		return append(out, [2]string{name + "-span", strconv.Itoa(e - s)})
	}
	return out
}

// spanCount parses "span N".
func spanCount(value string) (int, bool) {
	fields := strings.Fields(value)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "span") {
		return 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// splitCall returns the arguments of a call whose opening parenthesis was
// already consumed and the text after its closing parenthesis.
func splitCall(s string) (string, string, bool) {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}
