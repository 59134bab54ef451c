package minify

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
)

// blockTags are elements around which whitespace is never rendered.
var blockTags = map[string]bool{
	"!doctype": true, "html": true, "head": true, "body": true, "title": true,
	"meta": true, "link": true, "base": true, "script": true, "style": true,
	"noscript": true, "template": true,
	"div": true, "p": true, "section": true, "article": true, "aside": true,
	"header": true, "footer": true, "nav": true, "main": true, "figure": true,
	"figcaption": true, "address": true, "blockquote": true, "pre": true, "hr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "dl": true, "dt": true, "dd": true,
	"table": true, "caption": true, "colgroup": true, "col": true, "thead": true,
	"tbody": true, "tfoot": true, "tr": true, "td": true, "th": true,
	"form": true, "fieldset": true, "legend": true, "option": true, "optgroup": true,
	"details": true, "summary": true, "dialog": true, "picture": true, "source": true,
	"video": true, "audio": true, "track": true,
}

// rawTextTags keep their content as written.
var rawTextTags = map[string]bool{
	"script":    true,
	"style":     true,
	"textarea":  true,
	"xmp":       true,
	"plaintext": true,
}

// pageWriter drops comments and collapses whitespace in text. Every other
// token is written with its source bytes.
type pageWriter struct {
	w *bufio.Writer

	pending    []byte
	afterBlock bool
	tag        string
	raw        bool
	pre        int
}

func writePage(w io.Writer, r io.Reader) error {
	l := html.NewLexer(parse.NewInput(r))
	p := &pageWriter{w: bufio.NewWriter(w), afterBlock: true}

	for {
		tt, data := l.Next()
		switch tt {
		case html.ErrorToken:
			if err := l.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			p.flush(true)
			return p.w.Flush()
		case html.CommentToken:
		case html.TextToken:
			p.text(data)
		case html.DoctypeToken:
			p.element("!doctype", data)
		case html.StartTagToken:
			p.tag = strings.ToLower(string(l.Text()))
			p.element(p.tag, data)
			if p.tag == "pre" {
				p.pre++
			}
		case html.AttributeToken:
			_ = p.w.WriteByte(' ')
			_, _ = p.w.Write(trimLeadingSpace(data))
		case html.StartTagCloseToken, html.StartTagVoidToken:
			_, _ = p.w.Write(trimLeadingSpace(data))
			p.raw = tt == html.StartTagCloseToken && rawTextTags[p.tag]
		case html.EndTagToken:
			name := strings.ToLower(string(l.Text()))
			if name == "pre" && p.pre > 0 {
				p.pre--
			}
			p.raw = false
			p.element(name, data)
		default:
			// inline svg and math are copied whole
			p.element("svg", data)
		}
	}
}

func (p *pageWriter) text(data []byte) {
	if p.raw || p.pre > 0 {
		p.flush(false)
		_, _ = p.w.Write(data)
		p.raw = false
		p.afterBlock = false
		return
	}
	p.pending = append(p.pending, data...)
}

func (p *pageWriter) element(name string, data []byte) {
	block := blockTags[name]
	p.flush(block)
	_, _ = p.w.Write(data)
	p.afterBlock = block
}

// flush writes the pending text with every whitespace run reduced to one
// space. Whitespace next to a block-level element is dropped.
func (p *pageWriter) flush(beforeBlock bool) {
	if len(p.pending) == 0 {
		return
	}
	text := collapseSpace(p.pending)
	p.pending = p.pending[:0]

	if p.afterBlock {
		text = bytes.TrimLeft(text, " ")
	}
	if beforeBlock {
		text = bytes.TrimRight(text, " ")
	}
	if len(text) > 0 {
		_, _ = p.w.Write(text)
		p.afterBlock = false
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func collapseSpace(b []byte) []byte {
	out := make([]byte, 0, len(b))
	space := false
	for _, c := range b {
		if isSpace(c) {
			space = true
			continue
		}
		if space {
			out = append(out, ' ')
			space = false
		}
		out = append(out, c)
	}
	if space {
		out = append(out, ' ')
	}
	return out
}

func trimLeadingSpace(b []byte) []byte {
	for len(b) > 0 && isSpace(b[0]) {
		b = b[1:]
	}
	return b
}
