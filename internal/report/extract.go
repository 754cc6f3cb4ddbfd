package report

import (
	"bytes"

	"golang.org/x/net/html"
)

// ExtractBody returns the part of an HTML document that goes into the
// combined report: everything between the first <body> start tag and the
// last </body> end tag, with <head> blocks removed. A head block runs from
// a <head> start tag to the next </head>; a <head> that is never closed is
// kept. A document without a closed body contributes its whole text minus
// head blocks. Tag names match case-insensitively and the kept bytes are
// emitted verbatim.
func ExtractBody(doc []byte) []byte {
	z := html.NewTokenizer(bytes.NewReader(doc))
	var e extractor

	var (
		pending []token
		inHead  bool
	)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF is the only error a bytes.Reader produces.
			break
		}
		tok := token{typ: tt, name: tagName(z, tt), raw: z.Raw()}

		switch {
		case inHead && tok.name == "head" && tt == html.EndTagToken:
			pending, inHead = pending[:0], false
		case inHead:
			tok.raw = bytes.Clone(tok.raw)
			pending = append(pending, tok)
		case tok.name == "head" && tt == html.StartTagToken:
			tok.raw = bytes.Clone(tok.raw)
			pending, inHead = append(pending, tok), true
		default:
			e.add(tok)
		}
	}
	for _, tok := range pending {
		e.add(tok)
	}

	return e.result()
}

type token struct {
	typ  html.TokenType
	name string
	raw  []byte
}

// extractor accumulates the kept tokens of a document.
type extractor struct {
	whole   bytes.Buffer
	body    bytes.Buffer
	inBody  bool
	bodyEnd int
	closed  bool
}

func (e *extractor) add(tok token) {
	if tok.name == "body" && tok.typ == html.EndTagToken && e.inBody {
		e.bodyEnd, e.closed = e.body.Len(), true
	}
	e.whole.Write(tok.raw)
	if e.inBody {
		e.body.Write(tok.raw)
	}
	if tok.name == "body" && tok.typ == html.StartTagToken {
		e.inBody = true
	}
}

func (e *extractor) result() []byte {
	if e.inBody && e.closed {
		return e.body.Bytes()[:e.bodyEnd]
	}
	return e.whole.Bytes()
}

func tagName(z *html.Tokenizer, tt html.TokenType) string {
	switch tt {
	case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
		name, _ := z.TagName()
		return string(name)
	default:
		return ""
	}
}
