// Package markdown turns the restricted markdown used by generated reports
// into a content tree that is safe to display.
//
// Supported syntax: "# " and "## " headings, "- " list items (consecutive
// items form one list, a blank line or any other block closes it), inline
// **strong** spans in list items and paragraphs, and paragraphs for every
// other non-blank line. Anything else, links and nesting included, stays
// literal text.
package markdown

import (
	"regexp"
	"strings"
	"unicode"
)

type Kind int

const (
	KindHeading1 Kind = iota + 1
	KindHeading2
	KindListItem
	KindParagraph
)

func (k Kind) String() string {
	switch k {
	case KindHeading1:
		return "heading1"
	case KindHeading2:
		return "heading2"
	case KindListItem:
		return "list_item"
	case KindParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

type SpanKind int

const (
	SpanText SpanKind = iota
	SpanStrong
)

func (k SpanKind) MarshalText() ([]byte, error) {
	if k == SpanStrong {
		return []byte("strong"), nil
	}
	return []byte("text"), nil
}

// Span is a run of inline content. Text is already HTML-escaped.
type Span struct {
	Kind SpanKind `json:"kind"`
	Text string   `json:"text"`
}

// Block is one line-level node. Text is the escaped line content without
// the block prefix; Spans splits it into plain and strong runs.
// List is the 1-based list a list item belongs to, 0 for other kinds.
type Block struct {
	Kind  Kind   `json:"kind"`
	Text  string `json:"text"`
	Spans []Span `json:"spans"`
	List  int    `json:"list,omitempty"`
}

// Document is the rendered tree.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// lineContext is the renderer's only state between lines.
type lineContext int

const (
	inParagraphContext lineContext = iota
	inListContext
)

var (
	escaper  = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#039;")
	strongRe = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// Escape replaces the five HTML-sensitive characters.
func Escape(s string) string { return escaper.Replace(s) }

// Render parses md into a Document. It is pure: equal input gives an equal tree.
func Render(md string) Document {
	var doc Document
	ctx := inParagraphContext
	lists := 0

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		switch {
		case line == "":
			ctx = inParagraphContext
		case strings.HasPrefix(line, "# "):
			ctx = inParagraphContext
			doc.Blocks = append(doc.Blocks, heading(KindHeading1, line[2:]))
		case strings.HasPrefix(line, "## "):
			ctx = inParagraphContext
			doc.Blocks = append(doc.Blocks, heading(KindHeading2, line[3:]))
		case strings.HasPrefix(line, "- "):
			if ctx != inListContext {
				lists++
				ctx = inListContext
			}
			b := inline(KindListItem, line[2:])
			b.List = lists
			doc.Blocks = append(doc.Blocks, b)
		default:
			ctx = inParagraphContext
			doc.Blocks = append(doc.Blocks, inline(KindParagraph, line))
		}
	}
	return doc
}

// heading escapes its text but never applies emphasis.
func heading(k Kind, text string) Block {
	esc := Escape(text)
	return Block{Kind: k, Text: esc, Spans: []Span{{Kind: SpanText, Text: esc}}}
}

// inline escapes first and only then looks for ** pairs, so markers can
// only come from the literal source text.
func inline(k Kind, text string) Block {
	esc := Escape(text)
	return Block{Kind: k, Text: esc, Spans: emphasis(esc)}
}

// emphasis is a single left-to-right pass; matches never nest.
func emphasis(s string) []Span {
	var spans []Span
	last := 0
	for _, m := range strongRe.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > last {
			spans = append(spans, Span{Kind: SpanText, Text: s[last:m[0]]})
		}
		spans = append(spans, Span{Kind: SpanStrong, Text: s[m[2]:m[3]]})
		last = m[1]
	}
	if last < len(s) || len(spans) == 0 {
		spans = append(spans, Span{Kind: SpanText, Text: s[last:]})
	}
	return spans
}
