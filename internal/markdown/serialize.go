package markdown

import (
	"html"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// HTML serialises the tree as an HTML fragment. Span text is inserted as is
// because it was escaped during Render.
func (d Document) HTML() string {
	var b strings.Builder
	list := 0
	for _, blk := range d.Blocks {
		if blk.Kind != KindListItem || blk.List != list {
			if list != 0 {
				b.WriteString("</ul>")
				list = 0
			}
		}
		switch blk.Kind {
		case KindHeading1:
			b.WriteString("<h1>" + blk.Text + "</h1>")
		case KindHeading2:
			b.WriteString("<h2>" + blk.Text + "</h2>")
		case KindListItem:
			if list == 0 {
				b.WriteString("<ul>")
				list = blk.List
			}
			b.WriteString("<li>" + spansHTML(blk.Spans) + "</li>")
		case KindParagraph:
			b.WriteString("<p>" + spansHTML(blk.Spans) + "</p>")
		}
	}
	if list != 0 {
		b.WriteString("</ul>")
	}
	return b.String()
}

func spansHTML(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Kind == SpanStrong {
			b.WriteString("<strong>" + s.Text + "</strong>")
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// PlainText renders the tree for a terminal without styling. Escaped
// entities are decoded back to the characters the report contained.
func (d Document) PlainText() string {
	var b strings.Builder
	prev := Kind(0)
	prevList := 0
	for i, blk := range d.Blocks {
		if i > 0 && !(blk.Kind == KindListItem && prev == KindListItem && blk.List == prevList) {
			b.WriteString("\n")
		}
		text := SpansText(blk.Spans)
		switch blk.Kind {
		case KindHeading1:
			b.WriteString(text + "\n" + strings.Repeat("=", displayWidth(text)) + "\n")
		case KindHeading2:
			b.WriteString(text + "\n" + strings.Repeat("-", displayWidth(text)) + "\n")
		case KindListItem:
			b.WriteString("  • " + text + "\n")
		default:
			b.WriteString(text + "\n")
		}
		prev, prevList = blk.Kind, blk.List
	}
	return b.String()
}

// SpansText joins spans and decodes their entities.
func SpansText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return html.UnescapeString(b.String())
}

func displayWidth(s string) int {
	if w := runewidth.StringWidth(s); w > 0 {
		return w
	}
	return 1
}

var mdPunct = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "#", `\#`, "!", `\!`, "|", `\|`, "~", `\~`,
	"-", `\-`, "+", `\+`, ".", `\.`, "(", `\(`, ")", `\)`,
	"&", `\&`, "=", `\=`,
)

// Literal backslash-escapes CommonMark punctuation in s.
func Literal(s string) string { return mdPunct.Replace(s) }

// Markdown re-emits the tree as CommonMark that a general renderer will
// display exactly as this package parsed it: literal punctuation is
// backslash-escaped so no link, code or nested syntax can appear.
func (d Document) Markdown() string {
	var b strings.Builder
	prev := Kind(0)
	prevList := 0
	for i, blk := range d.Blocks {
		if i > 0 && !(blk.Kind == KindListItem && prev == KindListItem && blk.List == prevList) {
			b.WriteString("\n")
		}
		switch blk.Kind {
		case KindHeading1:
			b.WriteString("# " + spansMarkdown(blk.Spans) + "\n")
		case KindHeading2:
			b.WriteString("## " + spansMarkdown(blk.Spans) + "\n")
		case KindListItem:
			b.WriteString("- " + spansMarkdown(blk.Spans) + "\n")
		default:
			b.WriteString(spansMarkdown(blk.Spans) + "\n")
		}
		prev, prevList = blk.Kind, blk.List
	}
	return b.String()
}

// spansMarkdown drops leading indentation, which CommonMark would read as
// a code block, and keeps spaces outside ** so the delimiters still flank.
func spansMarkdown(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		text := Literal(html.UnescapeString(s.Text))
		if s.Kind != SpanStrong {
			b.WriteString(text)
			continue
		}
		core := strings.TrimSpace(text)
		if core == "" {
			b.WriteString(text)
			continue
		}
		lead := text[:strings.Index(text, core)]
		trail := text[len(lead)+len(core):]
		b.WriteString(lead + "**" + core + "**" + trail)
	}
	return strings.TrimLeftFunc(b.String(), unicode.IsSpace)
}
