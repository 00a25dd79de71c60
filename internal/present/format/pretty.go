package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/tally/internal/markdown"
)

// WritePrettyReport renders the report with glamour. The document is
// re-emitted from the parsed tree so only the supported syntax is styled.
func WritePrettyReport(w io.Writer, doc markdown.Document, meta Meta, width int) error {
	var b strings.Builder
	if rows := meta.rows(); len(rows) > 0 {
		parts := make([]string, 0, len(rows))
		for _, r := range rows {
			parts = append(parts, fmt.Sprintf("**%s:** %s", strings.ToUpper(r[0][:1])+r[0][1:], markdown.Literal(r[1])))
		}
		b.WriteString("> " + strings.Join(parts, " | ") + "\n\n---\n\n")
	}
	b.WriteString(doc.Markdown())

	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(b.String())
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}
