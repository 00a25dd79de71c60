package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/tally/internal/markdown"
)

// TSV columns for entity listings: name, default
var entityHeader = "entity\tdefault\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

// WritePlainReport prints the meta block then the report as plain text.
func WritePlainReport(w io.Writer, doc markdown.Document, meta Meta) error {
	if rows := meta.rows(); len(rows) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, r := range rows {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", r[0], esc(r[1]))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		_, _ = io.WriteString(w, "\n")
	}
	_, err := io.WriteString(w, doc.PlainText())
	return err
}

// WritePlainEntities lists entities one per line, defaults marked with "*".
func WritePlainEntities(w io.Writer, entities, defaults []string, headers bool) error {
	isDefault := make(map[string]bool, len(defaults))
	for _, d := range defaults {
		isDefault[d] = true
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, entityHeader)
	}
	for _, e := range entities {
		mark := ""
		if isDefault[e] {
			mark = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", esc(e), mark)
	}
	return tw.Flush()
}
