package mcp

import (
	"fmt"
	"strings"

	"github.com/touchdocs/tdmcp/internal/docs"
)

// FormatDocument renders a document as markdown for AI consumption.
func FormatDocument(d *docs.Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s (%s)\n\n", d.Label(), d.Category)

	if d.Summary != "" {
		b.WriteString(d.Summary)
		b.WriteString("\n\n")
	}
	if d.Description != "" && d.Description != d.Summary {
		b.WriteString(d.Description)
		b.WriteString("\n\n")
	}

	if len(d.Parameters) > 0 {
		b.WriteString("## Parameters\n\n")
		b.WriteString("| Name | Type | Default | Description |\n")
		b.WriteString("|------|------|---------|-------------|\n")
		for _, p := range d.Parameters {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				escapeCell(p.Name), escapeCell(p.Type),
				escapeCell(p.DefaultValue), escapeCell(p.Description))
		}
		b.WriteString("\n")
	}

	if d.Details != "" {
		b.WriteString("## Details\n\n")
		b.WriteString(d.Details)
		b.WriteString("\n\n")
	}

	if len(d.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(d.Keywords, ", "))
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// escapeCell keeps pipes and newlines from breaking markdown tables.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
