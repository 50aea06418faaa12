package cli

import (
	"fmt"
	"strings"

	"github.com/jmwilson/ollie/pkg/domain"
)

// CapabilitiesMarkdown renders the capability matrix as a markdown table,
// one row per operation and one column per dialect.
func CapabilitiesMarkdown(matrix map[domain.Dialect]domain.Capabilities) string {
	var b strings.Builder
	dialects := domain.Dialects()

	b.WriteString("# Capabilities\n\n| operation |")
	for _, d := range dialects {
		fmt.Fprintf(&b, " %s |", d)
	}
	b.WriteString("\n|---|")
	for range dialects {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for _, op := range domain.Operations() {
		fmt.Fprintf(&b, "| `%s` |", op)
		for _, d := range dialects {
			fmt.Fprintf(&b, " %s |", matrix[d].Of(op))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// OperationsMarkdown renders the intent names as a bullet list.
func OperationsMarkdown(names []string) string {
	var b strings.Builder
	b.WriteString("# Intents\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- `%s`\n", name)
	}
	return b.String()
}
