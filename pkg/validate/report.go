package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// FormatResult renders a result as plain text: a pass banner, or a
// numbered list of findings with kind, message, and suggestion.
func FormatResult(r *Result) string {
	if r.Valid {
		return "✅ query passed validation, no issues found"
	}

	var b strings.Builder
	b.WriteString("❌ query has issues:\n")
	for i, d := range r.Diagnostics {
		fmt.Fprintf(&b, "\nissue %d: %s\n", i+1, d.Kind.Title())
		fmt.Fprintf(&b, "  message: %s\n", d.Message)
		if d.Suggestion != "" {
			fmt.Fprintf(&b, "  suggestion: %s\n", d.Suggestion)
		}
	}
	return b.String()
}

// WriteTable renders a result's diagnostics as a table.
func WriteTable(w io.Writer, r *Result) {
	if r.Valid {
		fmt.Fprintln(w, "✅ query passed validation, no issues found")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Rule", "Kind", "Severity", "Message", "Suggestion"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Message", WidthMax: 50},
		{Name: "Suggestion", WidthMax: 50},
	})
	for i, d := range r.Diagnostics {
		t.AppendRow(table.Row{i + 1, d.RuleID, d.Kind.Title(), d.Severity, d.Message, d.Suggestion})
	}
	t.Render()
}

// WriteJSON renders a result as indented JSON.
func WriteJSON(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteRulesTable renders rule metadata as a table, for discovery.
func WriteRulesTable(w io.Writer, rules []RuleDef) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Group", "Severity", "Description"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Description", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})
	for _, r := range rules {
		t.AppendRow(table.Row{r.ID, r.Name, r.Group, r.Severity, r.Description})
	}
	t.Render()
}
