package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sqlgauge/sqlgauge/pkg/validate"
	"github.com/sqlgauge/sqlgauge/pkg/validate/rules"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Format string // text, json
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List the validation rules",
		Long: `List all validation rules with their documentation.

With a rule ID, show the full documentation for that rule: why it
matters, an example that trips it, and how to fix it.`,
		Example: `  # List all rules
  sqlgauge rules

  # Show details for a specific rule
  sqlgauge rules JN01

  # Machine-readable listing
  sqlgauge rules --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "", "output format: text, json")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	all := rules.All()

	if opts.Format == "json" {
		return writeRulesJSON(cmd, all)
	}

	validate.WriteRulesTable(cmd.OutOrStdout(), all)
	fmt.Fprintln(cmd.OutOrStdout(), "\nUse 'sqlgauge rules <rule-id>' for detailed documentation")
	return nil
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	rule, ok := validate.RuleByID(strings.ToUpper(ruleID))
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}

	if opts.Format == "json" {
		return writeRulesJSON(cmd, []validate.RuleDef{rule})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s - %s\n\n", rule.ID, rule.Name)
	fmt.Fprintf(w, "  Group:    %s\n", rule.Group)
	fmt.Fprintf(w, "  Severity: %s\n\n", rule.Severity)
	fmt.Fprintf(w, "Description\n  %s\n\n", rule.Description)

	if rule.Rationale != "" {
		fmt.Fprintf(w, "Why This Matters\n  %s\n\n", rule.Rationale)
	}
	if rule.BadExample != "" {
		fmt.Fprintln(w, "Bad Example")
		printIndented(w, rule.BadExample)
	}
	if rule.GoodExample != "" {
		fmt.Fprintln(w, "Good Example")
		printIndented(w, rule.GoodExample)
	}
	if rule.Fix != "" {
		fmt.Fprintf(w, "How to Fix\n  %s\n", rule.Fix)
	}
	return nil
}

func printIndented(w io.Writer, block string) {
	for _, line := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w)
}

// ruleJSON is the serializable view of a rule; Check is not included.
type ruleJSON struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Group       string            `json:"group"`
	Severity    validate.Severity `json:"severity"`
	Description string            `json:"description"`
	Rationale   string            `json:"rationale,omitempty"`
	BadExample  string            `json:"bad_example,omitempty"`
	GoodExample string            `json:"good_example,omitempty"`
	Fix         string            `json:"fix,omitempty"`
}

func writeRulesJSON(cmd *cobra.Command, defs []validate.RuleDef) error {
	out := make([]ruleJSON, 0, len(defs))
	for _, r := range defs {
		out = append(out, ruleJSON{
			ID:          r.ID,
			Name:        r.Name,
			Group:       r.Group,
			Severity:    r.Severity,
			Description: r.Description,
			Rationale:   r.Rationale,
			BadExample:  r.BadExample,
			GoodExample: r.GoodExample,
			Fix:         r.Fix,
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
