// Package validate runs semantic checks over parsed SQL queries
// against a schema catalog and reports diagnostics: structural
// problems, broken join conditions, type mismatches, and references to
// tables or columns the schema does not define.
package validate

import "github.com/sqlgauge/sqlgauge/pkg/token"

// Kind classifies a diagnostic. The set is closed; renderers and
// consumers can switch over it exhaustively.
type Kind string

// Diagnostic kinds.
const (
	KindSyntaxError          Kind = "syntax_error"
	KindMissingFrom          Kind = "missing_from"
	KindMissingGroupBy       Kind = "missing_group_by"
	KindIncompleteGroupBy    Kind = "incomplete_group_by"
	KindMissingJoinCondition Kind = "missing_join_condition"
	KindColumnNotFound       Kind = "column_not_found"
	KindJoinError            Kind = "join_error"
	KindUnknownTableRef      Kind = "unknown_table_reference"
	KindTypeMismatch         Kind = "type_mismatch"
	KindNullComparison       Kind = "null_comparison"
	KindMisusedHaving        Kind = "misused_having"
	KindIllegalHavingColumn  Kind = "illegal_having_column"
	KindTableNotFound        Kind = "table_not_found"
)

// Title returns a short human-readable label for the kind.
func (k Kind) Title() string {
	switch k {
	case KindSyntaxError:
		return "syntax error"
	case KindMissingFrom:
		return "missing FROM"
	case KindMissingGroupBy:
		return "missing GROUP BY"
	case KindIncompleteGroupBy:
		return "incomplete GROUP BY"
	case KindMissingJoinCondition:
		return "missing join condition"
	case KindColumnNotFound:
		return "column not found"
	case KindJoinError:
		return "join error"
	case KindUnknownTableRef:
		return "unknown table reference"
	case KindTypeMismatch:
		return "type mismatch"
	case KindNullComparison:
		return "null comparison"
	case KindMisusedHaving:
		return "misused HAVING"
	case KindIllegalHavingColumn:
		return "illegal HAVING column"
	case KindTableNotFound:
		return "table not found"
	}
	return string(k)
}

// Diagnostic is one finding reported against a query.
type Diagnostic struct {
	RuleID     string         `json:"rule_id"`
	Kind       Kind           `json:"kind"`
	Severity   Severity       `json:"severity"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
	Pos        token.Position `json:"pos,omitzero"`
}

// Result is the outcome of validating one query.
type Result struct {
	Query       string       `json:"query"`
	Valid       bool         `json:"valid"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}
