package rules

import (
	"fmt"

	"github.com/sqlgauge/sqlgauge/pkg/catalog"
	"github.com/sqlgauge/sqlgauge/pkg/parser"
	"github.com/sqlgauge/sqlgauge/pkg/token"
	"github.com/sqlgauge/sqlgauge/pkg/validate"
)

// WhereSanity checks comparisons in the WHERE clause: literals must be
// type-compatible with the column they are compared against, and NULL
// must be tested with IS NULL rather than = or <>.
var WhereSanity = validate.RuleDef{
	ID:          "WH01",
	Name:        "where.sanity",
	Group:       "where",
	Description: "WHERE comparisons must be type-compatible and must not compare against NULL with = or <>.",
	Severity:    validate.SeverityError,
	Check:       checkWhereSanity,

	Rationale: `Comparing a numeric column against a non-numeric string, or a text
column against a bare number, either fails or silently coerces depending on the
database. Comparing against NULL with = or <> never matches any row; SQL's
three-valued logic requires IS NULL / IS NOT NULL.`,

	BadExample: `SELECT * FROM users
WHERE age = 'abc' AND email = NULL`,

	GoodExample: `SELECT * FROM users
WHERE age = 30 AND email IS NULL`,

	Fix: "Match the literal's type to the column, and use IS NULL / IS NOT NULL for NULL tests.",
}

func checkWhereSanity(rc *validate.RuleContext) []validate.Diagnostic {
	if rc.Core == nil || rc.Core.Where == nil {
		return nil
	}

	var diags []validate.Diagnostic
	parser.WalkExpr(rc.Core.Where, func(e parser.Expr) bool {
		bin, ok := e.(*parser.BinaryExpr)
		if !ok || !token.IsComparison(bin.Op) {
			return true
		}

		if d := checkNullComparison(bin); d != nil {
			diags = append(diags, *d)
			return true
		}
		if d := checkComparisonTypes(rc, bin); d != nil {
			diags = append(diags, *d)
		}
		return true
	})
	return diags
}

// checkNullComparison flags column = NULL and column <> NULL.
func checkNullComparison(bin *parser.BinaryExpr) *validate.Diagnostic {
	lit, ok := bin.Right.(*parser.Literal)
	if !ok || lit.Type != parser.LiteralNull {
		return nil
	}
	return &validate.Diagnostic{
		Kind:       validate.KindNullComparison,
		Severity:   validate.SeverityError,
		Message:    "null comparisons must use IS NULL or IS NOT NULL",
		Suggestion: fmt.Sprintf("replace '%s NULL' with 'IS NULL' or 'IS NOT NULL'", bin.Op),
	}
}

// checkComparisonTypes flags column-vs-literal comparisons whose types
// cannot match.
func checkComparisonTypes(rc *validate.RuleContext, bin *parser.BinaryExpr) *validate.Diagnostic {
	ref, ok := bin.Left.(*parser.ColumnRef)
	if !ok {
		return nil
	}
	lit, ok := bin.Right.(*parser.Literal)
	if !ok {
		return nil
	}

	typ, found := resolveColumnType(rc, ref)
	if !found {
		return nil
	}

	switch catalog.FamilyOf(typ) {
	case catalog.FamilyNumeric:
		if lit.Type == parser.LiteralString && !catalog.IsNumericLiteral(lit.Value) {
			return &validate.Diagnostic{
				Kind:     validate.KindTypeMismatch,
				Severity: validate.SeverityError,
				Message: fmt.Sprintf("numeric column '%s' cannot be compared with non-numeric string '%s'",
					refName(ref), lit.Value),
				Suggestion: "remove the string quotes or use a CAST",
			}
		}
	case catalog.FamilyText:
		if lit.Type != parser.LiteralString && lit.Type != parser.LiteralNull {
			return &validate.Diagnostic{
				Kind:     validate.KindTypeMismatch,
				Severity: validate.SeverityError,
				Message: fmt.Sprintf("text column '%s' cannot be compared with a non-string value",
					refName(ref)),
				Suggestion: "wrap the value in quotes",
			}
		}
	}
	return nil
}
