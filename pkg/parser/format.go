package parser

import (
	"fmt"
	"strings"
)

// FormatExpr renders an expression back to SQL text. The output is
// normalized (upper-case keywords, single spaces) and intended for
// diagnostic messages and GROUP BY comparison, not round-tripping.
func FormatExpr(e Expr) string {
	switch n := e.(type) {
	case nil:
		return ""
	case *ColumnRef:
		if n.Table != "" {
			return n.Table + "." + n.Column
		}
		return n.Column
	case *Literal:
		if n.Type == LiteralString {
			return "'" + strings.ReplaceAll(n.Value, "'", "''") + "'"
		}
		return n.Value
	case *BinaryExpr:
		return fmt.Sprintf("%s %s %s", FormatExpr(n.Left), n.Op, FormatExpr(n.Right))
	case *UnaryExpr:
		if n.Op.String() == "NOT" {
			return "NOT " + FormatExpr(n.Expr)
		}
		return n.Op.String() + FormatExpr(n.Expr)
	case *FuncCall:
		return formatFuncCall(n)
	case *CaseExpr:
		return formatCaseExpr(n)
	case *CastExpr:
		return fmt.Sprintf("CAST(%s AS %s)", FormatExpr(n.Expr), n.TypeName)
	case *InExpr:
		return formatInExpr(n)
	case *BetweenExpr:
		op := "BETWEEN"
		if n.Not {
			op = "NOT BETWEEN"
		}
		return fmt.Sprintf("%s %s %s AND %s", FormatExpr(n.Expr), op, FormatExpr(n.Low), FormatExpr(n.High))
	case *IsNullExpr:
		if n.Not {
			return FormatExpr(n.Expr) + " IS NOT NULL"
		}
		return FormatExpr(n.Expr) + " IS NULL"
	case *IsBoolExpr:
		val := "TRUE"
		if !n.Value {
			val = "FALSE"
		}
		if n.Not {
			return FormatExpr(n.Expr) + " IS NOT " + val
		}
		return FormatExpr(n.Expr) + " IS " + val
	case *LikeExpr:
		op := "LIKE"
		if n.Not {
			op = "NOT LIKE"
		}
		return fmt.Sprintf("%s %s %s", FormatExpr(n.Expr), op, FormatExpr(n.Pattern))
	case *ParenExpr:
		return "(" + FormatExpr(n.Expr) + ")"
	case *StarExpr:
		if n.Table != "" {
			return n.Table + ".*"
		}
		return "*"
	case *SubqueryExpr:
		return "(SELECT ...)"
	case *ExistsExpr:
		return "EXISTS (SELECT ...)"
	default:
		return fmt.Sprintf("%T", e)
	}
}

func formatFuncCall(n *FuncCall) string {
	if n.Star {
		return n.Name + "(*)"
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = FormatExpr(a)
	}
	inner := strings.Join(args, ", ")
	if n.Distinct {
		inner = "DISTINCT " + inner
	}
	return n.Name + "(" + inner + ")"
}

func formatCaseExpr(n *CaseExpr) string {
	var b strings.Builder
	b.WriteString("CASE")
	if n.Operand != nil {
		b.WriteString(" " + FormatExpr(n.Operand))
	}
	for _, w := range n.Whens {
		fmt.Fprintf(&b, " WHEN %s THEN %s", FormatExpr(w.Condition), FormatExpr(w.Result))
	}
	if n.Else != nil {
		b.WriteString(" ELSE " + FormatExpr(n.Else))
	}
	b.WriteString(" END")
	return b.String()
}

func formatInExpr(n *InExpr) string {
	op := "IN"
	if n.Not {
		op = "NOT IN"
	}
	if n.Query != nil {
		return fmt.Sprintf("%s %s (SELECT ...)", FormatExpr(n.Expr), op)
	}
	vals := make([]string, len(n.Values))
	for i, v := range n.Values {
		vals[i] = FormatExpr(v)
	}
	return fmt.Sprintf("%s %s (%s)", FormatExpr(n.Expr), op, strings.Join(vals, ", "))
}
