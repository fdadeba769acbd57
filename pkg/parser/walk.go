package parser

// Visitor is called for each expression node during a walk. Returning
// false stops descent into the node's children.
type Visitor func(e Expr) bool

// WalkExpr traverses an expression tree in depth-first order, calling
// fn for each node. Subqueries are not descended into; callers that
// need subquery scopes handle them explicitly.
func WalkExpr(e Expr, fn Visitor) {
	if e == nil {
		return
	}
	if !fn(e) {
		return
	}
	switch n := e.(type) {
	case *BinaryExpr:
		WalkExpr(n.Left, fn)
		WalkExpr(n.Right, fn)
	case *UnaryExpr:
		WalkExpr(n.Expr, fn)
	case *FuncCall:
		for _, arg := range n.Args {
			WalkExpr(arg, fn)
		}
	case *CaseExpr:
		WalkExpr(n.Operand, fn)
		for _, w := range n.Whens {
			WalkExpr(w.Condition, fn)
			WalkExpr(w.Result, fn)
		}
		WalkExpr(n.Else, fn)
	case *CastExpr:
		WalkExpr(n.Expr, fn)
	case *InExpr:
		WalkExpr(n.Expr, fn)
		for _, v := range n.Values {
			WalkExpr(v, fn)
		}
	case *BetweenExpr:
		WalkExpr(n.Expr, fn)
		WalkExpr(n.Low, fn)
		WalkExpr(n.High, fn)
	case *IsNullExpr:
		WalkExpr(n.Expr, fn)
	case *IsBoolExpr:
		WalkExpr(n.Expr, fn)
	case *LikeExpr:
		WalkExpr(n.Expr, fn)
		WalkExpr(n.Pattern, fn)
	case *ParenExpr:
		WalkExpr(n.Expr, fn)
	}
}

// ColumnRefs collects all column references in an expression tree,
// in traversal order. Subqueries are excluded.
func ColumnRefs(e Expr) []*ColumnRef {
	var refs []*ColumnRef
	WalkExpr(e, func(e Expr) bool {
		if ref, ok := e.(*ColumnRef); ok {
			refs = append(refs, ref)
		}
		return true
	})
	return refs
}

// Subqueries collects all subquery statements nested directly in an
// expression tree (IN (SELECT ...), EXISTS, and scalar subqueries).
func Subqueries(e Expr) []*SelectStmt {
	var subs []*SelectStmt
	WalkExpr(e, func(e Expr) bool {
		switch n := e.(type) {
		case *SubqueryExpr:
			subs = append(subs, n.Select)
		case *ExistsExpr:
			subs = append(subs, n.Select)
		case *InExpr:
			if n.Query != nil {
				subs = append(subs, n.Query)
			}
		}
		return true
	})
	return subs
}

// ContainsAggregate returns true if the expression tree contains a
// call to a known aggregate function.
func ContainsAggregate(e Expr) bool {
	found := false
	WalkExpr(e, func(e Expr) bool {
		if fn, ok := e.(*FuncCall); ok && fn.IsAggregate() {
			found = true
			return false
		}
		return !found
	})
	return found
}
