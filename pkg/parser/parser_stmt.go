package parser

import (
	"github.com/sqlgauge/sqlgauge/pkg/token"
)

// parseStatement parses a single statement. Only SELECT statements
// (optionally prefixed by a WITH clause) are supported.
func (p *Parser) parseStatement() Statement {
	switch p.token.Type {
	case token.SELECT, token.WITH, token.LPAREN:
		return p.parseSelectStmt()
	default:
		p.errorf("expected SELECT statement, got %s", p.tokenDesc(p.token))
		return nil
	}
}

// parseSelectStmt parses a SELECT statement with an optional WITH clause.
func (p *Parser) parseSelectStmt() *SelectStmt {
	stmt := &SelectStmt{}
	stmt.Span.Start = p.token.Pos

	if p.check(token.WITH) {
		stmt.With = p.parseWithClause()
	}

	stmt.Body = p.parseSelectBody()
	if stmt.Body != nil {
		stmt.Span.End = p.token.Pos
	}
	return stmt
}

// parseWithClause parses a WITH clause with one or more CTEs.
func (p *Parser) parseWithClause() *WithClause {
	with := &WithClause{}
	with.Span.Start = p.token.Pos
	p.expect(token.WITH)

	for {
		cte := p.parseCTE()
		if cte == nil {
			break
		}
		with.CTEs = append(with.CTEs, cte)
		if !p.match(token.COMMA) {
			break
		}
	}

	with.Span.End = p.token.Pos
	return with
}

// parseCTE parses a single common table expression: name AS (select).
func (p *Parser) parseCTE() *CTE {
	cte := &CTE{}
	cte.Span.Start = p.token.Pos

	name := p.expect(token.IDENT)
	cte.Name = name.Literal

	p.expect(token.AS)
	p.expect(token.LPAREN)
	cte.Select = p.parseSelectStmt()
	p.expect(token.RPAREN)

	cte.Span.End = p.token.Pos
	return cte
}

// parseSelectBody parses a select body with possible set operations.
func (p *Parser) parseSelectBody() *SelectBody {
	body := &SelectBody{}
	body.Span.Start = p.token.Pos

	if p.check(token.LPAREN) && p.checkPeek(token.SELECT) {
		// Parenthesized select core: (SELECT ...) UNION ...
		p.nextToken()
		body.Left = p.parseSelectCore()
		p.expect(token.RPAREN)
	} else {
		body.Left = p.parseSelectCore()
	}

	if op := p.setOpType(); op != SetOpNone {
		p.nextToken()
		if op == SetOpUnion && p.match(token.ALL) {
			body.All = true
		}
		body.Op = op
		body.Right = p.parseSelectBody()
	}

	body.Span.End = p.token.Pos
	return body
}

// setOpType returns the set operation starting at the current token,
// or SetOpNone.
func (p *Parser) setOpType() SetOpType {
	switch p.token.Type {
	case token.UNION:
		return SetOpUnion
	case token.INTERSECT:
		return SetOpIntersect
	case token.EXCEPT:
		return SetOpExcept
	}
	return SetOpNone
}

// parseSelectCore parses the core of a SELECT statement:
// SELECT [DISTINCT] columns [FROM ...] [WHERE ...] [GROUP BY ...]
// [HAVING ...] [ORDER BY ...] [LIMIT ...] [OFFSET ...]
func (p *Parser) parseSelectCore() *SelectCore {
	core := &SelectCore{}
	core.Span.Start = p.token.Pos

	p.expect(token.SELECT)

	if p.match(token.DISTINCT) {
		core.Distinct = true
	} else {
		p.match(token.ALL)
	}

	core.Columns = p.parseSelectList()

	if p.match(token.FROM) {
		core.From = p.parseFromClause()
	}

	if p.match(token.WHERE) {
		core.Where = p.parseExpr()
	}

	if p.check(token.GROUP) {
		p.nextToken()
		p.expect(token.BY)
		core.GroupBy = p.parseExprList()
	}

	if p.match(token.HAVING) {
		core.Having = p.parseExpr()
	}

	if p.check(token.ORDER) {
		p.nextToken()
		p.expect(token.BY)
		core.OrderBy = p.parseOrderByList()
	}

	if p.match(token.LIMIT) {
		core.Limit = p.parseExpr()
	}

	if p.match(token.OFFSET) {
		core.Offset = p.parseExpr()
	}

	core.Span.End = p.token.Pos
	return core
}

// parseSelectList parses the comma-separated select list.
func (p *Parser) parseSelectList() []SelectItem {
	var items []SelectItem
	for {
		items = append(items, p.parseSelectItem())
		if !p.match(token.COMMA) {
			break
		}
	}
	return items
}

// parseSelectItem parses one select list item: *, t.*, or expr [AS alias].
func (p *Parser) parseSelectItem() SelectItem {
	var item SelectItem

	switch {
	case p.check(token.STAR):
		p.nextToken()
		item.Star = true
		return item
	case p.check(token.IDENT) && p.checkPeek(token.DOT) && p.checkPeek2(token.STAR):
		item.TableStar = p.token.Literal
		p.nextToken() // table
		p.nextToken() // .
		p.nextToken() // *
		return item
	}

	item.Expr = p.parseExpr()

	if p.match(token.AS) {
		alias := p.expect(token.IDENT)
		item.Alias = alias.Literal
	} else if p.check(token.IDENT) {
		// Implicit alias: SELECT a b FROM t. Clause keywords lex as
		// their own token types, so a bare IDENT here is an alias.
		item.Alias = p.token.Literal
		p.nextToken()
	}

	return item
}

// parseExprList parses a comma-separated expression list.
func (p *Parser) parseExprList() []Expr {
	var exprs []Expr
	for {
		exprs = append(exprs, p.parseExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	return exprs
}

// parseOrderByList parses the ORDER BY item list.
func (p *Parser) parseOrderByList() []OrderByItem {
	var items []OrderByItem
	for {
		var item OrderByItem
		item.Expr = p.parseExpr()

		if p.match(token.DESC) {
			item.Desc = true
		} else {
			p.match(token.ASC)
		}

		if p.match(token.NULLS) {
			switch {
			case p.match(token.FIRST):
				v := true
				item.NullsFirst = &v
			case p.match(token.LAST):
				v := false
				item.NullsFirst = &v
			default:
				p.errorf(ErrUnexpectedToken, p.tokenDesc(p.token), "FIRST or LAST")
			}
		}

		items = append(items, item)
		if !p.match(token.COMMA) {
			break
		}
	}
	return items
}
