package parser

import (
	"github.com/sqlgauge/sqlgauge/pkg/token"
)

// parseFromClause parses the FROM clause: a first table reference
// followed by any number of joins. Comma-separated tables are
// represented as comma joins.
func (p *Parser) parseFromClause() *FromClause {
	from := &FromClause{}
	from.Span.Start = p.token.Pos

	from.Source = p.parseTableRef()

	for {
		switch {
		case p.check(token.COMMA):
			join := &Join{Type: JoinComma}
			join.Span.Start = p.token.Pos
			p.nextToken()
			join.Right = p.parseTableRef()
			join.Span.End = p.token.Pos
			from.Joins = append(from.Joins, join)
		case isJoinKeyword(p.token.Type):
			from.Joins = append(from.Joins, p.parseJoin())
		default:
			from.Span.End = p.token.Pos
			return from
		}
	}
}

// parseJoin parses one join clause: [NATURAL] [INNER|LEFT|RIGHT|FULL
// [OUTER]|CROSS] JOIN table [ON expr | USING (cols)].
func (p *Parser) parseJoin() *Join {
	join := &Join{Type: JoinInner}
	join.Span.Start = p.token.Pos

	if p.match(token.NATURAL) {
		join.Natural = true
	}

	switch p.token.Type {
	case token.INNER:
		p.nextToken()
	case token.LEFT:
		join.Type = JoinLeft
		p.nextToken()
		p.match(token.OUTER)
	case token.RIGHT:
		join.Type = JoinRight
		p.nextToken()
		p.match(token.OUTER)
	case token.FULL:
		join.Type = JoinFull
		p.nextToken()
		p.match(token.OUTER)
	case token.CROSS:
		join.Type = JoinCross
		p.nextToken()
	}

	p.expect(token.JOIN)
	join.Right = p.parseTableRef()

	switch {
	case p.check(token.ON):
		if join.Natural {
			p.errorf("NATURAL JOIN cannot have ON clause")
		}
		p.nextToken()
		join.Condition = p.parseExpr()
	case p.check(token.USING):
		if join.Natural {
			p.errorf("NATURAL JOIN cannot have USING clause")
		}
		p.nextToken()
		p.expect(token.LPAREN)
		for {
			col := p.expect(token.IDENT)
			join.Using = append(join.Using, col.Literal)
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	}

	join.Span.End = p.token.Pos
	return join
}

// parseTableRef parses a table reference: a (possibly schema-qualified)
// table name or a derived table, each with an optional alias.
func (p *Parser) parseTableRef() TableRef {
	if p.check(token.LPAREN) {
		return p.parseDerivedTable()
	}

	tbl := &TableName{}
	tbl.Span.Start = p.token.Pos

	name := p.expect(token.IDENT)
	tbl.Name = name.Literal

	if p.check(token.DOT) {
		p.nextToken()
		part := p.expect(token.IDENT)
		tbl.Schema = tbl.Name
		tbl.Name = part.Literal
	}

	tbl.Alias = p.parseTableAlias()
	tbl.Span.End = p.token.Pos
	return tbl
}

// parseDerivedTable parses (SELECT ...) [AS] alias.
func (p *Parser) parseDerivedTable() TableRef {
	dt := &DerivedTable{}
	dt.Span.Start = p.token.Pos

	p.expect(token.LPAREN)
	dt.Select = p.parseSelectStmt()
	p.expect(token.RPAREN)

	dt.Alias = p.parseTableAlias()
	if dt.Alias == "" {
		p.errorf("derived table requires an alias")
	}

	dt.Span.End = p.token.Pos
	return dt
}

// parseTableAlias parses an optional [AS] alias after a table reference.
func (p *Parser) parseTableAlias() string {
	if p.match(token.AS) {
		alias := p.expect(token.IDENT)
		return alias.Literal
	}
	if p.check(token.IDENT) {
		alias := p.token.Literal
		p.nextToken()
		return alias
	}
	return ""
}
