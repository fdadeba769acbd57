package parser

import (
	"github.com/sqlgauge/sqlgauge/pkg/token"
)

// Operator precedence, lowest binds loosest.
const (
	precLowest = iota
	precOr
	precAnd
	precNot
	precComparison // =, !=, <, >, <=, >=, IS, IN, BETWEEN, LIKE
	precAdditive   // +, -, ||
	precMultiplicative
	precUnary
)

// precedenceOf returns the binding power of the operator at the
// current token, or precLowest if it is not an infix operator.
func precedenceOf(t token.Type) int {
	switch t {
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE,
		token.IS, token.IN, token.BETWEEN, token.LIKE, token.NOT:
		return precComparison
	case token.PLUS, token.MINUS, token.DPIPE:
		return precAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return precMultiplicative
	}
	return precLowest
}

// parseExpr parses an expression at the lowest precedence level.
func (p *Parser) parseExpr() Expr {
	return p.parseBinaryExpr(precLowest)
}

// parseBinaryExpr parses expressions using precedence climbing.
func (p *Parser) parseBinaryExpr(minPrec int) Expr {
	left := p.parseUnaryExpr()

	for {
		prec := precedenceOf(p.token.Type)
		if prec <= minPrec {
			return left
		}

		switch p.token.Type {
		case token.IS:
			left = p.parseIsExpr(left)
		case token.IN:
			left = p.parseInExpr(left, false)
		case token.BETWEEN:
			left = p.parseBetweenExpr(left, false)
		case token.LIKE:
			left = p.parseLikeExpr(left, false)
		case token.NOT:
			// expr NOT IN / NOT BETWEEN / NOT LIKE
			p.nextToken()
			switch p.token.Type {
			case token.IN:
				left = p.parseInExpr(left, true)
			case token.BETWEEN:
				left = p.parseBetweenExpr(left, true)
			case token.LIKE:
				left = p.parseLikeExpr(left, true)
			default:
				p.errorf(ErrUnexpectedToken, p.tokenDesc(p.token), "IN, BETWEEN, or LIKE")
				return left
			}
		default:
			op := p.token.Type
			p.nextToken()
			right := p.parseBinaryExpr(prec)
			left = &BinaryExpr{Left: left, Op: op, Right: right}
		}
	}
}

// parseUnaryExpr parses prefix operators: NOT, unary minus, unary plus.
func (p *Parser) parseUnaryExpr() Expr {
	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		return &UnaryExpr{Op: token.NOT, Expr: p.parseBinaryExpr(precNot)}
	case token.MINUS:
		p.nextToken()
		return &UnaryExpr{Op: token.MINUS, Expr: p.parseBinaryExpr(precUnary)}
	case token.PLUS:
		p.nextToken()
		return p.parseBinaryExpr(precUnary)
	}
	return p.parsePrimaryExpr()
}

// parseIsExpr parses expr IS [NOT] NULL / TRUE / FALSE.
func (p *Parser) parseIsExpr(left Expr) Expr {
	p.expect(token.IS)
	not := p.match(token.NOT)

	switch p.token.Type {
	case token.NULL:
		p.nextToken()
		return &IsNullExpr{Expr: left, Not: not}
	case token.TRUE:
		p.nextToken()
		return &IsBoolExpr{Expr: left, Not: not, Value: true}
	case token.FALSE:
		p.nextToken()
		return &IsBoolExpr{Expr: left, Not: not, Value: false}
	default:
		p.errorf(ErrUnexpectedToken, p.tokenDesc(p.token), "NULL, TRUE, or FALSE")
		return left
	}
}

// parseInExpr parses expr [NOT] IN (values) or expr [NOT] IN (subquery).
func (p *Parser) parseInExpr(left Expr, not bool) Expr {
	p.expect(token.IN)
	p.expect(token.LPAREN)

	in := &InExpr{Expr: left, Not: not}
	if p.check(token.SELECT) || p.check(token.WITH) {
		in.Query = p.parseSelectStmt()
	} else {
		for {
			in.Values = append(in.Values, p.parseExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN)
	return in
}

// parseBetweenExpr parses expr [NOT] BETWEEN low AND high.
func (p *Parser) parseBetweenExpr(left Expr, not bool) Expr {
	p.expect(token.BETWEEN)
	// The bounds bind tighter than the AND joining them.
	low := p.parseBinaryExpr(precAnd)
	p.expect(token.AND)
	high := p.parseBinaryExpr(precAnd)
	return &BetweenExpr{Expr: left, Not: not, Low: low, High: high}
}

// parseLikeExpr parses expr [NOT] LIKE pattern.
func (p *Parser) parseLikeExpr(left Expr, not bool) Expr {
	p.expect(token.LIKE)
	pattern := p.parseBinaryExpr(precComparison)
	return &LikeExpr{Expr: left, Not: not, Pattern: pattern}
}
