// Package parser implements a recursive descent parser for SQL SELECT
// statements. The parser produces an AST consumed by the semantic
// validation rules; it recognizes the query subset those rules inspect
// (SELECT cores, joins, set operations, CTEs, and scalar expressions).
package parser

import (
	"fmt"

	"github.com/sqlgauge/sqlgauge/pkg/token"
)

// Parser parses SQL statements into an AST.
type Parser struct {
	lexer *Lexer

	// Three-token lookahead buffer.
	token Token // current token
	peek  Token // next token
	peek2 Token // token after next

	errors []*ParseError
}

// NewParser creates a new Parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
	}
	// Prime the lookahead buffer.
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a complete SQL statement and returns it.
// Any trailing input after the statement is an error.
func Parse(input string) (Statement, error) {
	p := NewParser(input)
	stmt := p.parseStatement()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	if !p.check(token.EOF) {
		return nil, &ParseError{
			Pos:     p.token.Pos,
			Message: fmt.Sprintf("unexpected input after statement: %s", p.tokenDesc(p.token)),
		}
	}
	return stmt, nil
}

// ParseSelect parses a SELECT statement (with optional WITH clause)
// and returns it. It is the entry point used by the validator.
func ParseSelect(input string) (*SelectStmt, error) {
	stmt, err := Parse(input)
	if err != nil {
		return nil, err
	}
	sel, ok := stmt.(*SelectStmt)
	if !ok {
		return nil, &ParseError{Message: "expected SELECT statement"}
	}
	return sel, nil
}

// Errors returns all parse errors encountered.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

// nextToken advances the lookahead buffer by one token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// check returns true if the current token has the given type.
func (p *Parser) check(t token.Type) bool {
	return p.token.Type == t
}

// checkPeek returns true if the next token has the given type.
func (p *Parser) checkPeek(t token.Type) bool {
	return p.peek.Type == t
}

// checkPeek2 returns true if the token after next has the given type.
func (p *Parser) checkPeek2(t token.Type) bool {
	return p.peek2.Type == t
}

// match consumes the current token if it has the given type.
func (p *Parser) match(t token.Type) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it has the given type, or
// records an error. Returns the consumed token.
func (p *Parser) expect(t token.Type) Token {
	tok := p.token
	if !p.check(t) {
		p.errorf(ErrUnexpectedToken, p.tokenDesc(p.token), t.String())
		return tok
	}
	p.nextToken()
	return tok
}

// errorf records a parse error at the current token's position.
func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// tokenDesc returns a readable description of a token for error messages.
func (p *Parser) tokenDesc(tok Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.NUMBER, token.STRING:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	default:
		return tok.Type.String()
	}
}

// isJoinKeyword returns true if t starts a join clause.
func isJoinKeyword(t token.Type) bool {
	switch t {
	case token.JOIN, token.INNER, token.LEFT, token.RIGHT, token.FULL, token.CROSS, token.NATURAL:
		return true
	}
	return false
}
