package parser

import (
	"fmt"

	"github.com/ferrite-lang/ferrite/internal/ast"
	"github.com/ferrite-lang/ferrite/internal/diagnostics"
	"github.com/ferrite-lang/ferrite/internal/lexer"
	"github.com/ferrite-lang/ferrite/internal/token"
)

// Parser consumes the token stream of a single source file and produces an
// *ast.Program. Errors accumulate; the parser always returns a best-effort
// AST so later stages can still run.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []*diagnostics.DiagnosticError
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []*diagnostics.DiagnosticError{}}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) Errors() []*diagnostics.DiagnosticError {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errors = append(p.errors, diagnostics.NewError(
		diagnostics.ErrP001,
		p.peekToken,
		fmt.Sprintf("expected %s, got %s", t, p.peekToken.Type),
	))
	return false
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.TRAIT) {
			if stmt := p.parseTraitDeclaration(); stmt != nil {
				program.Statements = append(program.Statements, stmt)
			}
		} else {
			p.errors = append(p.errors, diagnostics.NewError(
				diagnostics.ErrP001,
				p.curToken,
				fmt.Sprintf("expected trait declaration, got %s", p.curToken.Type),
			))
		}
		p.nextToken()
	}

	return program
}
