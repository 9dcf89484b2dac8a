package parser

import (
	"fmt"

	"github.com/ferrite-lang/ferrite/internal/ast"
	"github.com/ferrite-lang/ferrite/internal/diagnostics"
	"github.com/ferrite-lang/ferrite/internal/token"
)

// parseTraitDeclaration parses:
//
//	trait Show<t> { fun show(val: t) -> String }
//	trait Order<t> : Equal<t> + Show where t: Numeric { ... }
//	trait Collection<t> where Self: Iterable<t> { ... }
//
// Header super-traits desugar to Self bounds and keep their source order
// ahead of the where-clauses.
func (p *Parser) parseTraitDeclaration() *ast.TraitDeclaration {
	stmt := &ast.TraitDeclaration{Token: p.curToken}

	if !p.expectPeek(token.IDENT_UPPER) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	// Generic type parameters <t, u>
	stmt.TypeParams = []*ast.Identifier{}
	if p.peekTokenIs(token.LT) {
		p.nextToken() // consume <
		for {
			if !p.expectPeek(token.IDENT_LOWER) {
				return stmt
			}
			stmt.TypeParams = append(stmt.TypeParams, &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme})

			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
		if !p.expectPeek(token.GT) {
			return stmt
		}
	}

	// Header super-trait list: ': Equal<t> + Show'
	if p.peekTokenIs(token.COLON) {
		p.nextToken() // consume :
		for {
			if !p.expectPeek(token.IDENT_UPPER) {
				return stmt
			}
			ref := p.parseTraitRef()
			if ref == nil {
				return stmt
			}
			stmt.Bounds = append(stmt.Bounds, &ast.Bound{
				Token:   ref.Token,
				Subject: &ast.SelfType{Token: ref.Token},
				Ref:     ref,
			})

			if p.peekTokenIs(token.PLUS) {
				p.nextToken()
				continue
			}
			break
		}
	}

	// Where-clauses: 'where Self: Iterable<t>, t: Show'
	if p.peekTokenIs(token.WHERE) {
		p.nextToken() // consume where
		for {
			bound := p.parseBound()
			if bound == nil {
				return stmt
			}
			stmt.Bounds = append(stmt.Bounds, bound)

			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
	}

	// Optional body with method signatures
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken() // consume {
		for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
			if !p.expectPeek(token.FUN) {
				return stmt
			}
			sig := p.parseFunctionSignature()
			if sig == nil {
				return stmt
			}
			stmt.Signatures = append(stmt.Signatures, sig)
		}
		if !p.expectPeek(token.RBRACE) {
			return stmt
		}
	}

	return stmt
}

// parseBound parses 'subject : Trait<args>' where subject is Self (possibly
// with arguments), a type variable, or a named type.
func (p *Parser) parseBound() *ast.Bound {
	p.nextToken() // move to subject

	var subject ast.Type
	switch p.curToken.Type {
	case token.SELF, token.IDENT_LOWER, token.IDENT_UPPER:
		subject = p.parseType()
	default:
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP003,
			p.curToken,
			fmt.Sprintf("expected bound subject, got %s", p.curToken.Type),
		))
		return nil
	}
	if subject == nil {
		return nil
	}

	bound := &ast.Bound{Token: subject.GetToken(), Subject: subject}

	if !p.expectPeek(token.COLON) {
		return nil
	}
	if !p.expectPeek(token.IDENT_UPPER) {
		return nil
	}
	bound.Ref = p.parseTraitRef()
	if bound.Ref == nil {
		return nil
	}

	return bound
}

// parseTraitRef parses 'Name' or 'Name<type, ...>' with curToken on the name.
func (p *Parser) parseTraitRef() *ast.NamedType {
	ref := &ast.NamedType{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
	}

	if p.peekTokenIs(token.LT) {
		p.nextToken() // consume <
		for {
			p.nextToken() // move to the argument type
			arg := p.parseType()
			if arg == nil {
				return nil
			}
			ref.Args = append(ref.Args, arg)

			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
		if !p.expectPeek(token.GT) {
			return nil
		}
	}

	return ref
}

// parseType parses a type expression with curToken on its first token.
func (p *Parser) parseType() ast.Type {
	switch p.curToken.Type {
	case token.IDENT_LOWER:
		return &ast.VarType{Token: p.curToken, Name: p.curToken.Lexeme}

	case token.SELF:
		st := &ast.SelfType{Token: p.curToken}
		if p.peekTokenIs(token.LT) {
			p.nextToken() // consume <
			for {
				p.nextToken()
				arg := p.parseType()
				if arg == nil {
					return nil
				}
				st.Args = append(st.Args, arg)
				if p.peekTokenIs(token.COMMA) {
					p.nextToken()
					continue
				}
				break
			}
			if !p.expectPeek(token.GT) {
				return nil
			}
		}
		return st

	case token.IDENT_UPPER:
		return p.parseTraitRef() // same shape: Name<args>

	default:
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP002,
			p.curToken,
			fmt.Sprintf("expected type, got %s", p.curToken.Type),
		))
		return nil
	}
}

// parseFunctionSignature parses 'fun name(param: Type, ...) -> Type' with
// curToken on 'fun'. Method bodies are not part of the trait declaration
// language; signatures are nested items the super-trait walk must skip.
func (p *Parser) parseFunctionSignature() *ast.FunctionSignature {
	sig := &ast.FunctionSignature{Token: p.curToken}

	if !p.expectPeek(token.IDENT_LOWER) {
		return nil
	}
	sig.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	for !p.peekTokenIs(token.RPAREN) {
		if !p.expectPeek(token.IDENT_LOWER) {
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken() // move to the parameter type
		typ := p.parseType()
		if typ == nil {
			return nil
		}
		sig.Params = append(sig.Params, typ)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	if p.peekTokenIs(token.ARROW) {
		p.nextToken() // consume ->
		p.nextToken() // move to the return type
		sig.ReturnType = p.parseType()
		if sig.ReturnType == nil {
			return nil
		}
	}

	return sig
}
