package ast

import (
	"github.com/ferrite-lang/ferrite/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary
// token. This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Statement is a Node that represents a top-level statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string // Source file path
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// Identifier is a bare name.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }

// --- Type expression nodes ---

// Type represents a type expression in the AST.
// E.g., Int, List<t>, Self, t
type Type interface {
	Node
	typeNode()
	GetToken() token.Token
}

// NamedType represents an uppercase named type like 'Int' or 'List<t>'.
// Trait references in bounds reuse this node shape.
type NamedType struct {
	Token token.Token // The IDENT_UPPER token
	Name  *Identifier
	Args  []Type
}

func (nt *NamedType) typeNode()             {}
func (nt *NamedType) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token { return nt.Token }

// VarType represents a lowercase type variable like 't'.
type VarType struct {
	Token token.Token // The IDENT_LOWER token
	Name  string
}

func (vt *VarType) typeNode()             {}
func (vt *VarType) TokenLiteral() string  { return vt.Token.Lexeme }
func (vt *VarType) GetToken() token.Token { return vt.Token }

// SelfType represents the trait's own implicit type parameter, possibly
// applied to arguments (Self<t> is syntactically legal but never a
// super-trait subject).
type SelfType struct {
	Token token.Token // The 'Self' token
	Args  []Type
}

func (st *SelfType) typeNode()             {}
func (st *SelfType) TokenLiteral() string  { return st.Token.Lexeme }
func (st *SelfType) GetToken() token.Token { return st.Token }

// --- Trait declaration nodes ---

// Bound is a single "subject : Trait<args>" constraint from a trait header
// or where-clause. Header super-trait lists desugar to Self bounds.
type Bound struct {
	Token   token.Token // token of the subject
	Subject Type        // SelfType, VarType, or NamedType
	Ref     *NamedType  // the referenced trait
}

func (b *Bound) GetToken() token.Token { return b.Token }

// IsSelfBound reports whether this bound constrains the trait's own Self
// type with no extra arguments. Only such bounds declare super-traits;
// everything else belongs to general constraint collection.
func (b *Bound) IsSelfBound() bool {
	st, ok := b.Subject.(*SelfType)
	return ok && len(st.Args) == 0
}

// FunctionSignature is a method signature inside a trait body. The
// super-trait collector never descends into these.
type FunctionSignature struct {
	Token      token.Token // 'fun'
	Name       *Identifier
	Params     []Type
	ReturnType Type // nil when omitted
}

func (fs *FunctionSignature) GetToken() token.Token { return fs.Token }

// TraitDeclaration represents a trait definition.
// trait Show<t> { fun show(val: t) -> String }
// trait Order<t> : Equal<t> where t: Show { ... }
type TraitDeclaration struct {
	Token      token.Token // 'trait'
	Name       *Identifier
	TypeParams []*Identifier // ['t']
	Bounds     []*Bound      // header supers first, then where-clauses, in source order
	Signatures []*FunctionSignature
}

func (td *TraitDeclaration) statementNode()        {}
func (td *TraitDeclaration) TokenLiteral() string  { return td.Token.Lexeme }
func (td *TraitDeclaration) GetToken() token.Token { return td.Token }

// SelfBounds returns the bounds that qualify as super-trait declarations,
// in declaration order.
func (td *TraitDeclaration) SelfBounds() []*Bound {
	var out []*Bound
	for _, b := range td.Bounds {
		if b.IsSelfBound() {
			out = append(out, b)
		}
	}
	return out
}
