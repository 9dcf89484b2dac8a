package token

import "fmt"

// Type identifies the lexical class of a token.
type Type string

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	// Identifiers. The lexer distinguishes casing because trait names are
	// uppercase and type variables are lowercase.
	IDENT_UPPER Type = "IDENT_UPPER" // Order, Equal, List
	IDENT_LOWER Type = "IDENT_LOWER" // t, a, elem

	// Delimiters and operators
	LT     Type = "<"
	GT     Type = ">"
	COMMA  Type = ","
	COLON  Type = ":"
	PLUS   Type = "+"
	LPAREN Type = "("
	RPAREN Type = ")"
	LBRACE Type = "{"
	RBRACE Type = "}"
	ARROW  Type = "->"

	// Keywords
	TRAIT Type = "TRAIT"
	WHERE Type = "WHERE"
	SELF  Type = "SELF"
	FUN   Type = "FUN"
)

var keywords = map[string]Type{
	"trait": TRAIT,
	"where": WHERE,
	"Self":  SELF,
	"fun":   FUN,
}

// LookupIdent returns the keyword type for ident, or the identifier type
// matching its casing.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if ident != "" && ident[0] >= 'A' && ident[0] <= 'Z' {
		return IDENT_UPPER
	}
	return IDENT_LOWER
}

// Token is a single lexeme with its source position. Line and Column are
// 1-based; a zero-value Token means "no position available".
type Token struct {
	Type    Type
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

// Pos renders the token position for diagnostics, e.g. "3:14".
func (t Token) Pos() string {
	if t.Line == 0 {
		return "?"
	}
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}
