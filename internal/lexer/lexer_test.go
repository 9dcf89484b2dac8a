package lexer

import (
	"testing"

	"github.com/ferrite-lang/ferrite/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `trait Order<t> : Equal<t> where Self: Show {
	fun cmp(other: Self) -> Int
}`

	tests := []struct {
		expectedType   token.Type
		expectedLexeme string
	}{
		{token.TRAIT, "trait"},
		{token.IDENT_UPPER, "Order"},
		{token.LT, "<"},
		{token.IDENT_LOWER, "t"},
		{token.GT, ">"},
		{token.COLON, ":"},
		{token.IDENT_UPPER, "Equal"},
		{token.LT, "<"},
		{token.IDENT_LOWER, "t"},
		{token.GT, ">"},
		{token.WHERE, "where"},
		{token.SELF, "Self"},
		{token.COLON, ":"},
		{token.IDENT_UPPER, "Show"},
		{token.LBRACE, "{"},
		{token.FUN, "fun"},
		{token.IDENT_LOWER, "cmp"},
		{token.LPAREN, "("},
		{token.IDENT_LOWER, "other"},
		{token.COLON, ":"},
		{token.SELF, "Self"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.IDENT_UPPER, "Int"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)",
				i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q",
				i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestComments(t *testing.T) {
	input := `// line comment
trait /* inline */ Show`

	l := New(input)
	if tok := l.NextToken(); tok.Type != token.TRAIT {
		t.Fatalf("expected TRAIT, got %q", tok.Type)
	}
	tok := l.NextToken()
	if tok.Type != token.IDENT_UPPER || tok.Lexeme != "Show" {
		t.Fatalf("expected IDENT_UPPER Show, got %q %q", tok.Type, tok.Lexeme)
	}
	if tok.Line != 2 {
		t.Errorf("expected line 2, got %d", tok.Line)
	}
}
