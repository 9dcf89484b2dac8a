package parser

import (
	"testing"

	"github.com/ferrite-lang/ferrite/internal/ast"
	"github.com/ferrite-lang/ferrite/internal/lexer"
)

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	errors := p.Errors()
	if len(errors) == 0 {
		return
	}

	t.Errorf("parser has %d errors", len(errors))
	for _, msg := range errors {
		t.Errorf("parser error: %q", msg.Error())
	}
	t.FailNow()
}

func parseSource(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	checkParserErrors(t, p)
	return program
}

func TestTraitDeclaration(t *testing.T) {
	program := parseSource(t, `
	trait Show<t> {
		fun show(val: t) -> String
	}
	`)

	if len(program.Statements) != 1 {
		t.Fatalf("program.Statements does not contain 1 statement. got=%d", len(program.Statements))
	}

	traitStmt, ok := program.Statements[0].(*ast.TraitDeclaration)
	if !ok {
		t.Fatalf("stmt is not ast.TraitDeclaration. got=%T", program.Statements[0])
	}
	if traitStmt.Name.Value != "Show" {
		t.Errorf("trait name = %q, want Show", traitStmt.Name.Value)
	}
	if len(traitStmt.TypeParams) != 1 || traitStmt.TypeParams[0].Value != "t" {
		t.Errorf("type params = %v, want [t]", traitStmt.TypeParams)
	}
	if len(traitStmt.Bounds) != 0 {
		t.Errorf("expected no bounds, got %d", len(traitStmt.Bounds))
	}
	if len(traitStmt.Signatures) != 1 || traitStmt.Signatures[0].Name.Value != "show" {
		t.Errorf("expected one signature 'show'")
	}
}

func TestHeaderSuperTraits(t *testing.T) {
	program := parseSource(t, `trait Order<t> : Equal<t> + Show`)

	traitStmt := program.Statements[0].(*ast.TraitDeclaration)
	if len(traitStmt.Bounds) != 2 {
		t.Fatalf("expected 2 bounds, got %d", len(traitStmt.Bounds))
	}

	for i, want := range []string{"Equal", "Show"} {
		b := traitStmt.Bounds[i]
		if !b.IsSelfBound() {
			t.Errorf("bound %d: header super-trait should be a Self bound", i)
		}
		if b.Ref.Name.Value != want {
			t.Errorf("bound %d: trait = %q, want %q", i, b.Ref.Name.Value, want)
		}
	}

	if len(traitStmt.Bounds[0].Ref.Args) != 1 {
		t.Fatalf("Equal should have 1 argument")
	}
	arg, ok := traitStmt.Bounds[0].Ref.Args[0].(*ast.VarType)
	if !ok || arg.Name != "t" {
		t.Errorf("Equal argument = %v, want type variable t", traitStmt.Bounds[0].Ref.Args[0])
	}
}

func TestWhereClauses(t *testing.T) {
	program := parseSource(t, `
	trait Collection<t> where Self: Iterable<t>, t: Show {
		fun size(c: Self) -> Int
	}
	`)

	traitStmt := program.Statements[0].(*ast.TraitDeclaration)
	if len(traitStmt.Bounds) != 2 {
		t.Fatalf("expected 2 bounds, got %d", len(traitStmt.Bounds))
	}

	if !traitStmt.Bounds[0].IsSelfBound() {
		t.Errorf("Self: Iterable<t> should qualify as a Self bound")
	}
	if traitStmt.Bounds[1].IsSelfBound() {
		t.Errorf("t: Show should not qualify as a Self bound")
	}

	selfBounds := traitStmt.SelfBounds()
	if len(selfBounds) != 1 || selfBounds[0].Ref.Name.Value != "Iterable" {
		t.Errorf("SelfBounds = %v, want [Iterable]", selfBounds)
	}
}

func TestSelfWithArgsIsNotSuperTraitBound(t *testing.T) {
	program := parseSource(t, `trait Weird<t> where Self<t>: Strange`)

	traitStmt := program.Statements[0].(*ast.TraitDeclaration)
	if len(traitStmt.Bounds) != 1 {
		t.Fatalf("expected 1 bound, got %d", len(traitStmt.Bounds))
	}
	if traitStmt.Bounds[0].IsSelfBound() {
		t.Errorf("Self<t> carries arguments and must not qualify as a super-trait bound")
	}
}

func TestNestedGenericsInBounds(t *testing.T) {
	program := parseSource(t, `trait Nested<t> : Convert<List<List<t>>, Map<String, t>>`)

	traitStmt := program.Statements[0].(*ast.TraitDeclaration)
	ref := traitStmt.Bounds[0].Ref
	if ref.Name.Value != "Convert" || len(ref.Args) != 2 {
		t.Fatalf("unexpected ref: %s with %d args", ref.Name.Value, len(ref.Args))
	}

	list, ok := ref.Args[0].(*ast.NamedType)
	if !ok || list.Name.Value != "List" {
		t.Fatalf("first arg should be List<...>, got %T", ref.Args[0])
	}
	inner, ok := list.Args[0].(*ast.NamedType)
	if !ok || inner.Name.Value != "List" || len(inner.Args) != 1 {
		t.Fatalf("expected nested List<t>")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"lowercase trait name", `trait show`},
		{"missing bound target", `trait A where Self:`},
		{"stray token", `fun lonely()`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(lexer.New(tt.input))
			p.ParseProgram()
			if len(p.Errors()) == 0 {
				t.Errorf("expected parse errors for %q", tt.input)
			}
		})
	}
}
