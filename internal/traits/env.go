// Package traits implements super-trait resolution and constraint-set
// algebra: per-definition super-trait collection with cycle detection,
// substitution of trait instances, and the interned predicate lists used
// for assumptions and constraints.
package traits

import (
	"github.com/google/uuid"

	"github.com/ferrite-lang/ferrite/internal/ast"
	"github.com/ferrite-lang/ferrite/internal/typesystem"
)

// Ingot identifies one compilation unit. Predicate lists are scoped to an
// ingot: identical maps under different ingots are never the same list.
type Ingot uuid.UUID

// NewIngot allocates a fresh compilation-unit handle.
func NewIngot() Ingot { return Ingot(uuid.New()) }

func (i Ingot) String() string { return uuid.UUID(i).String() }

// DefID identifies a declared trait within its Env. IDs are assigned in
// declaration order, so they double as a deterministic tie-break.
type DefID uint32

// TraitDef is the identity of a declared trait: its declaration and the
// interned type variables standing for Self and the generic parameters.
type TraitDef struct {
	ID   DefID
	Name string
	Decl *ast.TraitDeclaration

	// SelfVar is the trait's implicit type parameter; ParamVars follow the
	// declared parameter order. Both are scoped by the trait name, so
	// 'Order.t' and 'Equal.t' never collide.
	SelfVar   typesystem.TyID
	ParamVars []typesystem.TyID
}

// Arity is the number of explicit type arguments a reference must supply.
func (d *TraitDef) Arity() int { return len(d.ParamVars) }

// Env is the trait resolution scope of one ingot: every declared trait,
// by name and by declaration order.
type Env struct {
	ingot Ingot
	types *typesystem.Interner

	defs   []*TraitDef
	byName map[string]*TraitDef
}

func NewEnv(ingot Ingot, types *typesystem.Interner) *Env {
	return &Env{
		ingot:  ingot,
		types:  types,
		byName: make(map[string]*TraitDef),
	}
}

func (e *Env) Ingot() Ingot                { return e.ingot }
func (e *Env) Types() *typesystem.Interner { return e.types }
func (e *Env) Defs() []*TraitDef           { return e.defs }
func (e *Env) Def(id DefID) *TraitDef      { return e.defs[id] }

func (e *Env) Resolve(name string) (*TraitDef, bool) {
	d, ok := e.byName[name]
	return d, ok
}

// Declare registers a trait declaration and interns its parameter
// variables. Re-declaring a name replaces the previous entry by name but
// keeps both definitions addressable by ID; surfacing the duplicate is the
// name checker's job, not ours.
func (e *Env) Declare(decl *ast.TraitDeclaration) *TraitDef {
	def := &TraitDef{
		ID:      DefID(len(e.defs)),
		Name:    decl.Name.Value,
		Decl:    decl,
		SelfVar: e.types.Var(decl.Name.Value + ".Self"),
	}
	for _, p := range decl.TypeParams {
		def.ParamVars = append(def.ParamVars, e.types.Var(decl.Name.Value+"."+p.Value))
	}

	e.defs = append(e.defs, def)
	e.byName[def.Name] = def
	return def
}

// DeclareProgram registers every trait declaration in the program,
// in source order.
func (e *Env) DeclareProgram(program *ast.Program) {
	for _, stmt := range program.Statements {
		if td, ok := stmt.(*ast.TraitDeclaration); ok {
			e.Declare(td)
		}
	}
}
