package traits

import (
	"sync"

	"github.com/ferrite-lang/ferrite/internal/ast"
	"github.com/ferrite-lang/ferrite/internal/diagnostics"
	"github.com/ferrite-lang/ferrite/internal/query"
	"github.com/ferrite-lang/ferrite/internal/typesystem"
)

// collectResult is the memoized value of super-trait collection: the
// direct super-trait instances in bound order, plus any diagnostics.
type collectResult struct {
	supers []InstID
	diags  []*diagnostics.DiagnosticError
}

// Checker owns the interning tables and memoized queries for one trait
// environment. All results are pure functions of the declarations in the
// environment; the only mutation is cache and arena insertion, both safe
// for concurrent use.
type Checker struct {
	env   *Env
	types *typesystem.Interner

	mu            sync.Mutex
	insts         []instData
	instIndex     map[string]InstID
	preds         []predData
	predIndex     map[string]PredID
	predLists     []predListData
	predListIndex map[string]PredListID

	superTraits      *query.Runtime[DefID, collectResult]
	superInsts       *query.Runtime[InstID, []InstID]
	superAssumptions *query.Runtime[PredListID, PredListID]
}

func NewChecker(env *Env) *Checker {
	c := &Checker{
		env:   env,
		types: env.Types(),
		// Slot 0 of every arena is the invalid sentinel.
		insts:         make([]instData, 1),
		instIndex:     make(map[string]InstID),
		preds:         make([]predData, 1),
		predIndex:     make(map[string]PredID),
		predLists:     make([]predListData, 1),
		predListIndex: make(map[string]PredListID),
	}

	c.superTraits = query.New(c.collectSuperTraits, c.recoverCollectSuperTraits)
	c.superInsts = query.New(
		func(_ *query.Ctx[InstID, []InstID], inst InstID) []InstID {
			return c.computeSuperTraitInstances(inst)
		},
		func(_ []InstID, _ InstID) []InstID {
			// Collection already broke every cycle, so substitution can
			// never re-enter itself.
			return nil
		},
	)
	c.superAssumptions = query.New(
		func(_ *query.Ctx[PredListID, PredListID], list PredListID) PredListID {
			return c.computeSuperAssumptions(list)
		},
		func(_ []PredListID, list PredListID) PredListID { return list },
	)

	return c
}

func (c *Checker) Env() *Env { return c.env }

// CollectSuperTraits returns the trait's directly declared super-trait
// instances in bound order, with any cycle or lowering diagnostics.
// Memoized per definition; repeated calls return identical results.
func (c *Checker) CollectSuperTraits(def DefID) ([]InstID, []*diagnostics.DiagnosticError) {
	res := c.superTraits.Get(def)
	return res.supers, res.diags
}

// collectSuperTraits is the normal path: collect with an empty known-cyclic
// set, then force collection of every direct super-trait so a latent cycle
// surfaces as a query cycle here, before any downstream simplification has
// to reason about non-termination.
func (c *Checker) collectSuperTraits(ctx *query.Ctx[DefID, collectResult], def DefID) collectResult {
	res := c.runCollector(def, nil)

	for _, inst := range res.supers {
		ctx.Get(c.instDefID(inst))
	}

	return res
}

// recoverCollectSuperTraits is the recovery path, invoked by the query
// runtime once per participant when collecting a trait's super-traits
// turned out to depend on itself. It re-runs collection from scratch with
// the cycle's definitions pre-seeded as known-cyclic, which guarantees
// termination: every bound resolving into the cycle is reported instead of
// recursed into.
func (c *Checker) recoverCollectSuperTraits(participants []DefID, def DefID) collectResult {
	cyclic := make(map[DefID]bool, len(participants))
	for _, p := range participants {
		cyclic[p] = true
	}
	return c.runCollector(def, cyclic)
}

// runCollector walks the definition's declared bounds. Only bounds on the
// trait's own Self type qualify; bounds on other parameters and the nested
// method signatures are never visited. Each qualifying bound yields at most
// one of: a super-trait instance, lowering diagnostics, or a cyclic
// super-traits diagnostic.
func (c *Checker) runCollector(def DefID, cyclic map[DefID]bool) collectResult {
	owner := c.env.Def(def)
	var res collectResult

	for _, bound := range owner.Decl.Bounds {
		if !bound.IsSelfBound() {
			continue
		}

		inst, diags := c.lowerTraitRef(owner, bound.Ref)
		if len(diags) > 0 {
			res.diags = append(res.diags, diags...)
			continue
		}
		if !inst.IsValid() {
			continue
		}

		if cyclic[c.instDefID(inst)] {
			res.diags = append(res.diags, diagnostics.NewError(
				diagnostics.ErrT001,
				bound.Ref.Token,
				"cyclic super-traits: "+owner.Name+" transitively requires itself via "+c.InstDef(inst).Name,
			))
			continue
		}

		res.supers = append(res.supers, inst)
	}

	return res
}

// lowerTraitRef resolves a trait reference from a bound of owner into an
// interned instance. Resolution and arity failures produce diagnostics and
// no instance; the caller skips the bound.
func (c *Checker) lowerTraitRef(owner *TraitDef, ref *ast.NamedType) (InstID, []*diagnostics.DiagnosticError) {
	def, ok := c.env.Resolve(ref.Name.Value)
	if !ok {
		return NoInstID, []*diagnostics.DiagnosticError{diagnostics.NewError(
			diagnostics.ErrT002,
			ref.Token,
			"unresolved trait: "+ref.Name.Value,
		)}
	}

	if len(ref.Args) != def.Arity() {
		return NoInstID, []*diagnostics.DiagnosticError{diagnostics.NewError(
			diagnostics.ErrT003,
			ref.Token,
			"trait argument count mismatch", def.Name, " wants ", def.Arity(), " got ", len(ref.Args),
		)}
	}

	args := make([]typesystem.TyID, 0, len(ref.Args)+1)
	args = append(args, owner.SelfVar)
	for _, a := range ref.Args {
		args = append(args, c.lowerType(owner, a))
	}

	return c.Inst(def.ID, args), nil
}

// lowerType lowers a bound-argument type expression in owner's scope.
func (c *Checker) lowerType(owner *TraitDef, t ast.Type) typesystem.TyID {
	switch t := t.(type) {
	case *ast.VarType:
		return c.types.Var(owner.Name + "." + t.Name)

	case *ast.SelfType:
		if len(t.Args) == 0 {
			return owner.SelfVar
		}
		args := make([]typesystem.TyID, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.lowerType(owner, a)
		}
		return c.types.App(owner.SelfVar, args)

	case *ast.NamedType:
		ctor := c.types.Con(t.Name.Value)
		if len(t.Args) == 0 {
			return ctor
		}
		args := make([]typesystem.TyID, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.lowerType(owner, a)
		}
		return c.types.App(ctor, args)

	default:
		return typesystem.NoTyID
	}
}

// SuperTraitInstances returns the instance's super-trait instances: the
// definition's collected closure, substituted with the instance's own type
// arguments, order preserved. Memoized per instance.
func (c *Checker) SuperTraitInstances(inst InstID) []InstID {
	return c.superInsts.Get(inst)
}

func (c *Checker) computeSuperTraitInstances(inst InstID) []InstID {
	supers, _ := c.CollectSuperTraits(c.instDefID(inst))
	subst := c.SubstTable(inst)

	out := make([]InstID, len(supers))
	for i, s := range supers {
		out[i] = c.ApplySubstInst(s, subst)
	}
	return out
}

// ComputeSuperAssumptions expands an assumption list one super-trait level:
// every known fact "ty satisfies inst" is replaced by the facts implied by
// inst's super-traits. The result is interned under the input's ingot.
// Memoized per list.
func (c *Checker) ComputeSuperAssumptions(assumptions PredListID) PredListID {
	return c.superAssumptions.Get(assumptions)
}

func (c *Checker) computeSuperAssumptions(assumptions PredListID) PredListID {
	ingot := c.PredListIngot(assumptions)

	super := make(map[typesystem.TyID][]InstID)
	for ty, insts := range c.PredListEntries(assumptions) {
		var expanded []InstID
		for _, inst := range insts {
			expanded = append(expanded, c.SuperTraitInstances(inst)...)
		}
		super[ty] = expanded
	}

	return c.PredList(super, ingot)
}

// Check runs super-trait collection over every declared trait and returns
// all diagnostics in declaration order.
func (c *Checker) Check() []*diagnostics.DiagnosticError {
	var diags []*diagnostics.DiagnosticError
	for _, def := range c.env.Defs() {
		_, ds := c.CollectSuperTraits(def.ID)
		diags = append(diags, ds...)
	}
	return diags
}
