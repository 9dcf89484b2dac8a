package traits

import (
	"testing"

	"github.com/ferrite-lang/ferrite/internal/typesystem"
)

func TestPredicateInterning(t *testing.T) {
	c := buildChecker(t, `trait Show<t>`)
	types := c.Env().Types()

	show := defByName(t, c, "Show")
	point := types.Con("Point")
	intTy := types.Con("Int")
	inst := c.Inst(show.ID, []typesystem.TyID{point, intTy})

	p1 := c.Pred(point, inst)
	p2 := c.Pred(point, inst)
	if p1 != p2 {
		t.Errorf("interning the same predicate twice gave %d and %d", p1, p2)
	}

	inst2 := c.Inst(show.ID, []typesystem.TyID{point, intTy})
	if inst != inst2 {
		t.Errorf("interning the same instance twice gave %d and %d", inst, inst2)
	}
}

func TestPredListInterning(t *testing.T) {
	c := buildChecker(t, `
	trait Show<t>
	trait Equal<t>
	`)
	types := c.Env().Types()
	ingot := c.Env().Ingot()

	point := types.Con("Point")
	intTy := types.Con("Int")
	show := c.Inst(defByName(t, c, "Show").ID, []typesystem.TyID{point, intTy})
	equal := c.Inst(defByName(t, c, "Equal").ID, []typesystem.TyID{point, intTy})

	// Same contents, regardless of slice order or duplicates, intern to the
	// same handle.
	l1 := c.PredList(map[typesystem.TyID][]InstID{point: {show, equal}}, ingot)
	l2 := c.PredList(map[typesystem.TyID][]InstID{point: {equal, show, show}}, ingot)
	if l1 != l2 {
		t.Errorf("equal lists interned to different handles: %d, %d", l1, l2)
	}

	// A different ingot is never the same list.
	l3 := c.PredList(map[typesystem.TyID][]InstID{point: {show, equal}}, NewIngot())
	if l3 == l1 {
		t.Errorf("lists with different ingots must not share a handle")
	}

	// Empty sets canonicalize away.
	l4 := c.PredList(map[typesystem.TyID][]InstID{point: {show, equal}, intTy: {}}, ingot)
	if l4 != l1 {
		t.Errorf("empty entry should not change list identity")
	}
}

func TestSatisfies(t *testing.T) {
	c := buildChecker(t, `
	trait Show<t>
	trait Equal<t>
	`)
	types := c.Env().Types()
	ingot := c.Env().Ingot()

	point := types.Con("Point")
	lineTy := types.Con("Line")
	intTy := types.Con("Int")
	show := c.Inst(defByName(t, c, "Show").ID, []typesystem.TyID{point, intTy})
	equal := c.Inst(defByName(t, c, "Equal").ID, []typesystem.TyID{point, intTy})

	list := c.PredList(map[typesystem.TyID][]InstID{point: {show}}, ingot)

	if !c.Satisfies(list, c.Pred(point, show)) {
		t.Errorf("list should satisfy a predicate it contains")
	}
	if c.Satisfies(list, c.Pred(point, equal)) {
		t.Errorf("membership is per instance, not per type")
	}
	if c.Satisfies(list, c.Pred(lineTy, show)) {
		t.Errorf("absent type key must not satisfy")
	}
}

func TestApplySubstPred(t *testing.T) {
	c := buildChecker(t, `trait Show<t>`)
	types := c.Env().Types()

	v := types.Var("f.v")
	intTy := types.Con("Int")
	show := defByName(t, c, "Show")

	inst := c.Inst(show.ID, []typesystem.TyID{v, v}) // Show<v> for v
	pred := c.Pred(v, inst)

	got := c.ApplySubstPred(pred, typesystem.Subst{v: intTy})

	if c.PredTy(got) != intTy {
		t.Errorf("predicate type not rewritten: %s", types.String(c.PredTy(got)))
	}
	if want := c.Inst(show.ID, []typesystem.TyID{intTy, intTy}); c.PredInst(got) != want {
		t.Errorf("predicate instance not rewritten: %s", c.InstString(c.PredInst(got)))
	}
}
