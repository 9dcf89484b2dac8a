package traits

import (
	"fmt"
	"strings"

	"github.com/ferrite-lang/ferrite/internal/typesystem"
)

// InstID is a canonical handle for an interned trait instance: a trait
// definition applied to type arguments. Structurally equal instances share
// one handle. The zero value is reserved as "no instance".
type InstID uint32

// NoInstID is the invalid sentinel.
const NoInstID InstID = 0

// IsValid returns true if the ID refers to an interned instance.
func (id InstID) IsValid() bool { return id != NoInstID }

// instData holds one interned instance. args[0] is the Self argument (the
// type the trait applies to); args[1:] line up with the definition's
// declared parameters.
type instData struct {
	def  DefID
	args []typesystem.TyID
}

// Inst interns a trait instance. args must carry the Self argument first
// and then exactly the definition's arity; anything else is a caller bug.
func (c *Checker) Inst(def DefID, args []typesystem.TyID) InstID {
	if len(args) != c.env.Def(def).Arity()+1 {
		panic(fmt.Sprintf("traits: instance of %s wants %d args, got %d",
			c.env.Def(def).Name, c.env.Def(def).Arity()+1, len(args)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d", def)
	for _, a := range args {
		fmt.Fprintf(&b, ",%d", a)
	}
	key := b.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.instIndex[key]; ok {
		return id
	}
	id := InstID(len(c.insts))
	c.insts = append(c.insts, instData{def: def, args: append([]typesystem.TyID(nil), args...)})
	c.instIndex[key] = id
	return id
}

// InstDef returns the underlying trait definition.
func (c *Checker) InstDef(id InstID) *TraitDef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.env.Def(c.insts[id].def)
}

// InstArgs returns the instance's arguments, Self first. The returned
// slice must not be mutated.
func (c *Checker) InstArgs(id InstID) []typesystem.TyID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insts[id].args
}

// SubstTable builds the substitution implied by the instance's own type
// arguments: the definition's Self and parameter variables map to the
// instance's arguments.
func (c *Checker) SubstTable(id InstID) typesystem.Subst {
	def := c.InstDef(id)
	args := c.InstArgs(id)

	subst := make(typesystem.Subst, len(args))
	subst[def.SelfVar] = args[0]
	for i, pv := range def.ParamVars {
		subst[pv] = args[i+1]
	}
	return subst
}

// ApplySubstInst rewrites every argument of the instance through the
// substitution and re-interns.
func (c *Checker) ApplySubstInst(id InstID, subst typesystem.Subst) InstID {
	old := c.InstArgs(id)
	args := make([]typesystem.TyID, len(old))
	changed := false
	for i, a := range old {
		args[i] = c.types.Rewrite(a, subst)
		if args[i] != a {
			changed = true
		}
	}
	if !changed {
		return id
	}
	return c.Inst(c.instDefID(id), args)
}

func (c *Checker) instDefID(id InstID) DefID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insts[id].def
}

// InstString renders the instance for diagnostics and tests, e.g.
// "Equal<Int> for Point".
func (c *Checker) InstString(id InstID) string {
	def := c.InstDef(id)
	args := c.InstArgs(id)

	var b strings.Builder
	b.WriteString(def.Name)
	if len(args) > 1 {
		b.WriteString("<")
		for i, a := range args[1:] {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.types.String(a))
		}
		b.WriteString(">")
	}
	b.WriteString(" for ")
	b.WriteString(c.types.String(args[0]))
	return b.String()
}
