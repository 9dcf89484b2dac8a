package traits

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ferrite-lang/ferrite/internal/typesystem"
)

// PredID is a canonical handle for an interned predicate: the fact "this
// type satisfies this trait instance". The zero value is reserved.
type PredID uint32

// NoPredID is the invalid sentinel.
const NoPredID PredID = 0

type predData struct {
	ty   typesystem.TyID
	inst InstID
}

// PredListID is a canonical handle for an interned predicate list: an
// ordered map from type to the set of trait instances it must (constraint
// list) or may be assumed to (assumption list) satisfy, scoped to an ingot.
// The zero value is reserved.
type PredListID uint32

// NoPredListID is the invalid sentinel.
const NoPredListID PredListID = 0

type predListEntry struct {
	ty    typesystem.TyID
	insts []InstID // sorted, unique
}

type predListData struct {
	entries []predListEntry // sorted by ty
	ingot   Ingot
}

// Pred interns the predicate (ty, inst).
func (c *Checker) Pred(ty typesystem.TyID, inst InstID) PredID {
	key := fmt.Sprintf("%d:%d", ty, inst)

	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.predIndex[key]; ok {
		return id
	}
	id := PredID(len(c.preds))
	c.preds = append(c.preds, predData{ty: ty, inst: inst})
	c.predIndex[key] = id
	return id
}

// PredTy returns the predicate's type component.
func (c *Checker) PredTy(id PredID) typesystem.TyID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preds[id].ty
}

// PredInst returns the predicate's trait-instance component.
func (c *Checker) PredInst(id PredID) InstID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preds[id].inst
}

// ApplySubstPred rewrites both components of the predicate and re-interns.
func (c *Checker) ApplySubstPred(id PredID, subst typesystem.Subst) PredID {
	ty := c.types.Rewrite(c.PredTy(id), subst)
	inst := c.ApplySubstInst(c.PredInst(id), subst)
	return c.Pred(ty, inst)
}

// PredList interns a predicate list. The map is canonicalized before
// interning: entries sort by type handle, instance sets are deduplicated
// and sorted, and empty sets are dropped. Two maps with equal contents and
// the same ingot always yield the same handle.
func (c *Checker) PredList(preds map[typesystem.TyID][]InstID, ingot Ingot) PredListID {
	entries := make([]predListEntry, 0, len(preds))
	for ty, insts := range preds {
		if len(insts) == 0 {
			continue
		}
		set := append([]InstID(nil), insts...)
		sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
		uniq := set[:1]
		for _, in := range set[1:] {
			if in != uniq[len(uniq)-1] {
				uniq = append(uniq, in)
			}
		}
		entries = append(entries, predListEntry{ty: ty, insts: uniq})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ty < entries[j].ty })

	var b strings.Builder
	b.WriteString(ingot.String())
	for _, e := range entries {
		fmt.Fprintf(&b, "|%d:", e.ty)
		for _, in := range e.insts {
			fmt.Fprintf(&b, "%d,", in)
		}
	}
	key := b.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.predListIndex[key]; ok {
		return id
	}
	id := PredListID(len(c.predLists))
	c.predLists = append(c.predLists, predListData{entries: entries, ingot: ingot})
	c.predListIndex[key] = id
	return id
}

// PredListIngot returns the list's owning compilation unit.
func (c *Checker) PredListIngot(id PredListID) Ingot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.predLists[id].ingot
}

// PredListEntries returns the list contents as a fresh map.
func (c *Checker) PredListEntries(id PredListID) map[typesystem.TyID][]InstID {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[typesystem.TyID][]InstID, len(c.predLists[id].entries))
	for _, e := range c.predLists[id].entries {
		out[e.ty] = append([]InstID(nil), e.insts...)
	}
	return out
}

// Satisfies reports whether the list contains exactly the given predicate:
// the predicate's type must be a key and its trait instance a member of
// that key's set. No fuzzy matching; inputs are assumed to be normalized
// under substitution already.
func (c *Checker) Satisfies(list PredListID, pred PredID) bool {
	ty := c.PredTy(pred)
	inst := c.PredInst(pred)

	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.predLists[list].entries
	i := sort.Search(len(entries), func(i int) bool { return entries[i].ty >= ty })
	if i == len(entries) || entries[i].ty != ty {
		return false
	}
	set := entries[i].insts
	j := sort.Search(len(set), func(j int) bool { return set[j] >= inst })
	return j < len(set) && set[j] == inst
}
