// Package typesystem provides canonical, interned type identifiers and the
// substitution capability the trait analysis builds on. Types are stored in
// an arena owned by an Interner; structurally equal types interned through
// the same Interner share one TyID, so handle equality is structural
// equality.
package typesystem

import (
	"fmt"
	"strings"
	"sync"
)

// TyID is a canonical handle for an interned type. The zero value is
// reserved as "no type".
type TyID uint32

// NoTyID is the invalid sentinel.
const NoTyID TyID = 0

// IsValid returns true if the ID refers to an interned type.
func (id TyID) IsValid() bool { return id != NoTyID }

type tyKind uint8

const (
	tyVar tyKind = iota // type variable, e.g. 'Order.t' or 'Order.Self'
	tyCon               // nullary constructor, e.g. 'Int'
	tyApp               // application, e.g. 'List<t>'
)

type tyData struct {
	kind tyKind
	name string // var or con name
	ctor TyID   // tyApp only
	args []TyID // tyApp only
}

// Subst maps type variables to replacement types. It is the substitution
// table handed to Rewrite; non-variable keys are ignored.
type Subst map[TyID]TyID

// Interner owns the type arena and its deduplicating index.
// Safe for concurrent use.
type Interner struct {
	mu    sync.RWMutex
	arena []tyData
	index map[string]TyID
}

func NewInterner() *Interner {
	return &Interner{
		// Slot 0 is the NoTyID sentinel.
		arena: make([]tyData, 1),
		index: make(map[string]TyID),
	}
}

func (it *Interner) intern(key string, data tyData) TyID {
	it.mu.Lock()
	defer it.mu.Unlock()

	if id, ok := it.index[key]; ok {
		return id
	}
	id := TyID(len(it.arena))
	it.arena = append(it.arena, data)
	it.index[key] = id
	return id
}

// Var interns a type variable. Callers qualify the name with its owning
// scope (e.g. "Order.t") so distinct traits never share variables.
func (it *Interner) Var(name string) TyID {
	return it.intern("v:"+name, tyData{kind: tyVar, name: name})
}

// Con interns a nullary type constructor such as 'Int'.
func (it *Interner) Con(name string) TyID {
	return it.intern("c:"+name, tyData{kind: tyCon, name: name})
}

// App interns a type application such as 'List<t>'.
func (it *Interner) App(ctor TyID, args []TyID) TyID {
	if len(args) == 0 {
		return ctor
	}
	var b strings.Builder
	fmt.Fprintf(&b, "a:%d", ctor)
	for _, a := range args {
		fmt.Fprintf(&b, ",%d", a)
	}
	return it.intern(b.String(), tyData{kind: tyApp, ctor: ctor, args: append([]TyID(nil), args...)})
}

func (it *Interner) data(id TyID) tyData {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.arena[id]
}

// IsVar reports whether id is a type variable.
func (it *Interner) IsVar(id TyID) bool { return it.data(id).kind == tyVar }

// Rewrite applies the substitution to id and re-interns the result. This is
// the narrow "apply a substitution to an identifier" contract: variables are
// replaced via table lookup, applications are rewritten component-wise,
// constructors pass through unchanged.
func (it *Interner) Rewrite(id TyID, subst Subst) TyID {
	if !id.IsValid() {
		return id
	}
	d := it.data(id)

	switch d.kind {
	case tyVar:
		if to, ok := subst[id]; ok {
			return to
		}
		return id

	case tyApp:
		ctor := it.Rewrite(d.ctor, subst)
		args := make([]TyID, len(d.args))
		changed := ctor != d.ctor
		for i, a := range d.args {
			args[i] = it.Rewrite(a, subst)
			if args[i] != a {
				changed = true
			}
		}
		if !changed {
			return id
		}
		return it.App(ctor, args)

	default:
		return id
	}
}

// String renders the type for diagnostics and tests.
func (it *Interner) String(id TyID) string {
	if !id.IsValid() {
		return "<none>"
	}
	d := it.data(id)

	switch d.kind {
	case tyVar, tyCon:
		return d.name
	default:
		var b strings.Builder
		b.WriteString(it.String(d.ctor))
		b.WriteString("<")
		for i, a := range d.args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(it.String(a))
		}
		b.WriteString(">")
		return b.String()
	}
}
