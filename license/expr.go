// ABOUTME: Expression tree for parsed license expressions plus the queries packaging needs.
// ABOUTME: Provides canonical String rendering, IDs, Requires (conjunctive coverage) and Satisfied.
package license

import (
	"sort"
	"strings"
)

// Expr is a node of a parsed license expression.
type Expr interface {
	String() string
	isExpr()
}

// Ref is a single license identifier, optionally "or later" and with an
// exception attached (e.g. "GPL-2.0-or-later WITH Classpath-exception-2.0").
type Ref struct {
	ID        string
	OrLater   bool
	Exception string
}

// And is a conjunction: every term applies.
type And struct {
	Terms []Expr
}

// Or is a disjunction: the recipient may pick any one term.
type Or struct {
	Terms []Expr
}

func (*Ref) isExpr() {}
func (*And) isExpr() {}
func (*Or) isExpr()  {}

// String renders the reference in canonical form.
func (r *Ref) String() string {
	s := r.ID
	if r.OrLater {
		s += "+"
	}
	if r.Exception != "" {
		s += " WITH " + r.Exception
	}
	return s
}

// String renders the conjunction, parenthesising disjunctive terms.
func (a *And) String() string {
	parts := make([]string, len(a.Terms))
	for i, t := range a.Terms {
		if _, ok := t.(*Or); ok {
			parts[i] = "(" + t.String() + ")"
			continue
		}
		parts[i] = t.String()
	}
	return strings.Join(parts, " AND ")
}

// String renders the disjunction. AND binds tighter than OR, so no
// parentheses are needed around conjunctive terms.
func (o *Or) String() string {
	parts := make([]string, len(o.Terms))
	for i, t := range o.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " OR ")
}

// IDs returns the sorted, de-duplicated license identifiers referenced
// anywhere in the expression. Exceptions are not included.
func IDs(e Expr) []string {
	seen := make(map[string]bool)
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *Ref:
			seen[n.ID] = true
		case *And:
			for _, t := range n.Terms {
				walk(t)
			}
		case *Or:
			for _, t := range n.Terms {
				walk(t)
			}
		}
	}
	if e != nil {
		walk(e)
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Requires reports whether id is binding no matter which alternative a
// recipient picks. A font shipped under OFL-1.1 is only properly declared
// when the package expression requires OFL-1.1; offering it as one side
// of an OR would let a recipient drop its terms.
func Requires(e Expr, id string) bool {
	switch n := e.(type) {
	case *Ref:
		return n.ID == id
	case *And:
		for _, t := range n.Terms {
			if Requires(t, id) {
				return true
			}
		}
		return false
	case *Or:
		for _, t := range n.Terms {
			if !Requires(t, id) {
				return false
			}
		}
		return len(n.Terms) > 0
	}
	return false
}

// Satisfied evaluates the expression against the set of licenses a
// redistributor accepts. Conjunctions need every term, disjunctions any.
func Satisfied(e Expr, accepted []string) bool {
	set := make(map[string]bool, len(accepted))
	for _, a := range accepted {
		set[a] = true
	}
	return satisfied(e, set)
}

func satisfied(e Expr, set map[string]bool) bool {
	switch n := e.(type) {
	case *Ref:
		return set[n.ID]
	case *And:
		for _, t := range n.Terms {
			if !satisfied(t, set) {
				return false
			}
		}
		return true
	case *Or:
		for _, t := range n.Terms {
			if satisfied(t, set) {
				return true
			}
		}
		return false
	}
	return false
}
