// Package guard models the preprocessor availability expressions that wrap
// every generated command group.
//
// Expressions are built structurally and rendered to C preprocessor text
// only when needed:
//
//	Atom("VK_VERSION_1_1")                      -> defined(VK_VERSION_1_1)
//	And{Atom("A"), Or{Atom("B"), Atom("C")}}    -> defined(A) && (defined(B) || defined(C))
//	Union{And{Atom("A"), Atom("B")}, Atom("C")} -> defined(A) && defined(B) || (defined(C))
//	And{Atom("E"), Depends("A+B,C")}            -> defined(E) && (defined(A) && defined(B) || defined(C))
//
// The rendered string is the identity of a guard: two guards are equal when
// they render to the same text.
package guard

import (
	"strings"

	"github.com/teranos/kodiakgen/errors"
)

// Expr is a guard expression. The concrete variants are Atom, And, Or, Union
// and Depends.
type Expr interface {
	String() string
	isExpr()
}

// Atom is a single preprocessor symbol, rendered as defined(<name>).
type Atom string

// And is a conjunction. Or and Union operands are parenthesized, and so is
// a Depends operand with a top-level ','.
type And []Expr

// Or is a disjunction as written in a registry depends expression.
// And and Union operands are parenthesized.
type Or []Expr

// Union is the disjunction of group guards that jointly own a command.
// The first alternative renders bare; every later one is parenthesized.
type Union []Expr

func (Atom) isExpr()    {}
func (And) isExpr()     {}
func (Or) isExpr()      {}
func (Union) isExpr()   {}
func (Depends) isExpr() {}

func (a Atom) String() string {
	return "defined(" + string(a) + ")"
}

func (a And) String() string {
	parts := make([]string, 0, len(a))
	for _, term := range a {
		switch t := term.(type) {
		case Or, Union:
			parts = append(parts, "("+t.String()+")")
		case Depends:
			parts = append(parts, t.operand())
		default:
			parts = append(parts, t.String())
		}
	}
	return strings.Join(parts, " && ")
}

func (o Or) String() string {
	parts := make([]string, 0, len(o))
	for _, term := range o {
		switch t := term.(type) {
		case And, Union:
			parts = append(parts, "("+t.String()+")")
		case Depends:
			parts = append(parts, t.operand())
		default:
			parts = append(parts, t.String())
		}
	}
	return strings.Join(parts, " || ")
}

func (u Union) String() string {
	if len(u) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(u[0].String())
	for _, alt := range u[1:] {
		sb.WriteString(" || (")
		sb.WriteString(alt.String())
		sb.WriteString(")")
	}
	return sb.String()
}

// Key returns the rendered form of e, or "" for a nil expression.
func Key(e Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}

// Conj joins terms into a conjunction, flattening nested conjunctions and
// dropping nil terms. A single remaining term is returned as is.
func Conj(terms ...Expr) Expr {
	var out And
	for _, term := range terms {
		switch t := term.(type) {
		case nil:
		case And:
			out = append(out, t...)
		default:
			out = append(out, t)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

// Disj joins terms into a disjunction, flattening nested disjunctions and
// dropping nil terms. A single remaining term is returned as is.
func Disj(terms ...Expr) Expr {
	var out Or
	for _, term := range terms {
		switch t := term.(type) {
		case nil:
		case Or:
			out = append(out, t...)
		default:
			out = append(out, t)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

// Merge builds the guard of a command owned by several groups, preserving
// the order of owners. A single owner is returned unchanged.
func Merge(owners ...Expr) Expr {
	switch len(owners) {
	case 0:
		return nil
	case 1:
		return owners[0]
	}
	return append(Union(nil), owners...)
}

// Validate rejects guards that would render to an empty or malformed #if line.
func Validate(e Expr) error {
	switch t := e.(type) {
	case nil:
		return errors.Wrap(errors.ErrEmptyGuard, "guard is nil")
	case Atom:
		if strings.TrimSpace(string(t)) == "" {
			return errors.Wrap(errors.ErrEmptyGuard, "guard names an empty symbol")
		}
		return nil
	case And:
		return validateTerms(t)
	case Or:
		return validateTerms(t)
	case Union:
		return validateTerms(t)
	case Depends:
		if strings.TrimSpace(string(t)) == "" {
			return errors.Wrap(errors.ErrEmptyGuard, "guard has an empty depends expression")
		}
		return nil
	}
	return errors.AssertionFailedf("unexpected guard type %T", e)
}

func validateTerms(terms []Expr) error {
	if len(terms) == 0 {
		return errors.Wrap(errors.ErrEmptyGuard, "guard has no terms")
	}
	for _, term := range terms {
		if err := Validate(term); err != nil {
			return err
		}
	}
	return nil
}
